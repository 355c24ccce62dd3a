package queryapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AccountService is the part of the client the API serves.
type AccountService interface {
	LoadAccount(ctx context.Context, accountID string) (types.Account, error)
	EstimateAccount(ctx context.Context, accountID string) (types.AccountEstimate, error)
}

type Controller struct {
	Accounts AccountService
	Logger   *zap.Logger
}

// NewController returns a new controller.
func NewController(accounts AccountService, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		Accounts: accounts,
		Logger:   logger,
	}
}

// NewRouter returns a new router with all the routes served by the controller.
func (c *Controller) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", c.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}/estimate", c.HandleAccountEstimate).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}/history", c.HandleAccountHistory).Methods(http.MethodGet)

	return r
}

func (c *Controller) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleAccountEstimate returns the all-time and current-cycle estimates of every token the
// account streams.
// Query parameters:
//   - decimals (optional): token decimals used to add human-readable totals
func (c *Controller) HandleAccountEstimate(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account id")
		return
	}

	var decimals *int32
	if s := r.URL.Query().Get("decimals"); s != "" {
		d, err := strconv.ParseInt(s, 10, 32)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid decimals")
			return
		}
		d32 := int32(d)
		decimals = &d32
	}

	estimate, err := c.Accounts.EstimateAccount(r.Context(), accountID)
	if err != nil {
		c.fail(w, accountID, err)
		return
	}

	writeJSON(w, http.StatusOK, NewAccountEstimateResponse(accountID, estimate, decimals))
}

// HandleAccountHistory returns the reconciled history of every asset config of the account.
func (c *Controller) HandleAccountHistory(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account id")
		return
	}

	account, err := c.Accounts.LoadAccount(r.Context(), accountID)
	if err != nil {
		c.fail(w, accountID, err)
		return
	}

	writeJSON(w, http.StatusOK, NewAccountHistoryResponse(account))
}

func (c *Controller) fail(w http.ResponseWriter, accountID string, err error) {
	switch {
	case errors.Is(err, types.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, types.ErrUnresolvedReceiverHistory), errors.Is(err, types.ErrInvalidHistoryEvent):
		c.Logger.Warn("account history cannot be estimated", zap.String("account", accountID), zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		c.Logger.Error("account request failed", zap.String("account", accountID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
