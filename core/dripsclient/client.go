package dripsclient

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/dripsnetwork/sdk-go/core/cycle"
	"github.com/dripsnetwork/sdk-go/core/estimator"
	"github.com/dripsnetwork/sdk-go/core/logging"
	"github.com/dripsnetwork/sdk-go/core/reconcile"
	clientType "github.com/dripsnetwork/sdk-go/core/types"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

const defaultMaxWorkers = 8

var validate = validator.New()

type Client struct {
	History  clientType.HistorySource `validate:"required"`
	Squeezes clientType.SqueezeSource `validate:"required"`
	Cycles   clientType.CycleResolver `validate:"required"`
	// KnownStreams is optional; when set, streams it lists are reported as paused in history
	// items that do not configure them
	KnownStreams clientType.KnownStreamSource
	MaxWorkers   int `validate:"min=1"`

	logger *zap.Logger
	clock  func() time.Time
}

var _ clientType.Client = (*Client)(nil)

type Option func(*Client)

// NewClient builds a client from the given options. A history source that also implements
// SqueezeSource or KnownStreamSource is used for those as well unless overridden.
func NewClient(options ...Option) (*Client, error) {
	c := &Client{
		Cycles:     cycle.NewResolver(cycle.DefaultCycleSecs),
		MaxWorkers: defaultMaxWorkers,
		logger:     logging.Logger,
		clock:      time.Now,
	}
	for _, option := range options {
		option(c)
	}

	if c.Squeezes == nil {
		if s, ok := c.History.(clientType.SqueezeSource); ok {
			c.Squeezes = s
		}
	}
	if c.KnownStreams == nil {
		if s, ok := c.History.(clientType.KnownStreamSource); ok {
			c.KnownStreams = s
		}
	}

	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	return c, nil
}

func (c *Client) Validate() error {
	return validate.Struct(c)
}

func WithHistorySource(source clientType.HistorySource) Option {
	return func(c *Client) {
		c.History = source
	}
}

func WithSqueezeSource(source clientType.SqueezeSource) Option {
	return func(c *Client) {
		c.Squeezes = source
	}
}

func WithKnownStreamSource(source clientType.KnownStreamSource) Option {
	return func(c *Client) {
		c.KnownStreams = source
	}
}

func WithCycleResolver(resolver clientType.CycleResolver) Option {
	return func(c *Client) {
		c.Cycles = resolver
	}
}

// WithLogger sets the logger of the client and of the reconciliations it runs. Without it
// reconciliation logs to logging.Logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock replaces time.Now as the source of the current time, which the estimator uses
// as the end of the latest history item.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithMaxWorkers bounds how many accounts EstimateAccounts processes at once.
func WithMaxWorkers(n int) Option {
	return func(c *Client) {
		c.MaxWorkers = n
	}
}

// LoadAccount fetches the account's ledger events and reconciles one asset config per token.
// Asset configs are ordered by the first appearance of their token in the source.
func (c *Client) LoadAccount(ctx context.Context, accountID string) (clientType.Account, error) {
	events, err := c.History.GetAccountHistory(ctx, accountID)
	if err != nil {
		return clientType.Account{}, errors.Wrapf(err, "failed to load history of account %s", accountID)
	}

	var known []clientType.StreamRef
	if c.KnownStreams != nil {
		known, err = c.KnownStreams.GetKnownStreams(ctx, accountID)
		if err != nil {
			return clientType.Account{}, errors.Wrapf(err, "failed to load known streams of account %s", accountID)
		}
	}

	var tokens []string
	byToken := make(map[string][]clientType.RawHistoryEvent)
	for _, e := range events {
		if _, ok := byToken[e.TokenAddress]; !ok {
			tokens = append(tokens, e.TokenAddress)
		}
		byToken[e.TokenAddress] = append(byToken[e.TokenAddress], e)
	}

	account := clientType.Account{ID: accountID, AssetConfigs: make([]clientType.AssetConfig, 0, len(tokens))}
	for _, token := range tokens {
		config, err := reconcile.Reconcile(reconcile.Input{
			SenderID:     accountID,
			TokenAddress: token,
			Events:       byToken[token],
			KnownStreams: known,
			Logger:       c.logger,
		})
		if err != nil {
			return clientType.Account{}, errors.Wrapf(err, "failed to reconcile token %s of account %s", token, accountID)
		}
		account.AssetConfigs = append(account.AssetConfigs, config)
	}

	return account, nil
}

// EstimateAccount estimates every asset config of the account for all time and for the
// current cycle, excluding already squeezed funds from the latter.
func (c *Client) EstimateAccount(ctx context.Context, accountID string) (clientType.AccountEstimate, error) {
	account, err := c.LoadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	currentCycle, err := c.Cycles.Resolve(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve current cycle")
	}
	if err := validate.Struct(currentCycle); err != nil {
		return nil, errors.Wrap(clientType.ErrInvalidCycle, err.Error())
	}

	squeezes, err := c.Squeezes.GetSqueezeEvents(ctx, accountID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load squeezes of account %s", accountID)
	}
	for i, sq := range squeezes {
		if err := validate.Struct(sq); err != nil {
			return nil, errors.Wrapf(clientType.ErrInvalidHistoryEvent, "squeeze %d of account %s: %s", i, accountID, err)
		}
	}

	estimate := estimator.EstimateAccount(account, currentCycle, squeezes, c.clock())

	c.logger.Debug("estimated account",
		zap.String("account", accountID),
		zap.Int("tokens", len(estimate)),
		zap.Time("cycle_start", currentCycle.CurrentCycleStart),
		zap.Int("squeezes", len(squeezes)))

	return estimate, nil
}

// EstimateAccounts estimates the accounts concurrently. The first failure cancels the
// remaining work and is returned.
func (c *Client) EstimateAccounts(ctx context.Context, accountIDs []string) (map[string]clientType.AccountEstimate, error) {
	out := xsync.NewMap[string, clientType.AccountEstimate]()

	pool := pond.NewPool(c.MaxWorkers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, id := range accountIDs {
		group.SubmitErr(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			estimate, err := c.EstimateAccount(groupCtx, id)
			if err != nil {
				c.logger.Warn("failed to estimate account", zap.String("account", id), zap.Error(err))
				return err
			}
			out.Store(id, estimate)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}

	result := make(map[string]clientType.AccountEstimate, out.Size())
	out.Range(func(id string, estimate clientType.AccountEstimate) bool {
		result[id] = estimate
		return true
	})
	return result, nil
}
