package queryapi

import (
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/dripsnetwork/sdk-go/core/util"
	"github.com/golang-sql/civil"
)

// Amounts are fixed-point integers scaled by types.AmtPerSecMultiplier, encoded as strings.

type StreamEstimateResponse struct {
	ID                     string `json:"id"`
	SenderID               string `json:"sender_id"`
	ReceiverID             string `json:"receiver_id"`
	TokenAddress           string `json:"token_address"`
	TotalStreamed          string `json:"total_streamed"`
	CurrentAmountPerSecond string `json:"current_amount_per_second"`
}

type TotalsResponse struct {
	TotalStreamed        string `json:"total_streamed"`
	TotalAmountPerSecond string `json:"total_amount_per_second"`
	RemainingBalance     string `json:"remaining_balance"`
}

type AssetConfigEstimateResponse struct {
	Streams []StreamEstimateResponse `json:"streams"`
	Totals  TotalsResponse           `json:"totals"`
	// Formatted holds the totals in whole token units, when token decimals were requested
	Formatted *TotalsResponse `json:"formatted,omitempty"`
}

type TokenEstimateResponse struct {
	Total        AssetConfigEstimateResponse `json:"total"`
	CurrentCycle AssetConfigEstimateResponse `json:"current_cycle"`
	// CycleStart is unix seconds, CycleStartDate its UTC date
	CycleStart     int64      `json:"cycle_start"`
	CycleStartDate civil.Date `json:"cycle_start_date"`
	CycleDuration  int64      `json:"cycle_duration_seconds"`
}

type AccountEstimateResponse struct {
	AccountID string                           `json:"account_id"`
	Tokens    map[string]TokenEstimateResponse `json:"tokens"`
}

func amountString(v *apd.BigInt) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func newAssetConfigEstimateResponse(e types.AssetConfigEstimate, decimals *int32) AssetConfigEstimateResponse {
	out := AssetConfigEstimateResponse{
		Streams: make([]StreamEstimateResponse, 0, len(e.Streams)),
		Totals: TotalsResponse{
			TotalStreamed:        amountString(e.Totals.TotalStreamed),
			TotalAmountPerSecond: amountString(e.Totals.TotalAmountPerSecond),
			RemainingBalance:     amountString(e.Totals.RemainingBalance),
		},
	}
	for _, s := range e.Streams {
		out.Streams = append(out.Streams, StreamEstimateResponse{
			ID:                     s.ID,
			SenderID:               s.SenderID,
			ReceiverID:             s.ReceiverID,
			TokenAddress:           s.TokenAddress,
			TotalStreamed:          amountString(s.TotalStreamed),
			CurrentAmountPerSecond: amountString(s.CurrentAmountPerSecond),
		})
	}
	if decimals != nil {
		out.Formatted = &TotalsResponse{
			TotalStreamed:        util.FormatAmount(e.Totals.TotalStreamed, *decimals),
			TotalAmountPerSecond: util.FormatAmount(e.Totals.TotalAmountPerSecond, *decimals),
			RemainingBalance:     util.FormatAmount(e.Totals.RemainingBalance, *decimals),
		}
	}
	return out
}

// NewAccountEstimateResponse converts an estimate into its JSON representation.
func NewAccountEstimateResponse(accountID string, estimate types.AccountEstimate, decimals *int32) AccountEstimateResponse {
	out := AccountEstimateResponse{
		AccountID: accountID,
		Tokens:    make(map[string]TokenEstimateResponse, len(estimate)),
	}
	for token, e := range estimate {
		out.Tokens[token] = TokenEstimateResponse{
			Total:          newAssetConfigEstimateResponse(e.Total, decimals),
			CurrentCycle:   newAssetConfigEstimateResponse(e.CurrentCycle, decimals),
			CycleStart:     e.Cycle.CurrentCycleStart.Unix(),
			CycleStartDate: e.Cycle.StartDate(),
			CycleDuration:  e.Cycle.CycleDurationSeconds,
		}
	}
	return out
}

type ReceiverResponse struct {
	ID              string `json:"id"`
	ReceiverID      string `json:"receiver_id"`
	Paused          bool   `json:"paused"`
	StreamID        uint32 `json:"stream_id,omitempty"`
	AmountPerSecond string `json:"amount_per_second,omitempty"`
	Start           uint32 `json:"start,omitempty"`
	Duration        uint32 `json:"duration,omitempty"`
}

type HistoryItemResponse struct {
	Timestamp      int64              `json:"timestamp"`
	Balance        string             `json:"balance"`
	RunsOutOfFunds any                `json:"runs_out_of_funds"`
	HistoryHash    string             `json:"history_hash"`
	ReceiversHash  string             `json:"receivers_hash"`
	Receivers      []ReceiverResponse `json:"receivers"`
}

type AccountHistoryResponse struct {
	AccountID string                           `json:"account_id"`
	Tokens    map[string][]HistoryItemResponse `json:"tokens"`
}

// NewAccountHistoryResponse converts reconciled asset configs into their JSON representation.
// Timestamps are unix seconds.
func NewAccountHistoryResponse(account types.Account) AccountHistoryResponse {
	out := AccountHistoryResponse{
		AccountID: account.ID,
		Tokens:    make(map[string][]HistoryItemResponse, len(account.AssetConfigs)),
	}
	for _, config := range account.AssetConfigs {
		items := make([]HistoryItemResponse, 0, len(config.History))
		for _, it := range config.History {
			receivers := make([]ReceiverResponse, 0, len(it.Receivers))
			for _, r := range it.Receivers {
				rr := ReceiverResponse{ID: r.ID, ReceiverID: r.ReceiverID, Paused: r.Paused()}
				if r.Config != nil {
					rr.StreamID = r.Config.StreamID
					rr.AmountPerSecond = amountString(r.Config.AmountPerSecond)
					rr.Start = r.Config.Start
					rr.Duration = r.Config.Duration
				}
				receivers = append(receivers, rr)
			}
			items = append(items, HistoryItemResponse{
				Timestamp:      it.Timestamp.Unix(),
				Balance:        amountString(it.Balance),
				RunsOutOfFunds: util.TransformOrNil(it.RunsOutOfFunds, func(t time.Time) any { return t.Unix() }),
				HistoryHash:    it.HistoryHash,
				ReceiversHash:  it.ReceiversHash,
				Receivers:      receivers,
			})
		}
		out.Tokens[config.TokenAddress] = items
	}
	return out
}
