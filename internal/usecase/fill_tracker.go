package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

// Settlement payload scale factors. The venue embeds executed price and size
// in event_info as integers: price in hundredths of the quote unit, size
// scaled by 10^4. These factors are specific to this venue's settlement
// encoding and are unrelated to per-market order decimals.
const (
	settledPriceScale = 100
	settledSizeScale  = 10000
)

// FillTracker polls a broadcast transaction to a terminal outcome. The wait
// is a loop with a cooperative delay between polls: the caller blocks until
// the order's final state is known or the timeout passes. Cancelling the
// context stops watching; it never retracts the transaction.
type FillTracker struct {
	client       domain.VenueClient
	pollInterval time.Duration
	timeout      time.Duration
	logger       *zap.Logger

	timeNow func() time.Time                         // for testing
	sleep   func(ctx context.Context, d time.Duration) error // for testing
}

func NewFillTracker(client domain.VenueClient, pollInterval, timeout time.Duration, logger *zap.Logger) *FillTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FillTracker{
		client:       client,
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       logger,
		timeNow:      time.Now,
		sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitForFill polls the transaction status endpoint until the transaction
// settles, fails, or the configured timeout elapses.
//
// Status interpretation: processing keeps polling; settled is terminal and
// the settlement payload is decoded for actual price/size; any status beyond
// settled is a terminal TransactionFailedError. A hash the venue has not
// indexed yet counts as still processing. Transient transport errors are
// swallowed and retried on the next poll, bounded by the overall timeout.
//
// A FillTimeoutError is ambiguous: the transaction may still execute after
// the caller stops watching.
func (t *FillTracker) WaitForFill(ctx context.Context, txHash string, expectedSize float64) (*domain.FillResult, error) {
	start := t.timeNow()

	for {
		elapsed := t.timeNow().Sub(start)
		if elapsed >= t.timeout {
			return nil, &domain.FillTimeoutError{TxHash: txHash, Elapsed: elapsed}
		}

		status, found, err := t.client.GetTransaction(ctx, txHash)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			t.logger.Warn("transaction poll failed, retrying",
				zap.String("tx_hash", txHash),
				zap.Error(err),
			)
		case !found:
			// Not indexed yet, keep polling.
		case status.Status == domain.TxStatusSettled:
			return t.settled(txHash, status, expectedSize), nil
		case status.Status > domain.TxStatusSettled:
			return nil, &domain.TransactionFailedError{TxHash: txHash, Status: status.Status}
		default:
			// Pending or processing, keep polling.
		}

		if err := t.sleep(ctx, t.pollInterval); err != nil {
			return nil, err
		}
	}
}

// settlementEvent mirrors the event_info trade payload: {"t":{"p":…,"s":…}}.
type settlementEvent struct {
	Trade struct {
		Price float64 `json:"p"`
		Size  float64 `json:"s"`
	} `json:"t"`
}

// settled decodes the settlement payload. A payload that fails to parse does
// not fail the flow: the result stays settled with no actual price and the
// caller's expected size.
func (t *FillTracker) settled(txHash string, status *domain.TxStatus, expectedSize float64) *domain.FillResult {
	result := &domain.FillResult{
		State:       domain.FillStateSettled,
		TxHash:      txHash,
		ActualSize:  expectedSize,
		BlockHeight: status.BlockHeight,
	}
	if status.ExecutedAt > 0 {
		result.ExecutedAt = time.UnixMilli(status.ExecutedAt).UTC()
	}

	var event settlementEvent
	if err := json.Unmarshal([]byte(status.EventInfo), &event); err != nil {
		t.logger.Warn("could not parse settlement payload",
			zap.String("tx_hash", txHash),
			zap.Error(err),
		)
		return result
	}

	if p := event.Trade.Price / settledPriceScale; p > 0 {
		result.ActualPrice = &p
	}
	if s := event.Trade.Size / settledSizeScale; s > 0 {
		result.ActualSize = s
	}
	return result
}
