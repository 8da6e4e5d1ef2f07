package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMetadataMissing is returned by the codec when a market's decimal
	// specs are not cached yet. Callers must run Ensure first.
	ErrMetadataMissing = errors.New("market metadata not cached")

	// ErrTradingDisabled is returned when an order is attempted without a
	// configured signer.
	ErrTradingDisabled = errors.New("trading not enabled: no signer configured")
)

// UnknownSymbolError is returned when a symbol has no market on the venue.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %s", e.Symbol)
}

// MetadataError is returned when the venue's own metadata for a market is
// incomplete. The partial record is never cached.
type MetadataError struct {
	MarketID int
	Missing  string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("market %d metadata incomplete: missing %s", e.MarketID, e.Missing)
}

// NoLiquidityError is returned when neither side of a market's book has any
// order to derive a price from.
type NoLiquidityError struct {
	Symbol string
}

func (e *NoLiquidityError) Error() string {
	return fmt.Sprintf("no liquidity for %s: order book is empty", e.Symbol)
}

// TransportError wraps a network or HTTP failure against the venue.
type TransportError struct {
	Op   string
	Code int // HTTP status code, 0 for network-level failures
	Err  error
}

func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// OrderRejectedError is returned when the signing collaborator reports a
// submission failure. There is no retry at this layer.
type OrderRejectedError struct {
	Symbol string
	Side   Side
	Reason error
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("order rejected for %s %s: %v", e.Symbol, e.Side, e.Reason)
}

func (e *OrderRejectedError) Unwrap() error {
	return e.Reason
}

// TransactionFailedError is returned when a transaction reaches a terminal
// error status on the venue.
type TransactionFailedError struct {
	TxHash string
	Status int
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed with status %d", e.TxHash, e.Status)
}

// FillTimeoutError is returned when a transaction did not reach a terminal
// state within the configured timeout. The outcome is ambiguous: the
// transaction may still execute after the caller stopped watching.
type FillTimeoutError struct {
	TxHash  string
	Elapsed time.Duration
}

func (e *FillTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not confirmed after %s", e.TxHash, e.Elapsed)
}

// PositionQueryError is returned when the account query behind a position
// listing fails and the on-error policy is set to fail.
type PositionQueryError struct {
	Err error
}

func (e *PositionQueryError) Error() string {
	return fmt.Sprintf("position query failed: %v", e.Err)
}

func (e *PositionQueryError) Unwrap() error {
	return e.Err
}
