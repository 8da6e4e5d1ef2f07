package domain

import "time"

// Venue transaction status codes as returned by the /tx endpoint.
const (
	TxStatusProcessing = 2
	TxStatusSettled    = 3
	// Anything above TxStatusSettled is a terminal failure.
)

// TxStatus is one snapshot of a transaction's state on the venue.
// EventInfo is an opaque JSON settlement payload, only meaningful once the
// status is settled.
type TxStatus struct {
	Status      int
	EventInfo   string
	BlockHeight int64
	ExecutedAt  int64
}

type FillState string

const (
	FillStateSettled  FillState = "settled"
	FillStateTimedOut FillState = "timed_out"
	FillStateRejected FillState = "rejected"
)

// FillResult is the transient outcome of waiting for one transaction to
// settle. ActualPrice is nil when the settlement payload could not be parsed;
// ActualSize falls back to the caller's expected size in that case.
type FillResult struct {
	State       FillState
	TxHash      string
	ActualPrice *float64
	ActualSize  float64
	BlockHeight int64
	ExecutedAt  time.Time
}
