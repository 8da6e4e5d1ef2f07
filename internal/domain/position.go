package domain

import "time"

// Position is a live view of one open position, fully re-derived from venue
// state on every query. This package keeps no notion of a pending local
// order; what the venue reports is what callers see.
type Position struct {
	Symbol        string
	Side          Side
	Size          float64
	EntryPrice    float64
	CurrentPrice  float64
	UnrealizedPnL float64
	Leverage      float64
	Timestamp     time.Time
}

// AccountPosition is a raw per-market position row from the account endpoint.
// Sign is +1 for long, -1 for short. InitialMarginFraction is a percentage
// (25 means 4x leverage).
type AccountPosition struct {
	MarketID              int
	Symbol                string
	Sign                  int
	Size                  float64
	AvgEntryPrice         float64
	UnrealizedPnL         float64
	InitialMarginFraction float64
}

// AccountState is the authoritative account snapshot keyed by L1 address.
type AccountState struct {
	AccountIndex int
	Positions    []AccountPosition
}
