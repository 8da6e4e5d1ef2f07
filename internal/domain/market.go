package domain

import "time"

// Market is a tradable symbol's venue identity with its fixed-point scaling
// rules. SizeDecimals, PriceDecimals and MinBaseAmount are populated together
// or not at all; conversions must never run on a partially known market.
type Market struct {
	ID            int
	Symbol        string
	SizeDecimals  int
	PriceDecimals int
	MinBaseAmount float64
}

// MarketMeta is the raw per-market metadata as the venue reports it. Decimal
// fields are pointers because the bulk listing may omit them.
type MarketMeta struct {
	ID            int
	Symbol        string
	SizeDecimals  *int
	PriceDecimals *int
	MinBaseAmount *float64
}

// Price is an ephemeral mid-price snapshot, never cached across calls.
type Price struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
}

// FundingRate is the hourly funding rate for a symbol. The venue reports
// native 8-hour rates; Rate is already normalized to one hour.
type FundingRate struct {
	Symbol    string
	Rate      float64
	Timestamp time.Time
}

// FundingEntry is one row of the venue's bulk funding-rate listing.
type FundingEntry struct {
	MarketID int
	Exchange string
	Rate     float64
}

type OrderBookEntry struct {
	Price float64
	Size  float64
}

// OrderBook holds the top levels of one market's book, bids and asks each
// ordered best-first.
type OrderBook struct {
	MarketID int
	Bids     []OrderBookEntry
	Asks     []OrderBookEntry
}
