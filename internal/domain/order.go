package domain

import "time"

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other trade direction.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusFilled  OrderStatus = "filled"
	OrderStatusPartial OrderStatus = "partial"
)

// Order is the immutable record of one executed trade. It is created once
// after an order reaches a terminal state, appended once to the trade ledger
// and never mutated. It is not used for order management; open exposure is
// always read back from the venue via Positions.
type Order struct {
	ID        string // transaction hash on the venue
	Symbol    string
	Side      Side
	Type      OrderType
	Size      float64
	Price     float64
	Status    OrderStatus
	Timestamp time.Time

	// Estimated is set when the fill could not be confirmed (no tx hash was
	// returned) and Size/Price carry the submission-time estimate instead of
	// settled values.
	Estimated bool
}
