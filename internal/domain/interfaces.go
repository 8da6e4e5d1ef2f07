package domain

import (
	"context"
	"time"
)

// VenueClient covers the venue's read-only HTTP surface. Implementations
// return *TransportError for network failures and non-2xx responses, except
// GetTransaction which reports a not-yet-indexed hash via found=false.
type VenueClient interface {
	GetAccount(ctx context.Context, l1Address string) (*AccountState, error)
	GetOrderBooks(ctx context.Context) ([]MarketMeta, error)
	GetOrderBookMeta(ctx context.Context, marketID int) (*MarketMeta, error)
	GetOrderBookOrders(ctx context.Context, marketID int, limit int) (*OrderBook, error)
	GetFundingRates(ctx context.Context) ([]FundingEntry, error)
	GetTransaction(ctx context.Context, txHash string) (status *TxStatus, found bool, err error)
}

// SignRequest carries everything the signing collaborator needs to build and
// broadcast one market order. BaseAmount and Price are already encoded in the
// venue's integer fixed-point format.
type SignRequest struct {
	MarketID   int
	BaseAmount int64
	Price      int64
	IsAsk      bool
	ReduceOnly bool
}

// SubmitResult is the single typed shape a signer submission resolves to.
// Callers never inspect raw signer responses.
type SubmitResult struct {
	// TxHash identifies the broadcast transaction. Empty when the signer
	// accepted the order but returned no usable identifier.
	TxHash string
}

// OrderSigner is the opaque signing and broadcast capability. Key generation,
// registration and transaction construction live behind it; this package only
// submits signed operations and reads back a typed result.
type OrderSigner interface {
	SubmitMarketOrder(ctx context.Context, req SignRequest) (SubmitResult, error)
	UpdateLeverage(ctx context.Context, marketID int, leverage int) error
}

// TradeLedger receives exactly one append per executed order.
type TradeLedger interface {
	Append(ctx context.Context, order *Order) error
}

// Connector is the uniform trading surface exposed to strategy code.
type Connector interface {
	CurrentPrice(ctx context.Context, symbol string) (*Price, error)
	CurrentFundingRate(ctx context.Context, symbol string) (*FundingRate, error)
	MinOrderSize(ctx context.Context, symbol string) (float64, error)

	CurrentLeverage() int
	SetLeverage(ctx context.Context, leverage int, symbol string) (int, error)

	PlaceMarketBuyOrder(ctx context.Context, symbol string, size, slippage float64) (*Order, error)
	PlaceMarketSellOrder(ctx context.Context, symbol string, size, slippage float64) (*Order, error)
	CloseBuyPosition(ctx context.Context, symbol string, size, slippage float64) (*Order, error)
	CloseSellPosition(ctx context.Context, symbol string, size, slippage float64) (*Order, error)

	Positions(ctx context.Context) ([]Position, error)
}

// PriceStream delivers live top-of-book prices to registered callbacks. The
// execution path never depends on it; REST snapshots stay authoritative.
type PriceStream interface {
	OnPriceUpdate(callback func(symbol string, price float64, at time.Time))
	Subscribe(marketIDs []int) error
	Close() error
}
