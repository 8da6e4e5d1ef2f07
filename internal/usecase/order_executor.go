package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

// DefaultSlippage bounds the worst acceptable execution price when the caller
// does not provide one. An explicit, named policy: 1% adverse movement.
const DefaultSlippage = 0.01

// OrderExecutor runs the full market-order pipeline: resolve market, fetch a
// mid price, apply the slippage bound, encode to the venue's fixed-point
// format, submit through the signer, wait for settlement and append the
// resulting record to the trade ledger.
//
// It performs no coordination across concurrent calls; serializing
// overlapping orders is the caller's responsibility.
type OrderExecutor struct {
	directory *MarketDirectory
	codec     *PrecisionCodec
	market    *MarketService
	signer    domain.OrderSigner
	tracker   *FillTracker
	ledger    domain.TradeLedger
	logger    *zap.Logger
	timeNow   func() time.Time // for testing
}

func NewOrderExecutor(
	directory *MarketDirectory,
	codec *PrecisionCodec,
	market *MarketService,
	signer domain.OrderSigner,
	tracker *FillTracker,
	ledger domain.TradeLedger,
	logger *zap.Logger,
) *OrderExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderExecutor{
		directory: directory,
		codec:     codec,
		market:    market,
		signer:    signer,
		tracker:   tracker,
		ledger:    ledger,
		logger:    logger,
		timeNow:   time.Now,
	}
}

// PlaceMarketBuyOrder opens or extends long exposure.
func (e *OrderExecutor) PlaceMarketBuyOrder(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return e.execute(ctx, symbol, size, slippage, domain.SideBuy, false)
}

// PlaceMarketSellOrder opens or extends short exposure.
func (e *OrderExecutor) PlaceMarketSellOrder(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return e.execute(ctx, symbol, size, slippage, domain.SideSell, false)
}

// CloseBuyPosition sells to close a long. The order is reduce-only: it can
// shrink or close existing exposure but never open new exposure.
func (e *OrderExecutor) CloseBuyPosition(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return e.execute(ctx, symbol, size, slippage, domain.SideSell, true)
}

// CloseSellPosition buys to close a short, reduce-only like CloseBuyPosition.
func (e *OrderExecutor) CloseSellPosition(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return e.execute(ctx, symbol, size, slippage, domain.SideBuy, true)
}

func (e *OrderExecutor) execute(ctx context.Context, symbol string, size, slippage float64, side domain.Side, reduceOnly bool) (*domain.Order, error) {
	if e.signer == nil {
		return nil, domain.ErrTradingDisabled
	}

	marketID, err := e.directory.Resolve(symbol)
	if err != nil {
		return nil, err
	}
	if err := e.directory.Ensure(ctx, marketID); err != nil {
		return nil, err
	}

	price, err := e.market.CurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if slippage <= 0 {
		slippage = DefaultSlippage
	}
	worstPrice := price.Price * (1 + slippage)
	if side == domain.SideSell {
		worstPrice = price.Price * (1 - slippage)
	}

	baseAmount, err := e.codec.EncodeSize(size, marketID)
	if err != nil {
		return nil, err
	}
	encodedPrice, err := e.codec.EncodePrice(worstPrice, marketID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("submitting market order",
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("size", size),
		zap.Float64("worst_price", worstPrice),
		zap.Bool("reduce_only", reduceOnly),
	)

	result, err := e.signer.SubmitMarketOrder(ctx, domain.SignRequest{
		MarketID:   marketID,
		BaseAmount: baseAmount,
		Price:      encodedPrice,
		IsAsk:      side == domain.SideSell,
		ReduceOnly: reduceOnly,
	})
	if err != nil {
		return nil, &domain.OrderRejectedError{Symbol: symbol, Side: side, Reason: err}
	}

	order := &domain.Order{
		ID:        result.TxHash,
		Symbol:    symbol,
		Side:      side,
		Type:      domain.OrderTypeMarket,
		Size:      size,
		Price:     price.Price,
		Status:    domain.OrderStatusFilled,
		Timestamp: e.timeNow().UTC(),
	}

	if result.TxHash == "" {
		// The signer accepted the order but gave back no transaction id to
		// watch. Record the submission-time estimate and say so.
		order.ID = "unknown"
		order.Estimated = true
		e.logger.Warn("no tx hash returned, recording estimated fill",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
		)
		e.appendToLedger(ctx, order)
		return order, nil
	}

	fill, err := e.tracker.WaitForFill(ctx, result.TxHash, size)
	if err != nil {
		return nil, err
	}

	if fill.ActualPrice != nil {
		order.Price = *fill.ActualPrice
	}
	order.Size = fill.ActualSize

	e.logger.Info("order settled",
		zap.String("tx_hash", result.TxHash),
		zap.String("symbol", symbol),
		zap.Float64("price", order.Price),
		zap.Float64("size", order.Size),
		zap.Int64("block_height", fill.BlockHeight),
	)

	e.appendToLedger(ctx, order)
	return order, nil
}

// appendToLedger records the trade exactly once. A ledger failure is logged
// and swallowed: bookkeeping problems must never break a completed trade.
func (e *OrderExecutor) appendToLedger(ctx context.Context, order *domain.Order) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.Append(ctx, order); err != nil {
		e.logger.Error("failed to append trade to ledger",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
