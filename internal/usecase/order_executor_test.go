package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/lighter_connector/internal/domain"
	"github.com/vitos/lighter_connector/internal/usecase"
)

// executionVenue serves a market with size decimals 4 and price decimals 2,
// a 100.0 mid price and a transaction that settles on the first poll.
func executionVenue() *mockVenue {
	return &mockVenue{
		Metas: []domain.MarketMeta{{ID: 1, Symbol: "ETH"}},
		MetaByID: map[int]domain.MarketMeta{
			1: fullMeta(1, "ETH", 4, 2, 0.01),
		},
		Book: &domain.OrderBook{
			Bids: []domain.OrderBookEntry{{Price: 99.0}},
			Asks: []domain.OrderBookEntry{{Price: 101.0}},
		},
		TxStatuses: []txPollStep{
			{
				Status: &domain.TxStatus{
					Status:    domain.TxStatusSettled,
					EventInfo: `{"t":{"p":10050,"s":15000}}`,
				},
				Found: true,
			},
		},
	}
}

func newExecutor(venue *mockVenue, signer domain.OrderSigner, ledger domain.TradeLedger, t *testing.T) *usecase.OrderExecutor {
	t.Helper()
	dir := usecase.NewMarketDirectory(venue, nil)
	require.NoError(t, dir.Initialize(context.Background()))
	codec := usecase.NewPrecisionCodec(dir)
	market := usecase.NewMarketService(venue, dir, nil)
	tracker := usecase.NewFillTracker(venue, time.Millisecond, time.Second, nil)
	return usecase.NewOrderExecutor(dir, codec, market, signer, tracker, ledger, nil)
}

func TestOrderExecutor_BuyAppliesSlippageAndEncodes(t *testing.T) {
	venue := executionVenue()
	signer := &mockSigner{Result: domain.SubmitResult{TxHash: "0xabc"}}
	ledger := &mockLedger{}
	executor := newExecutor(venue, signer, ledger, t)

	order, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 1.5, 0.01)
	require.NoError(t, err)

	// Worst buy price: 100 * 1.01 = 101, encoded with 2 price decimals.
	assert.Equal(t, 1, signer.LastRequest.MarketID)
	assert.Equal(t, int64(15000), signer.LastRequest.BaseAmount) // 1.5 * 10^4
	assert.Equal(t, int64(10100), signer.LastRequest.Price)
	assert.False(t, signer.LastRequest.IsAsk)
	assert.False(t, signer.LastRequest.ReduceOnly)

	// Settled values from the fill, not the estimate.
	assert.Equal(t, "0xabc", order.ID)
	assert.Equal(t, domain.SideBuy, order.Side)
	assert.Equal(t, domain.OrderTypeMarket, order.Type)
	assert.Equal(t, 100.50, order.Price) // 10050 / 100
	assert.Equal(t, 1.5, order.Size)     // 15000 / 10000
	assert.Equal(t, domain.OrderStatusFilled, order.Status)
	assert.False(t, order.Estimated)

	require.Len(t, ledger.Orders, 1)
	assert.Equal(t, order, ledger.Orders[0])
}

func TestOrderExecutor_SellAppliesSlippageDownward(t *testing.T) {
	venue := executionVenue()
	signer := &mockSigner{Result: domain.SubmitResult{TxHash: "0xabc"}}
	executor := newExecutor(venue, signer, &mockLedger{}, t)

	_, err := executor.PlaceMarketSellOrder(context.Background(), "ETH", 1.0, 0.01)
	require.NoError(t, err)

	// Worst sell price: 100 * 0.99 = 99.
	assert.Equal(t, int64(9900), signer.LastRequest.Price)
	assert.True(t, signer.LastRequest.IsAsk)
	assert.False(t, signer.LastRequest.ReduceOnly)
}

func TestOrderExecutor_DefaultSlippageWhenUnspecified(t *testing.T) {
	venue := executionVenue()
	signer := &mockSigner{Result: domain.SubmitResult{TxHash: "0xabc"}}
	executor := newExecutor(venue, signer, &mockLedger{}, t)

	_, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 1.0, 0)
	require.NoError(t, err)

	// Falls back to the named 1% default.
	assert.Equal(t, int64(10100), signer.LastRequest.Price)
}

func TestOrderExecutor_ClosesAreReduceOnly(t *testing.T) {
	tests := []struct {
		name    string
		close   func(e *usecase.OrderExecutor) (*domain.Order, error)
		wantAsk bool
		side    domain.Side
	}{
		{
			name: "close long sells",
			close: func(e *usecase.OrderExecutor) (*domain.Order, error) {
				return e.CloseBuyPosition(context.Background(), "ETH", 1.0, 0.01)
			},
			wantAsk: true,
			side:    domain.SideSell,
		},
		{
			name: "close short buys",
			close: func(e *usecase.OrderExecutor) (*domain.Order, error) {
				return e.CloseSellPosition(context.Background(), "ETH", 1.0, 0.01)
			},
			wantAsk: false,
			side:    domain.SideBuy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			venue := executionVenue()
			signer := &mockSigner{Result: domain.SubmitResult{TxHash: "0xabc"}}
			executor := newExecutor(venue, signer, &mockLedger{}, t)

			order, err := tt.close(executor)
			require.NoError(t, err)
			assert.True(t, signer.LastRequest.ReduceOnly)
			assert.Equal(t, tt.wantAsk, signer.LastRequest.IsAsk)
			assert.Equal(t, tt.side, order.Side)
		})
	}
}

func TestOrderExecutor_RejectionIsNotRetried(t *testing.T) {
	venue := executionVenue()
	signer := &mockSigner{Err: errors.New("insufficient margin")}
	ledger := &mockLedger{}
	executor := newExecutor(venue, signer, ledger, t)

	_, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 1.0, 0.01)
	var rejected *domain.OrderRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "ETH", rejected.Symbol)
	assert.Equal(t, 1, signer.SubmitCalls)
	assert.Empty(t, ledger.Orders)
}

func TestOrderExecutor_MissingTxHashRecordsEstimate(t *testing.T) {
	venue := executionVenue()
	signer := &mockSigner{Result: domain.SubmitResult{}} // accepted, no hash
	ledger := &mockLedger{}
	executor := newExecutor(venue, signer, ledger, t)

	order, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 2.0, 0.01)
	require.NoError(t, err)

	assert.True(t, order.Estimated)
	assert.Equal(t, "unknown", order.ID)
	assert.Equal(t, 100.0, order.Price) // submission-time estimate
	assert.Equal(t, 2.0, order.Size)
	require.Len(t, ledger.Orders, 1)
}

func TestOrderExecutor_TerminalTxFailureSurfaces(t *testing.T) {
	venue := executionVenue()
	venue.TxStatuses = []txPollStep{
		{Status: &domain.TxStatus{Status: 5}, Found: true},
	}
	signer := &mockSigner{Result: domain.SubmitResult{TxHash: "0xdead"}}
	ledger := &mockLedger{}
	executor := newExecutor(venue, signer, ledger, t)

	_, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 1.0, 0.01)
	var failed *domain.TransactionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 5, failed.Status)
	assert.Empty(t, ledger.Orders)
}

func TestOrderExecutor_LedgerFailureDoesNotFailTrade(t *testing.T) {
	venue := executionVenue()
	signer := &mockSigner{Result: domain.SubmitResult{TxHash: "0xabc"}}
	ledger := &mockLedger{Err: errors.New("disk full")}
	executor := newExecutor(venue, signer, ledger, t)

	order, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 1.0, 0.01)
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderExecutor_NoSigner(t *testing.T) {
	venue := executionVenue()
	executor := newExecutor(venue, nil, &mockLedger{}, t)

	_, err := executor.PlaceMarketBuyOrder(context.Background(), "ETH", 1.0, 0.01)
	assert.ErrorIs(t, err, domain.ErrTradingDisabled)
}
