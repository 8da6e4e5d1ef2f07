package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/lighter_connector/internal/config"
	"github.com/vitos/lighter_connector/internal/domain"
	"github.com/vitos/lighter_connector/internal/usecase"
)

func positionVenue() *mockVenue {
	return &mockVenue{
		Metas: []domain.MarketMeta{
			fullMeta(1, "ETH", 4, 2, 0.01),
			fullMeta(2, "BTC", 5, 1, 0.0002),
		},
		Book: &domain.OrderBook{
			Bids: []domain.OrderBookEntry{{Price: 2999.0}},
			Asks: []domain.OrderBookEntry{{Price: 3001.0}},
		},
		Account: &domain.AccountState{
			AccountIndex: 12,
			Positions: []domain.AccountPosition{
				{MarketID: 1, Symbol: "ETH", Sign: 1, Size: 2.5, AvgEntryPrice: 2800, UnrealizedPnL: 500, InitialMarginFraction: 25},
				{MarketID: 2, Symbol: "BTC", Sign: -1, Size: -0.1, AvgEntryPrice: 60000, UnrealizedPnL: -120, InitialMarginFraction: 0},
				{MarketID: 3, Symbol: "SOL", Sign: 1, Size: 0}, // flat, excluded
			},
		},
	}
}

func newPositionView(venue *mockVenue, policy config.PositionErrorPolicy, t *testing.T) *usecase.PositionView {
	t.Helper()
	svc, _ := newMarketService(venue, t)
	return usecase.NewPositionView(venue, svc, "0xowner", policy, nil)
}

func TestPositionView_ListDerivesSideLeverageAndPnL(t *testing.T) {
	view := newPositionView(positionVenue(), config.PositionErrorEmpty, t)

	positions, err := view.List(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)

	eth := positions[0]
	assert.Equal(t, "ETH", eth.Symbol)
	assert.Equal(t, domain.SideBuy, eth.Side)
	assert.Equal(t, 2.5, eth.Size)
	assert.Equal(t, 2800.0, eth.EntryPrice)
	assert.Equal(t, 3000.0, eth.CurrentPrice) // mid of the stub book
	assert.Equal(t, 500.0, eth.UnrealizedPnL)
	assert.Equal(t, 4.0, eth.Leverage) // 100 / 25

	btc := positions[1]
	assert.Equal(t, domain.SideSell, btc.Side) // sign -1
	assert.Equal(t, 0.1, btc.Size)             // absolute value
	assert.Equal(t, 1.0, btc.Leverage)         // zero margin fraction defaults to 1x
}

func TestPositionView_QueryFailureEmptyPolicy(t *testing.T) {
	venue := positionVenue()
	venue.AccountErr = errors.New("account endpoint down")
	view := newPositionView(venue, config.PositionErrorEmpty, t)

	positions, err := view.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestPositionView_QueryFailureFailPolicy(t *testing.T) {
	venue := positionVenue()
	venue.AccountErr = errors.New("account endpoint down")
	view := newPositionView(venue, config.PositionErrorFail, t)

	_, err := view.List(context.Background())
	var queryErr *domain.PositionQueryError
	require.True(t, errors.As(err, &queryErr))
}
