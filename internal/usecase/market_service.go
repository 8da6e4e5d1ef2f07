package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

const (
	// bookDepth is how many levels to request when deriving a mid price;
	// only the best bid and ask are read.
	bookDepth = 10

	// fundingPeriodsPerRate normalizes the venue's native 8-hour funding
	// rate to the hourly figure callers work with.
	fundingPeriodsPerRate = 8

	// VenueName tags ledger entries and funding lookups.
	VenueName = "lighter"
)

// MarketService covers the read paths: mid price, funding rate and minimum
// order size. Prices are ephemeral snapshots and never cached.
type MarketService struct {
	client    domain.VenueClient
	directory *MarketDirectory
	logger    *zap.Logger
	timeNow   func() time.Time // for testing
}

func NewMarketService(client domain.VenueClient, directory *MarketDirectory, logger *zap.Logger) *MarketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketService{
		client:    client,
		directory: directory,
		logger:    logger,
		timeNow:   time.Now,
	}
}

// CurrentPrice derives the mid of the best bid and ask. A one-sided book
// falls back to the side that exists; an empty book is NoLiquidityError.
func (s *MarketService) CurrentPrice(ctx context.Context, symbol string) (*domain.Price, error) {
	marketID, err := s.directory.Resolve(symbol)
	if err != nil {
		return nil, err
	}

	book, err := s.client.GetOrderBookOrders(ctx, marketID, bookDepth)
	if err != nil {
		return nil, err
	}

	var bestBid, bestAsk float64
	if len(book.Bids) > 0 {
		bestBid = book.Bids[0].Price
	}
	if len(book.Asks) > 0 {
		bestAsk = book.Asks[0].Price
	}

	var price float64
	switch {
	case bestBid > 0 && bestAsk > 0:
		price = (bestBid + bestAsk) / 2
	case bestBid > 0:
		price = bestBid
	case bestAsk > 0:
		price = bestAsk
	default:
		return nil, &domain.NoLiquidityError{Symbol: symbol}
	}

	return &domain.Price{
		Symbol:    symbol,
		Price:     price,
		Timestamp: s.timeNow().UTC(),
	}, nil
}

// CurrentFundingRate returns the hourly funding rate for a symbol. The venue
// reports native 8-hour rates; the result is divided down to one hour.
func (s *MarketService) CurrentFundingRate(ctx context.Context, symbol string) (*domain.FundingRate, error) {
	marketID, err := s.directory.Resolve(symbol)
	if err != nil {
		return nil, err
	}

	entries, err := s.client.GetFundingRates(ctx)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.MarketID == marketID && entry.Exchange == VenueName {
			return &domain.FundingRate{
				Symbol:    symbol,
				Rate:      entry.Rate / fundingPeriodsPerRate,
				Timestamp: s.timeNow().UTC(),
			}, nil
		}
	}

	return nil, fmt.Errorf("no funding rate found for %s (market_id: %d)", symbol, marketID)
}

// MinOrderSize returns the minimum order size denominated in the traded
// asset, ensuring the market's metadata is cached first.
func (s *MarketService) MinOrderSize(ctx context.Context, symbol string) (float64, error) {
	marketID, err := s.directory.Resolve(symbol)
	if err != nil {
		return 0, err
	}
	if err := s.directory.Ensure(ctx, marketID); err != nil {
		return 0, err
	}

	market, ok := s.directory.Market(marketID)
	if !ok {
		return 0, domain.ErrMetadataMissing
	}
	return market.MinBaseAmount, nil
}
