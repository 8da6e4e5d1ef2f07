package usecase

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/config"
	"github.com/vitos/lighter_connector/internal/domain"
)

// PositionView derives open positions from the authoritative account state on
// every call. Nothing is cached and no locally pending order is ever visible
// here: what the venue reports is the truth.
type PositionView struct {
	client    domain.VenueClient
	market    *MarketService
	l1Address string
	onError   config.PositionErrorPolicy
	logger    *zap.Logger
	timeNow   func() time.Time // for testing
}

func NewPositionView(client domain.VenueClient, market *MarketService, l1Address string, onError config.PositionErrorPolicy, logger *zap.Logger) *PositionView {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onError == "" {
		onError = config.PositionErrorEmpty
	}
	return &PositionView{
		client:    client,
		market:    market,
		l1Address: l1Address,
		onError:   onError,
		logger:    logger,
		timeNow:   time.Now,
	}
}

// List returns all non-zero positions with a live PnL snapshot. Each position
// costs one extra price fetch; accounts hold few open positions, so the N+1
// round trips stay cheap.
//
// When the account query fails the configured policy decides the outcome:
// the empty policy returns no positions (and cannot distinguish "flat" from
// "could not check"), the fail policy surfaces a PositionQueryError.
func (v *PositionView) List(ctx context.Context) ([]domain.Position, error) {
	state, err := v.client.GetAccount(ctx, v.l1Address)
	if err != nil {
		if v.onError == config.PositionErrorFail {
			return nil, &domain.PositionQueryError{Err: err}
		}
		v.logger.Warn("position query failed, returning empty list", zap.Error(err))
		return []domain.Position{}, nil
	}

	positions := make([]domain.Position, 0, len(state.Positions))
	for _, raw := range state.Positions {
		if raw.Size == 0 {
			continue
		}

		side := domain.SideBuy
		if raw.Sign == -1 {
			side = domain.SideSell
		}

		leverage := 1.0
		if raw.InitialMarginFraction > 0 {
			leverage = 100.0 / raw.InitialMarginFraction
		}

		price, err := v.market.CurrentPrice(ctx, raw.Symbol)
		if err != nil {
			if v.onError == config.PositionErrorFail {
				return nil, &domain.PositionQueryError{Err: err}
			}
			v.logger.Warn("price lookup failed for position",
				zap.String("symbol", raw.Symbol),
				zap.Error(err),
			)
			return []domain.Position{}, nil
		}

		positions = append(positions, domain.Position{
			Symbol:        raw.Symbol,
			Side:          side,
			Size:          math.Abs(raw.Size),
			EntryPrice:    raw.AvgEntryPrice,
			CurrentPrice:  price.Price,
			UnrealizedPnL: raw.UnrealizedPnL,
			Leverage:      leverage,
			Timestamp:     v.timeNow().UTC(),
		})
	}
	return positions, nil
}
