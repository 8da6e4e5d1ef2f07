package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

// Connector is the uniform trading facade handed to strategy code. It wires
// the market directory, read paths, order pipeline and position view over one
// venue client, and tracks leverage locally because the venue does not expose
// the current setting.
type Connector struct {
	client       domain.VenueClient
	directory    *MarketDirectory
	market       *MarketService
	executor     *OrderExecutor
	positions    *PositionView
	signer       domain.OrderSigner
	logger       *zap.Logger
	accountIndex int

	mu       sync.Mutex
	leverage int
}

var _ domain.Connector = (*Connector)(nil)

// NewConnector resolves the account index for the given L1 address and
// initializes the market directory. The signer may be nil for read-only use;
// trading calls then fail with ErrTradingDisabled.
func NewConnector(
	ctx context.Context,
	client domain.VenueClient,
	directory *MarketDirectory,
	market *MarketService,
	executor *OrderExecutor,
	positions *PositionView,
	signer domain.OrderSigner,
	l1Address string,
	logger *zap.Logger,
) (*Connector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := directory.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize market directory: %w", err)
	}

	state, err := client.GetAccount(ctx, l1Address)
	if err != nil {
		return nil, fmt.Errorf("resolve account index: %w", err)
	}

	logger.Info("connector ready",
		zap.Int("account_index", state.AccountIndex),
		zap.Int("markets", len(directory.Symbols())),
	)

	return &Connector{
		client:       client,
		directory:    directory,
		market:       market,
		executor:     executor,
		positions:    positions,
		signer:       signer,
		logger:       logger,
		accountIndex: state.AccountIndex,
		leverage:     1,
	}, nil
}

func (c *Connector) AccountIndex() int {
	return c.accountIndex
}

func (c *Connector) CurrentPrice(ctx context.Context, symbol string) (*domain.Price, error) {
	return c.market.CurrentPrice(ctx, symbol)
}

func (c *Connector) CurrentFundingRate(ctx context.Context, symbol string) (*domain.FundingRate, error) {
	return c.market.CurrentFundingRate(ctx, symbol)
}

func (c *Connector) MinOrderSize(ctx context.Context, symbol string) (float64, error) {
	return c.market.MinOrderSize(ctx, symbol)
}

// CurrentLeverage returns the locally tracked leverage setting.
func (c *Connector) CurrentLeverage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leverage
}

// SetLeverage updates account leverage for a market through the signer and
// records it locally on success. An empty symbol applies the setting to the
// first known market. Without a signer only the local tracking changes.
func (c *Connector) SetLeverage(ctx context.Context, leverage int, symbol string) (int, error) {
	if c.signer == nil {
		c.mu.Lock()
		c.leverage = leverage
		c.mu.Unlock()
		return leverage, nil
	}

	if symbol == "" {
		symbols := c.directory.Symbols()
		if len(symbols) == 0 {
			return 0, fmt.Errorf("no markets available for leverage setting")
		}
		symbol = symbols[0]
	}

	marketID, err := c.directory.Resolve(symbol)
	if err != nil {
		return 0, err
	}

	if err := c.signer.UpdateLeverage(ctx, marketID, leverage); err != nil {
		return 0, fmt.Errorf("failed to set leverage to %d: %w", leverage, err)
	}

	c.mu.Lock()
	c.leverage = leverage
	c.mu.Unlock()

	c.logger.Info("leverage updated",
		zap.Int("leverage", leverage),
		zap.String("symbol", symbol),
	)
	return leverage, nil
}

func (c *Connector) PlaceMarketBuyOrder(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return c.executor.PlaceMarketBuyOrder(ctx, symbol, size, slippage)
}

func (c *Connector) PlaceMarketSellOrder(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return c.executor.PlaceMarketSellOrder(ctx, symbol, size, slippage)
}

func (c *Connector) CloseBuyPosition(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return c.executor.CloseBuyPosition(ctx, symbol, size, slippage)
}

func (c *Connector) CloseSellPosition(ctx context.Context, symbol string, size, slippage float64) (*domain.Order, error) {
	return c.executor.CloseSellPosition(ctx, symbol, size, slippage)
}

func (c *Connector) Positions(ctx context.Context) ([]domain.Position, error) {
	return c.positions.List(ctx)
}
