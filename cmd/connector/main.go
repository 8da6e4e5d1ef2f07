package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/config"
	"github.com/vitos/lighter_connector/internal/domain"
	"github.com/vitos/lighter_connector/internal/infrastructure/exchange"
	"github.com/vitos/lighter_connector/internal/infrastructure/logger"
	"github.com/vitos/lighter_connector/internal/infrastructure/storage"
	"github.com/vitos/lighter_connector/internal/usecase"
)

func main() {
	// 1. Load Config (.env first so it can override the yaml values)
	_ = godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Trade Ledger
	ledger, cleanup, err := newLedger(cfg)
	if err != nil {
		log.Fatal("Failed to init trade ledger", zap.Error(err))
	}
	defer cleanup()

	// 4. Init Venue Client
	client := exchange.NewLighterClient(cfg.Venue.RESTEndpoint, log)

	// 5. Wire Services
	directory := usecase.NewMarketDirectory(client, log)
	codec := usecase.NewPrecisionCodec(directory)
	market := usecase.NewMarketService(client, directory, log)
	tracker := usecase.NewFillTracker(client, cfg.PollInterval(), cfg.FillTimeout(), log)

	// No signer is configured here: the binary runs read-only and trading
	// calls fail with ErrTradingDisabled.
	executor := usecase.NewOrderExecutor(directory, codec, market, nil, tracker, ledger, log)
	positions := usecase.NewPositionView(client, market, cfg.Venue.L1Address, cfg.OnPositionError(), log)

	ctx := context.Background()
	conn, err := usecase.NewConnector(ctx, client, directory, market, executor, positions, nil, cfg.Venue.L1Address, log)
	if err != nil {
		log.Fatal("Failed to init connector", zap.Error(err))
	}

	symbols := cfg.Venue.Symbols
	if len(symbols) == 0 {
		symbols = directory.Symbols()
	}

	// 6. Read-only diagnostics per configured symbol
	for _, symbol := range symbols {
		price, err := conn.CurrentPrice(ctx, symbol)
		if err != nil {
			log.Warn("price unavailable", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		minSize, err := conn.MinOrderSize(ctx, symbol)
		if err != nil {
			log.Warn("min order size unavailable", zap.String("symbol", symbol), zap.Error(err))
		}
		rate, err := conn.CurrentFundingRate(ctx, symbol)
		if err != nil {
			log.Warn("funding rate unavailable", zap.String("symbol", symbol), zap.Error(err))
		} else {
			log.Info("market snapshot",
				zap.String("symbol", symbol),
				zap.Float64("price", price.Price),
				zap.Float64("min_order_size", minSize),
				zap.Float64("funding_rate_hourly", rate.Rate),
			)
		}
	}

	list, err := conn.Positions(ctx)
	if err != nil {
		log.Error("Failed to list positions", zap.Error(err))
	}
	for _, p := range list {
		log.Info("open position",
			zap.String("symbol", p.Symbol),
			zap.String("side", string(p.Side)),
			zap.Float64("size", p.Size),
			zap.Float64("entry_price", p.EntryPrice),
			zap.Float64("unrealized_pnl", p.UnrealizedPnL),
			zap.Float64("leverage", p.Leverage),
		)
	}

	// 7. Optional live price stream
	if cfg.Venue.WSEndpoint != "" {
		stream := exchange.NewLighterStream(cfg.Venue.WSEndpoint, directory.SymbolFor, log)
		defer stream.Close()

		stream.OnPriceUpdate(func(symbol string, price float64, at time.Time) {
			log.Debug("tick", zap.String("symbol", symbol), zap.Float64("price", price), zap.Time("at", at))
		})

		var ids []int
		for _, symbol := range symbols {
			if id, err := directory.Resolve(symbol); err == nil {
				ids = append(ids, id)
			}
		}
		if err := stream.Subscribe(ids); err != nil {
			log.Warn("price stream unavailable", zap.Error(err))
		}

		// 8. Wait for Shutdown
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info("Shutting down")
	}
}

func newLedger(cfg *config.Config) (domain.TradeLedger, func(), error) {
	venue := cfg.Venue.Name
	if venue == "" {
		venue = "lighter"
	}
	path := cfg.Ledger.Path
	switch cfg.Ledger.Backend {
	case "sqlite":
		if path == "" {
			path = "trades.db"
		}
		ledger, err := storage.NewSQLiteLedger(path, venue)
		if err != nil {
			return nil, nil, err
		}
		return ledger, func() { ledger.Close() }, nil
	default:
		if path == "" {
			path = "logs/trades.jsonl"
		}
		ledger, err := storage.NewJSONLLedger(path, venue)
		if err != nil {
			return nil, nil, err
		}
		return ledger, func() {}, nil
	}
}
