package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

// MarketDirectory caches symbol to market-id mappings and per-market decimal
// specs behind one RWMutex. The bulk listing tolerates missing decimal
// fields; Ensure backfills them all-or-nothing before any conversion runs.
// Writes are idempotent, so concurrent first-time population is benign.
type MarketDirectory struct {
	client domain.VenueClient
	logger *zap.Logger

	mu       sync.RWMutex
	bySymbol map[string]int
	byID     map[int]domain.Market
	complete map[int]bool
}

func NewMarketDirectory(client domain.VenueClient, logger *zap.Logger) *MarketDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketDirectory{
		client:   client,
		logger:   logger,
		bySymbol: make(map[string]int),
		byID:     make(map[int]domain.Market),
		complete: make(map[int]bool),
	}
}

// Initialize bulk-loads the venue's market list once. Entries missing decimal
// fields are still mapped by symbol and id; their specs are backfilled lazily
// by Ensure.
func (d *MarketDirectory) Initialize(ctx context.Context) error {
	metas, err := d.client.GetOrderBooks(ctx)
	if err != nil {
		return err
	}

	for _, meta := range metas {
		d.store(meta)
	}

	d.logger.Info("market directory initialized", zap.Int("markets", len(metas)))
	return nil
}

// Resolve maps a symbol to its market id.
func (d *MarketDirectory) Resolve(symbol string) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.bySymbol[symbol]
	if !ok {
		return 0, &domain.UnknownSymbolError{Symbol: symbol}
	}
	return id, nil
}

// SymbolFor is the reverse lookup.
func (d *MarketDirectory) SymbolFor(marketID int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.byID[marketID]
	if !ok {
		return "", false
	}
	return m.Symbol, true
}

// Market returns the fully populated market record for an id. ok is false
// until Ensure has completed for that market.
func (d *MarketDirectory) Market(marketID int) (domain.Market, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.byID[marketID]
	if !ok || !d.complete[marketID] {
		return domain.Market{}, false
	}
	return m, true
}

// Ensure guarantees the three decimal/min-amount fields are cached for a
// market, fetching single-market metadata when any of them is missing. A
// remote record that is itself incomplete fails with MetadataError and caches
// nothing. Once populated, repeated calls perform no I/O.
func (d *MarketDirectory) Ensure(ctx context.Context, marketID int) error {
	d.mu.RLock()
	done := d.complete[marketID]
	d.mu.RUnlock()
	if done {
		return nil
	}

	meta, err := d.client.GetOrderBookMeta(ctx, marketID)
	if err != nil {
		return err
	}

	switch {
	case meta.SizeDecimals == nil:
		return &domain.MetadataError{MarketID: marketID, Missing: "size_decimals"}
	case meta.PriceDecimals == nil:
		return &domain.MetadataError{MarketID: marketID, Missing: "price_decimals"}
	case meta.MinBaseAmount == nil:
		return &domain.MetadataError{MarketID: marketID, Missing: "min_base_amount"}
	}

	d.store(*meta)
	return nil
}

// Warm pre-populates decimal specs for a set of markets so the first trading
// action pays no metadata latency.
func (d *MarketDirectory) Warm(ctx context.Context, marketIDs []int) error {
	for _, id := range marketIDs {
		if err := d.Ensure(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// store writes a metadata record into both keyings. Writes are idempotent;
// an entry only gains the complete flag when all three spec fields arrived
// together.
func (d *MarketDirectory) store(meta domain.MarketMeta) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := d.byID[meta.ID]
	m.ID = meta.ID
	if meta.Symbol != "" {
		m.Symbol = meta.Symbol
		d.bySymbol[meta.Symbol] = meta.ID
	}
	if meta.SizeDecimals != nil && meta.PriceDecimals != nil && meta.MinBaseAmount != nil {
		m.SizeDecimals = *meta.SizeDecimals
		m.PriceDecimals = *meta.PriceDecimals
		m.MinBaseAmount = *meta.MinBaseAmount
		d.complete[meta.ID] = true
	}
	d.byID[meta.ID] = m
}

// Symbols returns all known symbols, for diagnostics.
func (d *MarketDirectory) Symbols() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	symbols := make([]string, 0, len(d.bySymbol))
	for s := range d.bySymbol {
		symbols = append(symbols, s)
	}
	return symbols
}
