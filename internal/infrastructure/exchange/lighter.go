package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

const apiPrefix = "/api/v1"

// LighterClient is the HTTP adapter for the Lighter venue's read-only API.
type LighterClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

var _ domain.VenueClient = (*LighterClient)(nil)

func NewLighterClient(baseURL string, logger *zap.Logger) *LighterClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LighterClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (c *LighterClient) get(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+path, nil)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.TransportError{
			Op:   op,
			Code: resp.StatusCode,
			Err:  fmt.Errorf("venue error: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *LighterClient) GetAccount(ctx context.Context, l1Address string) (*domain.AccountState, error) {
	var raw accountResponse
	path := "/account?by=l1_address&value=" + url.QueryEscape(l1Address)
	if err := c.get(ctx, "get_account", path, &raw); err != nil {
		return nil, err
	}
	if len(raw.Accounts) == 0 {
		return nil, &domain.TransportError{
			Op:  "get_account",
			Err: fmt.Errorf("no account found for l1 address %s", l1Address),
		}
	}

	acct := raw.Accounts[0]
	state := &domain.AccountState{AccountIndex: acct.AccountIndex}
	for _, p := range acct.Positions {
		state.Positions = append(state.Positions, domain.AccountPosition{
			MarketID:              p.MarketID,
			Symbol:                p.Symbol,
			Sign:                  p.Sign,
			Size:                  float64(p.Position),
			AvgEntryPrice:         float64(p.AvgEntryPrice),
			UnrealizedPnL:         float64(p.UnrealizedPnL),
			InitialMarginFraction: float64(p.InitialMarginFraction),
		})
	}
	return state, nil
}

func (c *LighterClient) GetOrderBooks(ctx context.Context) ([]domain.MarketMeta, error) {
	var raw orderBooksResponse
	if err := c.get(ctx, "get_order_books", "/orderBooks", &raw); err != nil {
		return nil, err
	}

	entries := raw.OrderBooks
	if len(entries) == 0 {
		entries = raw.Orderbooks
	}

	metas := make([]domain.MarketMeta, 0, len(entries))
	for _, e := range entries {
		id, ok := e.id()
		if !ok || e.Symbol == "" {
			continue
		}
		meta := domain.MarketMeta{
			ID:            id,
			Symbol:        e.Symbol,
			SizeDecimals:  e.sizeDecimals(),
			PriceDecimals: e.priceDecimals(),
		}
		if e.MinBaseAmount != nil {
			v := float64(*e.MinBaseAmount)
			meta.MinBaseAmount = &v
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func (c *LighterClient) GetOrderBookMeta(ctx context.Context, marketID int) (*domain.MarketMeta, error) {
	var raw orderBookMeta
	path := "/orderbook-meta?market_id=" + strconv.Itoa(marketID)
	if err := c.get(ctx, "get_order_book_meta", path, &raw); err != nil {
		return nil, err
	}

	meta := &domain.MarketMeta{
		ID:            marketID,
		Symbol:        raw.Symbol,
		SizeDecimals:  raw.sizeDecimals(),
		PriceDecimals: raw.priceDecimals(),
	}
	if raw.MinBaseAmount != nil {
		v := float64(*raw.MinBaseAmount)
		meta.MinBaseAmount = &v
	}
	return meta, nil
}

func (c *LighterClient) GetOrderBookOrders(ctx context.Context, marketID int, limit int) (*domain.OrderBook, error) {
	if limit <= 0 {
		limit = 10
	}
	var raw orderBookOrdersResponse
	path := fmt.Sprintf("/orderBookOrders?market_id=%d&limit=%d", marketID, limit)
	if err := c.get(ctx, "get_order_book_orders", path, &raw); err != nil {
		return nil, err
	}

	book := &domain.OrderBook{MarketID: marketID}
	for _, b := range raw.Bids {
		book.Bids = append(book.Bids, domain.OrderBookEntry{
			Price: float64(b.Price),
			Size:  float64(b.RemainingBaseAmount),
		})
	}
	for _, a := range raw.Asks {
		book.Asks = append(book.Asks, domain.OrderBookEntry{
			Price: float64(a.Price),
			Size:  float64(a.RemainingBaseAmount),
		})
	}
	return book, nil
}

func (c *LighterClient) GetFundingRates(ctx context.Context) ([]domain.FundingEntry, error) {
	var raw fundingRatesResponse
	if err := c.get(ctx, "get_funding_rates", "/funding-rates", &raw); err != nil {
		return nil, err
	}

	entries := make([]domain.FundingEntry, 0, len(raw.FundingRates))
	for _, r := range raw.FundingRates {
		entries = append(entries, domain.FundingEntry{
			MarketID: r.MarketID,
			Exchange: r.Exchange,
			Rate:     float64(r.Rate),
		})
	}
	return entries, nil
}

// GetTransaction reports found=false for a hash the venue has not indexed
// yet; that is a normal state shortly after broadcast, not an error.
func (c *LighterClient) GetTransaction(ctx context.Context, txHash string) (*domain.TxStatus, bool, error) {
	var raw txResponse
	path := "/tx?by=hash&value=" + url.QueryEscape(txHash)
	err := c.get(ctx, "get_transaction", path, &raw)
	if err != nil {
		var terr *domain.TransportError
		if errors.As(err, &terr) && terr.Code == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &domain.TxStatus{
		Status:      raw.Status,
		EventInfo:   raw.EventInfo,
		BlockHeight: raw.BlockHeight,
		ExecutedAt:  raw.ExecutedAt,
	}, true, nil
}
