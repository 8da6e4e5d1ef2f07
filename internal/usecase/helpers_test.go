package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/vitos/lighter_connector/internal/domain"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

// mockVenue is an in-memory VenueClient with call counting.
type mockVenue struct {
	mu sync.Mutex

	Metas     []domain.MarketMeta
	MetaByID  map[int]domain.MarketMeta
	Book      *domain.OrderBook
	BookErr   error
	Funding   []domain.FundingEntry
	Account   *domain.AccountState
	AccountErr error

	TxStatuses []txPollStep
	txIndex    int

	OrderBooksCalls int
	MetaCalls       int
	BookCalls       int
	AccountCalls    int
}

type txPollStep struct {
	Status *domain.TxStatus
	Found  bool
	Err    error
}

func (m *mockVenue) GetAccount(ctx context.Context, l1Address string) (*domain.AccountState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AccountCalls++
	if m.AccountErr != nil {
		return nil, m.AccountErr
	}
	if m.Account == nil {
		return &domain.AccountState{}, nil
	}
	return m.Account, nil
}

func (m *mockVenue) GetOrderBooks(ctx context.Context) ([]domain.MarketMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderBooksCalls++
	return m.Metas, nil
}

func (m *mockVenue) GetOrderBookMeta(ctx context.Context, marketID int) (*domain.MarketMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MetaCalls++
	meta, ok := m.MetaByID[marketID]
	if !ok {
		return nil, fmt.Errorf("no meta for market %d", marketID)
	}
	return &meta, nil
}

func (m *mockVenue) GetOrderBookOrders(ctx context.Context, marketID int, limit int) (*domain.OrderBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BookCalls++
	if m.BookErr != nil {
		return nil, m.BookErr
	}
	if m.Book == nil {
		return &domain.OrderBook{MarketID: marketID}, nil
	}
	return m.Book, nil
}

func (m *mockVenue) GetFundingRates(ctx context.Context) ([]domain.FundingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Funding, nil
}

func (m *mockVenue) GetTransaction(ctx context.Context, txHash string) (*domain.TxStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.TxStatuses) == 0 {
		return nil, false, nil
	}
	step := m.TxStatuses[m.txIndex]
	if m.txIndex < len(m.TxStatuses)-1 {
		m.txIndex++
	}
	return step.Status, step.Found, step.Err
}

// fullMeta builds a complete metadata record.
func fullMeta(id int, symbol string, sizeDecimals, priceDecimals int, minBase float64) domain.MarketMeta {
	return domain.MarketMeta{
		ID:            id,
		Symbol:        symbol,
		SizeDecimals:  intPtr(sizeDecimals),
		PriceDecimals: intPtr(priceDecimals),
		MinBaseAmount: floatPtr(minBase),
	}
}

// mockSigner records the last submission and returns a configured result.
type mockSigner struct {
	LastRequest    domain.SignRequest
	SubmitCalls    int
	Result         domain.SubmitResult
	Err            error
	LeverageCalls  int
	LastLeverage   int
	LastMarketID   int
	LeverageErr    error
}

func (s *mockSigner) SubmitMarketOrder(ctx context.Context, req domain.SignRequest) (domain.SubmitResult, error) {
	s.SubmitCalls++
	s.LastRequest = req
	if s.Err != nil {
		return domain.SubmitResult{}, s.Err
	}
	return s.Result, nil
}

func (s *mockSigner) UpdateLeverage(ctx context.Context, marketID int, leverage int) error {
	s.LeverageCalls++
	s.LastMarketID = marketID
	s.LastLeverage = leverage
	return s.LeverageErr
}

// mockLedger collects appended orders.
type mockLedger struct {
	Orders []*domain.Order
	Err    error
}

func (l *mockLedger) Append(ctx context.Context, order *domain.Order) error {
	if l.Err != nil {
		return l.Err
	}
	l.Orders = append(l.Orders, order)
	return nil
}
