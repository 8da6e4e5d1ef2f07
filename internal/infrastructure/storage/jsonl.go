package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vitos/lighter_connector/internal/domain"
)

// JSONLLedger appends one JSON line per executed order to a flat file. The
// file is opened per append so external log rotation never holds a handle.
type JSONLLedger struct {
	path  string
	venue string
	mu    sync.Mutex
}

var _ domain.TradeLedger = (*JSONLLedger)(nil)

func NewJSONLLedger(path, venue string) (*JSONLLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &JSONLLedger{path: path, venue: venue}, nil
}

type tradeEntry struct {
	Timestamp string  `json:"timestamp"`
	OrderID   string  `json:"order_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Type      string  `json:"type"`
	Size      float64 `json:"size"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	Estimated bool    `json:"estimated,omitempty"`
	Venue     string  `json:"dex"`
}

func (l *JSONLLedger) Append(_ context.Context, order *domain.Order) error {
	entry := tradeEntry{
		Timestamp: order.Timestamp.Format(time.RFC3339Nano),
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      string(order.Side),
		Type:      string(order.Type),
		Size:      order.Size,
		Price:     order.Price,
		Status:    string(order.Status),
		Estimated: order.Estimated,
		Venue:     l.venue,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}
