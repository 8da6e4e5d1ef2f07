package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vitos/lighter_connector/internal/domain"
)

// SQLiteLedger stores one row per executed order. Rows are append-only; a
// failed order never touches entries already written.
type SQLiteLedger struct {
	db    *sql.DB
	venue string
}

var _ domain.TradeLedger = (*SQLiteLedger)(nil)

func NewSQLiteLedger(dbPath, venue string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	ledger := &SQLiteLedger{db: db, venue: venue}
	if err := ledger.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

func (s *SQLiteLedger) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		order_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		type TEXT NOT NULL,
		size REAL NOT NULL,
		price REAL NOT NULL,
		status TEXT NOT NULL,
		estimated BOOLEAN NOT NULL DEFAULT 0,
		venue TEXT NOT NULL
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to init trades schema: %w", err)
	}
	return nil
}

func (s *SQLiteLedger) Append(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO trades (timestamp, order_id, symbol, side, type, size, price, status, estimated, venue)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		order.Timestamp, order.ID, order.Symbol, string(order.Side), string(order.Type),
		order.Size, order.Price, string(order.Status), order.Estimated, s.venue)
	return err
}

// ListTrades returns the most recent ledger entries, newest first.
func (s *SQLiteLedger) ListTrades(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `SELECT order_id, symbol, side, type, size, price, status, estimated, timestamp
			  FROM trades ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var o domain.Order
		var side, typ, status string
		if err := rows.Scan(&o.ID, &o.Symbol, &side, &typ, &o.Size, &o.Price, &status, &o.Estimated, &o.Timestamp); err != nil {
			return nil, err
		}
		o.Side = domain.Side(side)
		o.Type = domain.OrderType(typ)
		o.Status = domain.OrderStatus(status)
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}
