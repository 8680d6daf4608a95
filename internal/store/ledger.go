// Package store provides the session trade ledger.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

// Ledger records orders and trade history in SQLite. The default DSN is
// in-memory, so the ledger lives and dies with the session; it exists
// for queryable history, not persistence.
type Ledger struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// MemoryDSN is the in-memory SQLite DSN used for session-scoped ledgers.
const MemoryDSN = "file::memory:?cache=shared"

// NewLedger opens a ledger at the given DSN. An empty DSN uses the
// in-memory database.
func NewLedger(dsn string) (*Ledger, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// A single connection keeps the shared in-memory database alive.
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return l, nil
}

func (l *Ledger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		strike REAL NOT NULL,
		option_type TEXT NOT NULL,
		action TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		order_type TEXT NOT NULL,
		status TEXT NOT NULL,
		placed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trade_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_date DATETIME NOT NULL,
		order_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		strike REAL NOT NULL,
		option_type TEXT NOT NULL,
		action TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		realized_pnl REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_orders_symbol ON orders(symbol);
	CREATE INDEX IF NOT EXISTS idx_history_symbol ON trade_history(symbol);
	CREATE INDEX IF NOT EXISTS idx_history_date ON trade_history(trade_date);
	`
	_, err := l.db.Exec(schema)
	return err
}

// SaveOrder inserts or updates an order row.
func (l *Ledger) SaveOrder(ctx context.Context, order *models.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return apperrors.ErrLedgerClosed
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO orders (order_id, symbol, strike, option_type, action, quantity, price, order_type, status, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_id) DO UPDATE SET status = excluded.status, price = excluded.price`,
		order.OrderID, order.Symbol, order.Strike, string(order.OptionType),
		string(order.Action), order.Quantity, order.Price, string(order.OrderType),
		string(order.Status), order.PlacedAt)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
	}
	return nil
}

// SaveTrade appends a trade history row.
func (l *Ledger) SaveTrade(ctx context.Context, entry *models.TradeHistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return apperrors.ErrLedgerClosed
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO trade_history (trade_date, order_id, symbol, strike, option_type, action, quantity, price, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Date, entry.OrderID, entry.Symbol, entry.Strike, string(entry.OptionType),
		string(entry.Action), entry.Quantity, entry.Price, entry.RealizedPnL)
	if err != nil {
		return fmt.Errorf("failed to save trade for %s: %w", entry.OrderID, err)
	}
	return nil
}

// TradeFilter narrows a trade history query. Zero values match everything.
type TradeFilter struct {
	Symbol string
	Since  time.Time
	Until  time.Time
}

// Trades returns trade history rows matching the filter, newest first.
func (l *Ledger) Trades(ctx context.Context, filter TradeFilter) ([]models.TradeHistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, apperrors.ErrLedgerClosed
	}

	query := `SELECT trade_date, order_id, symbol, strike, option_type, action, quantity, price, realized_pnl
		FROM trade_history WHERE 1=1`
	var args []interface{}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.Since.IsZero() {
		query += " AND trade_date >= ?"
		args = append(args, filter.Since)
	}
	if !filter.Until.IsZero() {
		query += " AND trade_date <= ?"
		args = append(args, filter.Until)
	}
	query += " ORDER BY trade_date DESC, id DESC"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade history: %w", err)
	}
	defer rows.Close()

	var entries []models.TradeHistoryEntry
	for rows.Next() {
		var e models.TradeHistoryEntry
		var optType, action string
		if err := rows.Scan(&e.Date, &e.OrderID, &e.Symbol, &e.Strike, &optType,
			&action, &e.Quantity, &e.Price, &e.RealizedPnL); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		e.OptionType = models.OptionType(optType)
		e.Action = models.OrderSide(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RealizedPnL sums realized P&L across trade history, optionally per
// symbol.
func (l *Ledger) RealizedPnL(ctx context.Context, symbol string) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, apperrors.ErrLedgerClosed
	}

	query := `SELECT COALESCE(SUM(realized_pnl), 0) FROM trade_history`
	var args []interface{}
	if symbol != "" {
		query += " WHERE symbol = ?"
		args = append(args, symbol)
	}

	var total float64
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum realized pnl: %w", err)
	}
	return total, nil
}

// OrderCounts returns the number of orders per status.
func (l *Ledger) OrderCounts(ctx context.Context) (map[models.OrderStatus]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, apperrors.ErrLedgerClosed
	}

	rows, err := l.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		counts[models.OrderStatus(status)] = n
	}
	return counts, rows.Err()
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}
