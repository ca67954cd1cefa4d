package dbx

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// ErrScopeClosed is returned when a Scope is used after Close.
var ErrScopeClosed = errors.New("dbx: scope is closed")

// Scope hands out a single pooled connection for the lifetime of one unit of
// work (typically an HTTP request). The connection is acquired on first use
// and returned to the pool by Close. A Scope that was never used never
// touches the pool.
type Scope struct {
	db     *sql.DB
	mu     sync.Mutex
	conn   *sql.Conn
	closed bool
}

// NewScope returns an idle scope over db.
func NewScope(db *sql.DB) *Scope {
	return &Scope{db: db}
}

func (s *Scope) acquire(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrScopeClosed
	}
	if s.conn == nil {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		s.conn = conn
	}
	return s.conn, nil
}

// Acquired reports whether the scope currently holds a connection.
func (s *Scope) Acquired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *Scope) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn.ExecContext(ctx, query, args...)
}

func (s *Scope) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn.QueryContext(ctx, query, args...)
}

// QueryRowContext cannot return an acquisition error directly, so on failure
// it runs the query on the pool instead; the caller still gets a usable row.
func (s *Scope) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	conn, err := s.acquire(ctx)
	if err != nil {
		return s.db.QueryRowContext(ctx, query, args...)
	}
	return conn.QueryRowContext(ctx, query, args...)
}

func (s *Scope) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn.BeginTx(ctx, opts)
}

// Close releases the connection, if any. It is safe to call more than once.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

type scopeKey struct{}

// WithScope returns a child context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the Scope bound to ctx, or fallback when there is none.
func FromContext(ctx context.Context, fallback Handle) Handle {
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok && s != nil {
		return s
	}
	return fallback
}
