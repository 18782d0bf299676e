package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Lease hands out one dedicated connection for the lifetime of a request.
// The connection is taken from the pool on the first Get and returned by Release.
type Lease struct {
	db *sqlx.DB

	mu   sync.Mutex
	conn *sqlx.Conn
}

// NewLease creates an unacquired lease over db.
func NewLease(db *sqlx.DB) *Lease {
	return &Lease{db: db}
}

// Get returns the leased connection, acquiring it on first use.
func (l *Lease) Get(ctx context.Context) (Querier, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return l.conn, nil
	}
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	l.conn = conn
	return conn, nil
}

// Acquired reports whether Get has taken a connection that is not yet released.
func (l *Lease) Acquired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil
}

// Release returns the connection to the pool. Calling it on an unacquired
// or already released lease is a no-op.
func (l *Lease) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}
