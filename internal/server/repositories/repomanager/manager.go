package repomanager

import (
	"context"

	"github.com/dmitrijs2005/shipagency/internal/server/repositories/users"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/vessels"
)

// Database states reported by State.
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
	StateMemory       = "memory"
)

// Repositories vends the repositories bound to one handle (pool or transaction).
type Repositories interface {
	Users() users.Repository
	Vessels() vessels.Repository
}

// RepositoryManager owns the storage backend.
type RepositoryManager interface {
	Repositories
	// WithTx runs fn with repositories bound to a single transaction.
	// fn's error rolls the transaction back and is returned unchanged.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Ping(ctx context.Context) error
	State(ctx context.Context) string
	RunMigrations(ctx context.Context) error
	Close() error
}
