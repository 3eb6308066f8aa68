package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/shipagency/internal/server/repositories/memory"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/users"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/vessels"
)

// MemoryRepositoryManager serves repositories from a memory.Store.
// Transactions are serialised but writes are applied immediately, so callers
// must validate before writing (the services do).
type MemoryRepositoryManager struct {
	store *memory.Store
	txMu  sync.Mutex
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) Users() users.Repository     { return m.store.Users() }
func (m *MemoryRepositoryManager) Vessels() vessels.Repository { return m.store.Vessels() }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryRepositoryManager) State(ctx context.Context) string { return StateMemory }

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
