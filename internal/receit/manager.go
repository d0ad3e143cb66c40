package receit

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Manager hands out one Store per owner, constructed lazily over an
// owner-scoped storage view. It is built once at application start and
// passed by reference to every consumer; there is no ambient global
// store.
type Manager struct {
	mu         sync.Mutex
	newStorage func(ownerID string) Storage
	logger     *log.Logger
	seeds      []string
	onChange   func(ownerID string)
	stores     map[string]*Store
}

type ManagerOptions struct {
	SeedCategories []string
	Logger         *log.Logger
	// OnChange runs after any committed mutation in any owner's store.
	OnChange func(ownerID string)
}

func NewManager(newStorage func(ownerID string) Storage, opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seeds := opts.SeedCategories
	if seeds == nil {
		seeds = DefaultSeedCategories
	}
	return &Manager{
		newStorage: newStorage,
		logger:     logger,
		seeds:      seeds,
		onChange:   opts.OnChange,
		stores:     map[string]*Store{},
	}
}

// ForOwner returns the owner's store, rehydrating it on first access.
// The store is fully loaded before it is returned, so callers always see
// a definitive initial state.
func (m *Manager) ForOwner(ownerID string) *Store {
	if ownerID == "" {
		ownerID = "default"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.stores[ownerID]; ok {
		return st
	}

	var onChange func()
	if m.onChange != nil {
		owner := ownerID
		onChange = func() { m.onChange(owner) }
	}
	st := NewStore(m.newStorage(ownerID), StoreOptions{
		OwnerID:        ownerID,
		SeedCategories: m.seeds,
		Logger:         m.logger,
		OnChange:       onChange,
	})
	st.Load()
	m.stores[ownerID] = st
	return st
}
