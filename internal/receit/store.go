package receit

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

var (
	ErrNotFound    = errors.New("receit not found")
	ErrDuplicateID = errors.New("receit id already exists")
)

// Storage is the persistence contract the store depends on. found=false
// from Load means no state was ever persisted for this owner.
type Storage interface {
	Load() (records []model.Receit, found bool, err error)
	Save(records []model.Receit) error
}

// Store owns the canonical, insertion-ordered record list for one owner
// and is the only mutation surface. Every mutation is applied in memory
// first and then persisted; a persistence failure is logged and never
// rolls back the in-memory state, which stays authoritative for the
// session.
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	logger   *log.Logger
	ownerID  string
	seeds    []string
	onChange func()

	receits []model.Receit
	loading bool
}

type StoreOptions struct {
	OwnerID        string
	SeedCategories []string
	Logger         *log.Logger
	// OnChange runs after every committed mutation, outside the store lock.
	OnChange func()
}

func NewStore(storage Storage, opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.OwnerID == "" {
		opts.OwnerID = "default"
	}
	return &Store{
		storage:  storage,
		logger:   logger.With("component", "receit-store", "owner", opts.OwnerID),
		ownerID:  opts.OwnerID,
		seeds:    opts.SeedCategories,
		onChange: opts.OnChange,
		receits:  []model.Receit{},
		loading:  true,
	}
}

// Load rehydrates the store from storage. It must complete before the
// first read so consumers never see seed data silently swapped for
// persisted data. A read failure degrades to the seed dataset; the app
// stays usable in memory.
func (s *Store) Load() {
	records, found, err := s.storage.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err != nil:
		s.logger.Error("loading persisted receits failed, falling back to seed data", "err", err)
		s.receits = seedReceits(s.ownerID)
	case !found:
		s.receits = seedReceits(s.ownerID)
	default:
		s.receits = make([]model.Receit, 0, len(records))
		for _, r := range records {
			s.receits = append(s.receits, r.Clone())
		}
	}
	s.loading = false
}

// Loading reports whether the initial rehydration is still pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Create assigns a fresh id when none is supplied and appends the record.
// Externally supplied ids must not collide with an existing record.
func (s *Store) Create(rec model.Receit) (model.Receit, error) {
	s.mu.Lock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if s.findLocked(rec.ID) >= 0 {
		s.mu.Unlock()
		return model.Receit{}, ErrDuplicateID
	}
	if rec.OwnerID == "" {
		rec.OwnerID = s.ownerID
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Normalize()

	s.receits = append(s.receits, rec.Clone())
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return rec, nil
}

// Update replaces the record whose id matches rec.ID in place, keeping
// its position so display order stays stable. Id, owner and creation time
// are immutable and carried over from the stored record.
func (s *Store) Update(rec model.Receit) (model.Receit, error) {
	s.mu.Lock()
	i := s.findLocked(rec.ID)
	if i < 0 {
		s.mu.Unlock()
		return model.Receit{}, ErrNotFound
	}
	old := s.receits[i]
	rec.OwnerID = old.OwnerID
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = time.Now()
	rec.Normalize()

	s.receits[i] = rec.Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return rec, nil
}

// AddNote appends a free-text annotation. Notes are append-only.
func (s *Store) AddNote(id, note string) (model.Receit, error) {
	s.mu.Lock()
	i := s.findLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Receit{}, ErrNotFound
	}
	s.receits[i].Notes = append(s.receits[i].Notes, note)
	s.receits[i].UpdatedAt = time.Now()
	out := s.receits[i].Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return out, nil
}

// Delete removes the record with the given id. With cascadeLinked the
// deletion set grows to include every record the target links to, one
// level deep. In both modes every surviving record is stripped of ids in
// the deletion set, so no dangling reference to a deleted record remains.
// Deleting an unknown id is a no-op.
func (s *Store) Delete(id string, cascadeLinked bool) {
	s.mu.Lock()
	i := s.findLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	doomed := map[string]bool{id: true}
	if cascadeLinked {
		for _, linked := range s.receits[i].LinkedReceits {
			doomed[linked] = true
		}
	}

	kept := s.receits[:0]
	for _, r := range s.receits {
		if doomed[r.ID] {
			continue
		}
		if stripLinks(&r, doomed) {
			r.UpdatedAt = time.Now()
		}
		kept = append(kept, r)
	}
	s.receits = kept
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// GetByID never errors; a miss means the caller holds a stale reference
// and should omit it, not fail.
func (s *Store) GetByID(id string) (model.Receit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.findLocked(id); i >= 0 {
		return s.receits[i].Clone(), true
	}
	return model.Receit{}, false
}

// ListAll returns the records in insertion order. The To-Do/Done split is
// a read-side projection for display, not stored state.
func (s *Store) ListAll() []model.Receit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Receit, 0, len(s.receits))
	for _, r := range s.receits {
		out = append(out, r.Clone())
	}
	return out
}

// ResolveLinks resolves a record's one-hop links, silently dropping ids
// with no matching record. Resolution never walks further, so cycles in
// the link relation are never traversed.
func (s *Store) ResolveLinks(id string) []model.Receit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Receit{}
	i := s.findLocked(id)
	if i < 0 {
		return out
	}
	for _, linked := range s.receits[i].LinkedReceits {
		if j := s.findLocked(linked); j >= 0 {
			out = append(out, s.receits[j].Clone())
		}
	}
	return out
}

// DerivedCategories is the set of categories present in the store, plus
// the fixed seed categories that stay selectable even with no matching
// records. Sorted for stable output.
func (s *Store) DerivedCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := map[string]bool{}
	for _, c := range s.seeds {
		set[c] = true
	}
	for _, r := range s.receits {
		set[r.Category] = true
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *Store) findLocked(id string) int {
	for i := range s.receits {
		if s.receits[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() {
	if err := s.storage.Save(s.receits); err != nil {
		// The in-memory mutation already happened and stays authoritative;
		// persistence failures degrade the session to in-memory only.
		s.logger.Error("persisting receits failed", "err", err, "records", len(s.receits))
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func stripLinks(r *model.Receit, doomed map[string]bool) bool {
	kept := r.LinkedReceits[:0]
	changed := false
	for _, id := range r.LinkedReceits {
		if doomed[id] {
			changed = true
			continue
		}
		kept = append(kept, id)
	}
	r.LinkedReceits = kept
	return changed
}
