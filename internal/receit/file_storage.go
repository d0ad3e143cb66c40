package receit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

type fileState struct {
	Owners map[string][]model.Receit `json:"owners"`
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

// FileStorage persists every owner's record list in one JSON document.
// It is owner-scoped; call ForOwner to get a scoped view sharing the
// same underlying file and lock.
type FileStorage struct {
	store   *fileStore
	ownerID string
}

func NewFileStorage(dataDir string) (*FileStorage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{
		store:   &fileStore{path: filepath.Join(dataDir, "receits.json")},
		ownerID: "default",
	}, nil
}

func (f *FileStorage) ForOwner(ownerID string) *FileStorage {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		ownerID = "default"
	}
	return &FileStorage{store: f.store, ownerID: ownerID}
}

func (s *fileStore) readLocked() (fileState, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{Owners: map[string][]model.Receit{}}, nil
		}
		return fileState{}, err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return fileState{}, err
	}
	if loaded.Owners == nil {
		loaded.Owners = map[string][]model.Receit{}
	}
	return loaded, nil
}

func (s *fileStore) writeLocked(st fileState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (f *FileStorage) Load() ([]model.Receit, bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	st, err := f.store.readLocked()
	if err != nil {
		return nil, false, err
	}
	records, ok := st.Owners[f.ownerID]
	if !ok {
		return nil, false, nil
	}
	out := make([]model.Receit, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out, true, nil
}

func (f *FileStorage) Save(records []model.Receit) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	st, err := f.store.readLocked()
	if err != nil {
		return err
	}
	stored := make([]model.Receit, 0, len(records))
	for _, r := range records {
		stored = append(stored, r.Clone())
	}
	st.Owners[f.ownerID] = stored
	return f.store.writeLocked(st)
}
