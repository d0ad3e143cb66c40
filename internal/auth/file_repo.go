package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type state struct {
	UsersByID            map[string]User      `json:"usersById"`
	UserIDByEmail        map[string]string    `json:"userIdByEmail"`
	CodesByEmail         map[string]LoginCode `json:"codesByEmail"`
	SessionsByID         map[string]Session   `json:"sessionsById"`
	SessionIDByTokenHash map[string]string    `json:"sessionIdByTokenHash"`
}

func newState() state {
	return state{
		UsersByID:            map[string]User{},
		UserIDByEmail:        map[string]string{},
		CodesByEmail:         map[string]LoginCode{},
		SessionsByID:         map[string]Session{},
		SessionIDByTokenHash: map[string]string{},
	}
}

// FileRepo persists users, pending login codes and sessions in a single
// JSON file under the data directory.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    state
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "auth.json"),
		s:    newState(),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.s = newState()
			return nil
		}
		return err
	}
	var loaded state
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	fresh := newState()
	if loaded.UsersByID != nil {
		fresh.UsersByID = loaded.UsersByID
	}
	if loaded.UserIDByEmail != nil {
		fresh.UserIDByEmail = loaded.UserIDByEmail
	}
	if loaded.CodesByEmail != nil {
		fresh.CodesByEmail = loaded.CodesByEmail
	}
	if loaded.SessionsByID != nil {
		fresh.SessionsByID = loaded.SessionsByID
	}
	if loaded.SessionIDByTokenHash != nil {
		fresh.SessionIDByTokenHash = loaded.SessionIDByTokenHash
	}
	r.s = fresh
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

func (r *FileRepo) GetOrCreateUser(email string, now time.Time) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.s.UserIDByEmail[email]; ok {
		if u, ok := r.s.UsersByID[id]; ok {
			return u, nil
		}
	}

	u := User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
	}
	r.s.UsersByID[u.ID] = u
	r.s.UserIDByEmail[email] = u.ID
	if err := r.saveLocked(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *FileRepo) GetUserByID(id string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.s.UsersByID[id]
	return u, ok
}

func (r *FileRepo) PutLoginCode(c LoginCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.CodesByEmail[c.Email] = c
	return r.saveLocked()
}

func (r *FileRepo) GetLoginCode(email string) (LoginCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.s.CodesByEmail[email]
	return c, ok
}

func (r *FileRepo) DeleteLoginCode(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.s.CodesByEmail, email)
	return r.saveLocked()
}

func (r *FileRepo) CreateSession(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.SessionsByID[s.ID] = s
	r.s.SessionIDByTokenHash[s.TokenHash] = s.ID
	return r.saveLocked()
}

func (r *FileRepo) GetSessionByTokenHash(tokenHash string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.s.SessionIDByTokenHash[tokenHash]
	if !ok {
		return Session{}, false
	}
	s, ok := r.s.SessionsByID[id]
	return s, ok
}

func (r *FileRepo) DeleteSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.s.SessionsByID[sessionID]
	if !ok {
		return nil
	}
	delete(r.s.SessionsByID, sessionID)
	delete(r.s.SessionIDByTokenHash, s.TokenHash)
	return r.saveLocked()
}

func (r *FileRepo) DeleteSessionByTokenHash(tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.s.SessionIDByTokenHash[tokenHash]
	if !ok {
		return nil
	}
	delete(r.s.SessionIDByTokenHash, tokenHash)
	delete(r.s.SessionsByID, id)
	return r.saveLocked()
}

func (r *FileRepo) TouchSession(sessionID string, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.s.SessionsByID[sessionID]
	if !ok {
		return nil
	}
	s.LastSeen = lastSeen
	r.s.SessionsByID[sessionID] = s
	return r.saveLocked()
}
