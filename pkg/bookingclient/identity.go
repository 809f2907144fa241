package bookingclient

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IdentityStore persists the reservation identity across runs, the way
// a browser keeps it in localStorage. Implementations must be safe for
// concurrent use.
type IdentityStore interface {
	Load() (string, error)
	Save(id string) error
}

// FileIdentityStore keeps the identity in a single file.
type FileIdentityStore struct {
	path string
	mu   sync.Mutex
}

func NewFileIdentityStore(path string) *FileIdentityStore {
	return &FileIdentityStore{path: path}
}

// DefaultIdentityPath returns the conventional identity file location
// under the user config directory.
func DefaultIdentityPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "tourly", "client-id"), nil
}

func (s *FileIdentityStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read identity file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileIdentityStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o600); err != nil {
		return fmt.Errorf("write identity file: %w", err)
	}
	return nil
}

// MemoryIdentityStore holds the identity in memory, for tests and
// throwaway sessions.
type MemoryIdentityStore struct {
	mu sync.Mutex
	id string
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

func (s *MemoryIdentityStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *MemoryIdentityStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}

// EnsureIdentity loads the stored identity or mints and persists a new
// random one. Identities are plain UUIDs, never derived from anything.
func EnsureIdentity(store IdentityStore) (string, error) {
	id, err := store.Load()
	if err != nil {
		return "", err
	}
	if id != "" {
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
		// Corrupt value: replace it
	}

	id = uuid.NewString()
	if err := store.Save(id); err != nil {
		return "", err
	}
	return id, nil
}
