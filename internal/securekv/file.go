package securekv

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/docusafe/docusafe/internal/cryptox"
	"github.com/docusafe/docusafe/internal/logging"
)

const (
	keyFileName   = "device.key"
	storeFileName = "secure.bin"
	deviceKeyLen  = 32
)

// FileStore is a file-backed Store. The whole key-value map is serialized
// as JSON and sealed with AES-GCM; a corrupt or undecryptable payload is
// treated as empty rather than failing the caller.
type FileStore struct {
	mu   sync.Mutex
	dir  string
	key  []byte
	data map[string]string
	log  logging.Logger
}

// NewFileStore opens (or initializes) the secure store under dir. The
// device key is created on first use with 0600 permissions.
func NewFileStore(dir string, log logging.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating secure store dir: %w", err)
	}

	key, err := loadOrCreateKey(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}

	s := &FileStore{dir: dir, key: key, log: log}
	s.data = s.readAll()
	return s, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) == deviceKeyLen {
		return key, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading device key: %w", err)
	}

	key = make([]byte, deviceKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating device key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("writing device key: %w", err)
	}
	return key, nil
}

// readAll loads and unseals the persisted map. Any failure degrades to an
// empty map so a corrupt payload never locks the user out of defaults.
func (s *FileStore) readAll() map[string]string {
	path := filepath.Join(s.dir, storeFileName)

	sealed, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}
	}
	if err != nil {
		s.log.Warn(context.Background(), "failed to read secure store, starting empty", "error", err)
		return map[string]string{}
	}

	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		s.log.Warn(context.Background(), "failed to unseal secure store, starting empty", "error", err)
		return map[string]string{}
	}

	var data map[string]string
	if err := json.Unmarshal(plain, &data); err != nil {
		s.log.Warn(context.Background(), "corrupt secure store payload, starting empty", "error", err)
		return map[string]string{}
	}
	return data
}

// persist seals and writes the current map. The write goes to a temp file
// first and is renamed over the old payload, so the previous state stays
// readable until the new one fully replaces it.
func (s *FileStore) persist() error {
	plain, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding secure store: %w", err)
	}

	sealed, err := cryptox.Seal(plain, s.key)
	if err != nil {
		return fmt.Errorf("sealing secure store: %w", err)
	}

	path := filepath.Join(s.dir, storeFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("writing secure store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing secure store: %w", err)
	}
	return nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[key]
	s.data[key] = value
	if err := s.persist(); err != nil {
		// roll back the in-memory map so state matches disk
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	prev := s.data[key]
	delete(s.data, key)
	if err := s.persist(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}
