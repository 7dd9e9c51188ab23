package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists a domain as an ordered list of strings.
type Store interface {
	Load(ctx context.Context, d Domain) ([]string, error)
	// Save replaces the stored domain with keys.
	Save(ctx context.Context, d Domain, keys []string) error
}

// StoreError reports a failure reading or writing persisted index data.
type StoreError struct {
	Domain  Domain
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("index store error (%s): %s: %v", e.Domain, e.Message, e.Cause)
	}
	return fmt.Sprintf("index store error (%s): %s", e.Domain, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// FileStore keeps each domain in its own JSON array file.
type FileStore struct {
	paths map[Domain]string
}

// NewFileStore creates a FileStore writing profiles and queries to the given paths.
func NewFileStore(profilesPath, queriesPath string) *FileStore {
	return &FileStore{
		paths: map[Domain]string{
			Profiles: profilesPath,
			Queries:  queriesPath,
		},
	}
}

// Load reads the domain file. A missing file is an empty domain.
func (s *FileStore) Load(_ context.Context, d Domain) ([]string, error) {
	path, err := s.path(d)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Domain: d, Message: "failed to read " + path, Cause: err}
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, &StoreError{Domain: d, Message: "failed to parse " + path, Cause: err}
	}
	return keys, nil
}

// Save writes the domain through a temp file and rename, so a crash mid-write
// leaves the previous copy intact.
func (s *FileStore) Save(_ context.Context, d Domain, keys []string) error {
	path, err := s.path(d)
	if err != nil {
		return err
	}
	if keys == nil {
		keys = []string{}
	}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return &StoreError{Domain: d, Message: "failed to encode keys", Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StoreError{Domain: d, Message: "failed to create directory", Cause: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return &StoreError{Domain: d, Message: "failed to create temp file", Cause: err}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StoreError{Domain: d, Message: "failed to write temp file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreError{Domain: d, Message: "failed to close temp file", Cause: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &StoreError{Domain: d, Message: "failed to replace " + path, Cause: err}
	}
	return nil
}

func (s *FileStore) path(d Domain) (string, error) {
	path, ok := s.paths[d]
	if !ok || path == "" {
		return "", &StoreError{Domain: d, Message: "no path configured"}
	}
	return path, nil
}
