package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonathan/connexion/internal/schemas"
	"github.com/jonathan/connexion/internal/types"
	schemafiles "github.com/jonathan/connexion/schemas"
)

// Document is the on-disk queue format.
type Document struct {
	Profiles []types.CandidateProfile `json:"profiles"`
}

// FileStore keeps the queue in a JSON document.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the queue. A missing file is an empty queue; a document that
// fails schema validation is an error, so a damaged queue is never silently
// overwritten.
func (s *FileStore) Load(_ context.Context) ([]types.CandidateProfile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Message: "failed to read " + s.path, Cause: err}
	}

	if err := schemas.ValidateJSONString(schemafiles.Queue, string(data)); err != nil {
		return nil, &StoreError{Message: "invalid queue document " + s.path, Cause: err}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StoreError{Message: "failed to parse " + s.path, Cause: err}
	}
	return doc.Profiles, nil
}

// Save atomically replaces the queue document.
func (s *FileStore) Save(_ context.Context, profiles []types.CandidateProfile) error {
	if profiles == nil {
		profiles = []types.CandidateProfile{}
	}
	data, err := json.MarshalIndent(Document{Profiles: profiles}, "", "  ")
	if err != nil {
		return &StoreError{Message: "failed to encode queue", Cause: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StoreError{Message: "failed to create directory " + dir, Cause: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StoreError{Message: "failed to create temp file", Cause: err}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StoreError{Message: "failed to write queue", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreError{Message: "failed to close queue", Cause: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &StoreError{Message: "failed to replace " + s.path, Cause: err}
	}
	return nil
}
