package page

import (
	"context"
	"errors"
)

// StaticSession serves fields from a fixed snapshot, for classifying a saved
// profile page without a browser. It cannot navigate or act.
type StaticSession struct {
	snap *Snapshot
}

// NewStaticSession wraps snap.
func NewStaticSession(snap *Snapshot) *StaticSession {
	return &StaticSession{snap: snap}
}

var errStatic = errors.New("static session cannot navigate")

// Login always fails.
func (s *StaticSession) Login(context.Context, string, string) (bool, error) {
	return false, nil
}

// Load is unsupported.
func (s *StaticSession) Load(context.Context, string) error {
	return &FaultError{Op: "load", Message: "unsupported", Cause: errStatic}
}

// ReadText reads from the snapshot.
func (s *StaticSession) ReadText(_ context.Context, field Field) (string, bool, error) {
	text, ok := s.snap.Text(field)
	return text, ok, nil
}

// Perform reports every action as unavailable.
func (s *StaticSession) Perform(context.Context, Action, string) (bool, error) {
	return false, nil
}

// Close is a no-op.
func (s *StaticSession) Close() error {
	return nil
}
