package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/connexion/internal/queue"
	"github.com/jonathan/connexion/internal/types"
)

// QueueStore keeps the candidate queue in the candidate_queue table, ordered
// by position.
type QueueStore struct {
	db *DB
}

// NewQueueStore creates a queue store on db.
func NewQueueStore(db *DB) *QueueStore {
	return &QueueStore{db: db}
}

// Load returns the queue in persisted order.
func (s *QueueStore) Load(ctx context.Context) ([]types.CandidateProfile, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT title, link, snippet FROM candidate_queue ORDER BY position ASC`)
	if err != nil {
		return nil, &queue.StoreError{Message: "failed to load queue", Cause: err}
	}
	defer rows.Close()

	var profiles []types.CandidateProfile
	for rows.Next() {
		var p types.CandidateProfile
		if err := rows.Scan(&p.Title, &p.URL, &p.Snippet); err != nil {
			return nil, &queue.StoreError{Message: "failed to scan queue row", Cause: err}
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &queue.StoreError{Message: "failed to read queue", Cause: err}
	}
	return profiles, nil
}

// Save replaces the whole queue in one transaction.
func (s *QueueStore) Save(ctx context.Context, profiles []types.CandidateProfile) error {
	profiles = queue.Dedupe(profiles)
	err := pgx.BeginFunc(ctx, s.db.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM candidate_queue`); err != nil {
			return fmt.Errorf("failed to clear queue: %w", err)
		}
		rows := make([][]any, len(profiles))
		for i, p := range profiles {
			rows[i] = []any{i, p.Title, p.URL, p.Snippet}
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"candidate_queue"},
			[]string{"position", "title", "link", "snippet"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert queue: %w", err)
		}
		return nil
	})
	if err != nil {
		return &queue.StoreError{Message: "failed to save queue", Cause: err}
	}
	return nil
}

var _ queue.Store = (*QueueStore)(nil)
