package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// EngineState is one persisted engine export. Data is the opaque
// versioned blob produced by the mastery engine; the store never
// parses it.
type EngineState struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Data      string
}

// SaveEngineState persists an exported engine blob under the next
// global sequence number.
func (s *Store) SaveEngineState(ctx context.Context, data string) (int64, error) {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return 0, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO engine_states (sequence, timestamp, data) VALUES (?, ?, ?)`,
		seq, time.Now().UTC().Format(time.RFC3339Nano), data,
	)
	if err != nil {
		return 0, fmt.Errorf("save engine state: %w", err)
	}
	return seq, nil
}

// LatestEngineState returns the most recently saved state, or nil if
// none exist.
func (s *Store) LatestEngineState(ctx context.Context) (*EngineState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, sequence, timestamp, data FROM engine_states
		 ORDER BY sequence DESC LIMIT 1`)

	var st EngineState
	var ts string
	err := row.Scan(&st.ID, &st.Sequence, &ts, &st.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest engine state: %w", err)
	}
	st.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parse state timestamp %q: %w", ts, err)
	}
	return &st, nil
}

// PruneEngineStates deletes all but the N most recent states.
func (s *Store) PruneEngineStates(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM engine_states WHERE id NOT IN (
		   SELECT id FROM engine_states ORDER BY sequence DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return fmt.Errorf("prune engine states: %w", err)
	}
	return nil
}
