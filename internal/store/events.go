package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/skilltrace/internal/event"
)

// AppendPracticeEvent records one practice event under the next global
// sequence number. Events are never updated or reordered.
func (s *Store) AppendPracticeEvent(ctx context.Context, ev event.PracticeEvent) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	correct := 0
	if ev.Correct {
		correct = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO practice_events
		 (id, sequence, learner_id, session_id, skill_id, item_id, correct, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, seq, ev.LearnerID, ev.SessionID, ev.SkillID, ev.ItemID,
		correct, ev.LatencyMs, ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append practice event: %w", err)
	}
	return nil
}

// PracticeEvents returns a learner's events ordered by sequence, or
// every learner's events when learnerID is empty.
func (s *Store) PracticeEvents(ctx context.Context, learnerID string) ([]event.PracticeEvent, error) {
	query := `SELECT id, learner_id, session_id, skill_id, item_id, correct, latency_ms, timestamp
	          FROM practice_events`
	args := []any{}
	if learnerID != "" {
		query += ` WHERE learner_id = ?`
		args = append(args, learnerID)
	}
	query += ` ORDER BY sequence ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice events: %w", err)
	}
	defer rows.Close()

	var events []event.PracticeEvent
	for rows.Next() {
		var ev event.PracticeEvent
		var correct int
		var ts string
		if err := rows.Scan(&ev.ID, &ev.LearnerID, &ev.SessionID, &ev.SkillID,
			&ev.ItemID, &correct, &ev.LatencyMs, &ts); err != nil {
			return nil, fmt.Errorf("scan practice event: %w", err)
		}
		ev.Correct = correct != 0
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp %q: %w", ts, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EventCount returns the total number of events in the log.
func (s *Store) EventCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM practice_events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count practice events: %w", err)
	}
	return n, nil
}
