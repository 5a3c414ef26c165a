package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// #region schema

const aiCallLogSchema = `
CREATE TABLE IF NOT EXISTS ai_call_log (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    subject_id   TEXT NOT NULL,
    message_type TEXT NOT NULL,
    created_at   TEXT NOT NULL
);
`

const aiCallLogIndex = `
CREATE INDEX IF NOT EXISTS idx_ai_call_log_subject_created
ON ai_call_log(subject_id, created_at);
`

// timeLayout is fixed-width (no trimmed fractional zeros), so lexicographic
// order on created_at equals time order. RFC3339Nano would sort "...00Z"
// after "...00.5Z" within a shared second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #endregion schema

// #region ledger-struct

// Ledger is the append-only audit log of expensive-call grants. It is the
// only state the engine writes on the decision path; everything else is
// read-only input.
type Ledger struct {
	db *sql.DB
}

// New initializes the ai_call_log table and returns a Ledger.
func New(db *sql.DB) (*Ledger, error) {
	if _, err := db.Exec(aiCallLogSchema); err != nil {
		return nil, fmt.Errorf("create ai_call_log: %w", err)
	}
	if _, err := db.Exec(aiCallLogIndex); err != nil {
		return nil, fmt.Errorf("index ai_call_log: %w", err)
	}
	return &Ledger{db: db}, nil
}

// #endregion ledger-struct

// #region record

// RecordCall appends one grant row. Called before the expensive call is made
// so a concurrent request sees the spend.
func (l *Ledger) RecordCall(subjectID, messageType string) error {
	_, err := l.db.Exec(
		`INSERT INTO ai_call_log (subject_id, message_type, created_at)
		 VALUES (?, ?, ?)`,
		subjectID, messageType, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record call: %w", err)
	}
	return nil
}

// #endregion record

// #region queries

// CountCallsSince returns how many grants exist for the subject at or after ts.
func (l *Ledger) CountCallsSince(subjectID string, ts time.Time) (int, error) {
	var n int
	err := l.db.QueryRow(
		`SELECT COUNT(*) FROM ai_call_log
		 WHERE subject_id = ? AND created_at >= ?`,
		subjectID, ts.UTC().Format(timeLayout),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count calls: %w", err)
	}
	return n, nil
}

// LastCallTime returns the most recent grant time, or nil if the subject has
// no grants. Rows sharing a timestamp are tie-broken by highest insertion id
// so the answer is deterministic under concurrent writes.
func (l *Ledger) LastCallTime(subjectID string) (*time.Time, error) {
	var createdAt string
	err := l.db.QueryRow(
		`SELECT created_at FROM ai_call_log
		 WHERE subject_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		subjectID,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last call time: %w", err)
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse last call time %q: %w", createdAt, err)
	}
	return &ts, nil
}

// #endregion queries
