package audit

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema

const decisionLogSchema = `
CREATE TABLE IF NOT EXISTS decision_log (
    subject_id   TEXT NOT NULL,
    trigger_type TEXT NOT NULL,
    generated    INTEGER NOT NULL DEFAULT 0,
    used_ai      INTEGER NOT NULL DEFAULT 0,
    reason       TEXT,
    created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decision_log_subject_created
ON decision_log(subject_id, created_at);
`

// #endregion schema

// #region entry

// Entry is one trigger decision: what the engine chose to do with a check-in
// and why. Written for every decision, including skips, so a quiet engine can
// still be audited.
type Entry struct {
	SubjectID   string
	TriggerType string
	Generated   bool
	UsedAI      bool
	Reason      string
	CreatedAt   time.Time
}

// #endregion entry

// #region log

// Log is the decision audit trail. Unlike the call ledger it carries no
// enforcement weight: a failed write is the caller's to log and ignore.
type Log struct {
	db *sql.DB
}

// New initializes the decision_log table and returns a Log.
func New(db *sql.DB) (*Log, error) {
	if _, err := db.Exec(decisionLogSchema); err != nil {
		return nil, fmt.Errorf("create decision_log: %w", err)
	}
	return &Log{db: db}, nil
}

// Record appends one decision entry.
func (l *Log) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	generated, usedAI := 0, 0
	if e.Generated {
		generated = 1
	}
	if e.UsedAI {
		usedAI = 1
	}
	_, err := l.db.Exec(
		`INSERT INTO decision_log (subject_id, trigger_type, generated, used_ai, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SubjectID, e.TriggerType, generated, usedAI,
		nullIfEmpty(e.Reason), e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// Recent returns the subject's last n decisions, newest-first.
func (l *Log) Recent(subjectID string, n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT subject_id, trigger_type, generated, used_ai, reason, created_at
		 FROM decision_log
		 WHERE subject_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		subjectID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var generated, usedAI int
		var reason sql.NullString
		var createdAt string
		if err := rows.Scan(&e.SubjectID, &e.TriggerType, &generated, &usedAI, &reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Generated = generated == 1
		e.UsedAI = usedAI == 1
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion log

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
