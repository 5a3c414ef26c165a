package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/quietpath/companion/internal/checkin"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	subject_id         TEXT PRIMARY KEY,
	first_name         TEXT NOT NULL,
	condition_category TEXT NOT NULL,
	tone_profile       TEXT NOT NULL,
	created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS checkins (
	checkin_id    TEXT PRIMARY KEY,
	subject_id    TEXT NOT NULL,
	day           TEXT NOT NULL,
	mood          INTEGER NOT NULL,
	sleep_quality INTEGER NOT NULL,
	pain          INTEGER NOT NULL,
	tags_json     TEXT,
	journal       TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (subject_id) REFERENCES subjects(subject_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_checkins_subject_day
ON checkins(subject_id, day);

CREATE TABLE IF NOT EXISTS activity_logs (
	activity_id  TEXT PRIMARY KEY,
	subject_id   TEXT NOT NULL,
	day          TEXT NOT NULL,
	kind         TEXT NOT NULL,
	name         TEXT NOT NULL,
	duration_min INTEGER NOT NULL DEFAULT 0,
	value        REAL NOT NULL DEFAULT 0,
	notes        TEXT,
	FOREIGN KEY (subject_id) REFERENCES subjects(subject_id)
);

CREATE INDEX IF NOT EXISTS idx_activity_subject_kind_day
ON activity_logs(subject_id, kind, day);

CREATE TABLE IF NOT EXISTS engine_messages (
	message_id     TEXT PRIMARY KEY,
	subject_id     TEXT NOT NULL,
	trigger_type   TEXT NOT NULL,
	used_ai        INTEGER NOT NULL DEFAULT 0,
	severity       TEXT NOT NULL,
	message_text   TEXT NOT NULL,
	symptoms_json  TEXT,
	concern        TEXT,
	suggestions_json TEXT,
	created_at     TEXT NOT NULL,
	FOREIGN KEY (subject_id) REFERENCES subjects(subject_id)
);

CREATE INDEX IF NOT EXISTS idx_messages_subject_created
ON engine_messages(subject_id, created_at);
`

// #endregion schema

// #region store-struct

// Store is the SQLite-backed history store: subjects, check-ins, activity
// logs, and the engine's own past messages. The engine reads everything and
// writes only engine_messages; check-ins and activity logs are created by the
// surrounding app.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB so the ledger can share the connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region subjects

// UpsertSubject inserts or replaces a subject row.
func (s *Store) UpsertSubject(sub checkin.Subject) error {
	_, err := s.db.Exec(
		`INSERT INTO subjects (subject_id, first_name, condition_category, tone_profile, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET
		   first_name = excluded.first_name,
		   condition_category = excluded.condition_category,
		   tone_profile = excluded.tone_profile`,
		sub.ID, sub.FirstName, sub.ConditionCategory, sub.ToneProfile,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}
	return nil
}

// GetSubject loads one subject by id.
func (s *Store) GetSubject(subjectID string) (checkin.Subject, error) {
	var sub checkin.Subject
	err := s.db.QueryRow(
		`SELECT subject_id, first_name, condition_category, tone_profile
		 FROM subjects WHERE subject_id = ?`, subjectID,
	).Scan(&sub.ID, &sub.FirstName, &sub.ConditionCategory, &sub.ToneProfile)
	if err != nil {
		return checkin.Subject{}, fmt.Errorf("get subject %s: %w", subjectID, err)
	}
	return sub, nil
}

// #endregion subjects

// #region checkins

// InsertCheckin stores a check-in. The unique (subject_id, day) index makes a
// same-day resubmission an explicit conflict; the surrounding app decides
// whether to replace, the engine only ever reads the primary row.
func (s *Store) InsertCheckin(c checkin.CheckIn) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO checkins (checkin_id, subject_id, day, mood, sleep_quality, pain, tags_json, journal, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(subject_id, day) DO UPDATE SET
		   mood = excluded.mood,
		   sleep_quality = excluded.sleep_quality,
		   pain = excluded.pain,
		   tags_json = excluded.tags_json,
		   journal = excluded.journal`,
		c.ID, c.SubjectID, dayKey(c.Date), c.Mood, c.SleepQuality, c.Pain,
		string(tags), nullIfEmpty(c.Journal),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert checkin: %w", err)
	}
	return c.ID, nil
}

// GetCheckins returns the subject's check-ins on or after since, oldest-first.
// A zero since returns the full history.
func (s *Store) GetCheckins(subjectID string, since time.Time) (checkin.SeriesAsc, error) {
	rows, err := s.db.Query(
		`SELECT checkin_id, subject_id, day, mood, sleep_quality, pain, tags_json, journal
		 FROM checkins
		 WHERE subject_id = ? AND day >= ?
		 ORDER BY day ASC`,
		subjectID, dayKey(since),
	)
	if err != nil {
		return nil, fmt.Errorf("query checkins: %w", err)
	}
	defer rows.Close()
	return scanCheckins(rows)
}

// GetRecentCheckins returns the last n check-ins, newest-first.
func (s *Store) GetRecentCheckins(subjectID string, n int) (checkin.SeriesDesc, error) {
	rows, err := s.db.Query(
		`SELECT checkin_id, subject_id, day, mood, sleep_quality, pain, tags_json, journal
		 FROM checkins
		 WHERE subject_id = ?
		 ORDER BY day DESC
		 LIMIT ?`,
		subjectID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent checkins: %w", err)
	}
	defer rows.Close()
	asc, err := scanCheckins(rows)
	if err != nil {
		return nil, err
	}
	// rows came back newest-first; scanCheckins preserves row order
	return checkin.SeriesDesc(asc), nil
}

// GetCheckinForDate returns the primary check-in for the given day, or
// sql.ErrNoRows wrapped if none exists.
func (s *Store) GetCheckinForDate(subjectID string, day time.Time) (checkin.CheckIn, error) {
	row := s.db.QueryRow(
		`SELECT checkin_id, subject_id, day, mood, sleep_quality, pain, tags_json, journal
		 FROM checkins WHERE subject_id = ? AND day = ?`,
		subjectID, dayKey(day),
	)
	c, err := scanCheckin(row)
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("checkin for %s: %w", dayKey(day), err)
	}
	return c, nil
}

// CountCheckins returns the subject's total check-in count.
func (s *Store) CountCheckins(subjectID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM checkins WHERE subject_id = ?`, subjectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count checkins: %w", err)
	}
	return n, nil
}

// #endregion checkins

// #region activity

// InsertActivityLog stores one activity entry.
func (s *Store) InsertActivityLog(a checkin.ActivityLog) (string, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := s.db.Exec(
		`INSERT INTO activity_logs (activity_id, subject_id, day, kind, name, duration_min, value, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SubjectID, dayKey(a.Date), string(a.Kind), a.Name,
		a.DurationMin, a.Value, nullIfEmpty(a.Notes),
	)
	if err != nil {
		return "", fmt.Errorf("insert activity log: %w", err)
	}
	return a.ID, nil
}

// GetActivityLogs returns logs of one kind on or after since, oldest-first.
func (s *Store) GetActivityLogs(subjectID string, kind checkin.ActivityKind, since time.Time) ([]checkin.ActivityLog, error) {
	rows, err := s.db.Query(
		`SELECT activity_id, subject_id, day, kind, name, duration_min, value, notes
		 FROM activity_logs
		 WHERE subject_id = ? AND kind = ? AND day >= ?
		 ORDER BY day ASC`,
		subjectID, string(kind), dayKey(since),
	)
	if err != nil {
		return nil, fmt.Errorf("query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []checkin.ActivityLog
	for rows.Next() {
		var a checkin.ActivityLog
		var day string
		var k string
		var notes sql.NullString
		if err := rows.Scan(&a.ID, &a.SubjectID, &day, &k, &a.Name, &a.DurationMin, &a.Value, &notes); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		a.Kind = checkin.ActivityKind(k)
		a.Date, _ = time.Parse("2006-01-02", day)
		a.Notes = notes.String
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

// #endregion activity

// #region messages

// RecordMessage persists an engine-generated message so quick context and the
// prompt builder can see what was said before.
func (s *Store) RecordMessage(m checkin.Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	symptoms, err := json.Marshal(m.DetectedSymptoms)
	if err != nil {
		return fmt.Errorf("marshal symptoms: %w", err)
	}
	suggestions, err := json.Marshal(m.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	usedAI := 0
	if m.UsedAI {
		usedAI = 1
	}
	_, err = s.db.Exec(
		`INSERT INTO engine_messages (message_id, subject_id, trigger_type, used_ai, severity, message_text, symptoms_json, concern, suggestions_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SubjectID, m.TriggerType, usedAI, string(m.Severity),
		m.MessageText, string(symptoms), nullIfEmpty(m.PrimaryConcern),
		string(suggestions), m.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record message: %w", err)
	}
	return nil
}

// GetRecentMessages returns the last n engine messages, newest-first.
func (s *Store) GetRecentMessages(subjectID string, n int) ([]checkin.Message, error) {
	rows, err := s.db.Query(
		`SELECT message_id, subject_id, trigger_type, used_ai, severity, message_text, symptoms_json, concern, suggestions_json, created_at
		 FROM engine_messages
		 WHERE subject_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		subjectID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []checkin.Message
	for rows.Next() {
		var m checkin.Message
		var usedAI int
		var severity, createdAt string
		var symptoms, suggestions, concern sql.NullString
		if err := rows.Scan(&m.ID, &m.SubjectID, &m.TriggerType, &usedAI, &severity,
			&m.MessageText, &symptoms, &concern, &suggestions, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.UsedAI = usedAI == 1
		m.Severity = checkin.Severity(severity)
		m.PrimaryConcern = concern.String
		if symptoms.Valid {
			json.Unmarshal([]byte(symptoms.String), &m.DetectedSymptoms)
		}
		if suggestions.Valid {
			json.Unmarshal([]byte(suggestions.String), &m.Suggestions)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// #endregion messages

// #region helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckin(row rowScanner) (checkin.CheckIn, error) {
	var c checkin.CheckIn
	var day string
	var tags, journal sql.NullString
	if err := row.Scan(&c.ID, &c.SubjectID, &day, &c.Mood, &c.SleepQuality, &c.Pain, &tags, &journal); err != nil {
		return checkin.CheckIn{}, err
	}
	c.Date, _ = time.Parse("2006-01-02", day)
	c.Journal = journal.String
	if tags.Valid && tags.String != "" {
		json.Unmarshal([]byte(tags.String), &c.Tags)
	}
	return c, nil
}

func scanCheckins(rows *sql.Rows) (checkin.SeriesAsc, error) {
	var out checkin.SeriesAsc
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func dayKey(t time.Time) string {
	if t.IsZero() {
		return "0001-01-01"
	}
	return t.UTC().Format("2006-01-02")
}

func nullIfEmpty(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// #endregion helpers
