package audit

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers

func tempLog(t *testing.T) *Log {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	l, err := New(db)
	if err != nil {
		t.Fatalf("init log: %v", err)
	}
	return l
}

// #endregion helpers

// #region tests

func TestRecordAndRecent(t *testing.T) {
	l := tempLog(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := []Entry{
		{SubjectID: "s1", TriggerType: "milestone", Generated: true, UsedAI: true, Reason: "within limits", CreatedAt: base},
		{SubjectID: "s1", TriggerType: "pattern_discovery", Generated: false, Reason: "daily cap reached", CreatedAt: base.Add(time.Hour)},
		{SubjectID: "s2", TriggerType: "daily_comment", Generated: true, CreatedAt: base},
	}
	for _, e := range entries {
		if err := l.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := l.Recent("s1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("recent = %d entries, want 2 (other subjects excluded)", len(got))
	}
	if got[0].TriggerType != "pattern_discovery" || got[0].Generated {
		t.Fatalf("newest entry should be the skip: %+v", got[0])
	}
	if got[1].Reason != "within limits" || !got[1].UsedAI {
		t.Fatalf("fields did not survive: %+v", got[1])
	}
}

func TestRecordFillsTimestamp(t *testing.T) {
	l := tempLog(t)
	if err := l.Record(Entry{SubjectID: "s1", TriggerType: "daily_comment", Generated: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := l.Recent("s1", 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].CreatedAt.IsZero() {
		t.Fatalf("timestamp not filled: %+v", got)
	}
}

// #endregion tests
