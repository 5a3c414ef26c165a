package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	l, err := New(db)
	if err != nil {
		t.Fatalf("init ledger: %v", err)
	}
	return l
}

// #endregion helpers

// #region tests

func TestEmptyLedger(t *testing.T) {
	l := tempLedger(t)

	n, err := l.CountCallsSince("s1", time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("empty ledger counted %d", n)
	}
	last, err := l.LastCallTime("s1")
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last != nil {
		t.Fatalf("empty ledger has last call %v", last)
	}
}

func TestRecordThenCount(t *testing.T) {
	l := tempLedger(t)
	for i := 0; i < 3; i++ {
		if err := l.RecordCall("s1", "milestone"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := l.RecordCall("s2", "weekly_summary"); err != nil {
		t.Fatalf("record other subject: %v", err)
	}

	n, err := l.CountCallsSince("s1", time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3 (other subjects excluded)", n)
	}
}

func TestCountSinceExcludesOlderRows(t *testing.T) {
	l := tempLedger(t)
	if err := l.RecordCall("s1", "milestone"); err != nil {
		t.Fatalf("record: %v", err)
	}

	n, err := l.CountCallsSince("s1", time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("future cutoff should exclude the row, got %d", n)
	}
}

func TestLastCallTimeIsNewest(t *testing.T) {
	l := tempLedger(t)
	before := time.Now().UTC()
	if err := l.RecordCall("s1", "milestone"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.RecordCall("s1", "pattern_discovery"); err != nil {
		t.Fatalf("record: %v", err)
	}

	last, err := l.LastCallTime("s1")
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last == nil {
		t.Fatal("expected a last call time")
	}
	if last.Before(before.Add(-time.Second)) {
		t.Fatalf("last call %v predates the writes", last)
	}
}

func TestTimestampOrderWithinASecond(t *testing.T) {
	l := tempLedger(t)

	// A whole-second row and a later half-second row in the same second:
	// trimmed formats would sort the whole-second string after it.
	whole := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)
	for _, ts := range []time.Time{whole, half} {
		_, err := l.db.Exec(
			`INSERT INTO ai_call_log (subject_id, message_type, created_at) VALUES (?, ?, ?)`,
			"s1", "milestone", ts.Format(timeLayout),
		)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	last, err := l.LastCallTime("s1")
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last == nil || !last.Equal(half) {
		t.Fatalf("last call = %v, want %v", last, half)
	}

	n, err := l.CountCallsSince("s1", half)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("cutoff at the half-second row should count 1, got %d", n)
	}
}

func TestTimeLayoutIsFixedWidth(t *testing.T) {
	whole := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)
	if len(whole.Format(timeLayout)) != len(half.Format(timeLayout)) {
		t.Fatalf("layout trims fractional zeros: %q vs %q",
			whole.Format(timeLayout), half.Format(timeLayout))
	}
}

// #endregion tests
