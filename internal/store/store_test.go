package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/quietpath/companion/internal/checkin"
)

// #region helpers

func tempStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "companion.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func mustSubject(t *testing.T, st *Store, id string) {
	t.Helper()
	err := st.UpsertSubject(checkin.Subject{
		ID:                id,
		FirstName:         "Ada",
		ConditionCategory: "chronic pain",
		ToneProfile:       "chronic_pain",
	})
	if err != nil {
		t.Fatalf("upsert subject: %v", err)
	}
}

func mustCheckin(t *testing.T, st *Store, subjectID string, date time.Time, mood, sleep, pain int) {
	t.Helper()
	_, err := st.InsertCheckin(checkin.CheckIn{
		SubjectID:    subjectID,
		Date:         date,
		Mood:         mood,
		SleepQuality: sleep,
		Pain:         pain,
	})
	if err != nil {
		t.Fatalf("insert checkin: %v", err)
	}
}

var mar1 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// #endregion helpers

// #region subjects

func TestSubjectRoundtrip(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")

	sub, err := st.GetSubject("s1")
	if err != nil {
		t.Fatalf("get subject: %v", err)
	}
	if sub.FirstName != "Ada" || sub.ToneProfile != "chronic_pain" {
		t.Fatalf("unexpected subject %+v", sub)
	}
}

func TestUpsertSubjectReplaces(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")

	err := st.UpsertSubject(checkin.Subject{
		ID: "s1", FirstName: "Ada", ConditionCategory: "sleep issues", ToneProfile: "sleep_support",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	sub, err := st.GetSubject("s1")
	if err != nil {
		t.Fatalf("get subject: %v", err)
	}
	if sub.ToneProfile != "sleep_support" {
		t.Fatalf("tone profile not updated: %+v", sub)
	}
}

// #endregion subjects

// #region checkins

func TestCheckinOrderingAndWindow(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")
	for i := 0; i < 5; i++ {
		mustCheckin(t, st, "s1", mar1.AddDate(0, 0, i), 5+i%3, 6, 3)
	}

	asc, err := st.GetCheckins("s1", mar1.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("get checkins: %v", err)
	}
	if len(asc) != 4 {
		t.Fatalf("window returned %d check-ins, want 4", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].Date.Before(asc[i-1].Date) {
			t.Fatal("GetCheckins must be oldest-first")
		}
	}

	desc, err := st.GetRecentCheckins("s1", 3)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(desc) != 3 {
		t.Fatalf("recent returned %d, want 3", len(desc))
	}
	if !desc[0].Date.Equal(mar1.AddDate(0, 0, 4)) {
		t.Fatalf("recent[0] = %s, want newest day", desc[0].Date)
	}
}

func TestSameDayCheckinUpserts(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")
	mustCheckin(t, st, "s1", mar1, 3, 4, 8)
	mustCheckin(t, st, "s1", mar1, 6, 7, 2)

	n, err := st.CountCheckins("s1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("same-day resubmission must keep one row, got %d", n)
	}
	c, err := st.GetCheckinForDate("s1", mar1)
	if err != nil {
		t.Fatalf("get for date: %v", err)
	}
	if c.Mood != 6 || c.Pain != 2 {
		t.Fatalf("resubmission did not replace values: %+v", c)
	}
}

func TestCheckinForMissingDate(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")

	_, err := st.GetCheckinForDate("s1", mar1)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected wrapped sql.ErrNoRows, got %v", err)
	}
}

func TestCheckinTagsAndJournalRoundtrip(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")
	_, err := st.InsertCheckin(checkin.CheckIn{
		SubjectID:    "s1",
		Date:         mar1,
		Mood:         4,
		SleepQuality: 3,
		Pain:         7,
		Tags:         []string{"headache", "fatigue"},
		Journal:      "rough night",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	c, err := st.GetCheckinForDate("s1", mar1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(c.Tags) != 2 || c.Tags[0] != "headache" {
		t.Fatalf("tags did not survive: %v", c.Tags)
	}
	if c.Journal != "rough night" {
		t.Fatalf("journal did not survive: %q", c.Journal)
	}
}

// #endregion checkins

// #region activity

func TestActivityLogsFilterByKind(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")
	for i, kind := range []checkin.ActivityKind{checkin.KindExercise, checkin.KindTreatment, checkin.KindExercise} {
		_, err := st.InsertActivityLog(checkin.ActivityLog{
			SubjectID: "s1",
			Date:      mar1.AddDate(0, 0, i),
			Kind:      kind,
			Name:      "x",
		})
		if err != nil {
			t.Fatalf("insert activity: %v", err)
		}
	}

	logs, err := st.GetActivityLogs("s1", checkin.KindExercise, time.Time{})
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 exercise logs, got %d", len(logs))
	}
	for _, a := range logs {
		if a.Kind != checkin.KindExercise {
			t.Fatalf("kind filter leaked: %+v", a)
		}
	}
}

// #endregion activity

// #region messages

func TestMessagesRoundtripNewestFirst(t *testing.T) {
	st := tempStore(t)
	mustSubject(t, st, "s1")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := st.RecordMessage(checkin.Message{
			SubjectID:        "s1",
			TriggerType:      "daily_comment",
			UsedAI:           i == 2,
			Severity:         checkin.SeverityLow,
			MessageText:      "msg",
			DetectedSymptoms: []string{"poor_sleep"},
			PrimaryConcern:   "poor_sleep",
			Suggestions:      []string{"wind down earlier"},
			CreatedAt:        base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("record message: %v", err)
		}
	}

	msgs, err := st.GetRecentMessages("s1", 2)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if !msgs[0].UsedAI {
		t.Fatal("newest message should come first")
	}
	if msgs[0].DetectedSymptoms[0] != "poor_sleep" || msgs[0].Suggestions[0] != "wind down earlier" {
		t.Fatalf("json fields did not survive: %+v", msgs[0])
	}
}

// #endregion messages
