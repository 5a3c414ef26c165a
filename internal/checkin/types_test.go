package checkin

import (
	"testing"
	"time"
)

// #region severity

func TestSeverityForTable(t *testing.T) {
	cases := []struct {
		name string
		c    CheckIn
		want Severity
	}{
		{"calm day", CheckIn{Mood: 7, SleepQuality: 8, Pain: 1}, SeverityLow},
		{"elevated pain", CheckIn{Mood: 7, SleepQuality: 8, Pain: 6}, SeverityModerate},
		{"severe pain", CheckIn{Mood: 7, SleepQuality: 8, Pain: 8}, SeverityHigh},
		{"very low mood", CheckIn{Mood: 3, SleepQuality: 8, Pain: 1}, SeverityHigh},
		{"middling mood", CheckIn{Mood: 5, SleepQuality: 8, Pain: 1}, SeverityModerate},
		{"bad sleep", CheckIn{Mood: 7, SleepQuality: 3, Pain: 1}, SeverityHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SeverityFor(tc.c); got != tc.want {
				t.Fatalf("SeverityFor(%+v) = %s, want %s", tc.c, got, tc.want)
			}
		})
	}
}

// #endregion severity

// #region series

func TestSeriesReversalRoundtrip(t *testing.T) {
	asc := SeriesAsc{
		{ID: "a", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
	}

	desc := asc.Desc()
	if desc[0].ID != "c" || desc[2].ID != "a" {
		t.Fatalf("Desc did not reverse: %v", desc)
	}
	back := desc.Asc()
	for i := range asc {
		if back[i].ID != asc[i].ID {
			t.Fatalf("roundtrip changed order at %d: %v", i, back)
		}
	}
	// reversal must copy, not alias
	desc[0].ID = "mutated"
	if asc[2].ID != "c" {
		t.Fatal("Desc aliases the original slice")
	}
}

// #endregion series

// #region dates

func TestDateHelpers(t *testing.T) {
	late := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 3, 1, 0, 1, 0, 0, time.UTC)
	next := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)

	if !SameDay(late, early) {
		t.Fatal("same UTC day not recognized")
	}
	if SameDay(late, next) {
		t.Fatal("different days reported as same")
	}
	if got := DateOnly(late); got.Hour() != 0 || got.Day() != 1 {
		t.Fatalf("DateOnly(%v) = %v", late, got)
	}
}

// #endregion dates
