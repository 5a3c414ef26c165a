package checkin

import "time"

// #region checkin

// CheckIn is one day's self-reported entry. At most one primary entry exists
// per subject per date; the engine never mutates a check-in once analyzed.
type CheckIn struct {
	ID           string
	SubjectID    string
	Date         time.Time // date-only, UTC midnight
	Mood         int       // 0-10
	SleepQuality int       // 0-10
	Pain         int       // 0-10
	Tags         []string
	Journal      string
}

// HasTag reports whether the check-in carries the given tag.
func (c CheckIn) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// #endregion checkin

// #region series

// SeriesAsc is a check-in series ordered oldest-first. Ordering is part of
// the type so call sites never have to guess which way a slice is sorted.
type SeriesAsc []CheckIn

// SeriesDesc is a check-in series ordered newest-first.
type SeriesDesc []CheckIn

// Desc returns a reversed copy, newest-first.
func (s SeriesAsc) Desc() SeriesDesc {
	out := make(SeriesDesc, len(s))
	for i, c := range s {
		out[len(s)-1-i] = c
	}
	return out
}

// Asc returns a reversed copy, oldest-first.
func (s SeriesDesc) Asc() SeriesAsc {
	out := make(SeriesAsc, len(s))
	for i, c := range s {
		out[len(s)-1-i] = c
	}
	return out
}

// #endregion series

// #region activity

// ActivityKind enumerates the activity-log modalities the engine reads.
type ActivityKind string

const (
	KindExercise    ActivityKind = "exercise"
	KindTreatment   ActivityKind = "treatment"
	KindMindfulness ActivityKind = "mindfulness"
	KindGearUsage   ActivityKind = "gear_usage"
	KindWearable    ActivityKind = "wearable_reading"
)

// AllActivityKinds lists every modality, in the order full context fetches them.
var AllActivityKinds = []ActivityKind{
	KindExercise, KindTreatment, KindMindfulness, KindGearUsage, KindWearable,
}

// ActivityLog is one time-stamped activity entry, read-only to the engine.
type ActivityLog struct {
	ID          string
	SubjectID   string
	Date        time.Time
	Kind        ActivityKind
	Name        string // activity type within the kind, e.g. "walking"
	DurationMin int
	Value       float64 // wearable reading / dosage, kind-dependent
	Notes       string
}

// #endregion activity

// #region subject

// Subject holds the engine-visible slice of user metadata. ToneProfile is
// assigned once at onboarding and never re-derived per message.
type Subject struct {
	ID                string
	FirstName         string
	ConditionCategory string
	ToneProfile       string
}

// #endregion subject

// #region severity

// Severity grades a single check-in.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// SeverityFor derives severity from the raw numbers:
// high if pain>=8 or mood<=3 or sleep<=3, moderate if pain>=6 or mood<=5
// or sleep<=5, else low.
func SeverityFor(c CheckIn) Severity {
	switch {
	case c.Pain >= 8 || c.Mood <= 3 || c.SleepQuality <= 3:
		return SeverityHigh
	case c.Pain >= 6 || c.Mood <= 5 || c.SleepQuality <= 5:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// #endregion severity

// #region message

// Message is the engine's sole output: what the surrounding app renders or
// emails. The engine always returns a well-formed Message, never an error
// state.
type Message struct {
	ID               string
	SubjectID        string
	TriggerType      string
	UsedAI           bool
	DetectedSymptoms []string
	PrimaryConcern   string // empty = none
	Severity         Severity
	MessageText      string
	Suggestions      []string
	CreatedAt        time.Time
}

// #endregion message

// #region date-helpers

// DateOnly truncates t to UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// #endregion date-helpers
