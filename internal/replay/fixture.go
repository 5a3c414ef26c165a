package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quietpath/companion/internal/checkin"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: one
// subject's day-by-day series plus the trigger sequence it should produce.
type Fixture struct {
	Description     string            `json:"description"`
	Subject         FixtureSubject    `json:"subject"`
	Days            []FixtureDay      `json:"days"`
	ExpectedResults []FixtureExpected `json:"expected_results"`
}

// FixtureSubject mirrors checkin.Subject with JSON tags.
type FixtureSubject struct {
	ID                string `json:"id"`
	FirstName         string `json:"first_name"`
	ConditionCategory string `json:"condition_category"`
	ToneProfile       string `json:"tone_profile"`
}

// FixtureActivity is one activity entry within a day.
type FixtureActivity struct {
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	DurationMin int     `json:"duration_min,omitempty"`
	Value       float64 `json:"value,omitempty"`
}

// FixtureDay is one day's check-in plus its activity entries.
type FixtureDay struct {
	Date    string            `json:"date"` // YYYY-MM-DD
	Mood    int               `json:"mood"`
	Sleep   int               `json:"sleep"`
	Pain    int               `json:"pain"`
	Tags    []string          `json:"tags,omitempty"`
	Journal string            `json:"journal,omitempty"`
	Resub   bool              `json:"resubmission,omitempty"`
	Logs    []FixtureActivity `json:"activity,omitempty"`
}

// FixtureExpected captures the expected decision for one day.
type FixtureExpected struct {
	Date        string `json:"date"`
	TriggerType string `json:"trigger_type"`
	Significant bool   `json:"significant,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Days) == 0 {
		return nil, fmt.Errorf("fixture %s has no days", path)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader

// #region conversion

// CheckinForDay converts a fixture day into a domain check-in.
func (f *Fixture) CheckinForDay(d FixtureDay) (checkin.CheckIn, error) {
	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("bad fixture date %q: %w", d.Date, err)
	}
	return checkin.CheckIn{
		SubjectID:    f.Subject.ID,
		Date:         date,
		Mood:         d.Mood,
		SleepQuality: d.Sleep,
		Pain:         d.Pain,
		Tags:         d.Tags,
		Journal:      d.Journal,
	}, nil
}

// ActivityForDay converts a day's activity entries.
func (f *Fixture) ActivityForDay(d FixtureDay) ([]checkin.ActivityLog, error) {
	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return nil, fmt.Errorf("bad fixture date %q: %w", d.Date, err)
	}
	var out []checkin.ActivityLog
	for _, a := range d.Logs {
		out = append(out, checkin.ActivityLog{
			SubjectID:   f.Subject.ID,
			Date:        date,
			Kind:        checkin.ActivityKind(a.Kind),
			Name:        a.Name,
			DurationMin: a.DurationMin,
			Value:       a.Value,
		})
	}
	return out, nil
}

// #endregion conversion
