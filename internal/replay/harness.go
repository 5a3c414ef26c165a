package replay

import (
	"fmt"
	"time"

	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/contextbuild"
	"github.com/quietpath/companion/internal/patterns"
	"github.com/quietpath/companion/internal/trigger"
)

// #region types

// DayResult captures the engine's decision for one replayed day.
type DayResult struct {
	Date        string
	Count       int
	TriggerType trigger.Type
	Significant bool
	Insights    int
}

// Summary aggregates a replay run and lists divergences from the fixture's
// expected results.
type Summary struct {
	TotalDays          int
	Milestones         int
	Weeklies           int
	PatternDiscoveries int
	Dailies            int
	Divergences        []string
}

// #endregion types

// #region replay

// Replay walks the fixture day by day, running classification and pattern
// analysis over the history accumulated so far. Entirely in-memory and
// deterministic: no store, no ledger, rate limits assumed available.
func Replay(f *Fixture) ([]DayResult, error) {
	var history checkin.SeriesAsc
	activity := make(map[checkin.ActivityKind][]checkin.ActivityLog)
	results := make([]DayResult, 0, len(f.Days))

	for _, day := range f.Days {
		c, err := f.CheckinForDay(day)
		if err != nil {
			return nil, err
		}
		logs, err := f.ActivityForDay(day)
		if err != nil {
			return nil, err
		}

		if !day.Resub {
			history = append(history, c)
		}
		for _, a := range logs {
			activity[a.Kind] = append(activity[a.Kind], a)
		}

		fc := contextbuild.FullContext{
			History:  history,
			Activity: windowed(activity, c.Date),
		}
		pats := patterns.Analyze(fc)

		ev := trigger.Event{
			SubjectID:          f.Subject.ID,
			CheckinCount:       len(history),
			SignificantPattern: false,
			CheckedInToday:     day.Resub,
		}
		t := trigger.Classify(ev)
		// the promotion the orchestrator performs after full analysis
		if t != trigger.TypeMilestone && pats.Significant() {
			ev.SignificantPattern = true
			t = trigger.Classify(ev)
		}

		results = append(results, DayResult{
			Date:        day.Date,
			Count:       len(history),
			TriggerType: t,
			Significant: pats.Significant(),
			Insights:    len(pats.Insights),
		})
	}
	return results, nil
}

// windowed trims activity logs to the 30-day lookback ending at asOf,
// matching the full context builder's window.
func windowed(activity map[checkin.ActivityKind][]checkin.ActivityLog, asOf time.Time) map[checkin.ActivityKind][]checkin.ActivityLog {
	cutoff := asOf.AddDate(0, 0, -30)
	out := make(map[checkin.ActivityKind][]checkin.ActivityLog, len(activity))
	for kind, logs := range activity {
		var kept []checkin.ActivityLog
		for _, a := range logs {
			if !a.Date.Before(cutoff) {
				kept = append(kept, a)
			}
		}
		out[kind] = kept
	}
	return out
}

// #endregion replay

// #region summarize

// Summarize tallies results and compares them against the fixture's
// expectations.
func Summarize(f *Fixture, results []DayResult) Summary {
	s := Summary{TotalDays: len(results)}

	byDate := make(map[string]DayResult, len(results))
	for _, r := range results {
		byDate[r.Date] = r
		switch r.TriggerType {
		case trigger.TypeMilestone:
			s.Milestones++
		case trigger.TypeWeeklySummary:
			s.Weeklies++
		case trigger.TypePatternDiscovery:
			s.PatternDiscoveries++
		default:
			s.Dailies++
		}
	}

	for _, exp := range f.ExpectedResults {
		got, ok := byDate[exp.Date]
		if !ok {
			s.Divergences = append(s.Divergences, fmt.Sprintf("%s: expected %s but day was not replayed", exp.Date, exp.TriggerType))
			continue
		}
		if string(got.TriggerType) != exp.TriggerType {
			s.Divergences = append(s.Divergences, fmt.Sprintf("%s: expected %s, got %s", exp.Date, exp.TriggerType, got.TriggerType))
		}
		if exp.Significant && !got.Significant {
			s.Divergences = append(s.Divergences, fmt.Sprintf("%s: expected significant patterns, found none", exp.Date))
		}
	}
	return s
}

// #endregion summarize
