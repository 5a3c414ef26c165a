package summarize

import (
	"fmt"
	"strings"

	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/contextbuild"
	"github.com/quietpath/companion/internal/patterns"
	"github.com/quietpath/companion/internal/tone"
)

// #region budget

// Budget selects how much context the prompt may spend tokens on.
type Budget string

const (
	BudgetMinimal  Budget = "minimal"
	BudgetStandard Budget = "standard"
	BudgetFull     Budget = "full"
)

// #endregion budget

// #region priority

// Priority ranks a data source's relevance for a tone profile.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// includes reports whether a source of priority p fits in the budget:
// minimal carries only critical, standard adds high, full drops only low.
func (b Budget) includes(p Priority) bool {
	switch b {
	case BudgetMinimal:
		return p == PriorityCritical
	case BudgetStandard:
		return p == PriorityCritical || p == PriorityHigh
	default:
		return p != PriorityLow
	}
}

// sourcePriorities is the per-profile relevance table for activity sources.
// Profiles not listed fall back to defaultPriorities.
var sourcePriorities = map[tone.ProfileKey]map[checkin.ActivityKind]Priority{
	tone.ProfileChronicPain: {
		checkin.KindTreatment:   PriorityCritical,
		checkin.KindExercise:    PriorityHigh,
		checkin.KindGearUsage:   PriorityHigh,
		checkin.KindMindfulness: PriorityMedium,
		checkin.KindWearable:    PriorityLow,
	},
	tone.ProfileSeriousIllness: {
		checkin.KindTreatment:   PriorityCritical,
		checkin.KindMindfulness: PriorityHigh,
		checkin.KindExercise:    PriorityMedium,
		checkin.KindGearUsage:   PriorityMedium,
		checkin.KindWearable:    PriorityLow,
	},
	tone.ProfileBiohacking: {
		checkin.KindWearable:    PriorityCritical,
		checkin.KindExercise:    PriorityCritical,
		checkin.KindTreatment:   PriorityHigh,
		checkin.KindGearUsage:   PriorityMedium,
		checkin.KindMindfulness: PriorityLow,
	},
	tone.ProfileFertility: {
		checkin.KindTreatment:   PriorityCritical,
		checkin.KindWearable:    PriorityHigh,
		checkin.KindMindfulness: PriorityMedium,
		checkin.KindExercise:    PriorityMedium,
		checkin.KindGearUsage:   PriorityLow,
	},
	tone.ProfileSleep: {
		checkin.KindWearable:    PriorityCritical,
		checkin.KindGearUsage:   PriorityHigh,
		checkin.KindMindfulness: PriorityHigh,
		checkin.KindExercise:    PriorityMedium,
		checkin.KindTreatment:   PriorityMedium,
	},
	tone.ProfileEnergy: {
		checkin.KindExercise:    PriorityCritical,
		checkin.KindTreatment:   PriorityHigh,
		checkin.KindWearable:    PriorityHigh,
		checkin.KindMindfulness: PriorityMedium,
		checkin.KindGearUsage:   PriorityLow,
	},
	tone.ProfileMentalHealth: {
		checkin.KindMindfulness: PriorityCritical,
		checkin.KindExercise:    PriorityHigh,
		checkin.KindTreatment:   PriorityMedium,
		checkin.KindWearable:    PriorityLow,
		checkin.KindGearUsage:   PriorityLow,
	},
}

var defaultPriorities = map[checkin.ActivityKind]Priority{
	checkin.KindExercise:    PriorityHigh,
	checkin.KindTreatment:   PriorityHigh,
	checkin.KindMindfulness: PriorityMedium,
	checkin.KindGearUsage:   PriorityMedium,
	checkin.KindWearable:    PriorityMedium,
}

// priorityFor resolves a source's priority for a profile.
func priorityFor(key tone.ProfileKey, kind checkin.ActivityKind) Priority {
	if table, ok := sourcePriorities[key]; ok {
		if p, ok := table[kind]; ok {
			return p
		}
	}
	if p, ok := defaultPriorities[kind]; ok {
		return p
	}
	return PriorityLow
}

// #endregion priority

// #region summary

const (
	coreCheckinWindow    = 7
	minimalCheckinWindow = 3
	messageTruncateLen   = 160
	maxActivityLines     = 6
)

// SourceSection is one included data source, already rendered to lines.
type SourceSection struct {
	Kind  checkin.ActivityKind
	Lines []string
}

// Summary is the token-budgeted projection of context plus patterns. Built
// fresh per invocation, never cached.
type Summary struct {
	SubjectName     string
	Profile         tone.ProfileKey
	Budget          Budget
	TotalCheckins   int
	CoreMetrics     []string // recent check-ins, one line per day
	PatternInsights []string
	Sources         []SourceSection
	RecentMessages  []string // truncated, for anti-repetition
}

// #endregion summary

// #region build

// Build compresses a full context and its patterns into a Summary under the
// given budget.
func Build(fc contextbuild.FullContext, p patterns.ComprehensivePatterns, budget Budget) Summary {
	profile := tone.Lookup(fc.Subject.ToneProfile)

	s := Summary{
		SubjectName:     fc.Subject.FirstName,
		Profile:         profile.Key,
		Budget:          budget,
		TotalCheckins:   fc.TotalCheckins,
		PatternInsights: p.Insights,
	}

	window := coreCheckinWindow
	if budget == BudgetMinimal {
		window = minimalCheckinWindow
	}
	recent := fc.RecentCheckins
	if len(recent) > window {
		recent = recent[:window]
	}
	for _, c := range recent {
		s.CoreMetrics = append(s.CoreMetrics, fmt.Sprintf(
			"%s: mood %d, sleep %d, pain %d%s",
			c.Date.Format("Jan 2"), c.Mood, c.SleepQuality, c.Pain, tagSuffix(c.Tags),
		))
	}

	for _, kind := range checkin.AllActivityKinds {
		logs := fc.Activity[kind]
		if len(logs) == 0 {
			continue
		}
		if !budget.includes(priorityFor(profile.Key, kind)) {
			continue
		}
		s.Sources = append(s.Sources, SourceSection{
			Kind:  kind,
			Lines: activityLines(logs),
		})
	}

	for _, m := range fc.RecentMessages {
		s.RecentMessages = append(s.RecentMessages, truncate(m.MessageText, messageTruncateLen))
	}

	return s
}

func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " [" + strings.Join(tags, ", ") + "]"
}

func activityLines(logs []checkin.ActivityLog) []string {
	start := 0
	if len(logs) > maxActivityLines {
		start = len(logs) - maxActivityLines
	}
	var lines []string
	for _, a := range logs[start:] {
		line := fmt.Sprintf("%s: %s", a.Date.Format("Jan 2"), a.Name)
		if a.DurationMin > 0 {
			line += fmt.Sprintf(" (%d min)", a.DurationMin)
		}
		if a.Value != 0 {
			line += fmt.Sprintf(" value=%.1f", a.Value)
		}
		lines = append(lines, line)
	}
	return lines
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// #endregion build

// #region render

// RenderPrompt turns the summary into the completion user prompt. The layout
// is deterministic: same summary, same string.
func (s Summary) RenderPrompt() string {
	var b strings.Builder

	name := s.SubjectName
	if name == "" {
		name = "the user"
	}
	fmt.Fprintf(&b, "You are writing a short check-in response for %s (%d total check-ins, focus area: %s).\n\n",
		name, s.TotalCheckins, s.Profile)

	if len(s.CoreMetrics) > 0 {
		b.WriteString("Recent check-ins, newest first:\n")
		for _, line := range s.CoreMetrics {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.PatternInsights) > 0 {
		b.WriteString("Patterns found in their data:\n")
		for _, ins := range s.PatternInsights {
			b.WriteString("- " + ins + "\n")
		}
		b.WriteString("\n")
	}

	for _, src := range s.Sources {
		fmt.Fprintf(&b, "Recent %s:\n", strings.ReplaceAll(string(src.Kind), "_", " "))
		for _, line := range src.Lines {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.RecentMessages) > 0 {
		b.WriteString("Your previous messages to them (do NOT repeat yourself):\n")
		for _, m := range s.RecentMessages {
			b.WriteString("- " + m + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Write 2-4 sentences in the voice described in your instructions. Mention at least one specific number from their data.")
	return b.String()
}

// #endregion render
