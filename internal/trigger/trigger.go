package trigger

import (
	"fmt"
	"log"

	"github.com/quietpath/companion/internal/ratelimit"
)

// #region types

// Type classifies the event a message responds to.
type Type string

const (
	TypeDailyComment     Type = "daily_comment"
	TypeMilestone        Type = "milestone"
	TypePatternDiscovery Type = "pattern_discovery"
	TypeWeeklySummary    Type = "weekly_summary"
)

// Decision is the engine's answer for one event: whether to generate at all,
// whether the expensive call may be used, and why.
type Decision struct {
	ShouldGenerate bool
	UseAI          bool
	Type           Type
	Reason         string
}

// Event carries the inputs the classifier needs. CheckinCount includes
// today's check-in.
type Event struct {
	SubjectID          string
	CheckinCount       int
	SignificantPattern bool
	CheckedInToday     bool // true when today already had a primary check-in (resubmission)
	TemplateOnly       bool // true when no completion client is configured
}

// #endregion types

// #region milestones

// milestoneCounts are the check-in counts that earn a deeper, AI-eligible
// message.
var milestoneCounts = map[int]bool{
	1: true, 3: true, 7: true, 14: true, 30: true, 60: true, 90: true,
}

// IsMilestone reports whether count is a milestone.
func IsMilestone(count int) bool {
	return milestoneCounts[count]
}

// #endregion milestones

// #region classify

// Classify determines the trigger type alone, with no rate-limit side
// effects. Priority: milestone > pattern discovery > weekly summary > daily.
func Classify(ev Event) Type {
	if IsMilestone(ev.CheckinCount) {
		// A first-check-in milestone fires at most once: a same-day
		// resubmission at count==1 degrades to a daily comment.
		if ev.CheckinCount == 1 && ev.CheckedInToday {
			return TypeDailyComment
		}
		return TypeMilestone
	}
	if ev.SignificantPattern && ev.CheckinCount >= 7 {
		return TypePatternDiscovery
	}
	if ev.CheckinCount > 0 && ev.CheckinCount%7 == 0 {
		return TypeWeeklySummary
	}
	return TypeDailyComment
}

// #endregion classify

// #region engine

// Reserver is the slice of the rate limiter the engine needs.
type Reserver interface {
	Reserve(subjectID, messageType string) ratelimit.Decision
}

// Engine turns events into trigger decisions, spending rate-limit grants for
// AI-eligible types. Daily comments never touch the limiter.
type Engine struct {
	limiter Reserver
}

// New creates a trigger engine over the given limiter.
func New(limiter Reserver) *Engine {
	return &Engine{limiter: limiter}
}

// Decide classifies the event and resolves AI eligibility against the rate
// limiter. Milestone and weekly events degrade to the template path when
// limited; a limited pattern discovery is skipped outright. A template-only
// event never touches the limiter: no expensive call can happen, so no grant
// may be spent.
func (e *Engine) Decide(ev Event) Decision {
	t := Classify(ev)

	switch t {
	case TypeDailyComment:
		return Decision{
			ShouldGenerate: true,
			UseAI:          false,
			Type:           t,
			Reason:         "daily check-in",
		}
	case TypeMilestone, TypeWeeklySummary:
		if ev.TemplateOnly {
			return Decision{
				ShouldGenerate: true,
				UseAI:          false,
				Type:           t,
				Reason:         fmt.Sprintf("%s, template-only mode", t),
			}
		}
		grant := e.limiter.Reserve(ev.SubjectID, string(t))
		if !grant.Allowed {
			log.Printf("[TRIGGER] %s for %s degraded to template: %s", t, ev.SubjectID, grant.Reason)
			return Decision{
				ShouldGenerate: true,
				UseAI:          false,
				Type:           t,
				Reason:         fmt.Sprintf("%s, template fallback: %s", t, grant.Reason),
			}
		}
		return Decision{
			ShouldGenerate: true,
			UseAI:          true,
			Type:           t,
			Reason:         fmt.Sprintf("%s at %d check-ins", t, ev.CheckinCount),
		}
	default: // TypePatternDiscovery
		if ev.TemplateOnly {
			return Decision{
				ShouldGenerate: true,
				UseAI:          false,
				Type:           t,
				Reason:         "significant pattern, template-only mode",
			}
		}
		grant := e.limiter.Reserve(ev.SubjectID, string(t))
		if !grant.Allowed {
			log.Printf("[TRIGGER] pattern discovery for %s skipped: %s", ev.SubjectID, grant.Reason)
			return Decision{
				ShouldGenerate: false,
				UseAI:          false,
				Type:           t,
				Reason:         fmt.Sprintf("pattern discovery skipped: %s", grant.Reason),
			}
		}
		return Decision{
			ShouldGenerate: true,
			UseAI:          true,
			Type:           t,
			Reason:         "significant pattern detected",
		}
	}
}

// #endregion engine
