package respond

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quietpath/companion/internal/audit"
	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/contextbuild"
	"github.com/quietpath/companion/internal/llm"
	"github.com/quietpath/companion/internal/patterns"
	"github.com/quietpath/companion/internal/summarize"
	"github.com/quietpath/companion/internal/tone"
	"github.com/quietpath/companion/internal/trigger"
)

// #region contracts

// Decider is the trigger engine surface the generator needs.
type Decider interface {
	Decide(ev trigger.Event) trigger.Decision
}

// MessageRecorder persists generated messages. A failed write is logged and
// swallowed: persistence problems never block the response.
type MessageRecorder interface {
	RecordMessage(m checkin.Message) error
}

// DecisionAuditor records trigger decisions, including skips. Optional; a
// failed write is logged and swallowed.
type DecisionAuditor interface {
	Record(e audit.Entry) error
}

// #endregion contracts

// #region fallback-table

// FailureKind categorizes why the AI path was abandoned.
type FailureKind string

const (
	FailureNone       FailureKind = "none"
	FailureCompletion FailureKind = "completion_error"
	FailureRateLimit  FailureKind = "rate_limited"
	FailureContext    FailureKind = "context_degraded"
)

// FallbackStrategy names the next-safer behavior for a failure.
type FallbackStrategy string

const (
	FallbackTemplate FallbackStrategy = "template"
	FallbackQuiet    FallbackStrategy = "skip"
)

// fallbackFor is the degradation decision table: failure kind to strategy.
// Data, not nested exception handling.
var fallbackFor = map[FailureKind]FallbackStrategy{
	FailureCompletion: FallbackTemplate,
	FailureRateLimit:  FallbackTemplate,
	FailureContext:    FallbackTemplate,
}

// #endregion fallback-table

// #region generator

// Generator orchestrates the whole engine: context tier selection, trigger
// decision, pattern analysis, AI-vs-template choice, sanitization. The
// caller always receives a well-formed Message; every dependency failure
// degrades instead of propagating.
type Generator struct {
	contexts  *contextbuild.Builder
	triggers  Decider
	completer llm.Client
	recorder  MessageRecorder
	auditor   DecisionAuditor
	timeout   time.Duration
	now       func() time.Time
}

// New wires a generator. completer may be nil (template-only mode, e.g. in
// tests or when no API key is configured).
func New(contexts *contextbuild.Builder, triggers Decider, completer llm.Client, recorder MessageRecorder, timeout time.Duration) *Generator {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Generator{
		contexts:  contexts,
		triggers:  triggers,
		completer: completer,
		recorder:  recorder,
		timeout:   timeout,
		now:       time.Now,
	}
}

// WithClock overrides the generator's clock. Test hook.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithAudit attaches a decision audit trail.
func (g *Generator) WithAudit(a DecisionAuditor) *Generator {
	g.auditor = a
	return g
}

// #endregion generator

// #region generate

// Generate produces the message for today's just-persisted check-in.
func (g *Generator) Generate(ctx context.Context, subjectID string, today checkin.CheckIn) checkin.Message {
	qc := g.contexts.Quick(subjectID)

	decision := g.triggers.Decide(trigger.Event{
		SubjectID:          subjectID,
		CheckinCount:       qc.TotalCheckins,
		SignificantPattern: false, // only known after full analysis
		CheckedInToday:     g.alreadyMessagedToday(qc),
		TemplateOnly:       g.completer == nil,
	})
	log.Printf("[RESPOND] %s: trigger=%s ai=%v (%s)", subjectID, decision.Type, decision.UseAI, decision.Reason)

	profile := tone.Lookup(qc.Subject.ToneProfile)

	// Daily comments stay on the narrow path: quick context only, O(1)
	// queries, no analyzer.
	if decision.Type == trigger.TypeDailyComment {
		text := profile.Daily(today.Pain, today.Mood, today.SleepQuality, qc.Subject.FirstName)
		return g.finish(subjectID, today, decision, text, nil)
	}

	fc := g.contexts.Full(subjectID)
	pats := patterns.Analyze(fc)

	// Patterns discovered only now may upgrade the event, subject to the
	// same rate check the first decision went through.
	if pats.Significant() && !decision.UseAI && decision.Type != trigger.TypeMilestone {
		upgraded := g.triggers.Decide(trigger.Event{
			SubjectID:          subjectID,
			CheckinCount:       qc.TotalCheckins,
			SignificantPattern: true,
			CheckedInToday:     g.alreadyMessagedToday(qc),
			TemplateOnly:       g.completer == nil,
		})
		if upgraded.Type == trigger.TypePatternDiscovery {
			decision = upgraded
			log.Printf("[RESPOND] %s: promoted to %s ai=%v", subjectID, decision.Type, decision.UseAI)
		}
	}
	if !decision.ShouldGenerate {
		g.auditDecision(subjectID, decision, false)
		// A skipped pattern discovery still acknowledges the check-in the
		// cheap way rather than staying silent.
		text := profile.Daily(today.Pain, today.Mood, today.SleepQuality, qc.Subject.FirstName)
		daily := trigger.Decision{ShouldGenerate: true, Type: trigger.TypeDailyComment, Reason: decision.Reason}
		return g.finish(subjectID, today, daily, text, nil)
	}

	// No completer means no AI path, whatever the decision says.
	if g.completer == nil {
		decision.UseAI = false
	}
	if decision.UseAI {
		text, failure := g.completeAI(ctx, fc, pats, profile, decision)
		if failure == FailureNone {
			text = Sanitize(text, today)
			return g.finish(subjectID, today, decision, text, pats.Insights)
		}
		log.Printf("[RESPOND] %s: %s, falling back to %s", subjectID, failure, fallbackFor[failure])
		decision.UseAI = false
	}

	text := g.templateText(decision.Type, qc, today, profile, pats.Insights)
	return g.finish(subjectID, today, decision, text, pats.Insights)
}

// #endregion generate

// #region ai-path

func budgetForTrigger(t trigger.Type, totalCheckins int) summarize.Budget {
	switch {
	case t == trigger.TypePatternDiscovery:
		return summarize.BudgetFull
	case totalCheckins < 7:
		return summarize.BudgetMinimal
	default:
		return summarize.BudgetStandard
	}
}

// completeAI builds the prompt and calls the completion service once. No
// retries: a failed paid call falls back immediately.
func (g *Generator) completeAI(ctx context.Context, fc contextbuild.FullContext, pats patterns.ComprehensivePatterns, profile tone.Profile, decision trigger.Decision) (string, FailureKind) {
	summary := summarize.Build(fc, pats, budgetForTrigger(decision.Type, fc.TotalCheckins))
	prompt := summary.RenderPrompt()

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.completer.Complete(callCtx, profile.SystemPrompt, prompt, llm.Options{
		Temperature: profile.Temperature,
	})
	if err != nil {
		log.Printf("[RESPOND] completion failed: %v", err)
		return "", FailureCompletion
	}
	return text, FailureNone
}

// #endregion ai-path

// #region template-path

// templateText renders the deterministic fallback for a trigger type, weaving
// in the strongest insight when the analyzer produced one.
func (g *Generator) templateText(t trigger.Type, qc contextbuild.QuickContext, today checkin.CheckIn, profile tone.Profile, insights []string) string {
	var body string
	switch t {
	case trigger.TypeMilestone, trigger.TypeWeeklySummary:
		body = profile.Milestone(qc.TotalCheckins, qc.Subject.FirstName)
	default:
		body = profile.Daily(today.Pain, today.Mood, today.SleepQuality, qc.Subject.FirstName)
	}
	if len(insights) > 0 {
		body = insights[0] + " " + body
	}
	return body
}

// #endregion template-path

// #region finish

func (g *Generator) finish(subjectID string, today checkin.CheckIn, decision trigger.Decision, text string, insights []string) checkin.Message {
	symptoms, concern := DetectSymptoms(today)

	m := checkin.Message{
		ID:               uuid.New().String(),
		SubjectID:        subjectID,
		TriggerType:      string(decision.Type),
		UsedAI:           decision.UseAI,
		DetectedSymptoms: symptoms,
		PrimaryConcern:   concern,
		Severity:         checkin.SeverityFor(today),
		MessageText:      text,
		Suggestions:      suggestionsFor(today, insights),
		CreatedAt:        g.now().UTC(),
	}

	if g.recorder != nil {
		if err := g.recorder.RecordMessage(m); err != nil {
			log.Printf("[RESPOND] record message failed for %s: %v", subjectID, err)
		}
	}
	g.auditDecision(subjectID, decision, true)
	return m
}

func (g *Generator) auditDecision(subjectID string, decision trigger.Decision, generated bool) {
	if g.auditor == nil {
		return
	}
	err := g.auditor.Record(audit.Entry{
		SubjectID:   subjectID,
		TriggerType: string(decision.Type),
		Generated:   generated,
		UsedAI:      decision.UseAI,
		Reason:      decision.Reason,
		CreatedAt:   g.now().UTC(),
	})
	if err != nil {
		log.Printf("[RESPOND] audit write failed for %s: %v", subjectID, err)
	}
}

// alreadyMessagedToday reports whether the engine already responded to a
// check-in today — the marker that this submission is a resubmission.
func (g *Generator) alreadyMessagedToday(qc contextbuild.QuickContext) bool {
	today := checkin.DateOnly(g.now())
	for _, m := range qc.RecentMessages {
		if checkin.SameDay(m.CreatedAt, today) {
			return true
		}
	}
	return false
}

// #endregion finish

// #region suggestions

// suggestionsFor derives small deterministic suggestions from today's
// numbers. Advice stays generic by design: the engine reflects data, it does
// not prescribe.
func suggestionsFor(today checkin.CheckIn, insights []string) []string {
	var out []string
	if today.SleepQuality <= 4 {
		out = append(out, "Note anything unusual about last night's routine while it's fresh.")
	}
	if today.Pain >= 7 {
		out = append(out, "Consider tagging what preceded today's pain so spikes become traceable.")
	}
	if today.Mood <= 4 && today.SleepQuality > 4 {
		out = append(out, "A line in the journal about today's mood can make next month's patterns clearer.")
	}
	if len(out) == 0 && len(insights) > 0 {
		out = append(out, "Your history is starting to show patterns — keep the streak going.")
	}
	return out
}

// #endregion suggestions

// #region sanitize

// Sanitize post-processes completion output: it must end with the mandated
// tracking phrase, and if today's pain is non-zero the text must reference
// pain somewhere.
func Sanitize(text string, today checkin.CheckIn) string {
	text = strings.TrimSpace(text)

	if today.Pain > 0 && !mentionsPain(text) {
		text = painClause(today) + " " + text
	}
	if !strings.HasSuffix(text, tone.TrackingPhrase) {
		text = strings.TrimRight(text, " \n") + " " + tone.TrackingPhrase
	}
	return text
}

func mentionsPain(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range []string{"pain", "ache", "aching", "hurt", "sore", "flare"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func painClause(today checkin.CheckIn) string {
	if today.Pain >= 7 {
		return fmt.Sprintf("I don't want to gloss over your pain being at %d today — that's significant.", today.Pain)
	}
	return fmt.Sprintf("Noting your pain at %d today.", today.Pain)
}

// #endregion sanitize
