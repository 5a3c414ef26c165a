package respond

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/contextbuild"
	"github.com/quietpath/companion/internal/llm"
	"github.com/quietpath/companion/internal/tone"
	"github.com/quietpath/companion/internal/trigger"
)

// #region fakes

// fakeReader is a canned history store for the context builder.
type fakeReader struct {
	subject checkin.Subject
	history checkin.SeriesAsc
	count   int
}

func (f *fakeReader) GetSubject(subjectID string) (checkin.Subject, error) {
	return f.subject, nil
}

func (f *fakeReader) GetCheckins(subjectID string, since time.Time) (checkin.SeriesAsc, error) {
	return f.history, nil
}

func (f *fakeReader) GetRecentCheckins(subjectID string, n int) (checkin.SeriesDesc, error) {
	return f.history.Desc(), nil
}

func (f *fakeReader) GetCheckinForDate(subjectID string, day time.Time) (checkin.CheckIn, error) {
	if len(f.history) == 0 {
		return checkin.CheckIn{}, errors.New("no rows")
	}
	return f.history[len(f.history)-1], nil
}

func (f *fakeReader) CountCheckins(subjectID string) (int, error) {
	return f.count, nil
}

func (f *fakeReader) GetActivityLogs(subjectID string, kind checkin.ActivityKind, since time.Time) ([]checkin.ActivityLog, error) {
	return nil, nil
}

func (f *fakeReader) GetRecentMessages(subjectID string, n int) ([]checkin.Message, error) {
	return nil, nil
}

// fakeDecider returns canned decisions in order, then repeats the last.
type fakeDecider struct {
	decisions []trigger.Decision
	events    []trigger.Event
}

func (f *fakeDecider) Decide(ev trigger.Event) trigger.Decision {
	f.events = append(f.events, ev)
	if len(f.decisions) > 1 {
		d := f.decisions[0]
		f.decisions = f.decisions[1:]
		return d
	}
	return f.decisions[0]
}

// fakeCompleter returns a fixed completion or a fixed error.
type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, opts llm.Options) (string, error) {
	f.calls++
	return f.text, f.err
}

// fakeRecorder captures recorded messages and can fail.
type fakeRecorder struct {
	recorded []checkin.Message
	err      error
}

func (f *fakeRecorder) RecordMessage(m checkin.Message) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, m)
	return nil
}

// #endregion fakes

// #region helpers

func todayCheckin(mood, sleep, pain int) checkin.CheckIn {
	return checkin.CheckIn{
		SubjectID:    "s1",
		Date:         checkin.DateOnly(time.Now().UTC()),
		Mood:         mood,
		SleepQuality: sleep,
		Pain:         pain,
	}
}

func generator(dec *fakeDecider, comp llm.Client, rec *fakeRecorder) *Generator {
	reader := &fakeReader{
		subject: checkin.Subject{ID: "s1", FirstName: "Ada", ToneProfile: "chronic_pain"},
		count:   10,
	}
	return New(contextbuild.New(reader), dec, comp, rec, time.Second)
}

// #endregion helpers

// #region sanitize

func TestSanitizeAppendsTrackingPhrase(t *testing.T) {
	out := Sanitize("A thoughtful note about your pain.", todayCheckin(5, 5, 3))
	if !strings.HasSuffix(out, tone.TrackingPhrase) {
		t.Fatalf("missing tracking phrase: %q", out)
	}
}

func TestSanitizeDoesNotDoubleAppend(t *testing.T) {
	in := "About your pain. " + tone.TrackingPhrase
	out := Sanitize(in, todayCheckin(5, 5, 3))
	if strings.Count(out, tone.TrackingPhrase) != 1 {
		t.Fatalf("tracking phrase duplicated: %q", out)
	}
}

func TestSanitizePrependsPainClause(t *testing.T) {
	out := Sanitize("Hope today felt lighter.", todayCheckin(5, 5, 8))
	if !strings.Contains(out, "8") || !mentionsPain(out) {
		t.Fatalf("pain 8 not acknowledged: %q", out)
	}
	if !strings.HasPrefix(out, "I don't want to gloss over") {
		t.Fatalf("high pain should get the emphatic clause: %q", out)
	}
}

func TestSanitizeSkipsClauseWhenPainMentioned(t *testing.T) {
	out := Sanitize("Sorry today's flare was rough.", todayCheckin(5, 5, 8))
	if strings.Contains(out, "gloss over") {
		t.Fatalf("pain already mentioned, clause should not be added: %q", out)
	}
}

func TestSanitizeSkipsClauseAtZeroPain(t *testing.T) {
	out := Sanitize("Lovely steady day.", todayCheckin(7, 8, 0))
	if strings.Contains(out, "Noting your pain") {
		t.Fatalf("zero pain must not trigger the clause: %q", out)
	}
}

// #endregion sanitize

// #region generate

func TestDailyPathUsesTemplateAndRecords(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, Type: trigger.TypeDailyComment, Reason: "regular day"},
	}}
	comp := &fakeCompleter{text: "should never be called"}
	rec := &fakeRecorder{}

	m := generator(dec, comp, rec).Generate(context.Background(), "s1", todayCheckin(4, 3, 8))

	if m.UsedAI {
		t.Fatal("daily comment must not use AI")
	}
	if comp.calls != 0 {
		t.Fatalf("daily path called the completer %d times", comp.calls)
	}
	if !strings.HasSuffix(m.MessageText, tone.TrackingPhrase) {
		t.Fatalf("message missing tracking phrase: %q", m.MessageText)
	}
	if len(rec.recorded) != 1 {
		t.Fatalf("message not recorded, got %d", len(rec.recorded))
	}
	if m.TriggerType != string(trigger.TypeDailyComment) {
		t.Fatalf("trigger type = %q", m.TriggerType)
	}
}

func TestAIPathSanitizesCompletion(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, UseAI: true, Type: trigger.TypeMilestone, Reason: "milestone"},
	}}
	comp := &fakeCompleter{text: "Seven days in, and your numbers are telling a story."}
	rec := &fakeRecorder{}

	m := generator(dec, comp, rec).Generate(context.Background(), "s1", todayCheckin(5, 5, 6))

	if !m.UsedAI {
		t.Fatal("allowed milestone should use AI")
	}
	if comp.calls != 1 {
		t.Fatalf("completer called %d times, want 1", comp.calls)
	}
	if !strings.HasSuffix(m.MessageText, tone.TrackingPhrase) {
		t.Fatalf("AI output not sanitized: %q", m.MessageText)
	}
	if !mentionsPain(m.MessageText) {
		t.Fatalf("pain 6 must be referenced after sanitization: %q", m.MessageText)
	}
}

func TestCompletionFailureFallsBackToTemplate(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, UseAI: true, Type: trigger.TypeMilestone, Reason: "milestone"},
	}}
	comp := &fakeCompleter{err: errors.New("upstream 503")}
	rec := &fakeRecorder{}

	m := generator(dec, comp, rec).Generate(context.Background(), "s1", todayCheckin(5, 5, 3))

	if m.UsedAI {
		t.Fatal("failed completion must be reported as template")
	}
	if m.MessageText == "" {
		t.Fatal("fallback must still produce text")
	}
	if !strings.HasSuffix(m.MessageText, tone.TrackingPhrase) {
		t.Fatalf("fallback missing tracking phrase: %q", m.MessageText)
	}
}

func TestNilCompleterStaysOnTemplates(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, UseAI: true, Type: trigger.TypeMilestone, Reason: "milestone"},
	}}
	rec := &fakeRecorder{}

	m := generator(dec, nil, rec).Generate(context.Background(), "s1", todayCheckin(5, 5, 3))
	if m.UsedAI {
		t.Fatal("no completer configured, message must be template")
	}
}

func TestNilCompleterSignalsTemplateOnly(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, Type: trigger.TypeMilestone, Reason: "milestone"},
	}}

	generator(dec, nil, &fakeRecorder{}).Generate(context.Background(), "s1", todayCheckin(5, 5, 3))
	if len(dec.events) == 0 || !dec.events[0].TemplateOnly {
		t.Fatalf("decider must learn there is no completion client: %+v", dec.events)
	}

	dec = &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, Type: trigger.TypeMilestone, Reason: "milestone"},
	}}
	generator(dec, &fakeCompleter{text: "ok"}, &fakeRecorder{}).Generate(context.Background(), "s1", todayCheckin(5, 5, 3))
	if len(dec.events) == 0 || dec.events[0].TemplateOnly {
		t.Fatalf("a configured completer must not signal template-only: %+v", dec.events)
	}
}

func TestSkippedDiscoveryStillAcknowledges(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: false, Type: trigger.TypePatternDiscovery, Reason: "daily cap reached"},
	}}
	rec := &fakeRecorder{}

	m := generator(dec, &fakeCompleter{}, rec).Generate(context.Background(), "s1", todayCheckin(5, 5, 3))

	if m.MessageText == "" {
		t.Fatal("a skipped discovery must still acknowledge the check-in")
	}
	if m.TriggerType != string(trigger.TypeDailyComment) {
		t.Fatalf("acknowledgement should be a daily comment, got %q", m.TriggerType)
	}
	if m.UsedAI {
		t.Fatal("acknowledgement must not spend an AI call")
	}
}

func TestRecorderFailureDoesNotBlockResponse(t *testing.T) {
	dec := &fakeDecider{decisions: []trigger.Decision{
		{ShouldGenerate: true, Type: trigger.TypeDailyComment, Reason: "regular day"},
	}}
	rec := &fakeRecorder{err: errors.New("disk full")}

	m := generator(dec, nil, rec).Generate(context.Background(), "s1", todayCheckin(5, 5, 3))
	if m.MessageText == "" {
		t.Fatal("persistence failure must not suppress the message")
	}
}

// #endregion generate

// #region symptoms

func TestDetectSymptomsThresholds(t *testing.T) {
	cases := []struct {
		name    string
		c       checkin.CheckIn
		want    []string
		concern string
	}{
		{"severe pain first", checkin.CheckIn{Pain: 9, Mood: 3, SleepQuality: 2}, []string{"severe_pain", "poor_sleep", "low_mood"}, "severe_pain"},
		{"elevated pain", checkin.CheckIn{Pain: 6, Mood: 7, SleepQuality: 7}, []string{"elevated_pain"}, "elevated_pain"},
		{"recognized tag", checkin.CheckIn{Pain: 2, Mood: 7, SleepQuality: 7, Tags: []string{"migraine", "made_up"}}, []string{"migraine"}, "migraine"},
		{"clean day", checkin.CheckIn{Pain: 1, Mood: 8, SleepQuality: 8}, nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, concern := DetectSymptoms(tc.c)
			if len(got) != len(tc.want) {
				t.Fatalf("symptoms = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("symptoms = %v, want %v", got, tc.want)
				}
			}
			if concern != tc.concern {
				t.Fatalf("concern = %q, want %q", concern, tc.concern)
			}
		})
	}
}

// #endregion symptoms

// #region suggestions

func TestSuggestionsForBadNumbers(t *testing.T) {
	out := suggestionsFor(checkin.CheckIn{Mood: 6, SleepQuality: 3, Pain: 8}, nil)
	if len(out) != 2 {
		t.Fatalf("expected sleep and pain suggestions, got %v", out)
	}
}

func TestSuggestionsEmptyOnGoodDayWithoutInsights(t *testing.T) {
	out := suggestionsFor(checkin.CheckIn{Mood: 8, SleepQuality: 8, Pain: 1}, nil)
	if len(out) != 0 {
		t.Fatalf("good day with no insights should have no suggestions, got %v", out)
	}
}

// #endregion suggestions
