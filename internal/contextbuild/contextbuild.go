package contextbuild

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/tone"
)

// #region contract

// HistoryReader is the slice of the store the builders need. Every method is
// a narrow indexed lookup except GetCheckins, which the full builder alone
// may call.
type HistoryReader interface {
	GetSubject(subjectID string) (checkin.Subject, error)
	GetCheckins(subjectID string, since time.Time) (checkin.SeriesAsc, error)
	GetRecentCheckins(subjectID string, n int) (checkin.SeriesDesc, error)
	GetCheckinForDate(subjectID string, day time.Time) (checkin.CheckIn, error)
	CountCheckins(subjectID string) (int, error)
	GetActivityLogs(subjectID string, kind checkin.ActivityKind, since time.Time) ([]checkin.ActivityLog, error)
	GetRecentMessages(subjectID string, n int) ([]checkin.Message, error)
}

// #endregion contract

// #region types

// QuickContext is the narrow snapshot used on the daily-comment path. Built
// from indexed lookups only, never a full-history scan.
type QuickContext struct {
	Subject        checkin.Subject
	RecentCheckins checkin.SeriesDesc // last 7, newest-first
	RecentMessages []checkin.Message  // last 3 engine messages
	Interventions  []checkin.ActivityLog
	TotalCheckins  int
	Today          *checkin.CheckIn // nil when no check-in exists for today
}

// FullContext adds the entire ordered history and 30 days of activity logs.
// Expensive: built only at milestones or pattern-discovery events.
type FullContext struct {
	QuickContext
	History  checkin.SeriesAsc // complete, oldest-first
	Activity map[checkin.ActivityKind][]checkin.ActivityLog
}

// #endregion types

// #region builder

const (
	recentCheckinWindow = 7
	recentMessageWindow = 3
	interventionCap     = 10
	activityLookback    = 30 * 24 * time.Hour
)

// Builder assembles quick and full contexts from the history store.
type Builder struct {
	reader HistoryReader
	now    func() time.Time
}

// New creates a Builder over the given reader.
func New(reader HistoryReader) *Builder {
	return &Builder{reader: reader, now: time.Now}
}

// WithClock overrides the builder's clock. Test hook.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// #endregion builder

// #region quick

// Quick builds the narrow snapshot. On any read failure it degrades to a
// minimal safe default (general_wellness tone, empty lists, count 0) so the
// caller always receives a usable context.
func (b *Builder) Quick(subjectID string) QuickContext {
	qc := QuickContext{
		Subject: checkin.Subject{
			ID:          subjectID,
			ToneProfile: string(tone.ProfileGeneralWellness),
		},
	}

	sub, err := b.reader.GetSubject(subjectID)
	if err != nil {
		log.Printf("[CONTEXT] subject lookup failed for %s, using default: %v", subjectID, err)
		return qc
	}
	qc.Subject = sub

	if recent, err := b.reader.GetRecentCheckins(subjectID, recentCheckinWindow); err != nil {
		log.Printf("[CONTEXT] recent checkins failed for %s: %v", subjectID, err)
	} else {
		qc.RecentCheckins = recent
	}

	if msgs, err := b.reader.GetRecentMessages(subjectID, recentMessageWindow); err != nil {
		log.Printf("[CONTEXT] recent messages failed for %s: %v", subjectID, err)
	} else {
		qc.RecentMessages = msgs
	}

	if n, err := b.reader.CountCheckins(subjectID); err != nil {
		log.Printf("[CONTEXT] checkin count failed for %s: %v", subjectID, err)
	} else {
		qc.TotalCheckins = n
	}

	qc.Interventions = b.activeInterventions(subjectID)

	today := checkin.DateOnly(b.now())
	if c, err := b.reader.GetCheckinForDate(subjectID, today); err == nil {
		qc.Today = &c
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("[CONTEXT] today lookup failed for %s: %v", subjectID, err)
	}

	return qc
}

// activeInterventions returns up to interventionCap recent treatment and
// gear-usage entries. Failures degrade to an empty list.
func (b *Builder) activeInterventions(subjectID string) []checkin.ActivityLog {
	since := b.now().Add(-activityLookback)
	var out []checkin.ActivityLog
	for _, kind := range []checkin.ActivityKind{checkin.KindTreatment, checkin.KindGearUsage} {
		logs, err := b.reader.GetActivityLogs(subjectID, kind, since)
		if err != nil {
			log.Printf("[CONTEXT] %s interventions failed for %s: %v", kind, subjectID, err)
			continue
		}
		out = append(out, logs...)
	}
	if len(out) > interventionCap {
		out = out[len(out)-interventionCap:]
	}
	return out
}

// #endregion quick

// #region full

// Full builds the complete context. Each activity-log source degrades to an
// empty list on failure; the call never fails as a unit.
func (b *Builder) Full(subjectID string) FullContext {
	fc := FullContext{
		QuickContext: b.Quick(subjectID),
		Activity:     make(map[checkin.ActivityKind][]checkin.ActivityLog),
	}

	history, err := b.reader.GetCheckins(subjectID, time.Time{})
	if err != nil {
		log.Printf("[CONTEXT] full history failed for %s: %v", subjectID, err)
	} else {
		fc.History = history
	}

	since := b.now().Add(-activityLookback)
	for _, kind := range checkin.AllActivityKinds {
		logs, err := b.reader.GetActivityLogs(subjectID, kind, since)
		if err != nil {
			log.Printf("[CONTEXT] %s logs failed for %s, degrading to empty: %v", kind, subjectID, err)
			continue
		}
		fc.Activity[kind] = logs
	}

	return fc
}

// #endregion full
