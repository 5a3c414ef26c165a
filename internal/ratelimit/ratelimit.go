package ratelimit

import (
	"log"
	"time"

	"github.com/quietpath/companion/internal/checkin"
)

// #region contract

// CallLedger is the slice of the ledger the limiter needs.
type CallLedger interface {
	CountCallsSince(subjectID string, ts time.Time) (int, error)
	LastCallTime(subjectID string) (*time.Time, error)
	RecordCall(subjectID, messageType string) error
}

// #endregion contract

// #region config

// Config holds the limiter thresholds.
type Config struct {
	MaxCallsPerDay int           // per subject, per rolling UTC calendar day
	MinInterval    time.Duration // minimum spacing between two grants
}

// DefaultConfig returns the production limits: 5 calls/day, 4h apart.
func DefaultConfig() Config {
	return Config{
		MaxCallsPerDay: 5,
		MinInterval:    4 * time.Hour,
	}
}

// #endregion config

// #region decision

// Decision is the limiter's answer for one request.
type Decision struct {
	Allowed bool
	Reason  string
}

// #endregion decision

// #region limiter

// Limiter guards the expensive completion call. Both predicates read the
// append-only ledger; any read error denies the call (fail closed). The
// accepted race is two concurrent requests both seeing count=4 and both
// proceeding — a soft overshoot, never a silent unlimited state.
type Limiter struct {
	ledger CallLedger
	config Config
	now    func() time.Time
}

// New creates a limiter over the given ledger.
func New(ledger CallLedger, config Config) *Limiter {
	return &Limiter{ledger: ledger, config: config, now: time.Now}
}

// WithClock overrides the limiter's clock. Test hook.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check evaluates both predicates without spending a grant.
func (l *Limiter) Check(subjectID string) Decision {
	now := l.now().UTC()
	dayStart := checkin.DateOnly(now)

	count, err := l.ledger.CountCallsSince(subjectID, dayStart)
	if err != nil {
		log.Printf("[LIMIT] ledger count failed for %s, denying: %v", subjectID, err)
		return Decision{Allowed: false, Reason: "ledger unavailable"}
	}
	if count >= l.config.MaxCallsPerDay {
		return Decision{
			Allowed: false,
			Reason:  "daily cap reached",
		}
	}

	last, err := l.ledger.LastCallTime(subjectID)
	if err != nil {
		log.Printf("[LIMIT] ledger last-call lookup failed for %s, denying: %v", subjectID, err)
		return Decision{Allowed: false, Reason: "ledger unavailable"}
	}
	if last != nil && now.Sub(*last) < l.config.MinInterval {
		return Decision{
			Allowed: false,
			Reason:  "minimum interval not elapsed",
		}
	}

	return Decision{Allowed: true, Reason: "within limits"}
}

// Reserve checks the limits and, when allowed, durably records the grant
// before the caller spends it. A failed record denies the call: an unlogged
// grant would be invisible to the next request.
func (l *Limiter) Reserve(subjectID, messageType string) Decision {
	d := l.Check(subjectID)
	if !d.Allowed {
		return d
	}
	if err := l.ledger.RecordCall(subjectID, messageType); err != nil {
		log.Printf("[LIMIT] record failed for %s, denying: %v", subjectID, err)
		return Decision{Allowed: false, Reason: "ledger write failed"}
	}
	return d
}

// #endregion limiter
