package patterns

import "time"

// #region confidence

// Confidence tiers a statistical claim by sample size.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// #endregion confidence

// #region metric

// Metric names a tracked check-in dimension.
type Metric string

const (
	MetricPain  Metric = "pain"
	MetricSleep Metric = "sleep"
	MetricMood  Metric = "mood"
)

// #endregion metric

// #region correlation

// SleepCorrelation compares a metric across good-sleep (quality >= 7) and
// poor-sleep (< 7) days.
type SleepCorrelation struct {
	Metric         Metric
	GoodSleepAvg   float64
	PoorSleepAvg   float64
	Difference     float64 // GoodSleepAvg - PoorSleepAvg, signed
	GoodSleepDays  int
	PoorSleepDays  int
	HasCorrelation bool
	Confidence     Confidence
}

// #endregion correlation

// #region trend

// TrendDirection classifies a first-half vs second-half comparison.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendAnalysis is the midpoint-split trend for one metric. Change is the
// raw second-half minus first-half average; Direction already accounts for
// pain's inverted sign (pain going down is improving).
type TrendAnalysis struct {
	Metric        Metric
	FirstHalfAvg  float64
	SecondHalfAvg float64
	Change        float64
	Direction     TrendDirection
	Confidence    Confidence
}

// #endregion trend

// #region exercise

// ExerciseImpact is the average same-day pain/mood for one exercise type.
type ExerciseImpact struct {
	Name       string
	Sessions   int // sessions with a matching same-day check-in
	AvgPain    float64
	AvgMood    float64
	Beneficial bool // avg mood >= 6 and avg pain <= 6
}

// #endregion exercise

// #region extremes

// DayExtreme is a best or worst day by composite score (mood + sleep - pain).
type DayExtreme struct {
	Date         time.Time
	Score        int
	Mood         int
	SleepQuality int
	Pain         int
}

// #endregion extremes

// #region comprehensive

// ComprehensivePatterns bundles every analysis over one full context.
// Derived fresh per invocation and never persisted by the engine.
type ComprehensivePatterns struct {
	SleepPain SleepCorrelation
	SleepMood SleepCorrelation
	Trends    []TrendAnalysis
	Exercise  []ExerciseImpact
	BestDay   *DayExtreme // nil under 7 check-ins, unconditionally
	WorstDay  *DayExtreme
	Insights  []string
}

// Significant reports whether the bundle contains a pattern strong enough to
// justify a pattern-discovery message: a real correlation above low
// confidence, or a high-confidence non-stable trend.
func (p ComprehensivePatterns) Significant() bool {
	if p.SleepPain.HasCorrelation && p.SleepPain.Confidence != ConfidenceLow {
		return true
	}
	if p.SleepMood.HasCorrelation && p.SleepMood.Confidence != ConfidenceLow {
		return true
	}
	for _, t := range p.Trends {
		if t.Direction != TrendStable && t.Confidence == ConfidenceHigh {
			return true
		}
	}
	return false
}

// #endregion comprehensive
