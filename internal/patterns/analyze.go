package patterns

import (
	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/contextbuild"
)

// #region thresholds

const (
	minCheckinsCorrelation = 5
	minCheckinsTrend       = 5
	minCheckinsExtremes    = 7 // hard gate, never bypassed
	minSessionsExercise    = 3

	goodSleepCutoff = 7

	painCorrelationDelta = 2.0
	moodCorrelationDelta = 1.5
	stableTrendBand      = 1.0

	highConfidenceCount   = 14
	mediumConfidenceCount = 7
	highConfidenceMinSide = 3
)

// #endregion thresholds

// #region analyze

// Analyze is a pure function over a full context: same input, same output,
// no hidden state and no writes.
func Analyze(fc contextbuild.FullContext) ComprehensivePatterns {
	history := fc.History

	p := ComprehensivePatterns{
		SleepPain: sleepCorrelation(history, MetricPain),
		SleepMood: sleepCorrelation(history, MetricMood),
		Trends: []TrendAnalysis{
			trend(history, MetricPain),
			trend(history, MetricSleep),
			trend(history, MetricMood),
		},
		Exercise: exerciseImpacts(history, fc.Activity[checkin.KindExercise]),
	}
	p.BestDay, p.WorstDay = extremes(history)
	p.Insights = buildInsights(p)
	return p
}

// #endregion analyze

// #region correlation

// sleepCorrelation partitions check-ins at sleep quality >= 7 and compares
// the given metric across the two sides.
func sleepCorrelation(history checkin.SeriesAsc, metric Metric) SleepCorrelation {
	sc := SleepCorrelation{Metric: metric, Confidence: ConfidenceLow}
	if len(history) < minCheckinsCorrelation {
		return sc
	}

	var goodSum, poorSum float64
	for _, c := range history {
		v := metricValue(c, metric)
		if c.SleepQuality >= goodSleepCutoff {
			goodSum += v
			sc.GoodSleepDays++
		} else {
			poorSum += v
			sc.PoorSleepDays++
		}
	}
	if sc.GoodSleepDays == 0 || sc.PoorSleepDays == 0 {
		return sc
	}

	sc.GoodSleepAvg = goodSum / float64(sc.GoodSleepDays)
	sc.PoorSleepAvg = poorSum / float64(sc.PoorSleepDays)
	sc.Difference = sc.GoodSleepAvg - sc.PoorSleepAvg
	sc.Confidence = correlationConfidence(len(history), sc.GoodSleepDays, sc.PoorSleepDays)

	delta := painCorrelationDelta
	if metric == MetricMood {
		delta = moodCorrelationDelta
	}
	sc.HasCorrelation = abs(sc.Difference) >= delta
	return sc
}

// correlationConfidence: high needs >= 14 check-ins and >= 3 samples on each
// side of the sleep partition; medium needs >= 7 check-ins; else low.
func correlationConfidence(total, goodDays, poorDays int) Confidence {
	if total >= highConfidenceCount && goodDays >= highConfidenceMinSide && poorDays >= highConfidenceMinSide {
		return ConfidenceHigh
	}
	if total >= mediumConfidenceCount {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// #endregion correlation

// #region trend

// trend splits the ordered series at the midpoint and compares half averages.
func trend(history checkin.SeriesAsc, metric Metric) TrendAnalysis {
	t := TrendAnalysis{Metric: metric, Direction: TrendStable, Confidence: ConfidenceLow}
	if len(history) < minCheckinsTrend {
		return t
	}

	mid := len(history) / 2
	t.FirstHalfAvg = metricAvg(history[:mid], metric)
	t.SecondHalfAvg = metricAvg(history[mid:], metric)
	t.Change = t.SecondHalfAvg - t.FirstHalfAvg
	t.Confidence = countConfidence(len(history))

	if abs(t.Change) < stableTrendBand {
		t.Direction = TrendStable
		return t
	}

	rising := t.Change > 0
	if metric == MetricPain {
		// pain going up is getting worse
		rising = !rising
	}
	if rising {
		t.Direction = TrendImproving
	} else {
		t.Direction = TrendDeclining
	}
	return t
}

func countConfidence(total int) Confidence {
	switch {
	case total >= highConfidenceCount:
		return ConfidenceHigh
	case total >= mediumConfidenceCount:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// #endregion trend

// #region exercise

// exerciseImpacts groups exercise logs by type and averages same-day pain and
// mood. Types with fewer than 3 matched sessions are skipped.
func exerciseImpacts(history checkin.SeriesAsc, logs []checkin.ActivityLog) []ExerciseImpact {
	if len(logs) == 0 || len(history) == 0 {
		return nil
	}

	byDay := make(map[string]checkin.CheckIn, len(history))
	for _, c := range history {
		byDay[c.Date.Format("2006-01-02")] = c
	}

	type accum struct {
		sessions int
		painSum  float64
		moodSum  float64
	}
	groups := make(map[string]*accum)
	var order []string
	for _, a := range logs {
		c, ok := byDay[a.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		g, seen := groups[a.Name]
		if !seen {
			g = &accum{}
			groups[a.Name] = g
			order = append(order, a.Name)
		}
		g.sessions++
		g.painSum += float64(c.Pain)
		g.moodSum += float64(c.Mood)
	}

	var out []ExerciseImpact
	for _, name := range order {
		g := groups[name]
		if g.sessions < minSessionsExercise {
			continue
		}
		imp := ExerciseImpact{
			Name:     name,
			Sessions: g.sessions,
			AvgPain:  g.painSum / float64(g.sessions),
			AvgMood:  g.moodSum / float64(g.sessions),
		}
		imp.Beneficial = imp.AvgMood >= 6 && imp.AvgPain <= 6
		out = append(out, imp)
	}
	return out
}

// #endregion exercise

// #region extremes

// extremes finds the best and worst day by composite score mood+sleep-pain.
// Hard-gated: under 7 check-ins both are nil, regardless of score spread.
func extremes(history checkin.SeriesAsc) (best, worst *DayExtreme) {
	if len(history) < minCheckinsExtremes {
		return nil, nil
	}

	toExtreme := func(c checkin.CheckIn) *DayExtreme {
		return &DayExtreme{
			Date:         c.Date,
			Score:        c.Mood + c.SleepQuality - c.Pain,
			Mood:         c.Mood,
			SleepQuality: c.SleepQuality,
			Pain:         c.Pain,
		}
	}

	best = toExtreme(history[0])
	worst = toExtreme(history[0])
	for _, c := range history[1:] {
		score := c.Mood + c.SleepQuality - c.Pain
		// strict comparisons keep the earliest day on ties
		if score > best.Score {
			best = toExtreme(c)
		}
		if score < worst.Score {
			worst = toExtreme(c)
		}
	}
	return best, worst
}

// #endregion extremes

// #region helpers

func metricValue(c checkin.CheckIn, m Metric) float64 {
	switch m {
	case MetricPain:
		return float64(c.Pain)
	case MetricSleep:
		return float64(c.SleepQuality)
	default:
		return float64(c.Mood)
	}
}

func metricAvg(cs checkin.SeriesAsc, m Metric) float64 {
	if len(cs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cs {
		sum += metricValue(c, m)
	}
	return sum / float64(len(cs))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// #endregion helpers
