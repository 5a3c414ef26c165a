package patterns

import "fmt"

// #region insights

// buildInsights converts the analyses into ordered plain-language sentences:
// correlation first, then trends, then extremes, then one exercise note.
// The list feeds the prompt builder and, in template mode, the message body.
func buildInsights(p ComprehensivePatterns) []string {
	var out []string

	if s := correlationInsight(p.SleepPain); s != "" {
		out = append(out, s)
	}
	if s := correlationInsight(p.SleepMood); s != "" {
		out = append(out, s)
	}

	for _, t := range p.Trends {
		if t.Direction == TrendStable || t.Confidence == ConfidenceLow {
			continue
		}
		out = append(out, trendInsight(t))
	}

	if p.BestDay != nil && p.WorstDay != nil {
		out = append(out, fmt.Sprintf(
			"Your best day so far was %s (mood %d, sleep %d, pain %d) and your hardest was %s.",
			p.BestDay.Date.Format("Jan 2"), p.BestDay.Mood, p.BestDay.SleepQuality, p.BestDay.Pain,
			p.WorstDay.Date.Format("Jan 2"),
		))
	}

	for _, e := range p.Exercise {
		if !e.Beneficial {
			continue
		}
		out = append(out, fmt.Sprintf(
			"Days with %s tend to be better ones: average mood %.1f and pain %.1f across %d sessions.",
			e.Name, e.AvgMood, e.AvgPain, e.Sessions,
		))
		break // one exercise sentence at most
	}

	return out
}

// #endregion insights

// #region sentences

func correlationInsight(sc SleepCorrelation) string {
	if !sc.HasCorrelation {
		return ""
	}
	switch sc.Metric {
	case MetricPain:
		if sc.Difference < 0 {
			return fmt.Sprintf(
				"On nights you sleep well (7+), your pain averages %.1f versus %.1f after poor sleep — a %.1f point difference.",
				sc.GoodSleepAvg, sc.PoorSleepAvg, -sc.Difference,
			)
		}
		return fmt.Sprintf(
			"Unusually, your pain runs higher after good sleep (%.1f vs %.1f) — worth watching.",
			sc.GoodSleepAvg, sc.PoorSleepAvg,
		)
	default:
		if sc.Difference > 0 {
			return fmt.Sprintf(
				"Good sleep lifts your mood: %.1f on well-rested days versus %.1f otherwise.",
				sc.GoodSleepAvg, sc.PoorSleepAvg,
			)
		}
		return fmt.Sprintf(
			"Your mood runs lower after good sleep (%.1f vs %.1f), which is unusual and worth watching.",
			sc.GoodSleepAvg, sc.PoorSleepAvg,
		)
	}
}

func trendInsight(t TrendAnalysis) string {
	verb := "improving"
	if t.Direction == TrendDeclining {
		verb = "trending downward"
	}
	switch t.Metric {
	case MetricPain:
		return fmt.Sprintf("Your pain has been %s: averaging %.1f recently, compared with %.1f earlier.",
			verb, t.SecondHalfAvg, t.FirstHalfAvg)
	case MetricSleep:
		return fmt.Sprintf("Your sleep quality is %s: %.1f lately versus %.1f before.",
			verb, t.SecondHalfAvg, t.FirstHalfAvg)
	default:
		return fmt.Sprintf("Your mood is %s: %.1f lately versus %.1f before.",
			verb, t.SecondHalfAvg, t.FirstHalfAvg)
	}
}

// #endregion sentences
