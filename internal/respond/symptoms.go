package respond

import "github.com/quietpath/companion/internal/checkin"

// #region symptom-tags

// knownSymptomTags are check-in tags the engine surfaces verbatim as
// detected symptoms. Anything else a user types stays in the journal only.
var knownSymptomTags = map[string]bool{
	"headache":    true,
	"migraine":    true,
	"nausea":      true,
	"fatigue":     true,
	"brain_fog":   true,
	"dizziness":   true,
	"stiffness":   true,
	"cramps":      true,
	"insomnia":    true,
	"anxiety":     true,
	"hot_flashes": true,
	"bloating":    true,
}

// #endregion symptom-tags

// #region detect

// DetectSymptoms derives the symptom list and primary concern from a single
// check-in: numeric thresholds first, then recognized tags. The primary
// concern is the first threshold crossed in severity order, or empty.
func DetectSymptoms(c checkin.CheckIn) (symptoms []string, primaryConcern string) {
	if c.Pain >= 8 {
		symptoms = append(symptoms, "severe_pain")
	} else if c.Pain >= 6 {
		symptoms = append(symptoms, "elevated_pain")
	}
	if c.SleepQuality <= 4 && c.SleepQuality >= 0 {
		symptoms = append(symptoms, "poor_sleep")
	}
	if c.Mood <= 4 {
		symptoms = append(symptoms, "low_mood")
	}

	for _, tag := range c.Tags {
		if knownSymptomTags[tag] {
			symptoms = append(symptoms, tag)
		}
	}

	if len(symptoms) > 0 {
		primaryConcern = symptoms[0]
	}
	return symptoms, primaryConcern
}

// #endregion detect
