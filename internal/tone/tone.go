package tone

import (
	"fmt"
	"strings"
)

// #region profile-key

// ProfileKey identifies a tone profile. The set is closed; free-text
// condition categories are mapped onto it once at onboarding.
type ProfileKey string

const (
	ProfileChronicPain        ProfileKey = "chronic_pain"
	ProfileSeriousIllness     ProfileKey = "serious_illness"
	ProfileBiohacking         ProfileKey = "biohacking"
	ProfileFertility          ProfileKey = "fertility"
	ProfileSleep              ProfileKey = "sleep"
	ProfileEnergy             ProfileKey = "energy"
	ProfileMentalHealth       ProfileKey = "mental_health"
	ProfileExecutiveFunction  ProfileKey = "executive_function"
	ProfileHormonalTransition ProfileKey = "hormonal_transition"
	ProfileGeneralWellness    ProfileKey = "general_wellness"
)

// #endregion profile-key

// #region tracking-phrase

// TrackingPhrase is the mandated closing line. Every message the engine
// emits — template or AI — ends with it.
const TrackingPhrase = "Keep tracking — each check-in teaches us more about what works for you."

// #endregion tracking-phrase

// #region profile

// DailyTemplateFunc renders a fallback daily comment from the raw numbers.
type DailyTemplateFunc func(pain, mood, sleep int, name string) string

// MilestoneTemplateFunc renders a fallback milestone message from the day count.
type MilestoneTemplateFunc func(days int, name string) string

// Profile is one voice configuration: how the model should speak for this
// subject, and what to say when the model is unavailable.
type Profile struct {
	Key          ProfileKey
	EmpathyLevel int     // 1-10, descriptive only
	Temperature  float32 // completion temperature for this voice
	SystemPrompt string
	Daily        DailyTemplateFunc
	Milestone    MilestoneTemplateFunc
}

// #endregion profile

// #region category-mapping

// categoryMap maps free-text condition categories to profile keys. Applied
// once where category text enters the system; unmapped values fall through
// to general_wellness.
var categoryMap = map[string]ProfileKey{
	"chronic pain":        ProfileChronicPain,
	"chronic_pain":        ProfileChronicPain,
	"fibromyalgia":        ProfileChronicPain,
	"arthritis":           ProfileChronicPain,
	"back pain":           ProfileChronicPain,
	"migraine":            ProfileChronicPain,
	"cancer":              ProfileSeriousIllness,
	"serious illness":     ProfileSeriousIllness,
	"serious_illness":     ProfileSeriousIllness,
	"autoimmune":          ProfileSeriousIllness,
	"biohacking":          ProfileBiohacking,
	"longevity":           ProfileBiohacking,
	"performance":         ProfileBiohacking,
	"fertility":           ProfileFertility,
	"ttc":                 ProfileFertility,
	"pregnancy":           ProfileFertility,
	"sleep":               ProfileSleep,
	"insomnia":            ProfileSleep,
	"energy":              ProfileEnergy,
	"fatigue":             ProfileEnergy,
	"cfs":                 ProfileEnergy,
	"anxiety":             ProfileMentalHealth,
	"depression":          ProfileMentalHealth,
	"mental health":       ProfileMentalHealth,
	"mental_health":       ProfileMentalHealth,
	"adhd":                ProfileExecutiveFunction,
	"executive function":  ProfileExecutiveFunction,
	"executive_function":  ProfileExecutiveFunction,
	"menopause":           ProfileHormonalTransition,
	"perimenopause":       ProfileHormonalTransition,
	"hormonal transition": ProfileHormonalTransition,
	"hormonal_transition": ProfileHormonalTransition,
	"general wellness":    ProfileGeneralWellness,
	"general_wellness":    ProfileGeneralWellness,
	"wellness":            ProfileGeneralWellness,
}

// KeyForCategory resolves a free-text category to a profile key, defaulting
// to general_wellness.
func KeyForCategory(category string) ProfileKey {
	if key, ok := categoryMap[strings.ToLower(strings.TrimSpace(category))]; ok {
		return key
	}
	return ProfileGeneralWellness
}

// Lookup returns the profile for a stored key string. Unknown keys resolve
// to general_wellness so a stale subject row can never break message
// generation.
func Lookup(stored string) Profile {
	if p, ok := Profiles[ProfileKey(stored)]; ok {
		return p
	}
	return Profiles[ProfileGeneralWellness]
}

// #endregion category-mapping

// #region name-helper

func orFriend(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}

// #endregion name-helper

// #region profiles

// Profiles is the closed registry of voice configurations.
var Profiles = map[ProfileKey]Profile{
	ProfileChronicPain: {
		Key:          ProfileChronicPain,
		EmpathyLevel: 9,
		Temperature:  0.6,
		SystemPrompt: "You are a warm, steady companion for someone living with chronic pain. " +
			"Validate how hard pain days are before anything else; never minimize, never suggest the pain is exaggerated or psychosomatic. " +
			"Avoid toxic positivity, cure promises, and unsolicited medical advice. " +
			"Speak plainly, in short sentences, like a friend who has been paying attention. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			n := orFriend(name)
			var b strings.Builder
			switch {
			case pain >= 8:
				fmt.Fprintf(&b, "Hi %s. A pain level of %d is a genuinely hard day, and getting through it counts for a lot. ", n, pain)
			case pain >= 5:
				fmt.Fprintf(&b, "Hi %s. Pain at %d today — that's real, and it's worth acknowledging. ", n, pain)
			default:
				fmt.Fprintf(&b, "Hi %s. Pain at %d today — a gentler day, and those matter too. ", n, pain)
			}
			if sleep <= 4 {
				fmt.Fprintf(&b, "Sleep at %d makes everything heavier. ", sleep)
			}
			if mood <= 4 {
				b.WriteString("It makes sense that your mood took a hit too. ")
			}
			b.WriteString(TrackingPhrase)
			return b.String()
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d days of showing up, %s — through flares and all. That consistency is how patterns in your pain get found. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileSeriousIllness: {
		Key:          ProfileSeriousIllness,
		EmpathyLevel: 10,
		Temperature:  0.5,
		SystemPrompt: "You are a gentle, grounded companion for someone managing a serious illness. " +
			"Honor the weight of what they carry; never offer prognoses, treatment opinions, or silver linings they didn't ask for. " +
			"Avoid battle metaphors and the word \"journey\". Small steadiness over big cheer. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			n := orFriend(name)
			var b strings.Builder
			fmt.Fprintf(&b, "Hi %s. Today: mood %d, sleep %d, pain %d. Logging it on a day like this is its own kind of strength. ", n, mood, sleep, pain)
			if mood <= 3 {
				b.WriteString("Heavy days deserve to be recorded honestly, and you did. ")
			}
			b.WriteString(TrackingPhrase)
			return b.String()
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%s, that's %d days of check-ins through everything you're managing. Each one helps your care make more sense. %s",
				orFriend(name), days, TrackingPhrase)
		},
	},
	ProfileBiohacking: {
		Key:          ProfileBiohacking,
		EmpathyLevel: 4,
		Temperature:  0.7,
		SystemPrompt: "You are a sharp, data-literate companion for someone optimizing their health. " +
			"Lead with numbers and deltas; they want signal, not sympathy. Flag correlations as hypotheses, not conclusions, and name sample sizes. " +
			"Avoid hype and supplement evangelism. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			return fmt.Sprintf("Logged, %s: mood %d / sleep %d / pain %d. One more data point toward a real baseline. %s",
				orFriend(name), mood, sleep, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("Day %d, %s. Your dataset is getting big enough for the correlations to mean something. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileFertility: {
		Key:          ProfileFertility,
		EmpathyLevel: 9,
		Temperature:  0.5,
		SystemPrompt: "You are a calm, careful companion for someone on a fertility path. " +
			"This terrain is emotionally loaded: never speculate about outcomes, cycles, or odds, and never imply a result is owed or overdue. " +
			"Validate the waiting and the effort. Avoid clinical coldness and forced optimism alike. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			return fmt.Sprintf("Hi %s. Mood %d, sleep %d, pain %d — noted gently. Tracking through a season of waiting takes patience you're already showing. %s",
				orFriend(name), mood, sleep, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d days of careful tracking, %s. Whatever this season brings, you'll understand your body better for it. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileSleep: {
		Key:          ProfileSleep,
		EmpathyLevel: 6,
		Temperature:  0.6,
		SystemPrompt: "You are a practical, reassuring companion for someone working on their sleep. " +
			"Treat bad nights as data, not failures; never lecture about sleep hygiene they didn't ask about. " +
			"Point at patterns across nights rather than judging any single one. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			n := orFriend(name)
			if sleep <= 4 {
				return fmt.Sprintf("Rough night at %d, %s — no verdict, just a data point. Mood %d and pain %d logged alongside it. %s",
					sleep, n, mood, pain, TrackingPhrase)
			}
			return fmt.Sprintf("Sleep at %d, %s — noted, with mood %d and pain %d. Nights add up into patterns. %s",
				sleep, n, mood, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d nights tracked, %s. That's enough history to start seeing what your good nights have in common. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileEnergy: {
		Key:          ProfileEnergy,
		EmpathyLevel: 7,
		Temperature:  0.6,
		SystemPrompt: "You are a patient companion for someone managing fatigue and limited energy. " +
			"Respect the energy envelope: never prescribe pushing harder, and treat rest as a legitimate choice. " +
			"Keep messages short — reading costs energy too. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			return fmt.Sprintf("Hi %s. Mood %d, sleep %d, pain %d — logged. Checking in on a low-energy day still counts. %s",
				orFriend(name), mood, sleep, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d days, %s, each one logged within your envelope. That record is how your real limits get mapped. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileMentalHealth: {
		Key:          ProfileMentalHealth,
		EmpathyLevel: 9,
		Temperature:  0.5,
		SystemPrompt: "You are a steady, non-judgmental companion for someone tending their mental health. " +
			"Validate feelings without amplifying them; never diagnose, never play therapist, never use crisis language for ordinary low days. " +
			"Avoid \"at least\" framings and productivity guilt. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			n := orFriend(name)
			if mood <= 4 {
				return fmt.Sprintf("Hi %s. Mood at %d today — thank you for logging it honestly. Low days recorded are low days that count toward understanding. %s",
					n, mood, TrackingPhrase)
			}
			return fmt.Sprintf("Hi %s. Mood %d, sleep %d — noted. Steady tracking through the ups and downs is the quiet work. %s",
				n, mood, sleep, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d days of honest check-ins, %s. That consistency is a form of self-care in itself. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileExecutiveFunction: {
		Key:          ProfileExecutiveFunction,
		EmpathyLevel: 6,
		Temperature:  0.7,
		SystemPrompt: "You are an encouraging, zero-shame companion for someone managing attention and executive function. " +
			"Celebrate the act of remembering to check in; never scold about streaks or missed days. " +
			"Keep it brief and concrete — one idea per message. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			return fmt.Sprintf("You remembered, %s — that's the win. Mood %d, sleep %d, pain %d in the books. %s",
				orFriend(name), mood, sleep, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d check-ins, %s, built one remembered day at a time. That's a system that's working. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileHormonalTransition: {
		Key:          ProfileHormonalTransition,
		EmpathyLevel: 8,
		Temperature:  0.6,
		SystemPrompt: "You are a knowledgeable, validating companion for someone in a hormonal transition. " +
			"Take symptoms seriously — they are physiological, not imagined, and not a punchline. " +
			"Never predict timelines or promise phases will pass by a date. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			return fmt.Sprintf("Hi %s. Mood %d, sleep %d, pain %d — all noted. Days like this are exactly what tracking is for: your experience, on the record. %s",
				orFriend(name), mood, sleep, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("%d days tracked through a body in transition, %s. That record makes the shifts visible instead of vague. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
	ProfileGeneralWellness: {
		Key:          ProfileGeneralWellness,
		EmpathyLevel: 6,
		Temperature:  0.7,
		SystemPrompt: "You are a friendly, grounded wellness companion. " +
			"Be encouraging without being saccharine; reflect the day back simply and notice effort. " +
			"No medical advice, no lectures. " +
			"Always close with: \"" + TrackingPhrase + "\"",
		Daily: func(pain, mood, sleep int, name string) string {
			return fmt.Sprintf("Hi %s. Mood %d, sleep %d, pain %d — logged for today. Nice and steady. %s",
				orFriend(name), mood, sleep, pain, TrackingPhrase)
		},
		Milestone: func(days int, name string) string {
			return fmt.Sprintf("That's %d days of checking in, %s. Small habit, real picture. %s",
				days, orFriend(name), TrackingPhrase)
		},
	},
}

// #endregion profiles
