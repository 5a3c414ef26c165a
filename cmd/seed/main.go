package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/replay"
	"github.com/quietpath/companion/internal/store"
	"github.com/quietpath/companion/internal/tone"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to companion.db")
	fixturePath := flag.String("fixture", "", "fixture JSON to load into the db")
	exportSubject := flag.String("export", "", "export a subject's history as a fixture instead")
	outPath := flag.String("out", "", "output path for --export")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: seed --db path/to/companion.db (--fixture f.json | --export subject --out f.json)")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *fixturePath != "":
		if err := seed(st, *fixturePath); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	case *exportSubject != "" && *outPath != "":
		if err := export(st, *exportSubject, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "pass --fixture, or --export with --out")
		os.Exit(2)
	}
}

// #endregion main

// #region seed

func seed(st *store.Store, fixturePath string) error {
	f, err := replay.LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	profile := f.Subject.ToneProfile
	if profile == "" {
		profile = string(tone.KeyForCategory(f.Subject.ConditionCategory))
	}
	if err := st.UpsertSubject(checkin.Subject{
		ID:                f.Subject.ID,
		FirstName:         f.Subject.FirstName,
		ConditionCategory: f.Subject.ConditionCategory,
		ToneProfile:       profile,
	}); err != nil {
		return err
	}

	days := 0
	for _, day := range f.Days {
		c, err := f.CheckinForDay(day)
		if err != nil {
			return err
		}
		if _, err := st.InsertCheckin(c); err != nil {
			return err
		}
		logs, err := f.ActivityForDay(day)
		if err != nil {
			return err
		}
		for _, a := range logs {
			if _, err := st.InsertActivityLog(a); err != nil {
				return err
			}
		}
		days++
	}
	fmt.Printf("seeded %s: %d days\n", f.Subject.ID, days)
	return nil
}

// #endregion seed

// #region export

func export(st *store.Store, subjectID, outPath string) error {
	sub, err := st.GetSubject(subjectID)
	if err != nil {
		return err
	}
	history, err := st.GetCheckins(subjectID, time.Time{})
	if err != nil {
		return err
	}

	logsByDay := make(map[string][]replay.FixtureActivity)
	for _, kind := range checkin.AllActivityKinds {
		logs, err := st.GetActivityLogs(subjectID, kind, time.Time{})
		if err != nil {
			return err
		}
		for _, a := range logs {
			key := a.Date.Format("2006-01-02")
			logsByDay[key] = append(logsByDay[key], replay.FixtureActivity{
				Kind:        string(a.Kind),
				Name:        a.Name,
				DurationMin: a.DurationMin,
				Value:       a.Value,
			})
		}
	}

	f := &replay.Fixture{
		Description: fmt.Sprintf("exported history for %s", subjectID),
		Subject: replay.FixtureSubject{
			ID:                sub.ID,
			FirstName:         sub.FirstName,
			ConditionCategory: sub.ConditionCategory,
			ToneProfile:       sub.ToneProfile,
		},
	}
	for _, c := range history {
		key := c.Date.Format("2006-01-02")
		f.Days = append(f.Days, replay.FixtureDay{
			Date:    key,
			Mood:    c.Mood,
			Sleep:   c.SleepQuality,
			Pain:    c.Pain,
			Tags:    c.Tags,
			Journal: c.Journal,
			Logs:    logsByDay[key],
		})
	}

	if err := replay.SaveFixture(outPath, f); err != nil {
		return err
	}
	fmt.Printf("exported %d days to %s\n", len(f.Days), outPath)
	return nil
}

// #endregion export
