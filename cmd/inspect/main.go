package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quietpath/companion/internal/audit"
	"github.com/quietpath/companion/internal/ledger"
	"github.com/quietpath/companion/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to companion.db")
	subject := flag.String("subject", "", "subject id")
	messages := flag.Int("messages", 10, "show N most recent engine messages")
	calls := flag.Bool("calls", false, "show today's AI-call ledger state")
	decisions := flag.Bool("decisions", false, "show recent trigger decisions, including skips")
	history := flag.Bool("history", false, "show full check-in history")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" || *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/companion.db --subject id [--messages N] [--calls] [--decisions] [--history] [--json]")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *calls {
		if err := showCalls(st, *subject, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *decisions {
		if err := showDecisions(st, *subject, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *history {
		if err := showHistory(st, *subject, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := showMessages(st, *subject, *messages, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region calls

type callsView struct {
	SubjectID  string     `json:"subject_id"`
	CallsToday int        `json:"calls_today"`
	LastCall   *time.Time `json:"last_call,omitempty"`
}

func showCalls(st *store.Store, subject string, jsonOut bool) error {
	led, err := ledger.New(st.DB())
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := led.CountCallsSince(subject, dayStart)
	if err != nil {
		return err
	}
	last, err := led.LastCallTime(subject)
	if err != nil {
		return err
	}
	v := callsView{SubjectID: subject, CallsToday: count, LastCall: last}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(v)
	}
	fmt.Printf("subject %s: %d AI calls today", subject, count)
	if last != nil {
		fmt.Printf(", last at %s", last.Format(time.RFC3339))
	}
	fmt.Println()
	return nil
}

// #endregion calls

// #region decisions

func showDecisions(st *store.Store, subject string, jsonOut bool) error {
	decLog, err := audit.New(st.DB())
	if err != nil {
		return err
	}
	entries, err := decLog.Recent(subject, 20)
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}
	for _, e := range entries {
		verdict := "sent"
		if !e.Generated {
			verdict = "skipped"
		}
		fmt.Printf("[%s] %-17s %-7s ai=%-5v %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.TriggerType, verdict, e.UsedAI, e.Reason)
	}
	return nil
}

// #endregion decisions

// #region history

func showHistory(st *store.Store, subject string, jsonOut bool) error {
	checkins, err := st.GetCheckins(subject, time.Time{})
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(checkins)
	}
	for _, c := range checkins {
		fmt.Printf("%s  mood=%-2d sleep=%-2d pain=%-2d", c.Date.Format("2006-01-02"), c.Mood, c.SleepQuality, c.Pain)
		if len(c.Tags) > 0 {
			fmt.Printf("  %v", c.Tags)
		}
		fmt.Println()
	}
	fmt.Printf("%d check-ins total\n", len(checkins))
	return nil
}

// #endregion history

// #region messages

func showMessages(st *store.Store, subject string, n int, jsonOut bool) error {
	msgs, err := st.GetRecentMessages(subject, n)
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(msgs)
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s  trigger=%s ai=%v severity=%s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.ID[:8], m.TriggerType, m.UsedAI, m.Severity)
		fmt.Printf("    %s\n", m.MessageText)
	}
	return nil
}

// #endregion messages
