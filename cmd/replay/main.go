package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/quietpath/companion/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "output results as JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	results, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
		os.Exit(1)
	}
	summary := replay.Summarize(f, results)

	if *jsonOut {
		out := struct {
			Results []replay.DayResult `json:"results"`
			Summary replay.Summary     `json:"summary"`
		}{results, summary}
		json.NewEncoder(os.Stdout).Encode(out)
	} else {
		printText(f, results, summary)
	}

	if len(summary.Divergences) > 0 {
		os.Exit(1)
	}
}

// #endregion main

// #region text-output

func printText(f *replay.Fixture, results []replay.DayResult, s replay.Summary) {
	if f.Description != "" {
		fmt.Println(f.Description)
	}
	for _, r := range results {
		marker := " "
		if r.Significant {
			marker = "*"
		}
		fmt.Printf("%s  n=%-3d %-18s %s insights=%d\n", r.Date, r.Count, r.TriggerType, marker, r.Insights)
	}
	fmt.Printf("\n%d days: %d daily, %d milestone, %d weekly, %d pattern discovery\n",
		s.TotalDays, s.Dailies, s.Milestones, s.Weeklies, s.PatternDiscoveries)

	if len(s.Divergences) == 0 {
		fmt.Println("all expectations met")
		return
	}
	fmt.Printf("%d divergences:\n", len(s.Divergences))
	for _, d := range s.Divergences {
		fmt.Printf("  - %s\n", d)
	}
}

// #endregion text-output
