package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quietpath/companion/internal/audit"
	"github.com/quietpath/companion/internal/checkin"
	"github.com/quietpath/companion/internal/config"
	"github.com/quietpath/companion/internal/contextbuild"
	"github.com/quietpath/companion/internal/ledger"
	"github.com/quietpath/companion/internal/llm"
	"github.com/quietpath/companion/internal/ratelimit"
	"github.com/quietpath/companion/internal/respond"
	"github.com/quietpath/companion/internal/store"
	"github.com/quietpath/companion/internal/tone"
	"github.com/quietpath/companion/internal/trigger"
)

// #region main

func main() {
	configPath := flag.String("config", "companion.yaml", "path to config file")
	subjectID := flag.String("subject", "", "subject id to check in as")
	name := flag.String("name", "", "first name for a new subject")
	category := flag.String("category", "", "condition category for a new subject")
	flag.Parse()

	if *subjectID == "" {
		fmt.Fprintln(os.Stderr, "usage: companion --subject id [--name Name --category category] [--config companion.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	led, err := ledger.New(st.DB())
	if err != nil {
		log.Fatalf("init ledger: %v", err)
	}

	decisions, err := audit.New(st.DB())
	if err != nil {
		log.Fatalf("init audit log: %v", err)
	}

	if _, err := st.GetSubject(*subjectID); err != nil {
		if *name == "" {
			log.Fatalf("unknown subject %s (pass --name and --category to create)", *subjectID)
		}
		sub := checkin.Subject{
			ID:                *subjectID,
			FirstName:         *name,
			ConditionCategory: *category,
			ToneProfile:       string(tone.KeyForCategory(*category)),
		}
		if err := st.UpsertSubject(sub); err != nil {
			log.Fatalf("create subject: %v", err)
		}
		fmt.Printf("Created subject %s (%s, tone: %s)\n", sub.ID, sub.FirstName, sub.ToneProfile)
	}

	var completer llm.Client
	if key := cfg.APIKey(); key != "" {
		completer = llm.NewOpenAIClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			APIKey:  key,
			Timeout: cfg.LLMTimeout(),
		})
	} else {
		fmt.Println("No API key configured; running in template-only mode.")
	}

	limiter := ratelimit.New(led, ratelimit.Config{
		MaxCallsPerDay: cfg.RateLimit.MaxCallsPerDay,
		MinInterval:    cfg.MinInterval(),
	})
	generator := respond.New(
		contextbuild.New(st),
		trigger.New(limiter),
		completer,
		st,
		cfg.LLMTimeout(),
	).WithAudit(decisions)

	fmt.Println("Companion ready. Enter today's check-in as: mood sleep pain [tags,comma,separated]")
	fmt.Println("(or 'quit' to exit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		today, err := parseCheckin(*subjectID, line)
		if err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		if _, err := st.InsertCheckin(today); err != nil {
			log.Printf("persist checkin: %v", err)
			continue
		}

		msg := generator.Generate(context.Background(), *subjectID, today)
		fmt.Printf("\n%s\n\n", msg.MessageText)
		fmt.Printf("[%s] severity=%s ai=%v", msg.TriggerType, msg.Severity, msg.UsedAI)
		if len(msg.DetectedSymptoms) > 0 {
			fmt.Printf(" symptoms=%s", strings.Join(msg.DetectedSymptoms, ","))
		}
		fmt.Println()
		for _, s := range msg.Suggestions {
			fmt.Printf("  · %s\n", s)
		}
	}
}

// #endregion main

// #region parse

// parseCheckin reads "mood sleep pain [tags]" into today's check-in.
func parseCheckin(subjectID, line string) (checkin.CheckIn, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return checkin.CheckIn{}, fmt.Errorf("need at least: mood sleep pain")
	}
	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil || n < 0 || n > 10 {
			return checkin.CheckIn{}, fmt.Errorf("%q is not a 0-10 score", fields[i])
		}
		nums[i] = n
	}
	c := checkin.CheckIn{
		SubjectID:    subjectID,
		Date:         checkin.DateOnly(time.Now()),
		Mood:         nums[0],
		SleepQuality: nums[1],
		Pain:         nums[2],
	}
	if len(fields) > 3 {
		c.Tags = strings.Split(fields[3], ",")
	}
	return c, nil
}

// #endregion parse
