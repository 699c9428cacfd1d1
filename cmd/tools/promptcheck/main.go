// promptcheck prints the system prompt each persona would receive for a
// sample situation, along with the severity classification, without
// touching any model API. Useful when editing prompt templates.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	"github.com/jmoreau/recovery-squad/backend/internal/service/ai"
)

func main() {
	text := flag.String("text", "We broke up last week after three years and I can't stop crying.", "sample situation text")
	personaID := flag.String("persona", "", "limit output to one persona id")
	flag.Parse()

	squad := persona.Seed()
	if *personaID != "" {
		found := false
		for _, p := range squad {
			if p.ID == *personaID {
				squad = []persona.Persona{p}
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(os.Stderr, "unknown persona: %s\n", *personaID)
			os.Exit(1)
		}
	}

	decision := severity.Analyze(*text)
	fmt.Printf("severity: %s (score=%d, plan=%d days)\n\n", decision.Level, decision.Score, decision.PlanDays)

	prompts := ai.NewPersonaPromptManager()
	for _, p := range squad {
		fmt.Printf("===== %s (%s) =====\n", p.Name, p.ID)
		fmt.Println(prompts.BuildSystemPrompt(&p, &decision))
		fmt.Println()
	}
}
