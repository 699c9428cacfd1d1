package ai

import (
	"strings"
	"testing"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
)

func TestSquadPromptsNonEmptyAndDistinct(t *testing.T) {
	prompts := NewPersonaPromptManager()
	seen := make(map[string]string)

	for _, p := range persona.Seed() {
		built := prompts.BuildSystemPrompt(&p, nil)
		if strings.TrimSpace(built) == "" {
			t.Fatalf("empty prompt for persona %s", p.ID)
		}
		for otherID, other := range seen {
			if other == built {
				t.Fatalf("personas %s and %s share the same prompt", p.ID, otherID)
			}
		}
		seen[p.ID] = built
	}

	if len(seen) != 4 {
		t.Fatalf("expected 4 squad prompts, got %d", len(seen))
	}
}

func TestPlannerPromptCarriesPlanLength(t *testing.T) {
	prompts := NewPersonaPromptManager()
	planner, ok := persona.NewMemoryStore(persona.Seed()).FindByID(persona.PlannerID)
	if !ok {
		t.Fatal("planner persona missing from seed")
	}

	guidance := severity.Decision{Level: severity.Intense, PlanDays: 7}
	built := prompts.BuildSystemPrompt(&planner, &guidance)

	if !strings.Contains(built, "7-day plan") {
		t.Fatalf("planner prompt missing plan length guidance: %q", built)
	}
}

func TestUnknownPersonaFallsBackToBasicPrompt(t *testing.T) {
	prompts := NewPersonaPromptManager()
	p := persona.Persona{
		ID:         "grief-coach",
		Name:       "Grief Coach",
		Title:      "Support Role",
		Tone:       "steady",
		PromptHint: "Keep it short.",
	}

	built := prompts.BuildSystemPrompt(&p, nil)
	if !strings.Contains(built, "Grief Coach") {
		t.Fatalf("fallback prompt should mention persona name: %q", built)
	}
}

func TestGuidanceAppendedForNonPlanner(t *testing.T) {
	prompts := NewPersonaPromptManager()
	therapist, _ := persona.NewMemoryStore(persona.Seed()).FindByID(persona.TherapistID)

	guidance := severity.Decision{Level: severity.Moderate, PlanDays: 5}
	built := prompts.BuildSystemPrompt(&therapist, &guidance)

	if !strings.Contains(built, "moderate") {
		t.Fatalf("therapist prompt missing severity context: %q", built)
	}
	if strings.Contains(built, "5-day plan") {
		t.Fatalf("plan length should only be injected for the planner: %q", built)
	}
}
