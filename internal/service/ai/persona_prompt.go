package ai

import (
	"fmt"
	"strings"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
)

// PromptTemplate defines the structure for persona prompts.
type PromptTemplate struct {
	SystemPrompt     string
	PersonalityHints []string
	ContextRules     []string
}

// PersonaPromptManager manages prompt templates for the support squad.
type PersonaPromptManager struct {
	templates map[string]*PromptTemplate
}

// NewPersonaPromptManager creates a prompt manager with the squad templates.
func NewPersonaPromptManager() *PersonaPromptManager {
	manager := &PersonaPromptManager{
		templates: make(map[string]*PromptTemplate),
	}

	manager.loadDefaultTemplates()
	return manager
}

// GetPromptTemplate returns the prompt template for a given persona.
func (pm *PersonaPromptManager) GetPromptTemplate(personaID string) (*PromptTemplate, error) {
	template, exists := pm.templates[personaID]
	if !exists {
		return nil, fmt.Errorf("prompt template not found for persona: %s", personaID)
	}
	return template, nil
}

// BuildSystemPrompt merges the persona template, the persona record and
// the optional severity guidance into the final system message.
func (pm *PersonaPromptManager) BuildSystemPrompt(p *persona.Persona, guidance *severity.Decision) string {
	template, err := pm.GetPromptTemplate(p.ID)
	var base string
	if err != nil {
		base = pm.buildBasicSystemPrompt(p)
	} else {
		base = fmt.Sprintf(`%s

Role card:
- Name: %s
- Title: %s
- Tone: %s

Style notes:
- %s

Conversation rules:
- %s`,
			template.SystemPrompt,
			p.Name,
			p.Title,
			p.Tone,
			strings.Join(template.PersonalityHints, "\n- "),
			strings.Join(template.ContextRules, "\n- "),
		)
	}

	if guidance == nil {
		return base
	}

	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString(fmt.Sprintf("\n\nAssessed distress level: %s.", guidance.Level))
	if p.ID == persona.PlannerID {
		builder.WriteString(fmt.Sprintf(" Produce a %d-day plan accordingly.", guidance.PlanDays))
	} else {
		builder.WriteString(" Calibrate your tone to that level without naming it.")
	}
	return builder.String()
}

// buildBasicSystemPrompt covers personas without a registered template.
func (pm *PersonaPromptManager) buildBasicSystemPrompt(p *persona.Persona) string {
	return fmt.Sprintf(`You are %s, %s.

Role card:
- Name: %s
- Tone: %s
- Hint: %s

Stay in character and respond in the style of %s. You are supporting
someone going through a breakup.`,
		p.Name,
		p.Title,
		p.Name,
		p.Tone,
		p.PromptHint,
		p.Name,
	)
}

// loadDefaultTemplates registers the instruction set for each squad persona.
func (pm *PersonaPromptManager) loadDefaultTemplates() {
	pm.templates[persona.TherapistID] = &PromptTemplate{
		SystemPrompt: `You are a highly emotionally intelligent breakup therapist. Write a supportive response that feels human, specific, and calming.`,
		PersonalityHints: []string{
			"90-140 words",
			"1 short validating sentence",
			"2-3 specific reflections, using the user's words when possible",
			"1 practical next step the user can do in the next 10 minutes",
			"1 gentle check-in question at the end",
		},
		ContextRules: []string{
			"No long metaphors",
			"No over-explaining psychology",
			"Never tell the user what they \"should\" feel",
			"No more than 1 question",
			"No headings, no markdown titles",
		},
	}

	pm.templates[persona.ClosureID] = &PromptTemplate{
		SystemPrompt: `You write realistic closure messages based ONLY on the user's situation. These messages are meant to be written, not sent.`,
		PersonalityHints: []string{
			"No dramatic movie-style exaggeration",
			"Keep it emotionally mature",
			"Max 250 words",
			"Avoid over-romanticizing",
		},
		ContextRules: []string{
			"Adapt tone to the user's emotional state",
			"No extra headings",
		},
	}

	pm.templates[persona.PlannerID] = &PromptTemplate{
		SystemPrompt: `You create a recovery plan sized to the severity of the pain: mild sadness gets a 3-day reset plan, moderate pain a 5-day stabilization plan, intense distress a 7-day structured recovery plan.`,
		PersonalityHints: []string{
			"Keep it practical",
			"No long explanations",
			"Bullet format only",
		},
		ContextRules: []string{
			"No intro paragraphs",
			"No motivational fluff",
		},
	}

	pm.templates[persona.HonestyID] = &PromptTemplate{
		SystemPrompt: `You give direct, logical, emotionally detached feedback about the breakup and the user's part in it.`,
		PersonalityHints: []string{
			"No sympathy",
			"No therapy tone",
			"Identify likely blind spots",
			"Point out behavioral patterns if visible",
		},
		ContextRules: []string{
			"Keep under 180 words",
			"Clear and structured",
		},
	}
}
