package recovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
)

var (
	ErrSituationRequired = errors.New("situation is required")
	ErrUnknownSupport    = errors.New("unknown support type")
)

// Request is the structured intake payload for a recovery dispatch.
// Field names here are the contract mirrored by the skill descriptor.
type Request struct {
	Situation            string   `json:"situation"`
	RelationshipDuration string   `json:"relationshipDuration,omitempty"`
	BreakupReason        string   `json:"breakupReason,omitempty"`
	CurrentEmotions      []string `json:"currentEmotions,omitempty"`
	SupportNeeded        []string `json:"supportNeeded,omitempty"`
	ChatScreenshot       string   `json:"chatScreenshot,omitempty"`
	ScreenshotMimeType   string   `json:"screenshotMimeType,omitempty"`
}

// Validate checks required fields and support identifiers before any
// outbound model call is made.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Situation) == "" {
		return ErrSituationRequired
	}
	for _, id := range r.SupportNeeded {
		switch id {
		case persona.TherapistID, persona.ClosureID, persona.PlannerID, persona.HonestyID:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSupport, id)
		}
	}
	return nil
}

// HasScreenshot reports whether the request carries an image to analyze.
func (r Request) HasScreenshot() bool {
	return strings.TrimSpace(r.ChatScreenshot) != ""
}

// UserText flattens the structured fields into the prompt text handed
// to each persona.
func (r Request) UserText() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(r.Situation))
	if v := strings.TrimSpace(r.RelationshipDuration); v != "" {
		b.WriteString("\nRelationship duration: ")
		b.WriteString(v)
	}
	if v := strings.TrimSpace(r.BreakupReason); v != "" {
		b.WriteString("\nBreakup reason: ")
		b.WriteString(v)
	}
	if len(r.CurrentEmotions) > 0 {
		b.WriteString("\nCurrent emotions: ")
		b.WriteString(strings.Join(r.CurrentEmotions, ", "))
	}
	return b.String()
}

// Report aggregates per-persona responses for one intake request.
type Report struct {
	Sections           map[string]string `json:"sections"`
	Markdown           string            `json:"markdown,omitempty"`
	Severity           string            `json:"severity"`
	PlanDays           int               `json:"planDays"`
	ScreenshotAnalysis string            `json:"screenshotAnalysis,omitempty"`
}
