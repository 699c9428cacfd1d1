// Package skill holds the static capability metadata the hosting agent
// framework consumes to register this service.
package skill

import (
	"encoding/json"
	"os"
)

// Field describes one input or output field in the skill schema.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// Deployment describes where the framework should expose the skill.
type Deployment struct {
	URL             string `json:"url"`
	Expose          bool   `json:"expose"`
	ProtocolVersion string `json:"protocol_version"`
}

// Descriptor is the static metadata record for the capability. It is
// never mutated at runtime.
type Descriptor struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Input       []Field    `json:"input"`
	Output      []Field    `json:"output"`
	Examples    []string   `json:"examples,omitempty"`
	Deployment  Deployment `json:"deployment"`
}

// InputFieldNames returns the declared input field names, used to keep
// the descriptor honest against the dispatcher's request contract.
func (d Descriptor) InputFieldNames() []string {
	names := make([]string, 0, len(d.Input))
	for _, f := range d.Input {
		names = append(names, f.Name)
	}
	return names
}

// Load probes the candidate paths in order and returns the first
// descriptor that parses; a missing or malformed file falls back to
// the compiled-in defaults.
func Load(paths ...string) Descriptor {
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var d Descriptor
		if err := json.Unmarshal(data, &d); err != nil {
			continue
		}
		if d.Name != "" {
			return d
		}
	}
	return Default()
}

// Default returns the compiled-in descriptor used when no skill.json
// is present.
func Default() Descriptor {
	return Descriptor{
		Name:        "recovery-squad",
		Version:     "1.0.0",
		Description: "AI-powered breakup recovery assistant: therapist, closure writer, routine planner and brutal honesty advisor behind one endpoint.",
		Input: []Field{
			{Name: "situation", Type: "string", Required: true, Description: "What happened, in the user's own words."},
			{Name: "relationshipDuration", Type: "string", Description: "How long the relationship lasted."},
			{Name: "breakupReason", Type: "string", Description: "Why the relationship ended, if known."},
			{Name: "currentEmotions", Type: "[]string", Description: "Emotions the user reports right now."},
			{Name: "supportNeeded", Type: "[]string", Description: "Persona ids to invoke; empty means the full squad."},
			{Name: "chatScreenshot", Type: "string", Description: "Base64-encoded chat screenshot for tone analysis."},
			{Name: "screenshotMimeType", Type: "string", Description: "Mime type of the screenshot, defaults to image/png."},
		},
		Output: []Field{
			{Name: "sections", Type: "map[string]string", Required: true, Description: "Response text keyed by persona id."},
			{Name: "markdown", Type: "string", Description: "Full report assembled as markdown."},
			{Name: "severity", Type: "string", Required: true, Description: "Classified distress level."},
			{Name: "planDays", Type: "int", Required: true, Description: "Recommended recovery plan length."},
			{Name: "screenshotAnalysis", Type: "string", Description: "Vision model description of the screenshot."},
		},
		Examples: []string{
			"We broke up last week after three years and I can't stop replaying our last fight.",
			"She ghosted me after six months. I need a recovery plan.",
		},
		Deployment: Deployment{
			URL:             "http://127.0.0.1:8080",
			Expose:          true,
			ProtocolVersion: "1.0.0",
		},
	}
}
