package recovery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	recoverymodel "github.com/jmoreau/recovery-squad/backend/internal/model/recovery"
)

// Mode selects how a free-text chat message is handled.
type Mode int

const (
	// ModeTherapist answers with the therapist persona only.
	ModeTherapist Mode = iota
	// ModeFullReport fans out to the whole squad.
	ModeFullReport
)

// fullReportWordThreshold is the message length at which a plain chat
// message is treated as a full situation description.
const fullReportWordThreshold = 20

// squadOrder fixes the section order of the assembled report.
var squadOrder = []string{
	persona.TherapistID,
	persona.ClosureID,
	persona.PlannerID,
	persona.HonestyID,
}

// TextGenerator is the single outbound call the dispatcher makes per
// persona. Implemented by the AI service; stubbed in tests.
type TextGenerator interface {
	Generate(ctx context.Context, p persona.Persona, userText string, guidance *severity.Decision) (string, error)
}

// Service selects prompt templates per persona and issues model calls,
// returning responses unmodified.
type Service struct {
	generator TextGenerator
	personas  persona.Store
	logger    *zap.Logger
}

// NewService wires the dispatcher.
func NewService(generator TextGenerator, personas persona.Store, logger *zap.Logger) *Service {
	return &Service{generator: generator, personas: personas, logger: logger}
}

// Route applies the chat-mode heuristic: an explicit ask for a plan, or
// a message long enough to be a situation description, gets the full
// squad; short messages get the therapist.
func Route(text string) Mode {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "plan") || strings.Contains(lowered, "recovery") {
		return ModeFullReport
	}
	if len(strings.Fields(text)) >= fullReportWordThreshold {
		return ModeFullReport
	}
	return ModeTherapist
}

// Dispatch runs a single persona against the request and returns the
// model response unmodified.
func (s *Service) Dispatch(ctx context.Context, personaID string, req recoverymodel.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	p, ok := s.personas.FindByID(personaID)
	if !ok {
		return "", fmt.Errorf("%w: %q", recoverymodel.ErrUnknownSupport, personaID)
	}

	guidance := severity.Analyze(req.UserText())
	return s.generator.Generate(ctx, p, req.UserText(), &guidance)
}

// FullReport fans out to the requested personas (all four when
// SupportNeeded is empty) concurrently and assembles the report. A
// failed persona degrades to a placeholder section rather than failing
// the whole report.
func (s *Service) FullReport(ctx context.Context, req recoverymodel.Request) (recoverymodel.Report, error) {
	if err := req.Validate(); err != nil {
		return recoverymodel.Report{}, err
	}

	ids := s.selectedPersonas(req.SupportNeeded)
	guidance := severity.Analyze(req.UserText())
	userText := req.UserText()

	type result struct {
		p       persona.Persona
		content string
	}
	results := make([]result, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		p, ok := s.personas.FindByID(id)
		if !ok {
			return recoverymodel.Report{}, fmt.Errorf("%w: %q", recoverymodel.ErrUnknownSupport, id)
		}
		results[i].p = p

		wg.Add(1)
		go func(i int, p persona.Persona) {
			defer wg.Done()
			content, err := s.generator.Generate(ctx, p, userText, &guidance)
			if err != nil {
				s.logger.Warn("persona call failed",
					zap.String("persona", p.ID),
					zap.Error(err))
				content = fmt.Sprintf("%s is unavailable right now. Please try again in a moment.", p.Name)
			}
			results[i].content = cleanText(content)
		}(i, p)
	}
	wg.Wait()

	report := recoverymodel.Report{
		Sections: make(map[string]string, len(results)),
		Severity: string(guidance.Level),
		PlanDays: guidance.PlanDays,
	}

	var md strings.Builder
	md.WriteString("# Breakup Recovery Plan\n")
	for _, res := range results {
		report.Sections[res.p.ID] = res.content
		md.WriteString("\n## ")
		md.WriteString(res.p.SectionTitle)
		md.WriteString("\n")
		md.WriteString(res.content)
		md.WriteString("\n")
	}
	report.Markdown = strings.TrimSpace(md.String())

	return report, nil
}

// selectedPersonas resolves the requested subset into squad order;
// empty means the whole squad.
func (s *Service) selectedPersonas(requested []string) []string {
	if len(requested) == 0 {
		return squadOrder
	}

	wanted := make(map[string]bool, len(requested))
	for _, id := range requested {
		wanted[id] = true
	}

	ids := make([]string, 0, len(requested))
	for _, id := range squadOrder {
		if wanted[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// cleanText normalizes whitespace for user-facing output.
func cleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
