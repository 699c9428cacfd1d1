package recovery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	recoverymodel "github.com/jmoreau/recovery-squad/backend/internal/model/recovery"
)

type stubGenerator struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
}

func (g *stubGenerator) Generate(_ context.Context, p persona.Persona, userText string, _ *severity.Decision) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, p.ID)
	g.mu.Unlock()

	if err, ok := g.failFor[p.ID]; ok {
		return "", err
	}
	return p.Name + " says: hang in there", nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func newTestService(gen *stubGenerator) *Service {
	store := persona.NewMemoryStore(persona.Seed())
	return NewService(gen, store, zap.NewNop())
}

func TestRouteHeuristic(t *testing.T) {
	cases := []struct {
		text string
		want Mode
	}{
		{"I need a recovery plan please", ModeFullReport},
		{"help me plan my week", ModeFullReport},
		{"I am feeling a bit down", ModeTherapist},
		{"hello", ModeTherapist},
		{strings.Repeat("word ", 25), ModeFullReport},
	}

	for _, tc := range cases {
		if got := Route(tc.text); got != tc.want {
			t.Fatalf("Route(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestFullReportAllPersonas(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(gen)

	report, err := svc.FullReport(context.Background(), recoverymodel.Request{
		Situation: "We broke up last week after three years and I can't stop crying.",
	})
	if err != nil {
		t.Fatalf("FullReport err: %v", err)
	}

	if gen.callCount() != 4 {
		t.Fatalf("expected 4 persona calls, got %d", gen.callCount())
	}
	for _, id := range []string{persona.TherapistID, persona.ClosureID, persona.PlannerID, persona.HonestyID} {
		section, ok := report.Sections[id]
		if !ok || strings.TrimSpace(section) == "" {
			t.Fatalf("missing or empty section for %s", id)
		}
	}
	if !strings.HasPrefix(report.Markdown, "# Breakup Recovery Plan") {
		t.Fatalf("unexpected report heading: %q", report.Markdown)
	}
	if !strings.Contains(report.Markdown, "## Emotional Analysis") || !strings.Contains(report.Markdown, "## Hard Truth") {
		t.Fatalf("report missing section headings: %q", report.Markdown)
	}
	if report.Severity == "" || report.PlanDays == 0 {
		t.Fatalf("report missing severity annotation: %+v", report)
	}
}

func TestFullReportDegradesFailedPersona(t *testing.T) {
	gen := &stubGenerator{failFor: map[string]error{persona.ClosureID: errors.New("rate limited")}}
	svc := newTestService(gen)

	report, err := svc.FullReport(context.Background(), recoverymodel.Request{Situation: "it ended badly"})
	if err != nil {
		t.Fatalf("FullReport err: %v", err)
	}

	section := report.Sections[persona.ClosureID]
	if !strings.Contains(section, "unavailable") {
		t.Fatalf("expected placeholder for failed persona, got %q", section)
	}
	if !strings.Contains(report.Sections[persona.TherapistID], "hang in there") {
		t.Fatal("healthy personas should still answer")
	}
}

func TestFullReportSupportSubset(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(gen)

	report, err := svc.FullReport(context.Background(), recoverymodel.Request{
		Situation:     "she ghosted me",
		SupportNeeded: []string{persona.HonestyID, persona.TherapistID},
	})
	if err != nil {
		t.Fatalf("FullReport err: %v", err)
	}

	if len(report.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(report.Sections))
	}
	if _, ok := report.Sections[persona.PlannerID]; ok {
		t.Fatal("planner was not requested")
	}
}

func TestFullReportRejectsInvalidRequestBeforeCalls(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(gen)

	if _, err := svc.FullReport(context.Background(), recoverymodel.Request{}); err == nil {
		t.Fatal("expected validation error")
	}
	if gen.callCount() != 0 {
		t.Fatalf("no outbound call should happen for invalid request, got %d", gen.callCount())
	}
}

func TestDispatchSinglePersona(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(gen)

	text, err := svc.Dispatch(context.Background(), persona.TherapistID, recoverymodel.Request{Situation: "rough week"})
	if err != nil {
		t.Fatalf("Dispatch err: %v", err)
	}
	if !strings.Contains(text, "Therapist says") {
		t.Fatalf("unexpected response: %q", text)
	}
	if gen.callCount() != 1 {
		t.Fatalf("expected exactly one call, got %d", gen.callCount())
	}
}

func TestDispatchUnknownPersona(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(gen)

	if _, err := svc.Dispatch(context.Background(), "life-coach", recoverymodel.Request{Situation: "rough week"}); err == nil {
		t.Fatal("expected error for unknown persona")
	}
	if gen.callCount() != 0 {
		t.Fatal("no outbound call should happen for unknown persona")
	}
}
