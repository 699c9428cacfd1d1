package severity

import "testing"

func TestAnalyzeIntenseDistress(t *testing.T) {
	decision := Analyze("I can't sleep and I can't eat, I feel completely destroyed")
	if decision.Level != Intense {
		t.Fatalf("expected intense, got %s", decision.Level)
	}
	if decision.PlanDays != 7 {
		t.Fatalf("expected 7-day plan, got %d", decision.PlanDays)
	}
}

func TestAnalyzeModeratePain(t *testing.T) {
	decision := Analyze("I keep crying and I feel so lonely and betrayed")
	if decision.Level != Moderate {
		t.Fatalf("expected moderate, got %s", decision.Level)
	}
	if decision.PlanDays != 5 {
		t.Fatalf("expected 5-day plan, got %d", decision.PlanDays)
	}
}

func TestAnalyzeMildSadness(t *testing.T) {
	decision := Analyze("I'm a bit sad but mostly moving on already")
	if decision.Level != Mild {
		t.Fatalf("expected mild, got %s", decision.Level)
	}
	if decision.PlanDays != 3 {
		t.Fatalf("expected 3-day plan, got %d", decision.PlanDays)
	}
}

func TestAnalyzeEmptyTextDefaultsToMild(t *testing.T) {
	decision := Analyze("   ")
	if decision.Level != Mild || decision.PlanDays != 3 {
		t.Fatalf("expected mild/3 for empty text, got %s/%d", decision.Level, decision.PlanDays)
	}
}

func TestAnalyzeIntenseDominatesMilderMarkers(t *testing.T) {
	decision := Analyze("I'm a bit sad, crying a lot, and honestly it feels hopeless")
	if decision.Level != Intense {
		t.Fatalf("intense markers should dominate, got %s", decision.Level)
	}
}
