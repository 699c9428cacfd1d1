// Package severity estimates how hard a breakup is hitting the user
// from the words they choose, so the planner can size the recovery
// routine without an extra model round-trip.
package severity

import "strings"

// Level labels the distress tiers the routine planner understands.
type Level string

const (
	Mild     Level = "mild"
	Moderate Level = "moderate"
	Intense  Level = "intense"
)

// Decision carries the classified level, its raw keyword score and the
// recommended recovery plan length in days.
type Decision struct {
	Level    Level
	Score    int
	PlanDays int
}

var keywordBuckets = map[Level][]string{
	Mild: {
		"a bit sad", "bummed", "miss her", "miss him", "miss them", "weird without",
		"kind of sad", "little down", "nostalgic", "it's fine", "moving on",
	},
	Moderate: {
		"can't stop thinking", "cry", "crying", "cried", "lonely", "hurt", "heartbroken",
		"betrayed", "angry", "lost", "confused", "rejected", "abandoned", "ghosted",
	},
	Intense: {
		"can't sleep", "can't eat", "devastated", "destroyed", "hopeless", "worthless",
		"can't go on", "panic", "shaking", "numb", "unbearable", "falling apart",
		"don't want to live", "no point anymore",
	},
}

// Analyze scores the user's text against the keyword buckets and maps
// the dominant tier to a plan length. An empty or unmatched text is
// treated as mild sadness.
func Analyze(text string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Decision{Level: Mild, PlanDays: 3}
	}

	scores := make(map[Level]int)
	for level, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[level] += 3
			}
		}
	}

	// Repeated exclamation reads as agitation, not enthusiasm, in this
	// domain.
	if exclamations := strings.Count(text, "!"); exclamations >= 2 {
		scores[Moderate] += exclamations
	}

	// Intense markers dominate regardless of how many milder ones appear.
	if scores[Intense] > 0 {
		return Decision{Level: Intense, Score: scores[Intense], PlanDays: 7}
	}
	if scores[Moderate] > scores[Mild] {
		return Decision{Level: Moderate, Score: scores[Moderate], PlanDays: 5}
	}
	return Decision{Level: Mild, Score: scores[Mild], PlanDays: 3}
}
