package analysis

import (
	"strings"

	"github.com/gitgauge/gitgauge/internal/model"
)

// Scorer computes one bounded category sub-score from a profile snapshot.
// Scorers are pure and safe to run concurrently over the same snapshot.
type Scorer interface {
	Name() string
	Score(snapshot *model.ProfileSnapshot) model.CategoryScore
}

// DefaultScorers returns the five category scorers in report order.
func DefaultScorers() []Scorer {
	return []Scorer{
		DocumentationScorer{},
		CodeStructureScorer{},
		ActivityScorer{},
		OrganizationScorer{},
		ImpactScorer{},
	}
}

func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
