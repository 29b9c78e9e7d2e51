package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/gitgauge/gitgauge/internal/model"
)

// Signals that a repository is deployed or otherwise reachable.
var liveKeywords = []string{
	"live", "deploy", "production", "www.", "https://", "app", "api", "service",
}

// Vocabulary indicating business or market relevance.
var businessKeywords = []string{
	"analytics", "saas", "platform", "framework", "library", "tool",
	"dashboard", "automation", "integration", "data", "ai", "ml",
}

// ImpactScorer rates community validation and real-world relevance.
// Stars and forks are log-scaled so one viral repository cannot dominate
// the category on its own.
type ImpactScorer struct{}

func (ImpactScorer) Name() string { return model.CategoryImpact }

func (ImpactScorer) Score(snapshot *model.ProfileSnapshot) model.CategoryScore {
	result := model.CategoryScore{Category: model.CategoryImpact}

	if len(snapshot.Repos) == 0 {
		result.Evidence = append(result.Evidence, "no public repositories to evaluate")
		return result
	}

	repoCount := float64(len(snapshot.Repos))
	score := 0.0

	totalStars := 0
	totalForks := 0
	for _, repo := range snapshot.Repos {
		totalStars += repo.Stars
		totalForks += repo.Forks
	}

	// Stars up to 6 points, forks up to 4. Roughly 1000 stars or 100
	// forks saturate the respective component.
	score += math.Min(2*math.Log10(1+float64(totalStars)), 6)
	score += math.Min(2*math.Log10(1+float64(totalForks)), 4)

	// Deployment signals, up to 5 points.
	deployed := 0
	for _, repo := range snapshot.Repos {
		text := strings.ToLower(repo.Description + repo.Homepage)
		if containsAny(text, liveKeywords) {
			deployed++
		}
	}
	score += math.Min(float64(deployed)/repoCount*5, 5)

	// Business relevance, up to 5 points.
	relevant := 0
	for _, repo := range snapshot.Repos {
		text := strings.ToLower(repo.Description + " " + strings.Join(repo.Topics, " "))
		if containsAny(text, businessKeywords) {
			relevant++
		}
	}
	score += math.Min(float64(relevant)/repoCount*5, 5)

	result.Value = clamp(score, 0, model.CategoryMax)
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("%d stars and %d forks in total", totalStars, totalForks),
		fmt.Sprintf("deployment signals on %d of %d repositories", deployed, len(snapshot.Repos)),
	)
	return result
}
