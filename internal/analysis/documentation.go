package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/gitgauge/gitgauge/internal/model"
)

// README content signals, each worth two points of per-repo quality.
var (
	setupKeywords   = []string{"setup", "install", "installation", "prerequisites"}
	stackKeywords   = []string{"stack", "technologies", "built with", "requires"}
	problemKeywords = []string{"problem", "motivation", "why", "purpose", "solves"}
	usageKeywords   = []string{"example", "usage", "how to use", "demo", "quickstart"}
)

// DocumentationScorer rates README coverage and content quality. Average
// per-repo quality (capped at 10) plus a coverage bonus proportional to
// the share of repos with a README (capped at 10).
type DocumentationScorer struct{}

func (DocumentationScorer) Name() string { return model.CategoryDocumentation }

func (DocumentationScorer) Score(snapshot *model.ProfileSnapshot) model.CategoryScore {
	result := model.CategoryScore{Category: model.CategoryDocumentation}

	if len(snapshot.Repos) == 0 {
		result.Evidence = append(result.Evidence, "no public repositories to evaluate")
		return result
	}

	readmeCount := 0
	totalQuality := 0.0
	for _, repo := range snapshot.Repos {
		text := snapshot.Readmes[repo.Name]
		if text == "" {
			continue
		}
		readmeCount++
		totalQuality += readmeQuality(text)
	}

	if readmeCount == 0 {
		result.Evidence = append(result.Evidence, "no READMEs found across repositories")
		return result
	}

	avgQuality := totalQuality / float64(readmeCount)
	coverageBonus := math.Min(float64(readmeCount)/float64(len(snapshot.Repos))*10, 10)

	result.Value = clamp(avgQuality+coverageBonus, 0, model.CategoryMax)
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("READMEs on %d of %d repositories", readmeCount, len(snapshot.Repos)),
		fmt.Sprintf("average README quality %.1f/10", avgQuality),
	)
	return result
}

// readmeQuality scores a single README on content signals and length,
// capped at 10.
func readmeQuality(text string) float64 {
	lowered := strings.ToLower(text)
	quality := 0.0

	if containsAny(lowered, setupKeywords) {
		quality += 2
	}
	if containsAny(lowered, stackKeywords) {
		quality += 2
	}
	if containsAny(lowered, problemKeywords) {
		quality += 2
	}
	if containsAny(lowered, usageKeywords) {
		quality += 2
	}
	if strings.Contains(lowered, "![") || strings.Contains(lowered, ".png") || strings.Contains(lowered, ".jpg") {
		quality += 2
	}

	length := len(text)
	if length > 500 {
		quality += 2
	}
	if length > 1000 {
		quality += 2
	}
	if length > 2000 {
		quality += 2
	}

	return math.Min(quality, 10)
}
