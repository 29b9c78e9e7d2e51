package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/gitgauge/gitgauge/internal/model"
)

// Tooling files whose mention in a README signals a structured project.
var configIndicators = []string{
	".gitignore", "package.json", "requirements.txt", "dockerfile",
	"setup.py", "tsconfig", "eslint", "makefile", "gradle", "pom.xml",
	"go.mod", "cargo.toml",
}

var structureTestKeywords = []string{
	"test", "pytest", "jest", "mocha", "unittest", "coverage", "tdd",
}

// CodeStructureScorer rates engineering maturity proxies: language
// diversity, repository size, and tooling or test mentions in READMEs.
type CodeStructureScorer struct{}

func (CodeStructureScorer) Name() string { return model.CategoryCodeStructure }

func (CodeStructureScorer) Score(snapshot *model.ProfileSnapshot) model.CategoryScore {
	result := model.CategoryScore{Category: model.CategoryCodeStructure}

	if len(snapshot.Repos) == 0 {
		result.Evidence = append(result.Evidence, "no public repositories to evaluate")
		return result
	}

	repoCount := float64(len(snapshot.Repos))
	score := 0.0

	// Language diversity, up to 4 points.
	languages := make(map[string]struct{})
	for _, repo := range snapshot.Repos {
		if repo.Language != "" {
			languages[repo.Language] = struct{}{}
		}
	}
	score += math.Min(float64(len(languages))*1.5, 4)

	// Average repository size as a maturity proxy, up to 6 points.
	totalSize := 0
	for _, repo := range snapshot.Repos {
		totalSize += repo.SizeKB
	}
	avgSize := float64(totalSize) / repoCount
	if avgSize > 100 {
		score += 2
	}
	if avgSize > 500 {
		score += 2
	}
	if avgSize > 2000 {
		score += 2
	}

	// Tooling mentions across READMEs, up to 4 points.
	configCount := 0
	for _, text := range snapshot.Readmes {
		lowered := strings.ToLower(text)
		for _, indicator := range configIndicators {
			if strings.Contains(lowered, indicator) {
				configCount++
			}
		}
	}
	score += math.Min(float64(configCount)/repoCount*4, 4)

	// Test mentions across READMEs, up to 2 points.
	testMentions := 0
	for _, text := range snapshot.Readmes {
		if text != "" && containsAny(strings.ToLower(text), structureTestKeywords) {
			testMentions++
		}
	}
	score += math.Min(float64(testMentions)/repoCount*2, 2)

	result.Value = clamp(score, 0, model.CategoryMax)
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("%d distinct languages across repositories", len(languages)),
		fmt.Sprintf("average repository size %.0f KB", avgSize),
		fmt.Sprintf("test tooling mentioned in %d READMEs", testMentions),
	)
	return result
}
