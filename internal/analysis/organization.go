package analysis

import (
	"fmt"
	"math"

	"github.com/gitgauge/gitgauge/internal/model"
)

// OrganizationScorer rates discoverability: profile completeness, repo
// descriptions, topic usage, and portfolio size.
type OrganizationScorer struct{}

func (OrganizationScorer) Name() string { return model.CategoryOrganization }

func (OrganizationScorer) Score(snapshot *model.ProfileSnapshot) model.CategoryScore {
	result := model.CategoryScore{Category: model.CategoryOrganization}
	score := 0.0

	// Profile completeness, up to 5 points.
	profileFields := []string{
		snapshot.Name, snapshot.Bio, snapshot.Company,
		snapshot.Location, snapshot.Email, snapshot.Blog,
	}
	filled := 0
	for _, f := range profileFields {
		if f != "" {
			filled++
		}
	}
	score += math.Min(float64(filled)/float64(len(profileFields))*5, 5)

	if len(snapshot.Repos) > 0 {
		repoCount := float64(len(snapshot.Repos))

		// Description coverage, up to 7 points.
		described := 0
		for _, repo := range snapshot.Repos {
			if repo.Description != "" {
				described++
			}
		}
		score += math.Min(float64(described)/repoCount*7, 7)

		// Topic usage, up to 5 points.
		tagged := 0
		for _, repo := range snapshot.Repos {
			if repo.HasTopics {
				tagged++
			}
		}
		score += math.Min(float64(tagged)/repoCount*5, 5)

		result.Evidence = append(result.Evidence,
			fmt.Sprintf("descriptions on %d of %d repositories", described, len(snapshot.Repos)),
			fmt.Sprintf("topics on %d of %d repositories", tagged, len(snapshot.Repos)),
		)
	}

	// Portfolio size, up to 3 points.
	switch {
	case snapshot.PublicRepos >= 10:
		score += 3
	case snapshot.PublicRepos >= 5:
		score += 2
	case snapshot.PublicRepos >= 2:
		score += 1
	}

	result.Value = clamp(score, 0, model.CategoryMax)
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("%d of %d profile fields filled", filled, len(profileFields)))
	return result
}
