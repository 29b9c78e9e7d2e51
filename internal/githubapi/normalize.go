package githubapi

import (
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/gitgauge/gitgauge/internal/model"
)

// Keywords in a README that indicate a tested project. Checked lowercase.
var testKeywords = []string{
	"go test",
	"npm test",
	"pytest",
	"unit test",
	"integration test",
	"test suite",
	"coverage",
	"ci/cd",
	"continuous integration",
}

func toSnapshot(user *github.User, repos []*github.Repository) *model.ProfileSnapshot {
	snapshot := &model.ProfileSnapshot{
		Username:    user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Email:       user.GetEmail(),
		Blog:        user.GetBlog(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		CreatedAt:   user.GetCreatedAt().Time,
		Repos:       make([]model.RepositorySummary, 0, len(repos)),
		Readmes:     make(map[string]string),
		CommitDates: make(map[string][]time.Time),
		FetchedAt:   time.Now().UTC(),
	}

	for _, repo := range repos {
		snapshot.Repos = append(snapshot.Repos, toRepositorySummary(repo))
	}

	return snapshot
}

func toRepositorySummary(r *github.Repository) model.RepositorySummary {
	topics := r.Topics

	return model.RepositorySummary{
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Homepage:    r.GetHomepage(),
		Topics:      topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		SizeKB:      r.GetSize(),
		IsFork:      r.GetFork(),
		CreatedAt:   r.GetCreatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
		HasLicense:  r.GetLicense() != nil,
		HasTopics:   len(topics) > 0,
	}
}

func readmeMentionsTests(readme string) bool {
	lowered := strings.ToLower(readme)
	for _, kw := range testKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
