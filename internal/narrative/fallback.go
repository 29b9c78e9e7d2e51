package narrative

import (
	"fmt"
	"time"

	"github.com/gitgauge/gitgauge/internal/model"
)

const staleCutoff = 180 * 24 * time.Hour

// Defaults used to pad lists so a narrative is never empty.
const (
	defaultStrength       = "Public portfolio available with verifiable work samples"
	defaultRedFlag        = "No major concerns beyond the usual growth areas"
	defaultRecommendation = "Keep contributing regularly and documenting projects as they evolve"
)

// Fallback produces a rule-based narrative from observable profile
// signals. All three lists are guaranteed non-empty.
func Fallback(snapshot *model.ProfileSnapshot, report *model.AnalysisReport) model.Narrative {
	return model.Narrative{
		Source:          model.NarrativeSourceRuleBased,
		Strengths:       padList(ruleStrengths(snapshot), defaultStrength, 5),
		RedFlags:        padList(ruleRedFlags(snapshot), defaultRedFlag, 4),
		Recommendations: padList(ruleRecommendations(snapshot, report), defaultRecommendation, 7),
	}
}

func ruleStrengths(s *model.ProfileSnapshot) []string {
	var strengths []string

	stars := totalStars(s)
	if stars > 50 {
		strengths = append(strengths,
			fmt.Sprintf("Community recognition with %d total stars across repositories", stars))
	}

	if n := languageCount(s); n >= 3 {
		strengths = append(strengths,
			fmt.Sprintf("Technical versatility spanning %d different programming languages", n))
	}

	if filledProfileFields(s) >= 4 {
		strengths = append(strengths, "Well-established professional profile with complete information")
	}

	if len(s.Repos) > 0 {
		recent := 0
		for _, r := range s.Repos {
			if isRecent(r.PushedAt) {
				recent++
			}
		}
		if float64(recent) >= float64(len(s.Repos))*0.7 {
			strengths = append(strengths, "Consistent recent activity showing ongoing engagement")
		}

		if n := s.ReadmeCount(); float64(n) >= float64(len(s.Repos))*0.6 {
			strengths = append(strengths,
				fmt.Sprintf("Good documentation practices with READMEs on %d repositories", n))
		}
	}

	if len(s.Repos) > 5 {
		strengths = append(strengths,
			fmt.Sprintf("Substantial portfolio with %d public repositories", len(s.Repos)))
	}

	return strengths
}

func ruleRedFlags(s *model.ProfileSnapshot) []string {
	var flags []string

	if len(s.Repos) > 2 {
		stale := 0
		for _, r := range s.Repos {
			if !isRecent(r.PushedAt) {
				stale++
			}
		}
		if float64(stale) >= float64(len(s.Repos))*0.5 {
			flags = append(flags, "Over half of the repositories appear inactive or abandoned")
		}

		if float64(s.ReadmeCount()) < float64(len(s.Repos))*0.3 {
			flags = append(flags,
				fmt.Sprintf("Limited documentation, only %d repositories have READMEs", s.ReadmeCount()))
		}
	}

	if totalStars(s) == 0 && len(s.Repos) > 3 {
		flags = append(flags, "No stars or recognition across repositories, projects may lack visibility")
	}

	forked := 0
	for _, r := range s.Repos {
		if r.IsFork {
			forked++
		}
	}
	if forked > 0 && len(s.Repos) <= 5 {
		flags = append(flags, "Primary activity centers on forks rather than original projects")
	}

	if s.Name == "" && s.Bio == "" && s.Company == "" {
		flags = append(flags, "Minimal profile information, not presented for recruitment")
	}

	if len(s.Repos) < 2 {
		flags = append(flags, "Very limited number of public repositories to evaluate")
	}

	return flags
}

func ruleRecommendations(s *model.ProfileSnapshot, report *model.AnalysisReport) []string {
	var recs []string

	if missing := len(s.Repos) - s.ReadmeCount(); missing > 0 {
		recs = append(recs, fmt.Sprintf(
			"Add comprehensive READMEs to %d repositories, including setup instructions, examples, and a problem statement", missing))
	}

	activeLastMonth := false
	for _, r := range s.Repos {
		if time.Since(r.PushedAt) < 30*24*time.Hour {
			activeLastMonth = true
			break
		}
	}
	if !activeLastMonth {
		recs = append(recs, "Create or update a project with commits in the last month to demonstrate current engagement")
	}

	if totalStars(s) < 10 && len(s.Repos) > 0 {
		recs = append(recs, "Focus on one project and polish it: improve documentation, add features, and promote it until it is production-ready")
	}

	if s.Bio == "" {
		recs = append(recs, "Write a compelling bio explaining your technical interests and specialization area")
	}

	if len(s.Repos) > 0 && languageCount(s) <= 1 {
		recs = append(recs, "Diversify by building projects in two or three languages relevant to your target role")
	}

	recs = append(recs, "Contribute to established open-source projects to show collaboration skills")

	hasHomepage := false
	for _, r := range s.Repos {
		if r.Homepage != "" {
			hasHomepage = true
			break
		}
	}
	if len(s.Repos) > 0 && !hasHomepage {
		recs = append(recs, "Add URLs to deployed versions of your projects to demonstrate real-world impact")
	}

	return recs
}

func padList(items []string, fallback string, max int) []string {
	if len(items) == 0 {
		items = []string{fallback}
	}
	if len(items) > max {
		items = items[:max]
	}
	return items
}

func totalStars(s *model.ProfileSnapshot) int {
	n := 0
	for _, r := range s.Repos {
		n += r.Stars
	}
	return n
}

func languageCount(s *model.ProfileSnapshot) int {
	langs := make(map[string]struct{})
	for _, r := range s.Repos {
		if r.Language != "" {
			langs[r.Language] = struct{}{}
		}
	}
	return len(langs)
}

func filledProfileFields(s *model.ProfileSnapshot) int {
	n := 0
	for _, f := range []string{s.Name, s.Bio, s.Company, s.Location, s.Email, s.Blog} {
		if f != "" {
			n++
		}
	}
	return n
}

func isRecent(t time.Time) bool {
	return !t.IsZero() && time.Since(t) < staleCutoff
}
