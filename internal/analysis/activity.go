package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/gitgauge/gitgauge/internal/model"
)

const (
	recentWindow = 90 * 24 * time.Hour
	gapPenalty   = 2.0
)

// ActivityScorer rates contribution freshness and consistency: commits in
// the last 90 days, total commit volume, account tenure, and a penalty
// when the longest gap between observed commits exceeds 90 days.
type ActivityScorer struct{}

func (ActivityScorer) Name() string { return model.CategoryActivity }

func (ActivityScorer) Score(snapshot *model.ProfileSnapshot) model.CategoryScore {
	result := model.CategoryScore{Category: model.CategoryActivity}
	score := 0.0

	cutoff := time.Now().Add(-recentWindow)
	var all []time.Time
	recentCommits := 0
	for _, dates := range snapshot.CommitDates {
		all = append(all, dates...)
		for _, d := range dates {
			if d.After(cutoff) {
				recentCommits++
			}
		}
	}
	totalCommits := len(all)

	// Recent activity, up to 8 points.
	switch {
	case recentCommits > 50:
		score += 8
	case recentCommits > 20:
		score += 6
	case recentCommits > 5:
		score += 4
	case recentCommits > 0:
		score += 2
	}

	// Total volume as a consistency proxy, up to 6 points.
	switch {
	case totalCommits > 500:
		score += 6
	case totalCommits > 200:
		score += 4
	case totalCommits > 50:
		score += 2
	default:
		score += 1
	}

	// Account tenure, up to 6 points.
	if !snapshot.CreatedAt.IsZero() {
		years := time.Since(snapshot.CreatedAt).Hours() / 24 / 365
		switch {
		case years >= 5:
			score += 6
		case years >= 3:
			score += 4
		case years >= 1:
			score += 2
		default:
			score += 1
		}
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("account active for %.1f years", years))
	}

	if gap, ok := longestGap(all); ok && gap > recentWindow {
		score -= gapPenalty
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("longest gap between commits is %d days", int(gap.Hours()/24)))
	}

	result.Value = clamp(score, 0, model.CategoryMax)
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("%d commits in the last 90 days", recentCommits),
		fmt.Sprintf("%d commits observed in total", totalCommits),
	)
	return result
}

// longestGap returns the largest interval between consecutive commits,
// pooled across repositories. Needs at least two commits to be defined.
func longestGap(dates []time.Time) (time.Duration, bool) {
	if len(dates) < 2 {
		return 0, false
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var longest time.Duration
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i].Sub(sorted[i-1]); gap > longest {
			longest = gap
		}
	}
	return longest, true
}
