package analysis

import (
	"math"
	"time"

	"github.com/gitgauge/gitgauge/internal/model"
)

// Verdict tier descriptions, surfaced alongside the verdict itself.
const (
	detailStrongHire  = "Exceptional portfolio showing leadership, impact, and sustained contribution quality."
	detailInterview   = "Solid contributor with demonstrated capabilities. Worth technical conversation."
	detailPositioning = "Good potential but needs better portfolio presentation and some skill building."
	detailSeriousWork = "Early stage or inconsistent profile. Recommend focusing on contributions, documentation, and consistency."
)

// Aggregate combines category scores into a report. The verdict, grade,
// and hire confidence come from the unrounded sum of the clamped
// categories; rounding to one decimal happens afterwards, for display
// only, so a total of 84.9 cannot drift across the 85 boundary. The
// narrative is attached by the caller afterwards.
func Aggregate(username string, scores []model.CategoryScore) *model.AnalysisReport {
	total := 0.0
	for i := range scores {
		scores[i].Value = clamp(scores[i].Value, 0, model.CategoryMax)
		total += scores[i].Value
	}
	total = clamp(total, 0, 100)

	verdict, detail := verdictFor(total)
	grade := gradeFor(total)
	confidence := clamp((total-40)/50, 0, 1)

	for i := range scores {
		scores[i].Value = round1(scores[i].Value)
	}

	return &model.AnalysisReport{
		Username:       username,
		Categories:     scores,
		Total:          round1(total),
		Verdict:        verdict,
		VerdictDetail:  detail,
		Grade:          grade,
		HireConfidence: confidence,
		GeneratedAt:    time.Now().UTC(),
	}
}

// verdictFor maps a total score to its tier. Thresholds are inclusive on
// the lower bound.
func verdictFor(total float64) (string, string) {
	switch {
	case total >= 85:
		return model.VerdictStrongHire, detailStrongHire
	case total >= 70:
		return model.VerdictInterview, detailInterview
	case total >= 50:
		return model.VerdictPositioning, detailPositioning
	default:
		return model.VerdictSeriousWork, detailSeriousWork
	}
}

func gradeFor(total float64) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 85:
		return "A"
	case total >= 80:
		return "A-"
	case total >= 75:
		return "B+"
	case total >= 70:
		return "B"
	case total >= 60:
		return "C"
	default:
		return "F"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
