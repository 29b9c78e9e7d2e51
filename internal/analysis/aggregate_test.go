package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitgauge/gitgauge/internal/model"
)

func scoresTotaling(total float64) []model.CategoryScore {
	per := total / 5
	scores := make([]model.CategoryScore, 0, len(model.Categories))
	for _, name := range model.Categories {
		scores = append(scores, model.CategoryScore{Category: name, Value: per})
	}
	return scores
}

func TestAggregateTotalEqualsSum(t *testing.T) {
	report := Aggregate("ada", []model.CategoryScore{
		{Category: model.CategoryDocumentation, Value: 12.34},
		{Category: model.CategoryCodeStructure, Value: 8.88},
		{Category: model.CategoryActivity, Value: 15.0},
		{Category: model.CategoryOrganization, Value: 3.21},
		{Category: model.CategoryImpact, Value: 19.99},
	})

	sum := 0.0
	for _, c := range report.Categories {
		sum += c.Value
	}
	assert.InDelta(t, sum, report.Total, 0.001)
	assert.Equal(t, "ada", report.Username)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestAggregateClampsCategoryValues(t *testing.T) {
	report := Aggregate("ada", []model.CategoryScore{
		{Category: model.CategoryDocumentation, Value: 25},
		{Category: model.CategoryActivity, Value: -3},
	})

	assert.Equal(t, 20.0, report.Category(model.CategoryDocumentation).Value)
	assert.Equal(t, 0.0, report.Category(model.CategoryActivity).Value)
	assert.Equal(t, 20.0, report.Total)
}

func TestVerdictThresholds(t *testing.T) {
	tests := []struct {
		total   float64
		verdict string
	}{
		{100, model.VerdictStrongHire},
		{85, model.VerdictStrongHire},
		{84.9, model.VerdictInterview},
		{70, model.VerdictInterview},
		{69.9, model.VerdictPositioning},
		{50, model.VerdictPositioning},
		{49.9, model.VerdictSeriousWork},
		{0, model.VerdictSeriousWork},
	}

	for _, tt := range tests {
		report := Aggregate("ada", scoresTotaling(tt.total))
		assert.Equal(t, tt.verdict, report.Verdict, "total %.1f", tt.total)
		assert.NotEmpty(t, report.VerdictDetail)
	}
}

func TestVerdictIgnoresDisplayRounding(t *testing.T) {
	// Five categories of 16.98 round to 17.0 each for display, but the
	// verdict must come from the raw 84.9 total, below the 85 boundary.
	report := Aggregate("ada", scoresTotaling(84.9))

	assert.Equal(t, model.VerdictInterview, report.Verdict)
	assert.InDelta(t, 84.9, report.Total, 0.001)
	for _, c := range report.Categories {
		assert.Equal(t, 17.0, c.Value)
	}
}

func TestGradeLadder(t *testing.T) {
	tests := []struct {
		total float64
		grade string
	}{
		{95, "A+"}, {90, "A+"}, {87, "A"}, {82, "A-"},
		{76, "B+"}, {72, "B"}, {65, "C"}, {40, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, gradeFor(tt.total), "total %.0f", tt.total)
	}
}

func TestHireConfidence(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate("a", scoresTotaling(30)).HireConfidence)
	assert.InDelta(t, 0.5, Aggregate("a", scoresTotaling(65)).HireConfidence, 0.001)
	assert.Equal(t, 1.0, Aggregate("a", scoresTotaling(95)).HireConfidence)
}
