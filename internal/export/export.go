package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
	"github.com/gitgauge/gitgauge/internal/model"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ContentType returns the MIME type for a format, or an error for an
// unknown one.
func ContentType(format string) (string, error) {
	switch format {
	case FormatJSON:
		return "application/json", nil
	case FormatMarkdown:
		return "text/markdown; charset=utf-8", nil
	default:
		return "", apperrors.NewValidationError("unsupported export format: " + format)
	}
}

// Render serializes a report in the requested format.
func Render(report *model.AnalysisReport, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(report, "", "  ")
	case FormatMarkdown:
		return []byte(Markdown(report)), nil
	default:
		return nil, apperrors.NewValidationError("unsupported export format: " + format)
	}
}

// Markdown renders a human-readable report summary.
func Markdown(report *model.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# GitHub Portfolio Analysis: %s\n\n", report.Username)
	fmt.Fprintf(&b, "**Overall Score:** %.1f/100 (grade %s)\n", report.Total, report.Grade)
	fmt.Fprintf(&b, "**Verdict:** %s\n\n", report.Verdict)
	fmt.Fprintf(&b, "%s\n\n", report.VerdictDetail)
	fmt.Fprintf(&b, "**Hire Confidence:** %.0f%%\n\n", report.HireConfidence*100)

	b.WriteString("## Score Breakdown\n\n")
	b.WriteString("| Category | Score |\n|---|---|\n")
	for _, c := range report.Categories {
		fmt.Fprintf(&b, "| %s | %.1f/20 |\n", titleCase(c.Category), c.Value)
	}
	b.WriteString("\n")

	writeSection(&b, "Strengths", report.Narrative.Strengths)
	writeSection(&b, "Red Flags", report.Narrative.RedFlags)

	b.WriteString("## Improvement Plan\n\n")
	if weakest, strongest, ok := extremes(report.Categories); ok {
		fmt.Fprintf(&b, "Strongest in **%s**, needs the most work in **%s**.\n\n",
			titleCase(strongest), titleCase(weakest))
	}
	for i, rec := range report.Narrative.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "_Generated at %s_\n", report.GeneratedAt.Format("Jan 2, 2006 15:04 MST"))

	return b.String()
}

// extremes returns the weakest and strongest category names.
func extremes(categories []model.CategoryScore) (weakest, strongest string, ok bool) {
	if len(categories) == 0 {
		return "", "", false
	}

	sorted := make([]model.CategoryScore, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	return sorted[0].Category, sorted[len(sorted)-1].Category, true
}

func writeSection(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// titleCase turns a category identifier like "code_structure" into
// "Code Structure".
func titleCase(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
