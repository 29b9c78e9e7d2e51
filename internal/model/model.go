package model

import "time"

// RepositorySummary is the normalized view of a single public repository.
// Null fields from the API are normalized to zero values by the fetcher.
type RepositorySummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Homepage    string    `json:"homepage"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	SizeKB      int       `json:"size_kb"`
	IsFork      bool      `json:"is_fork"`
	CreatedAt   time.Time `json:"created_at"`
	PushedAt    time.Time `json:"pushed_at"`
	HasReadme   bool      `json:"has_readme"`
	HasLicense  bool      `json:"has_license"`
	HasTopics   bool      `json:"has_topics"`
	HasTests    bool      `json:"has_tests"`
}

// ProfileSnapshot is an immutable, normalized capture of a GitHub profile
// at fetch time. It is the sole input to the category scorers.
type ProfileSnapshot struct {
	Username    string                 `json:"username"`
	Name        string                 `json:"name"`
	Bio         string                 `json:"bio"`
	Company     string                 `json:"company"`
	Location    string                 `json:"location"`
	Email       string                 `json:"email"`
	Blog        string                 `json:"blog"`
	Followers   int                    `json:"followers"`
	Following   int                    `json:"following"`
	PublicRepos int                    `json:"public_repos"`
	CreatedAt   time.Time              `json:"created_at"`
	Repos       []RepositorySummary    `json:"repos"`
	Readmes     map[string]string      `json:"-"`
	CommitDates map[string][]time.Time `json:"-"`
	FetchedAt   time.Time              `json:"fetched_at"`
}

// ReadmeCount returns the number of repositories with a non-empty README.
func (s *ProfileSnapshot) ReadmeCount() int {
	n := 0
	for _, text := range s.Readmes {
		if text != "" {
			n++
		}
	}
	return n
}

// Category names, in report order.
const (
	CategoryDocumentation = "documentation"
	CategoryCodeStructure = "code_structure"
	CategoryActivity      = "activity"
	CategoryOrganization  = "organization"
	CategoryImpact        = "impact"
)

// Categories lists the five scoring categories in report order.
var Categories = []string{
	CategoryDocumentation,
	CategoryCodeStructure,
	CategoryActivity,
	CategoryOrganization,
	CategoryImpact,
}

// CategoryMax is the point ceiling for a single category.
const CategoryMax = 20.0

// CategoryScore is one bounded sub-score with its supporting evidence.
type CategoryScore struct {
	Category string   `json:"category"`
	Value    float64  `json:"value"`
	Evidence []string `json:"evidence"`
}

// Verdict tiers, highest first. Thresholds are inclusive-lower.
const (
	VerdictStrongHire   = "Strong Hire Signal"
	VerdictInterview    = "Interview Worthy"
	VerdictPositioning  = "Needs Positioning"
	VerdictSeriousWork  = "Needs Serious Work"
)

// NarrativeSourceLLM and NarrativeSourceRuleBased tag how a narrative was
// produced.
const (
	NarrativeSourceLLM       = "llm"
	NarrativeSourceRuleBased = "rule_based"
)

// Narrative is the qualitative portion of a report. All three lists are
// non-empty regardless of source.
type Narrative struct {
	Source          string   `json:"source"`
	Strengths       []string `json:"strengths"`
	RedFlags        []string `json:"red_flags"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisReport is the final product of one analysis. Immutable after
// construction; the total always equals the sum of the category values.
type AnalysisReport struct {
	Username       string          `json:"username"`
	Categories     []CategoryScore `json:"categories"`
	Total          float64         `json:"total"`
	Verdict        string          `json:"verdict"`
	VerdictDetail  string          `json:"verdict_detail"`
	Grade          string          `json:"grade"`
	HireConfidence float64         `json:"hire_confidence"`
	Narrative      Narrative       `json:"narrative"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Category returns the named category score, or a zero score if absent.
func (r *AnalysisReport) Category(name string) CategoryScore {
	for _, c := range r.Categories {
		if c.Category == name {
			return c
		}
	}
	return CategoryScore{Category: name}
}
