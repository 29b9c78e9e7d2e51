package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
	"github.com/gitgauge/gitgauge/internal/model"
	"github.com/gitgauge/gitgauge/internal/monitoring"
)

const (
	embedModel     = "gemini-embedding-001"
	chatModel      = "gemini-2.0-flash"
	retrievedCount = 3
)

// Generator produces narratives with retrieval-augmented generation over
// the embedded recruiter guide, degrading to the rule-based fallback when
// no API key is configured or any step of the LLM path fails.
type Generator struct {
	client  *genai.Client
	logger  *monitoring.Logger
	metrics *monitoring.Metrics

	indexOnce sync.Once
	chunks    []string
	vectors   [][]float32
	indexErr  error
}

// NewGenerator creates a narrative generator. An empty apiKey is valid
// and yields a generator that always uses the fallback.
func NewGenerator(ctx context.Context, apiKey string, logger *monitoring.Logger, metrics *monitoring.Metrics) (*Generator, error) {
	g := &Generator{logger: logger, metrics: metrics}

	if apiKey == "" {
		logger.Info("no Gemini API key configured, narratives will be rule-based")
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.client = client

	return g, nil
}

// Generate returns a narrative for the report. It never fails: any error
// on the LLM path is logged and answered with the rule-based fallback.
func (g *Generator) Generate(ctx context.Context, snapshot *model.ProfileSnapshot, report *model.AnalysisReport) model.Narrative {
	if g.client == nil {
		g.metrics.IncrementNarrativeFallbacks()
		return Fallback(snapshot, report)
	}

	narrative, err := g.generateWithLLM(ctx, snapshot, report)
	if err != nil {
		appErr := apperrors.NewLLMUnavailableError("narrative generation failed", err)
		g.logger.Warn("falling back to rule-based narrative",
			"username", snapshot.Username, "error", appErr.Error(), "cause", err)
		g.metrics.IncrementNarrativeFallbacks()
		return Fallback(snapshot, report)
	}

	return narrative
}

func (g *Generator) generateWithLLM(ctx context.Context, snapshot *model.ProfileSnapshot, report *model.AnalysisReport) (model.Narrative, error) {
	if err := g.ensureIndex(ctx); err != nil {
		return model.Narrative{}, err
	}

	profileContext := buildProfileContext(snapshot, report)

	queryVec, err := g.embed(ctx, []string{profileContext})
	if err != nil {
		return model.Narrative{}, err
	}

	var guidance []string
	for _, i := range topChunks(queryVec[0], g.vectors, retrievedCount) {
		guidance = append(guidance, g.chunks[i])
	}

	prompt := buildPrompt(profileContext, guidance)

	start := time.Now()
	g.metrics.IncrementLLMCalls()
	resp, err := g.client.Models.GenerateContent(ctx, chatModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
	})
	g.logger.ExternalAPILogger("gemini", "models.generate", time.Since(start), err)
	if err != nil {
		return model.Narrative{}, err
	}

	narrative, err := parseReply(resp.Text())
	if err != nil {
		return model.Narrative{}, err
	}

	// Any list the model left empty is filled from the rule-based path so
	// the narrative contract holds regardless of model behavior.
	fallback := Fallback(snapshot, report)
	if len(narrative.Strengths) == 0 {
		narrative.Strengths = fallback.Strengths
	}
	if len(narrative.RedFlags) == 0 {
		narrative.RedFlags = fallback.RedFlags
	}
	if len(narrative.Recommendations) == 0 {
		narrative.Recommendations = fallback.Recommendations
	}

	return narrative, nil
}

// ensureIndex embeds the knowledge chunks once per process. A failed
// attempt is cached so every analysis does not re-pay the timeout.
func (g *Generator) ensureIndex(ctx context.Context) error {
	g.indexOnce.Do(func() {
		g.chunks = chunkKnowledge(knowledgeText)
		g.vectors, g.indexErr = g.embed(ctx, g.chunks)
		if g.indexErr == nil {
			g.logger.Info("knowledge index built", "chunks", len(g.chunks))
		}
	})
	return g.indexErr
}

func (g *Generator) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	start := time.Now()
	result, err := g.client.Models.EmbedContent(ctx, embedModel, contents, &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	g.logger.ExternalAPILogger("gemini", "models.embed", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func buildProfileContext(snapshot *model.ProfileSnapshot, report *model.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "GitHub profile summary for %s\n", snapshot.Username)
	fmt.Fprintf(&b, "Name: %s\nBio: %s\nCompany: %s\n", orNone(snapshot.Name), orNone(snapshot.Bio), orNone(snapshot.Company))
	fmt.Fprintf(&b, "Followers: %d, public repos: %d\n", snapshot.Followers, snapshot.PublicRepos)
	fmt.Fprintf(&b, "Overall score %.1f/100 (%s), grade %s\n", report.Total, report.Verdict, report.Grade)

	for _, c := range report.Categories {
		fmt.Fprintf(&b, "- %s: %.1f/20\n", c.Category, c.Value)
	}

	b.WriteString("Repositories:\n")
	for i, repo := range snapshot.Repos {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s (%s, %d stars)\n",
			repo.Name, orNone(repo.Description), orNone(repo.Language), repo.Stars)
	}

	return b.String()
}

func buildPrompt(profileContext string, guidance []string) string {
	var b strings.Builder

	b.WriteString("You are a technical recruiter evaluating a GitHub portfolio.\n\n")
	b.WriteString("Evaluation guidance:\n")
	for _, g := range guidance {
		b.WriteString(g)
		b.WriteString("\n\n")
	}
	b.WriteString(profileContext)
	b.WriteString(`
Respond with a JSON object only, no prose, in this shape:
{
  "strengths": ["3 to 5 strengths that would impress a technical recruiter"],
  "red_flags": ["3 to 4 concerns a technical recruiter would raise"],
  "recommendations": ["5 to 7 specific actions achievable in the next 2-4 weeks"]
}`)

	return b.String()
}

// parseReply decodes the model's JSON reply, tolerating markdown fences.
func parseReply(text string) (model.Narrative, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var reply struct {
		Strengths       []string `json:"strengths"`
		RedFlags        []string `json:"red_flags"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return model.Narrative{}, fmt.Errorf("decode narrative reply: %w", err)
	}

	return model.Narrative{
		Source:          model.NarrativeSourceLLM,
		Strengths:       reply.Strengths,
		RedFlags:        reply.RedFlags,
		Recommendations: reply.Recommendations,
	}, nil
}

func orNone(s string) string {
	if s == "" {
		return "not provided"
	}
	return s
}
