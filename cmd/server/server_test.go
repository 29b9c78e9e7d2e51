package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
	"github.com/gitgauge/gitgauge/internal/model"
	"github.com/gitgauge/gitgauge/internal/monitoring"
)

type stubAnalyzer struct {
	report *model.AnalysisReport
	cached bool
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, username string) (*model.AnalysisReport, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return s.report, s.cached, nil
}

type stubCache struct {
	deleted []string
}

func (s *stubCache) Stats(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"total_entries": int64(2)}, nil
}

func (s *stubCache) Delete(ctx context.Context, username string) error {
	s.deleted = append(s.deleted, username)
	return nil
}

func testReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		Username: "octocat",
		Categories: []model.CategoryScore{
			{Category: model.CategoryDocumentation, Value: 15},
			{Category: model.CategoryCodeStructure, Value: 12},
			{Category: model.CategoryActivity, Value: 18},
			{Category: model.CategoryOrganization, Value: 14},
			{Category: model.CategoryImpact, Value: 13},
		},
		Total:   72.0,
		Verdict: model.VerdictInterview,
		Grade:   "B",
		Narrative: model.Narrative{
			Source:          model.NarrativeSourceRuleBased,
			Strengths:       []string{"s"},
			RedFlags:        []string{"r"},
			Recommendations: []string{"rec"},
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func newTestServer(analyzer analyzeService, cache cacheAdmin) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &server{
		analyzer: analyzer,
		cache:    cache,
		metrics:  monitoring.NewMetrics(),
		logger:   monitoring.NewLogger("error"),
		timeout:  5 * time.Second,
	}
	return s.setupRouter(nil)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport()}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport(), cached: true}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"username":"octocat"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Report model.AnalysisReport `json:"report"`
		Cached bool                 `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "octocat", resp.Report.Username)
	assert.Equal(t, 72.0, resp.Report.Total)
	assert.True(t, resp.Cached)
}

func TestAnalyzeRejectsInvalidUsername(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport()}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"username":"bad name!"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation")
}

func TestAnalyzeRejectsMalformedBody(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport()}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "response must be a single JSON document")
}

func TestAnalyzeSurfacesNotFound(t *testing.T) {
	router := newTestServer(&stubAnalyzer{err: apperrors.NewNotFoundError("ghost")}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"username":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestExportEndpointMarkdown(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport()}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/report/octocat/export?format=markdown", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "octocat-analysis.md")
	assert.Contains(t, w.Body.String(), "# GitHub Portfolio Analysis: octocat")
}

func TestExportEndpointDefaultsToJSON(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport()}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/report/octocat/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "octocat", report.Username)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	router := newTestServer(&stubAnalyzer{report: testReport()}, &stubCache{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/report/octocat/export?format=pdf", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCacheEndpoints(t *testing.T) {
	cache := &stubCache{}
	router := newTestServer(&stubAnalyzer{report: testReport()}, cache)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total_entries")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cache/octocat", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"octocat"}, cache.deleted)
}
