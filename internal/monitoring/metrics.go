package monitoring

import (
	"sync"
	"time"
)

// Metrics collects process-wide counters for the stats endpoints.
type Metrics struct {
	mu                 sync.RWMutex
	startTime          time.Time
	totalRequests      int64
	analysesCompleted  int64
	analysesFailed     int64
	cacheHits          int64
	cacheMisses        int64
	githubCalls        int64
	llmCalls           int64
	narrativeFallbacks int64
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) IncrementRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRequests++
}

func (m *Metrics) IncrementAnalyses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analysesCompleted++
}

func (m *Metrics) IncrementAnalysisFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analysesFailed++
}

func (m *Metrics) IncrementCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *Metrics) IncrementCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *Metrics) IncrementGitHubCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.githubCalls++
}

func (m *Metrics) IncrementLLMCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.llmCalls++
}

func (m *Metrics) IncrementNarrativeFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.narrativeFallbacks++
}

// GetStats returns a snapshot of all counters.
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":      time.Since(m.startTime).Seconds(),
		"total_requests":      m.totalRequests,
		"analyses_completed":  m.analysesCompleted,
		"analyses_failed":     m.analysesFailed,
		"cache_hits":          m.cacheHits,
		"cache_misses":        m.cacheMisses,
		"github_calls":        m.githubCalls,
		"llm_calls":           m.llmCalls,
		"narrative_fallbacks": m.narrativeFallbacks,
	}
}
