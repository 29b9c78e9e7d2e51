package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgauge/gitgauge/internal/model"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport(username string) *model.AnalysisReport {
	return &model.AnalysisReport{
		Username: username,
		Categories: []model.CategoryScore{
			{Category: model.CategoryDocumentation, Value: 12.5, Evidence: []string{"README coverage on 8/10 repos"}},
			{Category: model.CategoryActivity, Value: 9.0},
		},
		Total:          21.5,
		Verdict:        model.VerdictSeriousWork,
		Grade:          "F",
		HireConfidence: 0.0,
		Narrative: model.Narrative{
			Source:    model.NarrativeSourceRuleBased,
			Strengths: []string{"Consistent documentation habits"},
			RedFlags:  []string{"Low recent activity"},
			Recommendations: []string{
				"Ship a project with a live deployment link",
			},
		},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestStorePutGetRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	report := sampleReport("octocat")
	require.NoError(t, store.Put(ctx, "octocat", report))

	got, ok, err := store.Get(ctx, "octocat")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, report.Username, got.Username)
	assert.Equal(t, report.Total, got.Total)
	assert.Equal(t, report.Verdict, got.Verdict)
	assert.Equal(t, report.Categories, got.Categories)
	assert.Equal(t, report.Narrative, got.Narrative)
}

func TestStoreGetMiss(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, ok, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreKeyIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "OctoCat", sampleReport("OctoCat")))

	_, ok, err := store.Get(ctx, "octocat")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreExpiredEntryIsMiss(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "octocat", sampleReport("octocat")))

	// Jump the clock past the TTL.
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok, err := store.Get(ctx, "octocat")
	require.NoError(t, err)
	assert.False(t, ok)

	// The expired row was deleted on read.
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats["total_entries"])
}

func TestStoreOverwriteRefreshesEntry(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	first := sampleReport("octocat")
	first.Total = 40
	require.NoError(t, store.Put(ctx, "octocat", first))

	second := sampleReport("octocat")
	second.Total = 88
	require.NoError(t, store.Put(ctx, "octocat", second))

	got, ok, err := store.Get(ctx, "octocat")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 88.0, got.Total)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "octocat", sampleReport("octocat")))
	require.NoError(t, store.Delete(ctx, "octocat"))

	_, ok, err := store.Get(ctx, "octocat")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorePurgeExpired(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "alice", sampleReport("alice")))
	require.NoError(t, store.Put(ctx, "bob", sampleReport("bob")))

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.NoError(t, store.Put(ctx, "carol", sampleReport("carol")))

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["total_entries"])
}
