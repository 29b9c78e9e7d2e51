package githubapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
	"github.com/gitgauge/gitgauge/internal/model"
	"github.com/gitgauge/gitgauge/internal/monitoring"
)

// Number of repositories to enrich in parallel.
const fetchConcurrency = 5

// Client wraps the go-github client behind the fetch surface the analyzer
// needs. Without a token it runs against the unauthenticated quota.
type Client struct {
	gh            *github.Client
	logger        *monitoring.Logger
	metrics       *monitoring.Metrics
	authenticated bool
	maxRepos      int
}

// NewClient creates a GitHub API client. The token is optional.
func NewClient(token string, maxRepos int, logger *monitoring.Logger, metrics *monitoring.Metrics) *Client {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	return &Client{
		gh:            github.NewClient(httpClient),
		logger:        logger,
		metrics:       metrics,
		authenticated: token != "",
		maxRepos:      maxRepos,
	}
}

// FetchProfile retrieves the user, their owned repositories, and per-repo
// READMEs plus recent commit dates for the most recently pushed repos.
func (c *Client) FetchProfile(ctx context.Context, username string) (*model.ProfileSnapshot, error) {
	start := time.Now()

	user, _, err := c.gh.Users.Get(ctx, username)
	c.metrics.IncrementGitHubCalls()
	c.logger.ExternalAPILogger("github", "users.get", time.Since(start), err)
	if err != nil {
		return nil, c.classify(err, username)
	}

	repos, err := c.listRepositories(ctx, username)
	if err != nil {
		return nil, err
	}

	snapshot := toSnapshot(user, repos)
	if err := c.enrichRepositories(ctx, snapshot); err != nil {
		return nil, err
	}

	c.logger.Debug("profile fetched",
		"username", snapshot.Username,
		"repos", len(snapshot.Repos),
		"readmes", snapshot.ReadmeCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return snapshot, nil
}

// listRepositories fetches all owned repositories, following pagination.
// The pushed sort puts the repos worth enriching first.
func (c *Client) listRepositories(ctx context.Context, username string) ([]*github.Repository, error) {
	var all []*github.Repository

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, opts)
		c.metrics.IncrementGitHubCalls()
		if err != nil {
			return nil, c.classify(err, username)
		}

		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// enrichRepositories fills in READMEs and recent commit dates for up to
// maxRepos non-fork repositories. Missing READMEs and empty repos are
// normal and skipped; quota exhaustion aborts the whole fetch.
func (c *Client) enrichRepositories(ctx context.Context, snapshot *model.ProfileSnapshot) error {
	var targets []string
	for _, repo := range snapshot.Repos {
		if repo.IsFork {
			continue
		}
		targets = append(targets, repo.Name)
		if len(targets) >= c.maxRepos {
			break
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, name := range targets {
		name := name
		g.Go(func() error {
			readme, err := c.fetchReadme(gctx, snapshot.Username, name)
			if err != nil {
				return err
			}

			dates, err := c.fetchCommitDates(gctx, snapshot.Username, name)
			if err != nil {
				return err
			}

			mu.Lock()
			if readme != "" {
				snapshot.Readmes[name] = readme
			}
			if len(dates) > 0 {
				snapshot.CommitDates[name] = dates
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i := range snapshot.Repos {
		repo := &snapshot.Repos[i]
		readme, ok := snapshot.Readmes[repo.Name]
		repo.HasReadme = ok
		if ok {
			repo.HasTests = repo.HasTests || readmeMentionsTests(readme)
		}
	}

	return nil
}

func (c *Client) fetchReadme(ctx context.Context, owner, name string) (string, error) {
	start := time.Now()
	content, _, err := c.gh.Repositories.GetReadme(ctx, owner, name, nil)
	c.metrics.IncrementGitHubCalls()
	c.logger.ExternalAPILogger("github", "repos.readme", time.Since(start), err)
	if err != nil {
		if isMissingResource(err) {
			return "", nil
		}
		return "", c.classify(err, owner)
	}

	text, err := content.GetContent()
	if err != nil {
		// Undecodable content is treated the same as no README.
		return "", nil
	}
	return text, nil
}

// fetchCommitDates reads the first page of the user's own commits, newest
// first. One page is enough for the activity windows the scorers use.
func (c *Client) fetchCommitDates(ctx context.Context, owner, name string) ([]time.Time, error) {
	start := time.Now()
	opts := &github.CommitsListOptions{
		Author:      owner,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
	c.metrics.IncrementGitHubCalls()
	c.logger.ExternalAPILogger("github", "repos.commits", time.Since(start), err)
	if err != nil {
		// 409 means the repository has no commits yet.
		if isMissingResource(err) || hasStatus(err, http.StatusConflict) {
			return nil, nil
		}
		return nil, c.classify(err, owner)
	}

	dates := make([]time.Time, 0, len(commits))
	for _, commit := range commits {
		if d := commit.GetCommit().GetAuthor().GetDate(); !d.IsZero() {
			dates = append(dates, d.Time)
		}
	}
	return dates, nil
}

// classify translates go-github errors into the service error taxonomy.
func (c *Client) classify(err error, username string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.NewRateLimitedError(c.authenticated, rateErr.Rate.Reset.Time)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.NewRateLimitedError(c.authenticated, time.Time{})
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch {
		case ghErr.Response.StatusCode == http.StatusNotFound:
			return apperrors.NewNotFoundError(username)
		case ghErr.Response.StatusCode == http.StatusForbidden,
			ghErr.Response.StatusCode == http.StatusTooManyRequests:
			return apperrors.NewRateLimitedError(c.authenticated, time.Time{})
		case ghErr.Response.StatusCode >= 500:
			return apperrors.NewTransientError("GitHub API unavailable", err)
		}
	}

	return apperrors.ToAppError(err)
}

func isMissingResource(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == status
}
