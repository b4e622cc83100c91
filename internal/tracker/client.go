package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

// Issue is a remote tracker item, uniquely numbered within its
// repository.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	State     string     `json:"state"` // "open" or "closed"
	Labels    []Label    `json:"labels,omitempty"`
	Assignee  string     `json:"assignee,omitempty"`
	Owner     string     `json:"owner"`
	Repo      string     `json:"repo"`
	URL       string     `json:"url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	IsPR      bool       `json:"is_pull_request,omitempty"`
}

// Label is a remote label. Color is the bare hex value as the tracker
// reports it, without a "#" prefix.
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// LabelNames extracts the name strings from a label slice.
func LabelNames(labels []Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}

	return names
}

// Repository identifies a remote repository the token can access.
type Repository struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
	Archived    bool   `json:"archived"`
}

// ListIssuesOptions configures issue listing.
type ListIssuesOptions struct {
	State      string // open, closed, all (default: open)
	Labels     []string
	IncludePRs bool // include pull requests (default: false)
}

// CreateIssueRequest carries the fields for issue creation.
type CreateIssueRequest struct {
	Title    string
	Body     string
	Labels   []string
	Assignee string
}

// UpdateIssueRequest carries the fields for issue updates. Labels
// replaces the full label set by name.
type UpdateIssueRequest struct {
	Title  string
	Body   string
	State  string
	Labels []string
}

// Client is the remote tracker contract consumed by the sync engine.
// The engine and config validation depend on this interface so tests
// can substitute a fake.
type Client interface {
	ListRepositories(ctx context.Context) ([]Repository, error)
	ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) ([]Issue, error)
	CreateIssue(ctx context.Context, owner, repo string, req CreateIssueRequest) (*Issue, error)
	UpdateIssue(ctx context.Context, owner, repo string, number int, req UpdateIssueRequest) (*Issue, error)
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)
}

// GitHubClient implements Client over the GitHub REST API.
type GitHubClient struct {
	gh     *github.Client
	logger *slog.Logger
}

// GitHubClientOptions configures the GitHub client.
type GitHubClientOptions struct {
	Logger *slog.Logger

	// HTTPClient overrides the oauth2 transport, used by tests.
	HTTPClient *http.Client

	// BaseURL points the client at a GitHub Enterprise or test server.
	BaseURL string
}

// NewGitHubClient creates an authenticated GitHub tracker client using
// the provided token. This is the standard way to create tracker
// clients throughout the codebase.
func NewGitHubClient(token string, opts GitHubClientOptions) (*GitHubClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if token == "" && opts.HTTPClient == nil {
		return nil, fmt.Errorf("GitHub token is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(httpClient)

	if opts.BaseURL != "" {
		var err error

		gh, err = gh.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set base URL: %w", err)
		}
	}

	return &GitHubClient{gh: gh, logger: logger}, nil
}

// ListRepositories returns every repository the authenticated token can
// access, with pagination.
func (c *GitHubClient) ListRepositories(ctx context.Context) ([]Repository, error) {
	opt := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []Repository

	for {
		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opt)
		if err != nil {
			return nil, convertError("list repositories", err)
		}

		for _, r := range repos {
			all = append(all, Repository{
				Owner:       r.GetOwner().GetLogin(),
				Name:        r.GetName(),
				FullName:    r.GetFullName(),
				Description: r.GetDescription(),
				Private:     r.GetPrivate(),
				Archived:    r.GetArchived(),
			})
		}

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	c.logger.Debug("listed repositories", slog.Int("count", len(all)))

	return all, nil
}

// ListIssues fetches issues for a repository with pagination. Pull
// requests returned by the issues endpoint are excluded unless
// IncludePRs is set.
func (c *GitHubClient) ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) ([]Issue, error) {
	state := opts.State
	if state == "" {
		state = "open"
	}

	opt := &github.IssueListByRepoOptions{
		State:       state,
		Labels:      opts.Labels,
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []Issue

	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opt)
		if err != nil {
			return nil, convertError("list issues", err)
		}

		for _, gi := range issues {
			if !opts.IncludePRs && gi.IsPullRequest() {
				continue
			}

			all = append(all, convertIssue(owner, repo, gi))
		}

		if resp.NextPage == 0 {
			break
		}

		opt.ListOptions.Page = resp.NextPage
	}

	c.logger.Debug("listed issues",
		slog.String("owner", owner),
		slog.String("repo", repo),
		slog.String("state", state),
		slog.Int("count", len(all)),
	)

	return all, nil
}

// CreateIssue creates a new issue in the repository.
func (c *GitHubClient) CreateIssue(ctx context.Context, owner, repo string, req CreateIssueRequest) (*Issue, error) {
	if req.Title == "" {
		return nil, &APIError{Code: "invalid_request", Message: "issue title is required"}
	}

	issueReq := &github.IssueRequest{
		Title: github.Ptr(req.Title),
	}

	if req.Body != "" {
		issueReq.Body = github.Ptr(req.Body)
	}

	if len(req.Labels) > 0 {
		issueReq.Labels = &req.Labels
	}

	if req.Assignee != "" {
		issueReq.Assignees = &[]string{req.Assignee}
	}

	c.logger.Debug("creating issue",
		slog.String("owner", owner),
		slog.String("repo", repo),
		slog.String("title", req.Title),
	)

	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, issueReq)
	if err != nil {
		return nil, convertError("create issue", err)
	}

	created := convertIssue(owner, repo, issue)

	return &created, nil
}

// UpdateIssue edits an existing issue.
func (c *GitHubClient) UpdateIssue(ctx context.Context, owner, repo string, number int, req UpdateIssueRequest) (*Issue, error) {
	issueReq := &github.IssueRequest{
		Title: github.Ptr(req.Title),
		Body:  github.Ptr(req.Body),
	}

	if req.State != "" {
		issueReq.State = github.Ptr(req.State)
	}

	if req.Labels != nil {
		issueReq.Labels = &req.Labels
	}

	c.logger.Debug("updating issue",
		slog.String("owner", owner),
		slog.String("repo", repo),
		slog.Int("issue", number),
	)

	issue, _, err := c.gh.Issues.Edit(ctx, owner, repo, number, issueReq)
	if err != nil {
		return nil, convertError("update issue", err)
	}

	updated := convertIssue(owner, repo, issue)

	return &updated, nil
}

// GetRepository fetches a single repository; used by config validation
// as a live access check.
func (c *GitHubClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, convertError("get repository", err)
	}

	return &Repository{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Private:     r.GetPrivate(),
		Archived:    r.GetArchived(),
	}, nil
}

// convertIssue maps a go-github issue into the tracker shape.
func convertIssue(owner, repo string, gi *github.Issue) Issue {
	issue := Issue{
		Number:    gi.GetNumber(),
		Title:     gi.GetTitle(),
		Body:      gi.GetBody(),
		State:     gi.GetState(),
		Assignee:  gi.GetAssignee().GetLogin(),
		Owner:     owner,
		Repo:      repo,
		URL:       gi.GetHTMLURL(),
		CreatedAt: gi.GetCreatedAt().Time,
		UpdatedAt: gi.GetUpdatedAt().Time,
		IsPR:      gi.IsPullRequest(),
	}

	if !gi.GetClosedAt().IsZero() {
		t := gi.GetClosedAt().Time
		issue.ClosedAt = &t
	}

	for _, label := range gi.Labels {
		issue.Labels = append(issue.Labels, Label{
			ID:    label.GetID(),
			Name:  label.GetName(),
			Color: label.GetColor(),
		})
	}

	return issue
}

// convertError maps go-github errors into the tracker taxonomy.
func convertError(op string, err error) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt: rateLimitErr.Rate.Reset.Time,
			Err:     err,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := time.Now()
		if abuseErr.RetryAfter != nil {
			reset = reset.Add(*abuseErr.RetryAfter)
		}

		return &RateLimitError{ResetAt: reset, Err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		status := 0
		if respErr.Response != nil {
			status = respErr.Response.StatusCode
		}

		return &APIError{
			StatusCode: status,
			Code:       codeForStatus(status),
			Message:    fmt.Sprintf("%s failed: %s", op, respErr.Message),
			Retryable:  status >= 500,
			Err:        err,
		}
	}

	return &APIError{
		Code:      "network_error",
		Message:   fmt.Sprintf("%s failed: %v", op, err),
		Retryable: true,
		Err:       err,
	}
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusUnprocessableEntity:
		return "validation_failed"
	case status >= 500:
		return "server_error"
	default:
		return "api_error"
	}
}
