package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v72/github"
	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
)

// GitHub files each quote as an issue in a repository.
type GitHub struct {
	apiURL      string
	repo        string
	token       string
	titlePrefix string
	client      *github.Client
}

// NewGitHub returns a GitHub notifier for repo ("owner/name"). Requests go
// through client, which may be nil.
func NewGitHub(apiURL, repo, token string, client *http.Client) *GitHub {
	apiURL = strings.TrimSuffix(apiURL, "/") + "/"
	gh := github.NewClient(client).WithAuthToken(token)
	if u, err := url.Parse(apiURL); err == nil {
		gh.BaseURL = u
	}
	return &GitHub{
		apiURL:      apiURL,
		repo:        repo,
		token:       token,
		titlePrefix: "Cotización solar",
		client:      gh,
	}
}

// Validate ensures the configuration is valid.
func (g *GitHub) Validate() error {
	if _, err := url.Parse(g.apiURL); err != nil {
		return fmt.Errorf("failed to parse github api url (%s): %w", g.apiURL, err)
	}
	owner, name, ok := strings.Cut(g.repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("github-repository must be owner/repo: %q", g.repo)
	}
	if g.token == "" {
		return fmt.Errorf("github-token is required")
	}
	return nil
}

// Title returns the issue title for in.
func (g *GitHub) Title(in types.Inputs) string {
	return g.titlePrefix + " " + in.Coordinates()
}

// Body renders q as a fenced JSON block.
func Body(q types.Quote) (string, error) {
	b, err := q.MarshalIndented()
	if err != nil {
		return "", fmt.Errorf("failed to marshal quote: %w", err)
	}
	return "```json\n" + string(b) + "\n```", nil
}

// Notify implements Notifier by creating an issue.
func (g *GitHub) Notify(ctx context.Context, in types.Inputs, q types.Quote) error {
	body, err := Body(q)
	if err != nil {
		return err
	}
	owner, name, _ := strings.Cut(g.repo, "/")

	issue, _, err := g.client.Issues.Create(ctx, owner, name, &github.IssueRequest{
		Title: github.Ptr(g.Title(in)),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"filed quote issue",
		slog.Int("number", issue.GetNumber()),
		slog.String("url", issue.GetHTMLURL()),
	)
	return nil
}
