package notify

import (
	"context"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarquote/pkg/common"
	"github.com/raterudder/solarquote/pkg/types"
)

// Notifier announces a finished quote somewhere people will see it.
type Notifier interface {
	Notify(ctx context.Context, in types.Inputs, q types.Quote) error
}

// Nop is a Notifier that does nothing.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, types.Inputs, types.Quote) error {
	return nil
}

// Configured returns a Notifier that files a GitHub issue when both a token
// and a repository are configured, and does nothing otherwise. The defaults
// come from the variables GitHub Actions provides.
func Configured() Notifier {
	token := lflag.String("github-token", os.Getenv("GITHUB_TOKEN"), "Token used to file the quote as a GitHub issue")
	repo := lflag.String("github-repository", os.Getenv("GITHUB_REPOSITORY"), "owner/repo to file the quote issue in")
	apiURL := lflag.String("github-api-url", "https://api.github.com", "Base URL of the GitHub REST API")
	titlePrefix := lflag.String("github-issue-title-prefix", "Cotización solar", "Prefix of the quote issue title")
	timeout := lflag.Duration("github-timeout", 10*time.Second, "Timeout for creating the GitHub issue")

	var n struct{ Notifier }
	n.Notifier = Nop{}

	lflag.Do(func() {
		if *token == "" || *repo == "" {
			return
		}
		g := NewGitHub(*apiURL, *repo, *token, common.HTTPClient(*timeout))
		g.titlePrefix = *titlePrefix
		if err := g.Validate(); err != nil {
			panic(err.Error())
		}
		n.Notifier = g
	})

	return &n
}
