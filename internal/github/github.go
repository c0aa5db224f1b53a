package github

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

// ErrNoToken is reported when no GitHub API token is available.
var ErrNoToken = errors.New("GITHUB_TOKEN environment variable must be set")

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the repository's web URL.
func (r Repo) URL() string {
	return "https://github.com/" + r.Owner + "/" + r.Name
}

// ParseRepo extracts the owner and name from a GitHub remote URL in HTTPS,
// SSH, or scp-like form.
func ParseRepo(remote string) (Repo, error) {
	s := remote
	switch {
	case strings.HasPrefix(s, "git@github.com:"):
		s = strings.TrimPrefix(s, "git@github.com:")
	case strings.HasPrefix(s, "ssh://git@github.com/"):
		s = strings.TrimPrefix(s, "ssh://git@github.com/")
	case strings.HasPrefix(s, "https://github.com/"):
		s = strings.TrimPrefix(s, "https://github.com/")
	case strings.HasPrefix(s, "http://github.com/"):
		s = strings.TrimPrefix(s, "http://github.com/")
	case strings.HasPrefix(s, "git://github.com/"):
		s = strings.TrimPrefix(s, "git://github.com/")
	default:
		return Repo{}, fmt.Errorf("not a GitHub remote URL: %q", remote)
	}
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("cannot parse GitHub repository from remote URL %q", remote)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// NormalizeTopic lowercases a topic name and replaces every character GitHub
// rejects with a hyphen, truncating to the 50-character limit.
func NormalizeTopic(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if b.Len() == 50 {
			break
		}
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch - 'A' + 'a')
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Client talks to the GitHub REST API on behalf of one authenticated user.
type Client struct {
	gh *github.Client
}

// NewClient returns a Client authenticated with the GITHUB_TOKEN environment
// variable.
func NewClient(ctx context.Context) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, ErrNoToken
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{gh: github.NewClient(oauth2.NewClient(ctx, ts))}, nil
}

// CreateRelease publishes a release of the tagged commit.
func (c *Client) CreateRelease(ctx context.Context, repo Repo, tag, title, body string, prerelease bool) error {
	rel := &github.RepositoryRelease{
		TagName:    github.String(tag),
		Name:       github.String(title),
		Body:       github.String(body),
		Prerelease: github.Bool(prerelease),
	}
	if _, _, err := c.gh.Repositories.CreateRelease(ctx, repo.Owner, repo.Name, rel); err != nil {
		return fmt.Errorf("creating release for %s: %w", tag, err)
	}
	return nil
}

// ListTopics returns the repository's current topic set.
func (c *Client) ListTopics(ctx context.Context, repo Repo) ([]string, error) {
	topics, _, err := c.gh.Repositories.ListAllTopics(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("listing topics of %s: %w", repo, err)
	}
	return topics, nil
}

// ReplaceTopics replaces the repository's topic set. Names are normalized
// to the form GitHub accepts before the call.
func (c *Client) ReplaceTopics(ctx context.Context, repo Repo, topics []string) error {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = NormalizeTopic(t)
	}
	if _, _, err := c.gh.Repositories.ReplaceAllTopics(ctx, repo.Owner, repo.Name, names); err != nil {
		return fmt.Errorf("replacing topics of %s: %w", repo, err)
	}
	return nil
}
