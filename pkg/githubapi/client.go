// Package githubapi wraps the GitHub REST API calls the labeler needs:
// reading a pull request's changed files, labels and head commit,
// fetching the rule configuration from the repository, and applying a
// reconciliation result. It holds no decision logic.
package githubapi

import (
	"context"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/crastos/labeler/pkg/errors"
	"github.com/crastos/labeler/pkg/logging"
)

// requestsPerSecond paces REST calls well under GitHub's secondary rate
// limits; a single run makes at most a handful of requests anyway.
const requestsPerSecond = 5

// Client is a thin, rate-limited wrapper around the GitHub REST client.
type Client struct {
	gh      *github.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient builds a client authenticated with a repo token.
func NewClient(ctx context.Context, token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewFromGitHub(github.NewClient(oauth2.NewClient(ctx, src)))
}

// NewFromGitHub wraps an existing GitHub client. Used by tests to point
// the wrapper at a local server.
func NewFromGitHub(gh *github.Client) *Client {
	return &Client{
		gh:      gh,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:  logging.GetLogger("githubapi"),
	}
}

// ChangedFiles returns the pull request's changed file paths in API
// order, following pagination.
func (c *Client) ChangedFiles(ctx context.Context, pr PRContext) ([]string, error) {
	var files []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := c.gh.PullRequests.ListFiles(ctx, pr.Owner, pr.Repo, pr.Number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrAPIRequest,
				"failed to list changed files for %s", pr)
		}
		for _, f := range page {
			files = append(files, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug().Stringer("pr", pr).Int("files", len(files)).Msg("Fetched changed files")
	return files, nil
}

// CurrentLabels returns the labels currently attached to the pull
// request.
func (c *Client) CurrentLabels(ctx context.Context, pr PRContext) ([]string, error) {
	var labels []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := c.gh.Issues.ListLabelsByIssue(ctx, pr.Owner, pr.Repo, pr.Number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrAPIRequest,
				"failed to list labels for %s", pr)
		}
		for _, l := range page {
			labels = append(labels, l.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug().Stringer("pr", pr).Strs("labels", labels).Msg("Fetched current labels")
	return labels, nil
}

// HeadSHA returns the pull request's head commit, used as the ref for
// fetching configuration so the PR's own config edits take effect.
func (c *Client) HeadSHA(ctx context.Context, pr PRContext) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	pull, _, err := c.gh.PullRequests.Get(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrAPIRequest,
			"failed to fetch pull request %s", pr)
	}
	return pull.GetHead().GetSHA(), nil
}

// FetchConfig downloads the configuration file at path from the
// repository, decoded to UTF-8 text. An empty ref means the default
// branch.
func (c *Client) FetchConfig(ctx context.Context, pr PRContext, path, ref string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := c.gh.Repositories.GetContents(ctx, pr.Owner, pr.Repo, path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigFetch,
			"failed to fetch configuration %q from %s/%s", path, pr.Owner, pr.Repo)
	}
	if file == nil {
		return nil, errors.Newf(errors.ErrConfigFetch,
			"configuration path %q is not a file", path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigFetch,
			"failed to decode configuration %q", path)
	}

	c.logger.Debug().Str("path", path).Str("ref", ref).Int("bytes", len(content)).Msg("Fetched configuration")
	return []byte(content), nil
}

// AddLabels attaches labels to the pull request as one batched call.
func (c *Client) AddLabels(ctx context.Context, pr PRContext, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, _, err := c.gh.Issues.AddLabelsToIssue(ctx, pr.Owner, pr.Repo, pr.Number, labels)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAPIRequest,
			"failed to add labels %v to %s", labels, pr)
	}
	c.logger.Info().Stringer("pr", pr).Strs("labels", labels).Msg("Added labels")
	return nil
}

// RemoveLabel detaches one label from the pull request.
func (c *Client) RemoveLabel(ctx context.Context, pr PRContext, label string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.gh.Issues.RemoveLabelForIssue(ctx, pr.Owner, pr.Repo, pr.Number, label)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAPIRequest,
			"failed to remove label %q from %s", label, pr)
	}
	c.logger.Info().Stringer("pr", pr).Str("label", label).Msg("Removed label")
	return nil
}
