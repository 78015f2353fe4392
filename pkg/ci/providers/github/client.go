package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"

	errUtils "github.com/cloudposse/buildcheck/errors"
)

// ChecksService is the subset of the GitHub Checks API used by DirectTransport.
//
//go:generate go run go.uber.org/mock/mockgen@latest -source=client.go -destination=mock_client_test.go -package=github
type ChecksService interface {
	CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, *github.Response, error)
	UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, *github.Response, error)
}

// ActionsService is the subset of the GitHub Actions API used by DispatchTransport.
type ActionsService interface {
	ListWorkflows(ctx context.Context, owner, repo string, opts *github.ListOptions) (*github.Workflows, *github.Response, error)
	CreateWorkflowDispatchEventByID(ctx context.Context, owner, repo string, workflowID int64, event github.CreateWorkflowDispatchEventRequest) (*github.Response, error)
}

// Client wraps an authenticated go-github client.
type Client struct {
	client *github.Client
}

// NewClient creates a client authenticated with token. An empty apiURL uses
// api.github.com; anything else is treated as a GitHub Enterprise endpoint.
func NewClient(ctx context.Context, token, apiURL string) (*Client, error) {
	if token == "" {
		return nil, errUtils.MarkConfig(errUtils.ErrMissingToken)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))

	if apiURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, errUtils.MarkConfig(fmt.Errorf("%w: api_url %q: %w", errUtils.ErrInvalidConfig, apiURL, err))
		}
	}

	return &Client{client: gh}, nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *github.Client {
	return c.client
}

// statusCode returns the HTTP status of resp, or 0 when there is none.
func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
