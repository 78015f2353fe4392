// Package github provides check run transports backed by the GitHub API.
package github

import (
	"context"

	"github.com/cloudposse/buildcheck/pkg/ci"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

func init() {
	ci.Register(ci.TransportDirect, newDirect)
	ci.Register(ci.TransportDispatch, newDispatch)
}

func newDirect(cfg *schema.Configuration) (ci.Transport, error) {
	client, err := NewClient(context.Background(), cfg.GitHub.Token, cfg.GitHub.APIURL)
	if err != nil {
		return nil, err
	}
	return NewDirectTransport(client), nil
}

func newDispatch(cfg *schema.Configuration) (ci.Transport, error) {
	client, err := newDispatchClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return NewDispatchTransport(client, cfg.Check.AsyncWorkflow, cfg.GitHub.Ref), nil
}

// newDispatchClient prefers the dispatch token over the job token.
func newDispatchClient(ctx context.Context, cfg *schema.Configuration) (*Client, error) {
	token := cfg.GitHub.DispatchToken
	if token == "" {
		token = cfg.GitHub.Token
	}
	return NewClient(ctx, token, cfg.GitHub.APIURL)
}
