package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v59/github"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/ci"
	log "github.com/cloudposse/buildcheck/pkg/logger"
)

// DirectTransport talks to the Checks API with the job token.
type DirectTransport struct {
	checks ChecksService
}

// NewDirectTransport creates a transport backed by client.
func NewDirectTransport(client *Client) *DirectTransport {
	return &DirectTransport{checks: client.GitHub().Checks}
}

// NewDirectTransportWithService creates a transport backed by a custom service.
func NewDirectTransportWithService(checks ChecksService) *DirectTransport {
	return &DirectTransport{checks: checks}
}

// Name implements ci.Transport.
func (t *DirectTransport) Name() string {
	return ci.TransportDirect
}

// CreateCheckRun creates a new check run on a commit. Only 201 Created counts as success.
func (t *DirectTransport) CreateCheckRun(ctx context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	ghOpts := github.CreateCheckRunOptions{
		Name:    req.Name,
		HeadSHA: req.HeadSHA,
		Status:  github.String(string(req.Status)),
		Output:  toGitHubOutput(req.Output),
	}
	if req.ExternalID != "" {
		ghOpts.ExternalID = github.String(req.ExternalID)
	}
	if req.Conclusion != ci.CheckRunConclusionNone {
		ghOpts.Conclusion = github.String(string(req.Conclusion))
	}
	if req.StartedAt != nil {
		ghOpts.StartedAt = &github.Timestamp{Time: *req.StartedAt}
	}
	if req.CompletedAt != nil {
		ghOpts.CompletedAt = &github.Timestamp{Time: *req.CompletedAt}
	}

	checkRun, resp, err := t.checks.CreateCheckRun(ctx, req.Owner, req.Repo, ghOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrCheckRunCreateFailed, err)
	}
	if code := statusCode(resp); code != http.StatusCreated {
		return nil, fmt.Errorf("%w: create returned %d", errUtils.ErrCheckRunUnexpectedStatus, code)
	}

	log.Debug("Created check run", "id", checkRun.GetID(), "name", checkRun.GetName())
	return fromGitHubCheckRun(checkRun, req), nil
}

// UpdateCheckRun updates an existing check run. Only 200 OK counts as success.
func (t *DirectTransport) UpdateCheckRun(ctx context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	ghOpts := github.UpdateCheckRunOptions{
		Name:   req.Name, // Name is required for updates.
		Status: github.String(string(req.Status)),
		Output: toGitHubOutput(req.Output),
	}
	if req.ExternalID != "" {
		ghOpts.ExternalID = github.String(req.ExternalID)
	}
	if req.Conclusion != ci.CheckRunConclusionNone {
		ghOpts.Conclusion = github.String(string(req.Conclusion))
	}
	if req.CompletedAt != nil {
		ghOpts.CompletedAt = &github.Timestamp{Time: *req.CompletedAt}
	}

	checkRun, resp, err := t.checks.UpdateCheckRun(ctx, req.Owner, req.Repo, req.CheckRunID, ghOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrCheckRunUpdateFailed, err)
	}
	if code := statusCode(resp); code != http.StatusOK {
		return nil, fmt.Errorf("%w: update returned %d", errUtils.ErrCheckRunUnexpectedStatus, code)
	}

	log.Debug("Updated check run", "id", checkRun.GetID(), "conclusion", checkRun.GetConclusion())
	return fromGitHubCheckRun(checkRun, req), nil
}

func toGitHubOutput(out ci.CheckRunOutput) *github.CheckRunOutput {
	if out.Title == "" && out.Summary == "" && out.Text == "" {
		return nil
	}
	ghOut := &github.CheckRunOutput{
		Title:   github.String(out.Title),
		Summary: github.String(out.Summary),
	}
	if out.Text != "" {
		ghOut.Text = github.String(out.Text)
	}
	return ghOut
}

// fromGitHubCheckRun converts an API response, falling back to the request
// for fields the response omits.
func fromGitHubCheckRun(cr *github.CheckRun, req *ci.CheckRunRequest) *ci.CheckRun {
	run := &ci.CheckRun{
		ID:         cr.GetID(),
		Owner:      req.Owner,
		Repo:       req.Repo,
		Name:       cr.GetName(),
		HeadSHA:    cr.GetHeadSHA(),
		Status:     ci.CheckRunStatus(cr.GetStatus()),
		Conclusion: ci.CheckRunConclusion(cr.GetConclusion()),
		StartedAt:  cr.GetStartedAt().Time,
	}
	if cr.CompletedAt != nil {
		run.CompletedAt = cr.CompletedAt.Time
	}
	if cr.Output != nil {
		run.Title = cr.Output.GetTitle()
		run.Summary = cr.Output.GetSummary()
		run.Text = cr.Output.GetText()
	}
	if run.ID == 0 {
		run.ID = req.CheckRunID
	}
	if run.Name == "" {
		run.Name = req.Name
	}
	if run.HeadSHA == "" {
		run.HeadSHA = req.HeadSHA
	}
	return run
}
