package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v59/github"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/ci"
	log "github.com/cloudposse/buildcheck/pkg/logger"
)

const (
	// DefaultAsyncWorkflow is the name of the helper workflow that applies
	// check run updates on behalf of sandboxed jobs.
	DefaultAsyncWorkflow = "Async Checks API"

	// checksObjectInput is the workflow_dispatch input carrying the payload.
	checksObjectInput = "checksObject"

	dispatchModeUpdate = "update"
	perPage            = 100
)

// checksObject is the payload decoded by the helper workflow.
type checksObject struct {
	Data *ci.CheckRunRequest `json:"data"`
	Mode string              `json:"mode"`
}

// DispatchTransport delegates check run updates to a helper workflow through
// a workflow_dispatch event. It cannot create check runs.
type DispatchTransport struct {
	actions      ActionsService
	workflows    *workflowFinder
	workflowName string
	ref          string
}

// NewDispatchTransport creates a transport that dispatches workflowName on ref.
func NewDispatchTransport(client *Client, workflowName, ref string) *DispatchTransport {
	return NewDispatchTransportWithService(client.GitHub().Actions, workflowName, ref)
}

// NewDispatchTransportWithService creates a transport backed by a custom service.
func NewDispatchTransportWithService(actions ActionsService, workflowName, ref string) *DispatchTransport {
	if workflowName == "" {
		workflowName = DefaultAsyncWorkflow
	}
	return &DispatchTransport{
		actions:      actions,
		workflows:    newWorkflowFinder(actions),
		workflowName: workflowName,
		ref:          ref,
	}
}

// Name implements ci.Transport.
func (t *DispatchTransport) Name() string {
	return ci.TransportDispatch
}

// CreateCheckRun always fails: the helper workflow only applies updates.
func (t *DispatchTransport) CreateCheckRun(_ context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	return nil, errUtils.MarkConfig(fmt.Errorf("%w: check run %q has no id", errUtils.ErrAsyncCreateUnsupported, req.Name))
}

// UpdateCheckRun dispatches the helper workflow with the update payload. The
// returned check run echoes the request since the workflow runs later.
func (t *DispatchTransport) UpdateCheckRun(ctx context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	workflowID, err := t.workflows.find(ctx, req.Owner, req.Repo, t.workflowName)
	if errors.Is(err, errUtils.ErrWorkflowNotFound) {
		return nil, errUtils.MarkConfig(fmt.Errorf("%w: %w", errUtils.ErrAsyncWorkflowNotFound, err))
	}
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(checksObject{Data: req, Mode: dispatchModeUpdate})
	if err != nil {
		return nil, errUtils.MarkConfig(fmt.Errorf("%w: %w", errUtils.ErrCheckRunPayloadEncode, err))
	}

	event := github.CreateWorkflowDispatchEventRequest{
		Ref:    t.ref,
		Inputs: map[string]interface{}{checksObjectInput: string(payload)},
	}
	if _, err := t.actions.CreateWorkflowDispatchEventByID(ctx, req.Owner, req.Repo, workflowID, event); err != nil {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrWorkflowDispatchFailed, err)
	}

	log.Debug("Dispatched async checks workflow", "workflow", t.workflowName, "id", workflowID, "check_run_id", req.CheckRunID)

	run := &ci.CheckRun{
		ID:         req.CheckRunID,
		Owner:      req.Owner,
		Repo:       req.Repo,
		Name:       req.Name,
		HeadSHA:    req.HeadSHA,
		Status:     req.Status,
		Conclusion: req.Conclusion,
		Title:      req.Output.Title,
		Summary:    req.Output.Summary,
		Text:       req.Output.Text,
	}
	if req.StartedAt != nil {
		run.StartedAt = *req.StartedAt
	}
	if req.CompletedAt != nil {
		run.CompletedAt = *req.CompletedAt
	}
	return run, nil
}
