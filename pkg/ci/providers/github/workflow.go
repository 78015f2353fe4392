package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v59/github"

	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// BuildIDInput is the workflow_dispatch input carrying the build id to
// workflows triggered when a build completes.
const BuildIDInput = "buildGuid"

// workflowFinder resolves workflow names to ids. Found ids are cached per
// repository for the finder's life.
type workflowFinder struct {
	actions ActionsService

	mu  sync.Mutex
	ids map[string]int64
}

func newWorkflowFinder(actions ActionsService) *workflowFinder {
	return &workflowFinder{actions: actions, ids: make(map[string]int64)}
}

// find walks the repository's workflows page by page until one is named name.
func (f *workflowFinder) find(ctx context.Context, owner, repo, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := owner + "/" + repo + "/" + name
	if id, ok := f.ids[key]; ok {
		return id, nil
	}

	opts := &github.ListOptions{PerPage: perPage}
	for {
		workflows, resp, err := f.actions.ListWorkflows(ctx, owner, repo, opts)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errUtils.ErrWorkflowListFailed, err)
		}
		for _, wf := range workflows.Workflows {
			if wf.GetName() == name {
				f.ids[key] = wf.GetID()
				return wf.GetID(), nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return 0, fmt.Errorf("%w: %q in %s/%s", errUtils.ErrWorkflowNotFound, name, owner, repo)
}

// WorkflowTrigger dispatches named workflows once a build has completed.
type WorkflowTrigger struct {
	actions   ActionsService
	workflows *workflowFinder
	ref       string
}

// NewWorkflowTrigger creates a trigger that dispatches workflows on ref.
func NewWorkflowTrigger(client *Client, ref string) *WorkflowTrigger {
	return NewWorkflowTriggerWithService(client.GitHub().Actions, ref)
}

// NewWorkflowTriggerWithService creates a trigger backed by a custom service.
func NewWorkflowTriggerWithService(actions ActionsService, ref string) *WorkflowTrigger {
	return &WorkflowTrigger{actions: actions, workflows: newWorkflowFinder(actions), ref: ref}
}

// NewWorkflowTriggerFromConfig builds a trigger authenticated like the
// dispatch transport.
func NewWorkflowTriggerFromConfig(ctx context.Context, cfg *schema.Configuration) (*WorkflowTrigger, error) {
	client, err := newDispatchClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWorkflowTrigger(client, cfg.GitHub.Ref), nil
}

// Trigger dispatches every workflow in names with buildID as its only input.
// A missing or failing workflow does not stop the others; all failures are
// returned together.
func (t *WorkflowTrigger) Trigger(ctx context.Context, owner, repo string, names []string, buildID string) error {
	var errs []error
	for _, name := range names {
		if err := t.dispatch(ctx, owner, repo, name, buildID); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Info("Triggered workflow", "workflow", name, "build_id", buildID)
	}
	return errors.Join(errs...)
}

func (t *WorkflowTrigger) dispatch(ctx context.Context, owner, repo, name, buildID string) error {
	id, err := t.workflows.find(ctx, owner, repo, name)
	if err != nil {
		return err
	}

	event := github.CreateWorkflowDispatchEventRequest{
		Ref:    t.ref,
		Inputs: map[string]interface{}{BuildIDInput: buildID},
	}
	if _, err := t.actions.CreateWorkflowDispatchEventByID(ctx, owner, repo, id, event); err != nil {
		return fmt.Errorf("%w: %q: %w", errUtils.ErrWorkflowDispatchFailed, name, err)
	}
	return nil
}
