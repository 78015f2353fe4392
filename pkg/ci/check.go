package ci

import (
	"time"
)

// CheckRunStatus is the lifecycle status of a check run.
type CheckRunStatus string

const (
	// CheckRunStatusQueued indicates the check run has not started.
	CheckRunStatusQueued CheckRunStatus = "queued"

	// CheckRunStatusInProgress indicates the check run is in progress.
	CheckRunStatusInProgress CheckRunStatus = "in_progress"

	// CheckRunStatusCompleted indicates the check run has a conclusion.
	CheckRunStatusCompleted CheckRunStatus = "completed"
)

// CheckRunConclusion is the outcome of a completed check run.
type CheckRunConclusion string

const (
	CheckRunConclusionNone    CheckRunConclusion = ""
	CheckRunConclusionSuccess CheckRunConclusion = "success"
	CheckRunConclusionFailure CheckRunConclusion = "failure"
	CheckRunConclusionNeutral CheckRunConclusion = "neutral"
)

// Terminal reports whether c is a final outcome.
func (c CheckRunConclusion) Terminal() bool {
	return c == CheckRunConclusionSuccess || c == CheckRunConclusionFailure
}

// CheckRunOutput is the rendered body of a check run.
type CheckRunOutput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Text    string `json:"text,omitempty"`
}

// CheckRunRequest is a create or update of a check run. The JSON form mirrors
// the GitHub Checks API body so it can be forwarded verbatim by the async
// workflow.
type CheckRunRequest struct {
	Owner       string             `json:"owner"`
	Repo        string             `json:"repo"`
	CheckRunID  int64              `json:"check_run_id,omitempty"`
	Name        string             `json:"name"`
	HeadSHA     string             `json:"head_sha,omitempty"`
	ExternalID  string             `json:"external_id,omitempty"`
	Status      CheckRunStatus     `json:"status"`
	Conclusion  CheckRunConclusion `json:"conclusion,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Output      CheckRunOutput     `json:"output"`
}

// IsUpdate reports whether the request targets an existing check run.
func (r *CheckRunRequest) IsUpdate() bool {
	return r.CheckRunID != 0
}

// CheckRun is a check run as acknowledged by a transport.
type CheckRun struct {
	ID          int64
	Owner       string
	Repo        string
	Name        string
	HeadSHA     string
	Status      CheckRunStatus
	Conclusion  CheckRunConclusion
	Title       string
	Summary     string
	Text        string
	StartedAt   time.Time
	CompletedAt time.Time
}

// CheckRunUpdate is one severity's contribution to a check run.
type CheckRunUpdate struct {
	Status     CheckRunStatus
	Conclusion CheckRunConclusion
	Title      string
	Summary    string
	Text       string
}

// CheckRunState is the caller-owned state of one check run across report
// calls. The zero value describes a run that has not been created yet.
type CheckRunState struct {
	ID   int64
	Name string
	// ExternalID is the build id the run belongs to, if any.
	ExternalID  string
	Status      CheckRunStatus
	Conclusion  CheckRunConclusion
	Title       string
	Summary     string
	Text        string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Created reports whether the run already exists remotely.
func (s CheckRunState) Created() bool {
	return s.ID != 0
}

// Apply folds u into s and returns the new state; s is not modified.
// Summary and text accumulate. A terminal conclusion is never replaced by a
// non-terminal one, and failure wins over success. The title follows the
// update that decided the conclusion.
func (s CheckRunState) Apply(u CheckRunUpdate, now time.Time) CheckRunState {
	next := s
	next.Text = accumulate(s.Text, u.Text)
	next.Summary = accumulate(s.Summary, u.Summary)

	switch {
	case !s.Conclusion.Terminal():
		next.Conclusion = u.Conclusion
	case u.Conclusion == CheckRunConclusionFailure:
		next.Conclusion = CheckRunConclusionFailure
	}

	if s.Title == "" || next.Conclusion == u.Conclusion {
		next.Title = u.Title
	}

	next.Status = u.Status
	if s.Status == CheckRunStatusCompleted || next.Conclusion.Terminal() {
		next.Status = CheckRunStatusCompleted
	}

	if next.StartedAt.IsZero() {
		next.StartedAt = now
	}
	if next.Status == CheckRunStatusCompleted && next.CompletedAt.IsZero() {
		next.CompletedAt = now
	}
	return next
}

func accumulate(prev, text string) string {
	switch {
	case prev == "":
		return text
	case text == "":
		return prev
	default:
		return prev + "\n" + text
	}
}

// Acknowledge records the identity assigned by the transport.
func (s CheckRunState) Acknowledge(run *CheckRun) CheckRunState {
	if run == nil {
		return s
	}
	if run.ID != 0 {
		s.ID = run.ID
	}
	if s.Name == "" {
		s.Name = run.Name
	}
	return s
}

// Request builds the request that delivers s to owner/repo. The conclusion
// is only sent once the run is completed.
func (s CheckRunState) Request(owner, repo, headSHA string) *CheckRunRequest {
	req := &CheckRunRequest{
		Owner:      owner,
		Repo:       repo,
		CheckRunID: s.ID,
		Name:       s.Name,
		HeadSHA:    headSHA,
		ExternalID: s.ExternalID,
		Status:     s.Status,
		Output: CheckRunOutput{
			Title:   s.Title,
			Summary: s.Summary,
			Text:    s.Text,
		},
	}
	if s.Status == CheckRunStatusCompleted {
		req.Conclusion = s.Conclusion
	}
	if !s.StartedAt.IsZero() {
		started := s.StartedAt
		req.StartedAt = &started
	}
	if !s.CompletedAt.IsZero() {
		completed := s.CompletedAt
		req.CompletedAt = &completed
	}
	return req
}
