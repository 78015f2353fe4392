// Package generic provides a check run transport for local runs. It logs
// check runs instead of publishing them.
package generic

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cloudposse/buildcheck/pkg/ci"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

func init() {
	ci.Register(ci.TransportGeneric, func(*schema.Configuration) (ci.Transport, error) {
		return NewTransport(), nil
	})
}

// Transport assigns incrementing IDs and logs every check run.
type Transport struct {
	nextID atomic.Int64
	now    func() time.Time
}

// NewTransport creates a generic transport.
func NewTransport() *Transport {
	return &Transport{now: time.Now}
}

// Name implements ci.Transport.
func (t *Transport) Name() string {
	return ci.TransportGeneric
}

// CreateCheckRun implements ci.Transport.
func (t *Transport) CreateCheckRun(_ context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	run := t.toCheckRun(t.nextID.Add(1), req)
	log.Info("Check run created", "id", run.ID, "name", run.Name, "status", run.Status, "conclusion", run.Conclusion, "summary", run.Summary)
	return run, nil
}

// UpdateCheckRun implements ci.Transport.
func (t *Transport) UpdateCheckRun(_ context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	run := t.toCheckRun(req.CheckRunID, req)
	log.Info("Check run updated", "id", run.ID, "name", run.Name, "status", run.Status, "conclusion", run.Conclusion, "summary", run.Summary)
	return run, nil
}

func (t *Transport) toCheckRun(id int64, req *ci.CheckRunRequest) *ci.CheckRun {
	run := &ci.CheckRun{
		ID:         id,
		Owner:      req.Owner,
		Repo:       req.Repo,
		Name:       req.Name,
		HeadSHA:    req.HeadSHA,
		Status:     req.Status,
		Conclusion: req.Conclusion,
		Title:      req.Output.Title,
		Summary:    req.Output.Summary,
		Text:       req.Output.Text,
		StartedAt:  t.now(),
	}
	if req.StartedAt != nil {
		run.StartedAt = *req.StartedAt
	}
	if req.CompletedAt != nil {
		run.CompletedAt = *req.CompletedAt
	}
	return run
}
