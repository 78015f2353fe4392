package generic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudposse/buildcheck/pkg/ci"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

func TestCreateCheckRun(t *testing.T) {
	ctx := context.Background()

	t.Run("returns check run with correct fields", func(t *testing.T) {
		tr := NewTransport()
		req := &ci.CheckRunRequest{
			Name:       "Unity Build Error Validation",
			Status:     ci.CheckRunStatusCompleted,
			Conclusion: ci.CheckRunConclusionFailure,
			Output: ci.CheckRunOutput{
				Title:   "Unity Build Errors Detected",
				Summary: "Found 2 errors during the build.",
			},
		}

		run, err := tr.CreateCheckRun(ctx, req)
		require.NoError(t, err)
		assert.NotZero(t, run.ID)
		assert.Equal(t, req.Name, run.Name)
		assert.Equal(t, req.Conclusion, run.Conclusion)
		assert.Equal(t, req.Output.Title, run.Title)
		assert.Equal(t, req.Output.Summary, run.Summary)
		assert.False(t, run.StartedAt.IsZero())
	})

	t.Run("incrementing IDs", func(t *testing.T) {
		tr := NewTransport()
		req := &ci.CheckRunRequest{Name: "check-1", Status: ci.CheckRunStatusQueued}

		first, err := tr.CreateCheckRun(ctx, req)
		require.NoError(t, err)

		req.Name = "check-2"
		second, err := tr.CreateCheckRun(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, first.ID+1, second.ID)
	})
}

func TestUpdateCheckRun(t *testing.T) {
	tr := NewTransport()
	req := &ci.CheckRunRequest{
		CheckRunID: 9,
		Name:       "Unity Build Warning Validation",
		Status:     ci.CheckRunStatusCompleted,
		Conclusion: ci.CheckRunConclusionSuccess,
	}

	run, err := tr.UpdateCheckRun(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), run.ID)
	assert.Equal(t, ci.CheckRunStatusCompleted, run.Status)
	assert.Equal(t, ci.CheckRunConclusionSuccess, run.Conclusion)
}

func TestRegistered(t *testing.T) {
	tr, err := ci.SelectTransport(&schema.Configuration{})
	require.NoError(t, err)
	assert.Equal(t, ci.TransportGeneric, tr.Name())
}
