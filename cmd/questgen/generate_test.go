package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/questgen/internal/config"
	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/store"
	"github.com/hireloop/questgen/internal/types"
	"github.com/hireloop/questgen/internal/workflow"
)

// slowProvider parks every completion call until release is closed, so an
// invocation stays in flight long enough for the test to race against it.
type slowProvider struct {
	release chan struct{}
	payload string
}

func (s *slowProvider) Name() string { return "slow" }

func (s *slowProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &llm.CompletionResponse{Message: llm.NewAssistantMessage(s.payload)}, nil
}

func validQuestionsJSON(count int, questionTypes ...string) string {
	payload := "["
	for i := 0; i < count; i++ {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf(
			`{"question_text": "Describe a production incident you handled end to end and what you changed afterwards (question %d).", "question_type": %q, "objective": "Assess depth of hands-on operational experience."}`,
			i+1, questionTypes[i%len(questionTypes)])
	}
	return payload + "]"
}

func openGenerateTestDB(t *testing.T) (*store.DB, *store.Job, int) {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(filepath.Join(t.TempDir(), "questgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	jobID, err := db.CreateJob(ctx, &store.Job{
		Name:        "Backend Engineer",
		Category:    "Engineering",
		Description: "Builds and operates backend services.",
	})
	require.NoError(t, err)
	job, err := db.GetJob(ctx, jobID)
	require.NoError(t, err)

	candidateID, err := db.CreateCandidate(ctx, &store.Candidate{
		JobID:  jobID,
		Name:   "Jamie Doe",
		Resume: "Eight years of Go and distributed systems work.",
	})
	require.NoError(t, err)

	require.NoError(t, db.CreatePolicy(ctx, &store.Policy{
		ID:      "conduct",
		Name:    "Code of Conduct",
		Content: "Be decent.",
	}))

	return db, job, candidateID
}

func TestGenerateManyDrainsRunnerOnDispatchError(t *testing.T) {
	prevCfg, prevLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = prevCfg, prevLogger })
	cfg = config.Default()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	db, job, candidateID := openGenerateTestDB(t)

	release := make(chan struct{})
	provider := &slowProvider{
		release: release,
		payload: validQuestionsJSON(12, "Behavioral", "Technical"),
	}
	timer := time.AfterFunc(150*time.Millisecond, func() { close(release) })
	defer timer.Stop()

	policies := &store.PolicyLoader{DB: db}
	writer := workflow.NewCSVWriter(t.TempDir())
	wcfg := workflow.NewConfig(cfg)
	pipeline := workflow.NewPipeline(wcfg, provider, policies, db, writer,
		workflow.WithLogger(logger))
	fallback := workflow.NewFallback(wcfg, provider, policies, db, writer, logger)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	// The duplicate candidate id makes the second dispatch fail while the
	// first invocation is still parked inside the provider.
	err := generateMany(cmd, db, pipeline, fallback, job, []int{candidateID, candidateID})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.WORKFLOW_ALREADY_RUNNING, ""))

	// The in-flight invocation must have been drained before the error was
	// returned, so the candidate finished rather than staying in progress.
	candidate, err := db.GetCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Equal(t, store.CandidateStatusGenerated, candidate.Status)
}
