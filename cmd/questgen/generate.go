package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/llm/providers"
	"github.com/hireloop/questgen/internal/observability"
	"github.com/hireloop/questgen/internal/store"
	"github.com/hireloop/questgen/internal/workflow"
)

var (
	generateJobID      int
	generateCandidates []int
	generatePolicyID   string
	generateSingleShot bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for one or more candidates",
	Long: `Generate runs the question-generation pipeline for the given job and
candidate(s). With a single candidate the invocation runs in the foreground
and prints its result; with several candidates they are dispatched through
the background runner under the configured concurrency and rate limits.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateJobID, "job", 0, "job id")
	generateCmd.Flags().IntSliceVar(&generateCandidates, "candidate", nil, "candidate id (repeatable)")
	generateCmd.Flags().StringVar(&generatePolicyID, "policy", "", "restrict the policy context to a single policy id")
	generateCmd.Flags().BoolVar(&generateSingleShot, "single-shot", false, "skip validation and retries (one model call)")
	generateCmd.MarkFlagRequired("job")
	generateCmd.MarkFlagRequired("candidate")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tp, shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	db, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := providers.NewProvider(llm.ProviderConfig{
		Provider:     cfg.LLM.Provider,
		DefaultModel: cfg.LLM.Model,
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.BaseURL,
	})
	if err != nil {
		return err
	}

	job, err := db.GetJob(ctx, generateJobID)
	if err != nil {
		return err
	}

	policies := &store.PolicyLoader{DB: db, Dir: cfg.Storage.PolicyDir}
	writer := workflow.NewCSVWriter(cfg.Storage.JobsDir)
	wcfg := workflow.NewConfig(cfg)

	pipeline := workflow.NewPipeline(wcfg, provider, policies, db, writer,
		workflow.WithLogger(logger),
		workflow.WithTracer(observability.Tracer(tp, "questgen/workflow")))
	fallback := workflow.NewFallback(wcfg, provider, policies, db, writer, logger)

	if len(generateCandidates) == 1 {
		return generateOne(cmd, db, pipeline, fallback, job, generateCandidates[0])
	}
	return generateMany(cmd, db, pipeline, fallback, job, generateCandidates)
}

// generateOne runs a single invocation in the foreground and prints the
// result record.
func generateOne(cmd *cobra.Command, db *store.DB, pipeline *workflow.Pipeline, fallback *workflow.Fallback, job *store.Job, candidateID int) error {
	ctx := cmd.Context()

	candidate, err := db.GetCandidate(ctx, candidateID)
	if err != nil {
		return err
	}

	in := workflow.Input{
		JobID:       job.ID,
		CandidateID: candidateID,
		PolicyID:    generatePolicyID,
		Job:         job.Snapshot(),
		Candidate:   candidate.Snapshot(),
	}

	var result workflow.Result
	if generateSingleShot {
		result = fallback.Generate(ctx, in)
	} else {
		result = pipeline.Execute(ctx, in)
		if result.Internal() {
			logger.Warn("pipeline crashed, switching to fallback", "candidate_id", candidateID)
			result = fallback.Generate(ctx, in)
		}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))

	if !result.Success {
		return fmt.Errorf("question generation failed: %s", result.ErrorMessage)
	}
	return nil
}

// generateMany dispatches every candidate through the background runner,
// waits for completion and reports the resulting candidate statuses.
func generateMany(cmd *cobra.Command, db *store.DB, pipeline *workflow.Pipeline, fallback *workflow.Fallback, job *store.Job, candidateIDs []int) error {
	ctx := cmd.Context()

	runner := workflow.NewRunner(pipeline, cfg.Workflow.MaxConcurrent,
		workflow.WithRunnerLogger(logger),
		workflow.WithDispatchRate(cfg.Workflow.DispatchRate),
		workflow.WithFallback(fallback))

	var dispatchErr error
	for _, candidateID := range candidateIDs {
		candidate, err := db.GetCandidate(ctx, candidateID)
		if err != nil {
			dispatchErr = err
			break
		}
		err = runner.Dispatch(ctx, workflow.Input{
			JobID:       job.ID,
			CandidateID: candidateID,
			PolicyID:    generatePolicyID,
			Job:         job.Snapshot(),
			Candidate:   candidate.Snapshot(),
		})
		if err != nil {
			dispatchErr = err
			break
		}
	}

	// Drain invocations already in flight before reporting a dispatch
	// failure, so no candidate is abandoned mid-run.
	runner.Wait()
	if dispatchErr != nil {
		return dispatchErr
	}

	failures := 0
	for _, candidateID := range candidateIDs {
		candidate, err := db.GetCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		cmd.Printf("candidate %d: %s\n", candidateID, candidate.Status)
		if candidate.Status != store.CandidateStatusGenerated {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("question generation failed for %d of %d candidates", failures, len(candidateIDs))
	}
	return nil
}
