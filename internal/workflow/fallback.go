package workflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/prompt"
	"github.com/hireloop/questgen/internal/store"
)

// Fallback is the single-shot generation path used when the pipeline itself
// crashes. It runs the same prompt and persistence steps but with no
// validation and no retries: one model call, best effort.
type Fallback struct {
	cfg        Config
	provider   llm.Provider
	policies   PolicyStore
	candidates CandidateStatusStore
	writer     QuestionWriter
	logger     *slog.Logger
}

// NewFallback assembles the fallback generator.
func NewFallback(cfg Config, provider llm.Provider, policies PolicyStore, candidates CandidateStatusStore, writer QuestionWriter, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{
		cfg:        cfg,
		provider:   provider,
		policies:   policies,
		candidates: candidates,
		writer:     writer,
		logger:     logger,
	}
}

// Generate runs the single-shot path. Any failure marks the candidate as
// errored and returns a failure result; there is no retry budget here.
func (f *Fallback) Generate(ctx context.Context, in Input) Result {
	logger := f.logger.With("job_id", in.JobID, "candidate_id", in.CandidateID)
	logger.Info("fallback generation started")

	policies, err := f.policies.LoadPolicies(ctx, in.PolicyID)
	if err != nil {
		// Fallback proceeds without policy context rather than failing.
		logger.Warn("fallback proceeding without policies", "error", err)
		policies = ""
	}

	text, err := prompt.Build(prompt.Input{
		Job:       in.Job,
		Candidate: in.Candidate,
		Policies:  policies,
	}, f.cfg.TargetQuestions)
	if err != nil {
		return f.fail(ctx, in, logger, "building prompt: "+err.Error())
	}

	callCtx := ctx
	if f.cfg.LLMTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.cfg.LLMTimeout)
		defer cancel()
	}
	resp, err := f.provider.Complete(callCtx, llm.CompletionRequest{
		Model:       f.cfg.Model,
		Messages:    []llm.Message{llm.NewUserMessage(text)},
		Temperature: f.cfg.Temperature,
		MaxTokens:   f.cfg.MaxTokens,
	})
	if err != nil {
		return f.fail(ctx, in, logger, "model call failed: "+err.Error())
	}
	content := resp.Content()
	if strings.TrimSpace(content) == "" {
		return f.fail(ctx, in, logger, "model returned an empty response")
	}

	payload, err := llm.ExtractJSON(content)
	if err != nil {
		return f.fail(ctx, in, logger, err.Error())
	}
	questions, err := ParseQuestions(payload)
	if err != nil {
		return f.fail(ctx, in, logger, err.Error())
	}
	if len(questions) == 0 {
		return f.fail(ctx, in, logger, "model returned no questions")
	}

	path, err := f.writer.Write(ctx, in.JobID, jobCategory(in.Job), in.CandidateID, questions)
	if err != nil {
		return f.fail(ctx, in, logger, "writing questions file: "+err.Error())
	}

	if err := f.candidates.UpdateCandidateStatus(ctx, in.CandidateID, store.CandidateStatusGenerated); err != nil {
		return f.fail(ctx, in, logger, "updating candidate status: "+err.Error())
	}

	logger.Info("fallback generation finished", "questions_count", len(questions), "questions_file", path)
	return Result{
		Success:           true,
		Status:            StatusQuestionsSaved,
		QuestionsCount:    len(questions),
		QuestionsFilePath: path,
	}
}

func (f *Fallback) fail(ctx context.Context, in Input, logger *slog.Logger, message string) Result {
	if err := f.candidates.UpdateCandidateStatus(ctx, in.CandidateID, store.CandidateStatusError); err != nil {
		logger.Warn("failed to record error status", "error", err)
	}
	logger.Error("fallback generation failed", "error", message)
	return Result{
		Success:      false,
		Status:       StatusFailed,
		ErrorMessage: message,
	}
}
