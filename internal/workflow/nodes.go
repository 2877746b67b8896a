package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/prompt"
	"github.com/hireloop/questgen/internal/store"
)

// gatherData checks the input snapshots, marks the candidate as in progress
// and loads the policy context. Anything wrong here is an input failure:
// retrying re-reads the stores.
func (p *Pipeline) gatherData(ctx context.Context, s State) State {
	if len(s.Job) == 0 {
		return s.withFailure(FailureInput, "job data is missing")
	}
	if len(s.Candidate) == 0 {
		return s.withFailure(FailureInput, "candidate data is missing")
	}

	if err := p.candidates.UpdateCandidateStatus(ctx, s.CandidateID, store.CandidateStatusGenerating); err != nil {
		return s.withFailure(FailureInput, fmt.Sprintf("updating candidate status: %v", err))
	}

	policies, err := p.policies.LoadPolicies(ctx, s.PolicyID)
	if err != nil {
		return s.withFailure(FailureInput, fmt.Sprintf("loading policies: %v", err))
	}

	s.Policies = policies
	s.Status = StatusDataGathered
	return s
}

// buildPrompt renders the generation prompt from the gathered data. A
// rendering failure means a required field is missing from the snapshots,
// which is an input problem, not a model problem.
func (p *Pipeline) buildPrompt(s State) State {
	text, err := prompt.Build(prompt.Input{
		Job:       s.Job,
		Candidate: s.Candidate,
		Policies:  s.Policies,
	}, p.cfg.TargetQuestions)
	if err != nil {
		return s.withFailure(FailureInput, fmt.Sprintf("building prompt: %v", err))
	}

	s.Prompt = text
	s.Status = StatusPromptBuilt
	return s
}

// callLLM sends the prompt to the configured provider under the configured
// timeout. Provider errors and empty completions are model failures: the
// prompt stays in state and a retry re-invokes the model as-is.
func (p *Pipeline) callLLM(ctx context.Context, s State) State {
	if p.cfg.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.LLMTimeout)
		defer cancel()
	}

	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		Model:       p.cfg.Model,
		Messages:    []llm.Message{llm.NewUserMessage(s.Prompt)},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		if !llm.IsRetryable(err) {
			// Auth and request errors will fail the same way on retry.
			p.logger.Warn("model error is not transient",
				"candidate_id", s.CandidateID, "error", err)
		}
		return s.withFailure(FailureModel, fmt.Sprintf("model call failed: %v", err))
	}

	content := resp.Content()
	if strings.TrimSpace(content) == "" {
		return s.withFailure(FailureModel, "model returned an empty response")
	}

	p.logger.Debug("completion received",
		"candidate_id", s.CandidateID,
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	s.LLMResponse = content
	s.Status = StatusLLMCalled
	return s
}

// parseResponse extracts the JSON payload from the raw completion text and
// decodes it into question records. Parse failures are model failures, so a
// retry goes back to callLLM: the prompt was fine, the generation was not.
func (p *Pipeline) parseResponse(s State) State {
	payload, err := llm.ExtractJSON(s.LLMResponse)
	if err != nil {
		return s.withFailure(FailureModel, err.Error())
	}

	questions, err := ParseQuestions(payload)
	if err != nil {
		return s.withFailure(FailureModel, err.Error())
	}

	s.Questions = questions
	s.Status = StatusQuestionsParsed
	return s
}

// validateQuestions runs the quality checks over the parsed set. Rejections
// are quality failures: a retry rebuilds the prompt and regenerates.
func (p *Pipeline) validateQuestions(s State) State {
	verdict := p.validator.Validate(s.Questions)
	s.Validation = &verdict

	if !verdict.Valid {
		s = s.withFailure(FailureQuality, verdict.Summary())
		s.ShouldRetry = true
		return s
	}

	for _, w := range verdict.Warnings {
		p.logger.Warn("question set warning", "candidate_id", s.CandidateID, "warning", w)
	}

	s.Status = StatusQuestionsValidated
	return s
}

// saveQuestions writes the validated set to disk and marks the candidate as
// done. Failures here are persistence failures and are never retried.
func (p *Pipeline) saveQuestions(ctx context.Context, s State) State {
	path, err := p.writer.Write(ctx, s.JobID, jobCategory(s.Job), s.CandidateID, s.Questions)
	if err != nil {
		return s.withFailure(FailurePersistence, fmt.Sprintf("writing questions file: %v", err))
	}
	s.QuestionsFilePath = path

	if err := p.candidates.UpdateCandidateStatus(ctx, s.CandidateID, store.CandidateStatusGenerated); err != nil {
		return s.withFailure(FailurePersistence, fmt.Sprintf("updating candidate status: %v", err))
	}

	s.Status = StatusQuestionsSaved
	return s
}

// retryAttempt consumes one unit of retry budget and rewinds the status so
// the router can resume at the node matching the failure kind. When the
// budget is spent the state is left as-is and the router hands it to the
// error handler.
func (p *Pipeline) retryAttempt(s State) State {
	if s.RetriesExhausted() {
		return s
	}

	s.RetryCount++
	s.ShouldRetry = false
	s.Status = StatusRetrying
	s.ErrorMessage = ""

	p.logger.Info("retrying",
		"candidate_id", s.CandidateID,
		"attempt", s.RetryCount,
		"max_retries", s.MaxRetries,
		"failure_kind", string(s.FailureKind))
	return s
}

// handleError records the terminal failure. The candidate status update is
// best effort; a failure to record the error must not mask the error itself.
func (p *Pipeline) handleError(ctx context.Context, s State) State {
	if err := p.candidates.UpdateCandidateStatus(ctx, s.CandidateID, store.CandidateStatusError); err != nil {
		p.logger.Warn("failed to record error status", "candidate_id", s.CandidateID, "error", err)
	}

	if s.ErrorMessage == "" {
		s.ErrorMessage = "question generation failed"
	}

	p.logger.Error("question generation failed",
		"candidate_id", s.CandidateID,
		"job_id", s.JobID,
		"retry_count", s.RetryCount,
		"failure_kind", string(s.FailureKind),
		"error", s.ErrorMessage)

	s.Status = StatusFailed
	return s
}

// jobCategory picks the directory label for the job's output folder.
func jobCategory(job map[string]any) string {
	if v, ok := job["category"].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := job["name"].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "general"
}
