package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hireloop/questgen/internal/config"
	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/observability"
)

// PolicyStore loads the policy context for an invocation. An empty policyID
// means all available policies.
type PolicyStore interface {
	LoadPolicies(ctx context.Context, policyID string) (string, error)
}

// CandidateStatusStore records candidate progress labels. Updates are
// last-write-wins.
type CandidateStatusStore interface {
	UpdateCandidateStatus(ctx context.Context, candidateID int, status string) error
}

// QuestionWriter persists a validated question set and returns the path it
// was written to.
type QuestionWriter interface {
	Write(ctx context.Context, jobID int, jobCategory string, candidateID int, questions []Question) (string, error)
}

// Config carries the pipeline tunables, flattened from the application
// configuration so the pipeline does not depend on how config is loaded.
type Config struct {
	MaxRetries      int
	TargetQuestions int

	Model       string
	Temperature float64
	MaxTokens   int
	LLMTimeout  time.Duration

	Validation ValidationConfig
}

// NewConfig derives pipeline tunables from the application configuration.
func NewConfig(cfg *config.Config) Config {
	return Config{
		MaxRetries:      cfg.Workflow.MaxRetries,
		TargetQuestions: cfg.Workflow.TargetQuestions,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		LLMTimeout:      cfg.LLM.Timeout,
		Validation: ValidationConfig{
			MinQuestions:    cfg.Workflow.MinQuestions,
			TargetQuestions: cfg.Workflow.TargetQuestions,
			MinTextLength:   cfg.Workflow.MinQuestionLength,
			MaxTextLength:   cfg.Workflow.MaxQuestionLength,
		},
	}
}

// Pipeline executes the question-generation graph for one candidate at a
// time. It is safe for concurrent use: all per-invocation data lives in the
// State value threaded through Execute.
type Pipeline struct {
	cfg        Config
	provider   llm.Provider
	policies   PolicyStore
	candidates CandidateStatusStore
	writer     QuestionWriter
	validator  *Validator
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithTracer sets the tracer used for per-node spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// NewPipeline assembles the generation pipeline.
func NewPipeline(cfg Config, provider llm.Provider, policies PolicyStore, candidates CandidateStatusStore, writer QuestionWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		provider:   provider,
		policies:   policies,
		candidates: candidates,
		writer:     writer,
		validator:  NewValidator(cfg.Validation),
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer("workflow"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// stepBudget bounds the node loop so a routing bug can never spin forever.
// The bound scales with the retry budget: each retry unit replays at most
// the five generation nodes plus the retry node, and the tail needs room
// for the save and error-handling nodes. A legitimately configured run can
// never hit it.
func stepBudget(maxRetries int) int {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return (maxRetries+1)*6 + 4
}

// Execute runs one invocation to a terminal state and returns its result.
// A panic anywhere in the node loop is converted into an internal-failure
// result so one bad invocation cannot take down the process; the caller
// decides whether a fallback path should take over.
func (p *Pipeline) Execute(ctx context.Context, in Input) (result Result) {
	state := NewState(in, p.cfg.MaxRetries)

	logger := observability.WithTraceContext(ctx, p.logger).With(
		"invocation_id", state.InvocationID.String(),
		"job_id", in.JobID,
		"candidate_id", in.CandidateID)

	ctx, span := p.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
		attribute.String("workflow.invocation_id", state.InvocationID.String()),
		attribute.Int("workflow.job_id", in.JobID),
		attribute.Int("workflow.candidate_id", in.CandidateID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("workflow panic: %v", r)
			logger.Error("workflow crashed", "error", err)
			span.RecordError(err)
			result = Result{
				Success:      false,
				Status:       StatusFailed,
				ErrorMessage: "internal workflow failure",
				RetryCount:   state.RetryCount,
				internal:     true,
			}
		}
	}()

	logger.Info("workflow started")

	budget := stepBudget(p.cfg.MaxRetries)
	current := NodeGatherData
	for step := 0; current != NodeEnd; step++ {
		if step >= budget && current != NodeErrorHandler {
			// Routing never loops this long within the retry budget, so
			// treat it as a fault. Run the error handler so the candidate
			// is not left in the in-progress status forever.
			logger.Error("step budget exceeded", "node", string(current), "budget", budget)
			state.ErrorMessage = "workflow step budget exceeded"
			current = NodeErrorHandler
		}

		state = p.runNode(ctx, current, state)
		next := Route(current, state)
		logger.Debug("node finished",
			"node", string(current),
			"status", string(state.Status),
			"next", string(next))
		current = next
	}

	result = state.Result()
	span.SetAttributes(
		attribute.Bool("workflow.success", result.Success),
		attribute.Int("workflow.retry_count", result.RetryCount),
		attribute.Int("workflow.questions_count", result.QuestionsCount))

	if result.Success {
		logger.Info("workflow finished",
			"questions_count", result.QuestionsCount,
			"questions_file", result.QuestionsFilePath,
			"retry_count", result.RetryCount)
	} else {
		logger.Error("workflow finished with failure",
			"error", result.ErrorMessage,
			"retry_count", result.RetryCount)
	}
	return result
}

// runNode dispatches to the node implementation under a per-node span.
func (p *Pipeline) runNode(ctx context.Context, node NodeID, s State) State {
	ctx, span := p.tracer.Start(ctx, "workflow."+string(node),
		trace.WithAttributes(attribute.String("workflow.node", string(node))))
	defer span.End()

	switch node {
	case NodeGatherData:
		s = p.gatherData(ctx, s)
	case NodeBuildPrompt:
		s = p.buildPrompt(s)
	case NodeCallLLM:
		s = p.callLLM(ctx, s)
	case NodeParseResponse:
		s = p.parseResponse(s)
	case NodeValidateQuestions:
		s = p.validateQuestions(s)
	case NodeSaveQuestions:
		s = p.saveQuestions(ctx, s)
	case NodeRetry:
		s = p.retryAttempt(s)
	case NodeErrorHandler:
		s = p.handleError(ctx, s)
	default:
		panic(fmt.Sprintf("workflow: unknown node %q", node))
	}

	span.SetAttributes(attribute.String("workflow.status", string(s.Status)))
	return s
}
