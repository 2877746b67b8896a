package workflow

import "fmt"

// NodeID names a pipeline node. NodeEnd is the terminal sentinel returned by
// the router when the invocation is finished.
type NodeID string

const (
	NodeGatherData        NodeID = "gather_data"
	NodeBuildPrompt       NodeID = "build_prompt"
	NodeCallLLM           NodeID = "call_llm"
	NodeParseResponse     NodeID = "parse_response"
	NodeValidateQuestions NodeID = "validate_questions"
	NodeSaveQuestions     NodeID = "save_questions"
	NodeRetry             NodeID = "retry"
	NodeErrorHandler      NodeID = "error_handler"
	NodeEnd               NodeID = "end"
)

// Route decides the next node given the node that just ran and the state it
// produced. It is a pure function with no side effects; every status a node
// can emit is matched explicitly so an unexpected combination lands in the
// error handler instead of being silently re-run.
func Route(from NodeID, s State) NodeID {
	switch from {
	case NodeGatherData:
		if s.Status == StatusDataGathered {
			return NodeBuildPrompt
		}
		return routeFailure(s)

	case NodeBuildPrompt:
		if s.Status == StatusPromptBuilt {
			return NodeCallLLM
		}
		return routeFailure(s)

	case NodeCallLLM:
		if s.Status == StatusLLMCalled {
			return NodeParseResponse
		}
		return routeFailure(s)

	case NodeParseResponse:
		if s.Status == StatusQuestionsParsed {
			return NodeValidateQuestions
		}
		return routeFailure(s)

	case NodeValidateQuestions:
		if s.Status == StatusQuestionsValidated {
			return NodeSaveQuestions
		}
		return routeFailure(s)

	case NodeSaveQuestions:
		if s.Status == StatusQuestionsSaved {
			return NodeEnd
		}
		// Persistence failures are fatal regardless of retry budget.
		return NodeErrorHandler

	case NodeRetry:
		if s.Status == StatusRetrying {
			return resumeTarget(s.FailureKind)
		}
		return NodeErrorHandler

	case NodeErrorHandler:
		return NodeEnd

	default:
		panic(fmt.Sprintf("workflow: route called with unknown node %q", from))
	}
}

// routeFailure decides between another retry attempt and giving up.
// Persistence failures skip the retry budget entirely.
func routeFailure(s State) NodeID {
	if s.FailureKind == FailurePersistence {
		return NodeErrorHandler
	}
	if s.RetriesExhausted() {
		return NodeErrorHandler
	}
	return NodeRetry
}

// resumeTarget maps a failure kind to the node where a retry attempt rejoins
// the pipeline. Model failures re-call the LLM with the prompt already in
// state; quality failures rebuild the prompt; input failures re-gather the
// job and candidate data.
func resumeTarget(kind FailureKind) NodeID {
	switch kind {
	case FailureModel:
		return NodeCallLLM
	case FailureQuality:
		return NodeBuildPrompt
	case FailureInput:
		return NodeGatherData
	default:
		// Retrying with no recorded failure kind means a node forgot to
		// classify its failure. Start over from the top.
		return NodeGatherData
	}
}
