package workflow

// Result is the record returned to the caller when an invocation reaches a
// terminal state. Exactly one of the success fields or ErrorMessage is
// meaningful depending on Success.
type Result struct {
	Success           bool   `json:"success"`
	Status            Status `json:"status"`
	QuestionsCount    int    `json:"questions_count,omitempty"`
	QuestionsFilePath string `json:"questions_file_path,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
	RetryCount        int    `json:"retry_count"`

	// internal marks results produced by the pipeline's panic recovery
	// rather than by normal node execution. The runner uses it to decide
	// whether the fallback path should take over.
	internal bool
}

// Internal reports whether the result came from the pipeline's crash
// recovery instead of a normal terminal node.
func (r Result) Internal() bool {
	return r.internal
}
