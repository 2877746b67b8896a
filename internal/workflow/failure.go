package workflow

// FailureKind classifies why a node failed so the retry node can resume the
// pipeline at the point where the failure can actually be repaired. It is
// set alongside StatusError and cleared when an invocation starts.
type FailureKind string

const (
	// FailureNone means no failure has been recorded.
	FailureNone FailureKind = ""

	// FailureInput covers missing or malformed job/candidate data and
	// unavailable policies. Retries re-gather data from the stores.
	FailureInput FailureKind = "input"

	// FailureModel covers transient model errors, empty completions and
	// unparseable responses. Retries re-invoke the model with the same
	// prompt.
	FailureModel FailureKind = "model"

	// FailureQuality covers validation rejections. Retries rebuild the
	// prompt so the model sees the generation instructions afresh.
	FailureQuality FailureKind = "quality"

	// FailurePersistence covers errors writing the question file or
	// updating candidate status. Persistence failures are never retried;
	// re-running the model cannot repair a full disk.
	FailurePersistence FailureKind = "persistence"
)
