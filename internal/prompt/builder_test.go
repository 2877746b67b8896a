package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() Input {
	return Input{
		Job: map[string]any{
			"name":        "Corporate Finance Analyst",
			"description": "Own the monthly close and forecasting models.",
			"aspects": []any{
				map[string]any{
					"name":       "Core Skills",
					"focusAreas": []any{"Financial Modeling", "SQL"},
				},
			},
		},
		Candidate: map[string]any{
			"name":   "Alex Johnson",
			"resume": "Five years in FP&A at a mid-size SaaS company.",
			"aspects": []any{
				map[string]any{
					"name":       "Experience",
					"focusAreas": []any{"Forecasting"},
				},
			},
		},
		Policies: "**Policy: Data Privacy**\nNever export customer PII.",
	}
}

func TestBuild_IncludesAllSections(t *testing.T) {
	out, err := Build(sampleInput(), 12)
	require.NoError(t, err)

	assert.Contains(t, out, "Corporate Finance Analyst")
	assert.Contains(t, out, "Own the monthly close and forecasting models.")
	assert.Contains(t, out, "- Financial Modeling (Core Skills)")
	assert.Contains(t, out, "Five years in FP&A")
	assert.Contains(t, out, "- Forecasting (Experience)")
	assert.Contains(t, out, "**Policy: Data Privacy**")
	assert.Contains(t, out, "12 hyper-specific")
	assert.Contains(t, out, `"question_type"`)
}

func TestBuild_MissingResumeFails(t *testing.T) {
	in := sampleInput()
	in.Candidate["resume"] = "   "

	_, err := Build(in, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume")
}

func TestBuild_MissingJobDescriptionFails(t *testing.T) {
	in := sampleInput()
	delete(in.Job, "description")

	_, err := Build(in, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description")
}

func TestBuild_EmptyPoliciesRenderAsNA(t *testing.T) {
	in := sampleInput()
	in.Policies = ""

	out, err := Build(in, 10)
	require.NoError(t, err)

	idx := strings.Index(out, "Company Policies & Guidelines:")
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, out[idx:], "N/A")
}

func TestBuild_TargetCountIsConfigurable(t *testing.T) {
	out, err := Build(sampleInput(), 9)
	require.NoError(t, err)
	assert.Contains(t, out, "generate 9 hyper-specific")
	assert.Contains(t, out, "exactly 9 objects")
}
