package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Input carries everything the question-generation template needs. Job and
// Candidate are the opaque snapshots threaded through the workflow state.
type Input struct {
	Job       map[string]any
	Candidate map[string]any
	Policies  string
}

// questionsTemplate is the policy-enhanced generation prompt. The model must
// answer with a bare JSON array of question objects.
var questionsTemplate = template.Must(template.New("questions").Parse(`You are an expert recruitment AI. Your goal is to generate {{.TargetQuestions}} hyper-specific, written-interview questions by analyzing a job description, a candidate's resume, and company policies.

The final output must be a valid JSON array of {{.TargetQuestions}} question objects.

**Core Instructions**
1. Analyze Job, Resume & Policies:
- Identify 5-7 core competencies from the Job Information.
- Map the Candidate's Resume against these competencies.
- Review Company Policies to understand compliance requirements, cultural values, and organizational standards.
- Pinpoint specific gaps or ambiguities (e.g., a required skill is missing from the resume, unclear project scope, potential policy compliance concerns).

2. Generate Question Mix: Create a set of {{.TargetQuestions}} questions with the following mix:
- Behavioral/Experience: Probe past actions and results, including policy adherence.
- Technical/Situational: Assess specific skills and future scenario handling.
- Policy/Compliance: Test understanding of company standards and ethical guidelines.
- Cultural Fit: Evaluate alignment with company values and policies.
- Gap Analysis: Constructively ask for clarification on the gaps you identified.
- Two (2) Curveballs: Insightful, non-standard questions to test creativity or problem-solving within company framework.

**Input Data**
1. Job Information:

Job Title: {{.JobTitle}}
Job Description:
{{.JobDescription}}

Required Skills & Qualifications:
{{.JobAspects}}

2. Candidate Resume:

Full Resume Text:
{{.Resume}}

Skills & Qualifications:
{{.CandidateAspects}}

3. Company Policies & Guidelines:

{{.Policies}}

**Output Requirements**
Generate a single JSON array containing exactly {{.TargetQuestions}} objects. Provide no other text or explanation.

JSON Object Schema:

{
  "question_text": "The full text of the interview question.",
  "question_type": "[Behavioral | Technical | Situational | Policy/Compliance | Cultural Fit | Gap Analysis | Curveball]",
  "objective": "A brief explanation of the competency, skill, policy understanding, or insight this question is designed to assess."
}

**Enhanced Question Guidelines:**
- Incorporate 2-3 questions that test policy understanding or ethical scenarios.
- Include at least 1 question about how the candidate would handle situations mentioned in company policies.
- For behavioral questions, ask about past experiences that demonstrate adherence to similar standards.
- Use policy context to create more realistic situational questions.`))

// templateData is the resolved view handed to the template.
type templateData struct {
	TargetQuestions  int
	JobTitle         string
	JobDescription   string
	JobAspects       string
	Resume           string
	CandidateAspects string
	Policies         string
}

// Build renders the generation prompt. It fails only on data-integrity
// problems: a missing resume or job description means the inputs were never
// assembled properly and regeneration needs fresh data, not another render.
func Build(in Input, targetQuestions int) (string, error) {
	resume := stringField(in.Candidate, "resume")
	if strings.TrimSpace(resume) == "" {
		return "", fmt.Errorf("candidate resume is missing")
	}

	description := stringField(in.Job, "description")
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("job description is missing")
	}

	data := templateData{
		TargetQuestions:  targetQuestions,
		JobTitle:         orDefault(stringField(in.Job, "name"), "Position"),
		JobDescription:   description,
		JobAspects:       orDefault(aspectsToString(in.Job["aspects"]), "N/A"),
		Resume:           resume,
		CandidateAspects: orDefault(aspectsToString(in.Candidate["aspects"]), "N/A"),
		Policies:         orDefault(in.Policies, "N/A"),
	}

	var sb strings.Builder
	if err := questionsTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}

// aspectsToString renders an aspects snapshot field ([]any of maps with
// "name" and "focusAreas") as a bulleted list.
func aspectsToString(raw any) string {
	aspects, ok := raw.([]any)
	if !ok || len(aspects) == 0 {
		return ""
	}

	var lines []string
	for _, item := range aspects {
		aspect, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(aspect, "name")

		focusAreas, _ := aspect["focusAreas"].([]any)
		if len(focusAreas) == 0 {
			if name != "" {
				lines = append(lines, fmt.Sprintf("- %s", name))
			}
			continue
		}
		for _, fa := range focusAreas {
			if s, ok := fa.(string); ok && s != "" {
				lines = append(lines, fmt.Sprintf("- %s (%s)", s, name))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func stringField(record map[string]any, key string) string {
	if record == nil {
		return ""
	}
	s, _ := record[key].(string)
	return s
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
