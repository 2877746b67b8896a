package store

import (
	"encoding/json"
	"time"
)

// Aspect is a named group of focus areas attached to a job or candidate.
type Aspect struct {
	Name       string   `json:"name"`
	FocusAreas []string `json:"focusAreas"`
}

// Job is a stored job posting.
type Job struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Aspects     []Aspect  `json:"aspects"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot returns the opaque key-value record handed to the workflow. The
// pipeline treats it as caller-supplied input and never mutates it.
func (j *Job) Snapshot() map[string]any {
	return map[string]any{
		"id":          j.ID,
		"name":        j.Name,
		"category":    j.Category,
		"description": j.Description,
		"aspects":     aspectsToAny(j.Aspects),
	}
}

// Candidate is a stored candidate attached to a job.
type Candidate struct {
	ID        int       `json:"id"`
	JobID     int       `json:"job_id"`
	Name      string    `json:"name"`
	Resume    string    `json:"resume"`
	Aspects   []Aspect  `json:"aspects"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns the opaque key-value record handed to the workflow.
func (c *Candidate) Snapshot() map[string]any {
	return map[string]any{
		"id":      c.ID,
		"job_id":  c.JobID,
		"name":    c.Name,
		"resume":  c.Resume,
		"aspects": aspectsToAny(c.Aspects),
	}
}

// Policy is a stored company policy folded into generation prompts.
type Policy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func aspectsToAny(aspects []Aspect) []any {
	out := make([]any, 0, len(aspects))
	for _, a := range aspects {
		focus := make([]any, 0, len(a.FocusAreas))
		for _, f := range a.FocusAreas {
			focus = append(focus, f)
		}
		out = append(out, map[string]any{
			"name":       a.Name,
			"focusAreas": focus,
		})
	}
	return out
}

func marshalAspects(aspects []Aspect) (string, error) {
	if aspects == nil {
		aspects = []Aspect{}
	}
	data, err := json.Marshal(aspects)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalAspects(data string) ([]Aspect, error) {
	if data == "" {
		return nil, nil
	}
	var aspects []Aspect
	if err := json.Unmarshal([]byte(data), &aspects); err != nil {
		return nil, err
	}
	return aspects, nil
}
