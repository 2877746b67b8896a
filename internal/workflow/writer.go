package workflow

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hireloop/questgen/internal/types"
)

// CSVWriter persists question sets as CSV files under a per-job directory:
//
//	{root}/{job_id}_{job_category}/interview_questions_{candidate_id}_{timestamp}.csv
//
// The timestamp keeps repeated runs for the same candidate side by side
// instead of overwriting each other.
type CSVWriter struct {
	root string
	now  func() time.Time
}

// NewCSVWriter creates a writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{root: dir, now: time.Now}
}

var csvHeader = []string{"question_text", "question_type", "objective", "metadata"}

// Write stores the question set and returns the file path. The context is
// checked before any disk work so cancelled invocations do not leave files
// behind.
func (w *CSVWriter) Write(ctx context.Context, jobID int, jobCategory string, candidateID int, questions []Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "write cancelled", err)
	}

	dir := filepath.Join(w.root, fmt.Sprintf("%d_%s", jobID, slugify(jobCategory)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "creating job directory", err)
	}

	name := fmt.Sprintf("interview_questions_%d_%s.csv", candidateID, w.now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "creating questions file", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "writing header", err)
	}
	for _, q := range questions {
		metadata := ""
		if len(q.Metadata) > 0 {
			raw, err := json.Marshal(q.Metadata)
			if err != nil {
				return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "encoding question metadata", err)
			}
			metadata = string(raw)
		}
		if err := cw.Write([]string{q.QuestionText, q.QuestionType, q.Objective, metadata}); err != nil {
			return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "writing question row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "flushing questions file", err)
	}
	if err := f.Close(); err != nil {
		return "", types.WrapError(types.QUESTIONS_WRITE_FAILED, "closing questions file", err)
	}
	return path, nil
}

// slugify turns a free-form category label into a filesystem-safe directory
// segment.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "general"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "general"
	}
	return b.String()
}
