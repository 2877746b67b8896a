package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hireloop/questgen/internal/types"
)

// Candidate status labels surfaced to pollers while a generation runs.
const (
	CandidateStatusGenerating = "Generating Questions"
	CandidateStatusGenerated  = "Generated Questions"
	CandidateStatusError      = "Questions Error"
)

// CreateCandidate inserts a candidate and returns its id.
func (db *DB) CreateCandidate(ctx context.Context, c *Candidate) (int, error) {
	aspects, err := marshalAspects(c.Aspects)
	if err != nil {
		return 0, types.WrapError(types.STORE_QUERY_FAILED, "failed to encode candidate aspects", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO candidates (job_id, name, resume, aspects, status) VALUES (?, ?, ?, ?, ?)`,
		c.JobID, c.Name, c.Resume, aspects, c.Status,
	)
	if err != nil {
		return 0, types.WrapError(types.STORE_QUERY_FAILED, "failed to insert candidate", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, types.WrapError(types.STORE_QUERY_FAILED, "failed to read candidate id", err)
	}
	return int(id), nil
}

// GetCandidate returns the candidate with the given id.
func (db *DB) GetCandidate(ctx context.Context, id int) (*Candidate, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, job_id, name, resume, aspects, status, created_at, updated_at
		 FROM candidates WHERE id = ?`, id)

	var c Candidate
	var aspects string
	err := row.Scan(&c.ID, &c.JobID, &c.Name, &c.Resume, &aspects, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.CANDIDATE_NOT_FOUND, fmt.Sprintf("no candidate with id %d", id))
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to query candidate", err)
	}

	c.Aspects, err = unmarshalAspects(aspects)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to decode candidate aspects", err)
	}
	return &c, nil
}

// UpdateCandidateStatus sets the candidate's status label. This is the field
// external callers poll to observe pipeline progress; writes are
// last-write-wins by design.
func (db *DB) UpdateCandidateStatus(ctx context.Context, candidateID int, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE candidates SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, candidateID,
	)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "failed to update candidate status", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "failed to read affected rows", err)
	}
	if n == 0 {
		return types.NewError(types.CANDIDATE_NOT_FOUND, fmt.Sprintf("no candidate with id %d", candidateID))
	}
	return nil
}
