package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hireloop/questgen/internal/types"
)

// CreateJob inserts a job and returns its id.
func (db *DB) CreateJob(ctx context.Context, job *Job) (int, error) {
	aspects, err := marshalAspects(job.Aspects)
	if err != nil {
		return 0, types.WrapError(types.STORE_QUERY_FAILED, "failed to encode job aspects", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (name, category, description, aspects) VALUES (?, ?, ?, ?)`,
		job.Name, job.Category, job.Description, aspects,
	)
	if err != nil {
		return 0, types.WrapError(types.STORE_QUERY_FAILED, "failed to insert job", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, types.WrapError(types.STORE_QUERY_FAILED, "failed to read job id", err)
	}
	return int(id), nil
}

// GetJob returns the job with the given id.
func (db *DB) GetJob(ctx context.Context, id int) (*Job, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, category, description, aspects, created_at FROM jobs WHERE id = ?`, id)

	var job Job
	var aspects string
	err := row.Scan(&job.ID, &job.Name, &job.Category, &job.Description, &aspects, &job.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.JOB_NOT_FOUND, fmt.Sprintf("no job with id %d", id))
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to query job", err)
	}

	job.Aspects, err = unmarshalAspects(aspects)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to decode job aspects", err)
	}
	return &job, nil
}
