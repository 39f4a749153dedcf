package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/ResultWatch/internal/domain/run"
)

var _ run.Repo = (*RunRepoImpl)(nil)

type RunRepoImpl struct{ db *DB }

func NewRunRepo(db *DB) *RunRepoImpl { return &RunRepoImpl{db: db} }

const qRunInsert = `
INSERT INTO probe_runs (url, ts, status, code, latency_ms)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;
`

func (r *RunRepoImpl) Insert(ctx context.Context, rr *run.Run) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qRunInsert,
		rr.URL, rr.Timestamp, rr.Status, rr.Code, rr.Latency,
	).Scan(&rr.ID); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}
