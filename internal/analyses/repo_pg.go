package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres. Results are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, document_id, user_id, job_description, provider, model, status, result, error_code, error_message, error_retryable, started_at, completed_at, created_at, updated_at`

// Create inserts a new analysis in queued state.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id,
    document_id,
    user_id,
    job_description,
    provider,
    model,
    status,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.DocumentID,
		analysis.UserID,
		analysis.JobDescription,
		analysis.Provider,
		analysis.Model,
		analysis.Status,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by its ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1`

	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// UpdateProcessing marks the analysis as processing.
func (r *PGRepo) UpdateProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $1, started_at = $2, updated_at = $3
WHERE id = $4`
	return r.exec(ctx, query, StatusProcessing, startedAt, time.Now().UTC(), analysisID)
}

// UpdateCompleted stores the parsed result and marks the analysis completed.
func (r *PGRepo) UpdateCompleted(ctx context.Context, analysisID string, result AnalysisResult, completedAt time.Time) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	const query = `
UPDATE analyses
SET status = $1, result = $2, completed_at = $3, updated_at = $4
WHERE id = $5`
	return r.exec(ctx, query, StatusCompleted, payload, completedAt, time.Now().UTC(), analysisID)
}

// UpdateFailed records failure details and marks the analysis failed.
func (r *PGRepo) UpdateFailed(ctx context.Context, analysisID, code, message string, retryable bool, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $1, error_code = $2, error_message = $3, error_retryable = $4, completed_at = $5, updated_at = $6
WHERE id = $7`
	return r.exec(ctx, query, StatusFailed, code, message, retryable, completedAt, time.Now().UTC(), analysisID)
}

// ListByUser returns analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type analysisScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row analysisScanner) (Analysis, error) {
	var analysis Analysis
	var result []byte
	var errorCode, errorMessage sql.NullString
	var errorRetryable sql.NullBool
	var startedAt, completedAt sql.NullTime
	if err := row.Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&analysis.UserID,
		&analysis.JobDescription,
		&analysis.Provider,
		&analysis.Model,
		&analysis.Status,
		&result,
		&errorCode,
		&errorMessage,
		&errorRetryable,
		&startedAt,
		&completedAt,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if len(result) > 0 {
		var parsed AnalysisResult
		if err := json.Unmarshal(result, &parsed); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal analysis result id=%s: %w", analysis.ID, err)
		}
		analysis.Result = &parsed
	}
	if errorCode.Valid {
		analysis.ErrorCode = &errorCode.String
	}
	if errorMessage.Valid {
		analysis.ErrorMessage = &errorMessage.String
	}
	if errorRetryable.Valid {
		analysis.ErrorRetryable = &errorRetryable.Bool
	}
	if startedAt.Valid {
		analysis.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}
	return analysis, nil
}

var _ Repo = (*PGRepo)(nil)
