package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO analyses`).
		WithArgs("analysis-1", "doc-1", "user-1", "jd", "gemini", "gemini-2.5-flash-lite", StatusQueued, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Analysis{
		ID:             "analysis-1",
		DocumentID:     "doc-1",
		UserID:         "user-1",
		JobDescription: "jd",
		Provider:       "gemini",
		Model:          "gemini-2.5-flash-lite",
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateCompletedMarshalsResult(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE analyses`).
		WithArgs(StatusCompleted, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "analysis-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	result := AnalysisResult{Score: 85, Summary: "solid candidate"}
	if err := repo.UpdateCompleted(context.Background(), "analysis-1", result, time.Now().UTC()); err != nil {
		t.Fatalf("update completed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateFailedUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE analyses`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	err = repo.UpdateFailed(context.Background(), "missing", ErrorCodeInternal, "boom", false, time.Now().UTC())
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDParsesResult(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{"id", "document_id", "user_id", "job_description", "provider", "model", "status", "result", "error_code", "error_message", "error_retryable", "started_at", "completed_at", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM analyses`).
		WithArgs("analysis-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"analysis-1", "doc-1", "user-1", "jd", "gemini", "gemini-2.5-flash-lite", StatusCompleted,
			[]byte(`{"score":85,"atsScore":42}`), nil, nil, nil, now, now, now, now,
		))

	repo := &PGRepo{DB: db}
	got, err := repo.GetByID(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result == nil || got.Result.Score != 85 || got.Result.ATSScore != 42 {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Fatal("expected timestamps")
	}
}
