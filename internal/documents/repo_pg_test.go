package documents

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

	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("doc-1", "user-1", "resume.pdf", "application/pdf", int64(2048), "local", "user-1/abc.pdf", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Document{
		ID:              "doc-1",
		UserID:          "user-1",
		FileName:        "resume.pdf",
		MimeType:        "application/pdf",
		SizeBytes:       2048,
		StorageProvider: "local",
		StorageKey:      "user-1/abc.pdf",
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetCurrentByUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "extracted_text_key", "extracted_at", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM documents`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetCurrentByUser(context.Background(), "user-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "extracted_text_key", "extracted_at", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM documents`).
		WithArgs("user-1", "doc-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("doc-1", "user-1", "resume.pdf", "application/pdf", int64(2048), "local", "user-1/abc.pdf", nil, nil, now))

	repo := &PGRepo{DB: db}
	doc, err := repo.GetByID(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if doc.StorageKey != "user-1/abc.pdf" {
		t.Fatalf("unexpected storage key %q", doc.StorageKey)
	}
	if doc.ExtractedTextKey != "" {
		t.Fatalf("expected empty extracted key, got %q", doc.ExtractedTextKey)
	}
}
