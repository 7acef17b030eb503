package analyses

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"resumefit-backend/internal/documents"
	"resumefit-backend/internal/llm"
	"resumefit-backend/internal/shared/storage/object"
	"resumefit-backend/internal/shared/storage/object/local"
)

type staticLLM struct {
	resp string
}

func (s staticLLM) Generate(ctx context.Context, input llm.GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return s.resp, nil
}

func setupServiceWithDoc(t *testing.T, llmClient llm.Client) (*Service, *MemoryRepo, *documents.MemoryRepo, string) {
	t.Helper()
	store := local.New(t.TempDir())

	userID := "user-1"
	storageKey, _, mimeType, err := store.Save(context.Background(), userID, "resume.txt", bytes.NewReader([]byte("resume text")))
	if err != nil {
		t.Fatalf("save resume: %v", err)
	}

	return setupServiceWithDocAndStore(t, llmClient, store, documents.Document{
		ID:         "doc-1",
		UserID:     userID,
		FileName:   "resume.txt",
		MimeType:   mimeType,
		SizeBytes:  11,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	})
}

func setupServiceWithDocAndStore(t *testing.T, llmClient llm.Client, store object.ObjectStore, doc documents.Document) (*Service, *MemoryRepo, *documents.MemoryRepo, string) {
	t.Helper()
	docRepo := documents.NewMemoryRepo()
	analysisRepo := NewMemoryRepo()

	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	svc := &Service{
		Repo:    analysisRepo,
		DocRepo: docRepo,
		Store:   store,
		LLM:     llmClient,
		Model:   "gemini-2.5-flash-lite",
	}

	return svc, analysisRepo, docRepo, doc.ID
}

func queueAnalysis(t *testing.T, repo *MemoryRepo, id, docID string) Analysis {
	t.Helper()
	analysis := Analysis{
		ID:             id,
		DocumentID:     docID,
		UserID:         "user-1",
		JobDescription: "Backend engineer role",
		Provider:       "gemini",
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("create analysis: %v", err)
	}
	return analysis
}

func TestAnalysisCompletesAndParsesResponse(t *testing.T) {
	svc, repo, docRepo, docID := setupServiceWithDoc(t, staticLLM{resp: structuredResponse})

	analysis := queueAnalysis(t, repo, "analysis-success", docID)
	svc.completeAsync(context.Background(), analysis.ID)

	got, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if got.Result == nil || got.Result.Score != 85 {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if got.Result.ATSScore != 42 {
		t.Fatalf("atsScore = %d, want 42", got.Result.ATSScore)
	}

	// Extraction metadata should be recorded for the job-match flow.
	doc, err := docRepo.GetByID(context.Background(), "user-1", docID)
	if err != nil {
		t.Fatalf("get doc: %v", err)
	}
	if doc.ExtractedTextKey == "" {
		t.Fatal("expected extracted text key on document")
	}
}

func TestUnparsableOutputStillCompletes(t *testing.T) {
	svc, repo, _, docID := setupServiceWithDoc(t, staticLLM{resp: "The model declined to answer."})

	analysis := queueAnalysis(t, repo, "analysis-unparsable", docID)
	svc.completeAsync(context.Background(), analysis.ID)

	got, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Result == nil {
		t.Fatal("expected a result")
	}
	if got.Result.Improvements != cannedImprovements {
		t.Fatalf("improvements = %q", got.Result.Improvements)
	}
	if got.Result.Score != 0 {
		t.Fatalf("score = %d, want 0", got.Result.Score)
	}
}

type timeoutLLM struct{}

func (timeoutLLM) Generate(ctx context.Context, input llm.GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return "", context.DeadlineExceeded
}

func TestFailureCodeLLMTimeout(t *testing.T) {
	svc, repo, _, docID := setupServiceWithDoc(t, timeoutLLM{})

	analysis := queueAnalysis(t, repo, "analysis-timeout", docID)
	svc.completeAsync(context.Background(), analysis.ID)

	got, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", got.Status)
	}
	if got.ErrorCode == nil || *got.ErrorCode != ErrorCodeLLMTimeout {
		t.Fatalf("expected error code %s, got %v", ErrorCodeLLMTimeout, got.ErrorCode)
	}
	if got.ErrorRetryable == nil || !*got.ErrorRetryable {
		t.Fatal("expected retryable true for timeout")
	}
}

type timeoutThenSuccessLLM struct {
	calls int
	resp  string
}

func (t *timeoutThenSuccessLLM) Generate(ctx context.Context, input llm.GenerateInput) (string, error) {
	_ = ctx
	_ = input
	t.calls++
	if t.calls == 1 {
		return "", context.DeadlineExceeded
	}
	return t.resp, nil
}

func TestRetryOnTimeoutSucceeds(t *testing.T) {
	llmClient := &timeoutThenSuccessLLM{resp: structuredResponse}
	svc, repo, _, docID := setupServiceWithDoc(t, llmClient)

	analysis := queueAnalysis(t, repo, "analysis-timeout-retry", docID)
	svc.completeAsync(context.Background(), analysis.ID)

	got, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if llmClient.calls != 2 {
		t.Fatalf("expected 2 LLM calls, got %d", llmClient.calls)
	}
}

type failingOpenStore struct{}

func (failingOpenStore) Save(ctx context.Context, userId string, fileName string, r io.Reader) (string, int64, string, error) {
	_ = ctx
	_ = userId
	_ = fileName
	_ = r
	return "", 0, "", errors.New("save not supported")
}

func (failingOpenStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	_ = ctx
	_ = storageKey
	return nil, errors.New("storage open failed")
}

func TestFailureCodeStorageError(t *testing.T) {
	doc := documents.Document{
		ID:               "doc-1",
		UserID:           "user-1",
		FileName:         "resume.txt",
		MimeType:         "text/plain",
		SizeBytes:        10,
		StorageKey:       "original",
		ExtractedTextKey: "original.extracted.txt",
		CreatedAt:        time.Now().UTC(),
	}
	svc, repo, _, docID := setupServiceWithDocAndStore(t, staticLLM{resp: "ok"}, failingOpenStore{}, doc)

	analysis := queueAnalysis(t, repo, "analysis-storage", docID)
	svc.completeAsync(context.Background(), analysis.ID)

	got, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", got.Status)
	}
	if got.ErrorCode == nil || *got.ErrorCode != ErrorCodeStorage {
		t.Fatalf("expected error code %s, got %v", ErrorCodeStorage, got.ErrorCode)
	}
	if got.ErrorRetryable == nil || !*got.ErrorRetryable {
		t.Fatal("expected retryable true for storage error")
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, _, docID := setupServiceWithDoc(t, staticLLM{resp: "ok"})

	if _, err := svc.Create(context.Background(), "", "user-1", "jd"); err == nil {
		t.Fatal("expected error for missing document id")
	}
	if _, err := svc.Create(context.Background(), docID, "user-1", "  "); err == nil {
		t.Fatal("expected error for empty job description")
	}
}
