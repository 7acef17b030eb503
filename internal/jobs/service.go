package jobs

import (
	"context"
	"fmt"
	"io"
	"time"

	"resumefit-backend/internal/documents"
	"resumefit-backend/internal/extract"
	"resumefit-backend/internal/shared/metrics"
	"resumefit-backend/internal/shared/storage/object"
	"resumefit-backend/internal/shared/telemetry"
)

// maxRankedJobs caps the envelope's job list; truncation happens after
// ranking so the best matches survive.
const maxRankedJobs = 50

// Service runs the extract/fetch/rank pipeline for a user's current resume.
type Service struct {
	Extractor  *AttributeExtractor
	Aggregator *Aggregator
	DocRepo    documents.DocumentsRepo
	Store      object.ObjectStore
}

// Match resolves the user's resume text and runs the pipeline. An empty
// documentID means the user's current document. A missing document is the
// caller's problem; everything past that point is reported inside the
// envelope.
func (s *Service) Match(ctx context.Context, userID, documentID string) (MatchResponse, error) {
	var doc documents.Document
	var err error
	if documentID == "" {
		doc, err = s.DocRepo.GetCurrentByUser(ctx, userID)
	} else {
		doc, err = s.DocRepo.GetByID(ctx, userID, documentID)
	}
	if err != nil {
		return MatchResponse{}, err
	}

	text, err := s.resumeText(ctx, doc)
	if err != nil {
		telemetry.Warn("jobs.resume_text_failed", map[string]any{
			"user_id":     userID,
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return failureResponse(err), nil
	}

	return s.FindMatchingJobs(ctx, text), nil
}

// FindMatchingJobs wraps the whole extract->fetch->rank pipeline in a
// success/failure envelope. It never returns an error.
func (s *Service) FindMatchingJobs(ctx context.Context, resumeText string) MatchResponse {
	metrics.IncJobSearch()
	started := time.Now()

	attrs := s.Extractor.Extract(ctx, resumeText)

	fetched := s.Aggregator.FetchAll(ctx, attrs)
	ranked := s.Aggregator.Rank(fetched, attrs)
	// totalJobs counts everything that ranked; the jobs list itself is capped.
	total := len(ranked)
	if len(ranked) > maxRankedJobs {
		ranked = ranked[:maxRankedJobs]
	}

	telemetry.Info("jobs.match", map[string]any{
		"fetched":     len(fetched),
		"returned":    len(ranked),
		"duration_ms": float64(time.Since(started).Microseconds()) / 1000.0,
	})

	return MatchResponse{
		Success:    true,
		ResumeData: attrs,
		TotalJobs:  total,
		Jobs:       ranked,
	}
}

// resumeText loads the document's extracted text, extracting on demand when
// no analysis has run yet.
func (s *Service) resumeText(ctx context.Context, doc documents.Document) (string, error) {
	key := doc.ExtractedTextKey
	if key == "" {
		text, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
		if err != nil {
			return "", fmt.Errorf("extract resume text: %w", err)
		}
		if err := s.DocRepo.UpdateExtraction(ctx, doc.UserID, doc.ID, doc.StorageKey+".extracted.txt", time.Now().UTC()); err != nil {
			return "", fmt.Errorf("update extraction: %w", err)
		}
		return text, nil
	}

	body, err := s.Store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("open extracted text: %w", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return string(data), nil
}

func failureResponse(err error) MatchResponse {
	return MatchResponse{
		Success: false,
		Error:   err.Error(),
		Jobs:    []JobPosting{},
	}
}
