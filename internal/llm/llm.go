package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for resume analysis and attribute extraction.
type Client interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}

// GenerateInput carries a prompt plus an optional inline document attachment.
type GenerateInput struct {
	Prompt         string
	Attachment     []byte
	AttachmentMime string
}

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("LLM returned an empty response")
