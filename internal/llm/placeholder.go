package llm

import (
	"context"
	"errors"
)

// PlaceholderClient stands in when no provider is configured; every call
// fails with a clear message instead of a nil-interface panic.
type PlaceholderClient struct{}

func (PlaceholderClient) Generate(ctx context.Context, input GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return "", errors.New("llm client not configured; set GEMINI_API_KEY")
}
