package jobs

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Per-provider request timeout. A slow provider contributes nothing rather
// than holding up the merge.
const providerTimeout = 15 * time.Second

// descriptionLimit caps normalized job descriptions.
const descriptionLimit = 500

// Provider fetches job postings from one external source. Implementations
// return an error for any transport or payload problem; the aggregator turns
// that into an empty contribution.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, attrs ResumeAttributes) ([]JobPosting, error)
}

func newProviderClient() *resty.Client {
	return resty.New().SetTimeout(providerTimeout)
}

func truncateDescription(s string) string {
	if len(s) > descriptionLimit {
		return s[:descriptionLimit]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "N/A"
}
