package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	adzunaDefaultBaseURL = "https://baskarm28-adzuna-v1.p.rapidapi.com"
	adzunaHost           = "baskarm28-adzuna-v1.p.rapidapi.com"
	adzunaMaxResults     = "20"
)

// AdzunaProvider fetches US postings from Adzuna through RapidAPI.
type AdzunaProvider struct {
	APIKey  string
	BaseURL string
	client  *resty.Client
}

// NewAdzunaProvider constructs an AdzunaProvider.
func NewAdzunaProvider(apiKey string) *AdzunaProvider {
	return &AdzunaProvider{
		APIKey:  apiKey,
		BaseURL: adzunaDefaultBaseURL,
		client:  newProviderClient(),
	}
}

func (p *AdzunaProvider) Name() string { return "adzuna" }

// Fetch queries Adzuna with the primary role (or top skills) and normalizes
// the response.
func (p *AdzunaProvider) Fetch(ctx context.Context, attrs ResumeAttributes) ([]JobPosting, error) {
	query := primaryQuery(attrs)

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("x-rapidapi-key", p.APIKey).
		SetHeader("x-rapidapi-host", adzunaHost).
		SetQueryParams(map[string]string{
			"what":             query,
			"results_per_page": adzunaMaxResults,
		}).
		Get(p.BaseURL + "/jobs/us/search/1")
	if err != nil {
		return nil, fmt.Errorf("adzuna: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("adzuna: http status %d", resp.StatusCode())
	}

	var postings []JobPosting
	gjson.GetBytes(resp.Body(), "results").ForEach(func(_, job gjson.Result) bool {
		description := job.Get("description").String()
		postings = append(postings, JobPosting{
			Source:      "Adzuna",
			Title:       job.Get("title").String(),
			Company:     firstNonEmpty(job.Get("company.display_name").String()),
			Location:    firstNonEmpty(job.Get("location.display_name").String()),
			Description: truncateDescription(description),
			URL:         job.Get("redirect_url").String(),
			Salary:      job.Get("salary_max").Float(),
			PostedDate:  job.Get("created").String(),
			Remote:      strings.Contains(strings.ToLower(description), "remote"),
		})
		return true
	})
	return postings, nil
}

// primaryQuery picks the first role, falling back to the top three skills.
func primaryQuery(attrs ResumeAttributes) string {
	if len(attrs.Roles) > 0 {
		return attrs.Roles[0]
	}
	skills := attrs.Skills
	if len(skills) > 3 {
		skills = skills[:3]
	}
	return strings.Join(skills, " ")
}
