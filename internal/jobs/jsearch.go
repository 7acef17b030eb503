package jobs

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	jsearchDefaultBaseURL = "https://api.openwebninja.com"
	jsearchMaxResults     = 20
)

// JSearchProvider fetches postings from the OpenWebNinja JSearch API.
type JSearchProvider struct {
	APIKey  string
	BaseURL string
	client  *resty.Client
}

// NewJSearchProvider constructs a JSearchProvider.
func NewJSearchProvider(apiKey string) *JSearchProvider {
	return &JSearchProvider{
		APIKey:  apiKey,
		BaseURL: jsearchDefaultBaseURL,
		client:  newProviderClient(),
	}
}

func (p *JSearchProvider) Name() string { return "jsearch" }

// Fetch queries JSearch with "<role> <location>" and normalizes the response.
func (p *JSearchProvider) Fetch(ctx context.Context, attrs ResumeAttributes) ([]JobPosting, error) {
	role := "Software Engineer"
	if len(attrs.Roles) > 0 {
		role = attrs.Roles[0]
	}
	query := role + " " + attrs.Location

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", p.APIKey).
		SetHeader("Accept", "*/*").
		SetQueryParams(map[string]string{
			"query":       query,
			"page":        "1",
			"num_pages":   "1",
			"country":     "us",
			"language":    "en",
			"date_posted": "month",
		}).
		Get(p.BaseURL + "/jsearch/search")
	if err != nil {
		return nil, fmt.Errorf("jsearch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("jsearch: http status %d", resp.StatusCode())
	}

	var postings []JobPosting
	gjson.GetBytes(resp.Body(), "data").ForEach(func(_, job gjson.Result) bool {
		if len(postings) >= jsearchMaxResults {
			return false
		}
		postings = append(postings, JobPosting{
			Source:      "JSearch",
			Title:       job.Get("job_title").String(),
			Company:     firstNonEmpty(job.Get("employer_name").String()),
			Location:    firstNonEmpty(job.Get("job_city").String(), job.Get("job_country").String()),
			Description: truncateDescription(job.Get("job_description").String()),
			URL:         firstNonEmptyURL(job.Get("job_apply_link").String(), job.Get("job_google_link").String()),
			Salary:      job.Get("job_max_salary").Float(),
			PostedDate:  job.Get("job_posted_at_datetime_utc").String(),
			Remote:      job.Get("job_is_remote").Bool(),
		})
		return true
	})
	return postings, nil
}

func firstNonEmptyURL(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
