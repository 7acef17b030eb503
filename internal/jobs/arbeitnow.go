package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	arbeitnowDefaultBaseURL = "https://www.arbeitnow.com"
	arbeitnowScanLimit      = 50
	arbeitnowMaxResults     = 15
)

// ArbeitNowProvider fetches postings from the free ArbeitNow job board.
// It takes no query parameters, so results are filtered client-side against
// the resume's role and skill keywords.
type ArbeitNowProvider struct {
	BaseURL string
	client  *resty.Client
}

// NewArbeitNowProvider constructs an ArbeitNowProvider.
func NewArbeitNowProvider() *ArbeitNowProvider {
	return &ArbeitNowProvider{
		BaseURL: arbeitnowDefaultBaseURL,
		client:  newProviderClient(),
	}
}

func (p *ArbeitNowProvider) Name() string { return "arbeitnow" }

// Fetch downloads the board feed and keeps postings whose title contains at
// least one role or skill keyword.
func (p *ArbeitNowProvider) Fetch(ctx context.Context, attrs ResumeAttributes) ([]JobPosting, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(p.BaseURL + "/api/job-board-api")
	if err != nil {
		return nil, fmt.Errorf("arbeitnow: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("arbeitnow: http status %d", resp.StatusCode())
	}

	keywords := make([]string, 0, len(attrs.Roles)+len(attrs.Skills))
	for _, r := range attrs.Roles {
		keywords = append(keywords, strings.ToLower(r))
	}
	for _, s := range attrs.Skills {
		keywords = append(keywords, strings.ToLower(s))
	}

	var postings []JobPosting
	scanned := 0
	gjson.GetBytes(resp.Body(), "data").ForEach(func(_, job gjson.Result) bool {
		if scanned >= arbeitnowScanLimit || len(postings) >= arbeitnowMaxResults {
			return false
		}
		scanned++
		title := job.Get("title").String()
		if !titleMatchesAny(title, keywords) {
			return true
		}
		postings = append(postings, JobPosting{
			Source:      "ArbeitNow",
			Title:       title,
			Company:     firstNonEmpty(job.Get("company_name").String()),
			Location:    firstNonEmpty(job.Get("location").String()),
			Description: truncateDescription(job.Get("description").String()),
			URL:         job.Get("url").String(),
			Salary:      0,
			PostedDate:  job.Get("created_at").String(),
			Remote:      job.Get("remote").Bool(),
		})
		return true
	})
	return postings, nil
}

func titleMatchesAny(title string, keywords []string) bool {
	titleLower := strings.ToLower(title)
	for _, k := range keywords {
		if k != "" && strings.Contains(titleLower, k) {
			return true
		}
	}
	return false
}
