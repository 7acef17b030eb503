package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"resumefit-backend/internal/shared/metrics"
	"resumefit-backend/internal/shared/telemetry"
)

// Skill-match weighting. These values are load-bearing for score parity with
// stored history; do not re-derive them.
const (
	titleMatchPoints = 30
	pointsPerSkill   = 7
	skillPointsCap   = 50
	remotePoints     = 10
	salaryPoints     = 10
	maxMatchScore    = 100
)

// Aggregator fans out to all providers, merges their postings, and ranks the
// merged list against the resume attributes. It holds no mutable state.
type Aggregator struct {
	Providers []Provider
}

type providerOutcome struct {
	postings []JobPosting
	err      error
}

// FetchAll issues every provider fetch concurrently and waits for all of them
// to settle. A provider failure contributes no postings and never affects its
// siblings. Merged output preserves provider declaration order.
func (a *Aggregator) FetchAll(ctx context.Context, attrs ResumeAttributes) []JobPosting {
	outcomes := make([]providerOutcome, len(a.Providers))

	var wg sync.WaitGroup
	for i, provider := range a.Providers {
		wg.Add(1)
		go func(i int, provider Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = providerOutcome{err: fmt.Errorf("%s: panic: %v", provider.Name(), r)}
				}
			}()
			postings, err := provider.Fetch(ctx, attrs)
			outcomes[i] = providerOutcome{postings: postings, err: err}
		}(i, provider)
	}
	wg.Wait()

	var merged []JobPosting
	for i, provider := range a.Providers {
		metrics.IncProviderFetch(provider.Name())
		outcome := outcomes[i]
		if outcome.err != nil {
			metrics.IncProviderError(provider.Name())
			telemetry.Warn("jobs.provider_failed", map[string]any{
				"provider": provider.Name(),
				"error":    outcome.err.Error(),
			})
			continue
		}
		telemetry.Info("jobs.provider_fetched", map[string]any{
			"provider": provider.Name(),
			"count":    len(outcome.postings),
		})
		merged = append(merged, outcome.postings...)
	}
	return merged
}

// Rank attaches a match score to every posting and stable-sorts descending.
// Equal scores keep their fetch order.
func (a *Aggregator) Rank(postings []JobPosting, attrs ResumeAttributes) []JobPosting {
	ranked := make([]JobPosting, len(postings))
	copy(ranked, postings)
	for i := range ranked {
		ranked[i].MatchScore = MatchScore(ranked[i], attrs)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

// MatchScore computes the 0-100 relevance of one posting to the resume:
// 30 for a role word in the title, 7 per matched skill capped at 50,
// 10 for remote, 10 for a known salary.
func MatchScore(job JobPosting, attrs ResumeAttributes) int {
	score := 0

	titleLower := strings.ToLower(job.Title)
	jobText := titleLower + " " + strings.ToLower(job.Description)

	for _, role := range attrs.Roles {
		matched := false
		for _, word := range strings.Fields(strings.ToLower(role)) {
			if strings.Contains(titleLower, word) {
				matched = true
				break
			}
		}
		if matched {
			score += titleMatchPoints
			break
		}
	}

	matchedSkills := 0
	for _, skill := range attrs.Skills {
		if skill == "" {
			continue
		}
		if strings.Contains(jobText, strings.ToLower(skill)) {
			matchedSkills++
		}
	}
	skillPoints := matchedSkills * pointsPerSkill
	if skillPoints > skillPointsCap {
		skillPoints = skillPointsCap
	}
	score += skillPoints

	if job.Remote {
		score += remotePoints
	}
	if job.Salary > 0 {
		score += salaryPoints
	}

	if score > maxMatchScore {
		score = maxMatchScore
	}
	return score
}
