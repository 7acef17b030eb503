package analyses

import (
	"regexp"
	"strings"
)

// The model's output format is not contractual, so extraction degrades through
// decreasing levels of structure assumption: explicit headings, then
// numbered/bold splits, then paragraph splits, then canned defaults.

var primaryScoreRe = regexp.MustCompile(`(?i)(?:score|rating)\s*[:\-]?\s*(\d{1,3})`)

// sectionSpec drives heading-based extraction for one target section.
// Heading patterns are tried in order; the first match wins. The body runs
// from the end of the matched heading to the first match of nextSection in
// the remaining text, or to maxOffset characters past the heading when no
// next section is found (maxOffset < 0 means end of text).
type sectionSpec struct {
	headings    []*regexp.Regexp
	nextSection *regexp.Regexp
	maxOffset   int
}

var (
	explanationSpec = sectionSpec{
		headings: []*regexp.Regexp{
			regexp.MustCompile(`(?:score|rating|match).*?explanation`),
			regexp.MustCompile(`score analysis`),
			regexp.MustCompile(`match score`),
		},
		nextSection: regexp.MustCompile(`(?:summary|improvements?|recommendations?)`),
		maxOffset:   500,
	}
	summarySpec = sectionSpec{
		headings: []*regexp.Regexp{
			regexp.MustCompile(`(?:resume )?summary`),
			regexp.MustCompile(`candidate profile`),
			regexp.MustCompile(`overview`),
			regexp.MustCompile(`professional summary`),
		},
		nextSection: regexp.MustCompile(`(?:improvements?|recommendations?|suggestions?)`),
		maxOffset:   800,
	}
	improvementsSpec = sectionSpec{
		headings: []*regexp.Regexp{
			regexp.MustCompile(`improvements?`),
			regexp.MustCompile(`recommendations?`),
			regexp.MustCompile(`suggestions?`),
			regexp.MustCompile(`areas? (?:to|for) improve`),
			regexp.MustCompile(`how to improve`),
		},
		nextSection: regexp.MustCompile(`(?:suitable|job roles?|recommended roles?|career)`),
		maxOffset:   -1,
	}
	jobRolesSpec = sectionSpec{
		headings: []*regexp.Regexp{
			regexp.MustCompile(`suitable.*?(?:job|role|position)s?`),
			regexp.MustCompile(`job.*?roles?`),
			regexp.MustCompile(`recommended.*?(?:job|role|position)s?`),
			regexp.MustCompile(`career.*?(?:path|option|suggestion)s?`),
		},
		nextSection: nil,
		maxOffset:   -1,
	}
)

var subScoreRes = []struct {
	re    *regexp.Regexp
	apply func(r *AnalysisResult, v int)
}{
	{regexp.MustCompile(`(?i)ats\s*(?:score|compatibility)?\s*[:\-]?\s*(\d{1,3})`), func(r *AnalysisResult, v int) { r.ATSScore = v }},
	{regexp.MustCompile(`(?i)keyword\s*(?:score|match)?\s*[:\-]?\s*(\d{1,3})`), func(r *AnalysisResult, v int) { r.KeywordScore = v }},
	{regexp.MustCompile(`(?i)format(?:ting)?\s*(?:score)?\s*[:\-]?\s*(\d{1,3})`), func(r *AnalysisResult, v int) { r.FormatScore = v }},
	{regexp.MustCompile(`(?i)(?:section\s*)?header\s*(?:score)?\s*[:\-]?\s*(\d{1,3})`), func(r *AnalysisResult, v int) { r.HeaderScore = v }},
	{regexp.MustCompile(`(?i)readability\s*(?:score)?\s*[:\-]?\s*(\d{1,3})`), func(r *AnalysisResult, v int) { r.ReadabilityScore = v }},
}

const sectionTrimCutset = " :\n-*#"

// sections holds intermediate extraction output before caps and defaults.
type sections struct {
	explanation  string
	summary      string
	improvements string
	jobRoles     string
}

func (s sections) empty() bool {
	return s.explanation == "" && s.summary == "" && s.improvements == "" && s.jobRoles == ""
}

// ParseAnalysis extracts a structured result from free-text model output.
// It never fails: every extraction miss substitutes a deterministic default.
func ParseAnalysis(text string) AnalysisResult {
	score := extractPrimaryScore(text)

	secs := extractByHeadings(text)
	if secs.empty() {
		var ok bool
		if secs, ok = splitByMarkers(text); !ok {
			if secs, ok = splitByParagraphs(text); !ok {
				secs = cannedSections(text)
			}
		}
	}

	result := AnalysisResult{
		Score:            score,
		ScoreExplanation: capOrDefault(secs.explanation, maxExplanationLen, defaultExplanation),
		Summary:          capOrDefault(secs.summary, maxSummaryLen, defaultSummary),
		Improvements:     capOrDefault(secs.improvements, maxImprovementsLen, defaultImprovements),
		JobRoles:         capOrDefault(secs.jobRoles, maxJobRolesLen, defaultJobRoles),
	}

	for _, sub := range subScoreRes {
		if m := sub.re.FindStringSubmatch(text); m != nil {
			sub.apply(&result, clampScore(atoiLoose(m[1])))
		}
	}
	// A zero sub-score always means "not found": fall back to the overall score.
	if result.ATSScore == 0 {
		result.ATSScore = score
	}
	if result.KeywordScore == 0 {
		result.KeywordScore = score
	}
	if result.FormatScore == 0 {
		result.FormatScore = score
	}
	if result.HeaderScore == 0 {
		result.HeaderScore = score
	}
	if result.ReadabilityScore == 0 {
		result.ReadabilityScore = score
	}

	return result
}

func extractPrimaryScore(text string) int {
	m := primaryScoreRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return clampScore(atoiLoose(m[1]))
}

// extractByHeadings is the first cascade stage: locate each section by its
// heading keywords and slice out the body up to the next recognized heading.
func extractByHeadings(text string) sections {
	lower := strings.ToLower(text)
	return sections{
		explanation:  extractSection(text, lower, explanationSpec),
		summary:      extractSection(text, lower, summarySpec),
		improvements: extractSection(text, lower, improvementsSpec),
		jobRoles:     extractSection(text, lower, jobRolesSpec),
	}
}

func extractSection(text, lower string, spec sectionSpec) string {
	for _, heading := range spec.headings {
		loc := heading.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		start := loc[1]
		end := len(text)
		if spec.nextSection != nil {
			if next := spec.nextSection.FindStringIndex(lower[start:]); next != nil {
				end = start + next[0]
			} else if spec.maxOffset >= 0 {
				end = start + spec.maxOffset
			}
		}
		if end > len(text) {
			end = len(text)
		}
		if end < start {
			end = start
		}
		return strings.Trim(text[start:end], sectionTrimCutset)
	}
	return ""
}

// splitByMarkers is the second cascade stage: split the text at newlines that
// precede a numbered-list marker ("1.") or a bold marker ("**") and assign
// parts positionally. Reports false when fewer than 4 parts result.
func splitByMarkers(text string) (sections, bool) {
	parts := splitBeforeMarkers(text)
	if len(parts) < 4 {
		return sections{}, false
	}
	secs := sections{
		explanation:  parts[0],
		summary:      parts[1],
		improvements: strings.Join(parts[2:4], "\n"),
	}
	if len(parts) > 4 {
		secs.jobRoles = strings.Join(parts[4:], "\n")
	}
	return secs, true
}

// splitBeforeMarkers splits on each "\n" immediately followed by a digit-dot
// or "**" sequence. The newline itself is consumed.
func splitBeforeMarkers(text string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		rest := text[i+1:]
		if startsWithNumberedMarker(rest) || strings.HasPrefix(rest, "**") {
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	parts = append(parts, text[start:])
	return parts
}

func startsWithNumberedMarker(s string) bool {
	return len(s) >= 2 && s[0] >= '0' && s[0] <= '9' && s[1] == '.'
}

// splitByParagraphs is the third cascade stage: blank-line paragraphs assigned
// positionally. Reports false when fewer than 4 paragraphs exist.
func splitByParagraphs(text string) (sections, bool) {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) < 4 {
		return sections{}, false
	}
	secs := sections{
		explanation:  paragraphs[0],
		summary:      paragraphs[1],
		improvements: strings.Join(paragraphs[2:4], "\n\n"),
		jobRoles:     cannedJobRolesFallback,
	}
	if len(paragraphs) > 4 {
		secs.jobRoles = strings.Join(paragraphs[4:], "\n\n")
	}
	return secs, true
}

// cannedSections is the last cascade stage: fixed fallback strings, with the
// raw text's head standing in for the summary.
func cannedSections(text string) sections {
	summary := text
	if len(summary) > 500 {
		summary = summary[:500]
	}
	return sections{
		explanation:  cannedExplanation,
		summary:      summary,
		improvements: cannedImprovements,
		jobRoles:     cannedJobRoles,
	}
}

func capOrDefault(s string, maxLen int, def string) string {
	if s == "" {
		return def
	}
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func atoiLoose(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}
