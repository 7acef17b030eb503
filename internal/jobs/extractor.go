package jobs

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"resumefit-backend/internal/llm"
	"resumefit-backend/internal/shared/telemetry"
)

// AttributeExtractor derives ResumeAttributes by prompting the LLM for strict
// JSON. It never fails: any LLM or parse problem yields a fixed default set
// so the job-search flow still produces results.
type AttributeExtractor struct {
	LLM llm.Client
}

func defaultAttributes() ResumeAttributes {
	return ResumeAttributes{
		Skills:          []string{"Python", "JavaScript", "SQL"},
		Roles:           []string{"Software Engineer", "Developer"},
		ExperienceYears: 2,
		Location:        "Remote",
		Seniority:       "Mid",
	}
}

// Extract prompts the model and parses its JSON answer.
func (e *AttributeExtractor) Extract(ctx context.Context, resumeText string) ResumeAttributes {
	text, err := e.LLM.Generate(ctx, llm.GenerateInput{
		Prompt: llm.AttributeExtractionPrompt(resumeText),
	})
	if err != nil {
		telemetry.Warn("jobs.extract_failed", map[string]any{"error": err.Error()})
		return defaultAttributes()
	}

	cleaned := stripCodeFence(text)
	if !gjson.Valid(cleaned) {
		telemetry.Warn("jobs.extract_invalid_json", map[string]any{"snippet": snippet(cleaned)})
		return defaultAttributes()
	}

	root := gjson.Parse(cleaned)
	attrs := ResumeAttributes{
		ExperienceYears: int(root.Get("experience_years").Int()),
		Location:        root.Get("location").String(),
		Seniority:       root.Get("seniority").String(),
	}
	for _, s := range root.Get("skills").Array() {
		if v := strings.TrimSpace(s.String()); v != "" {
			attrs.Skills = append(attrs.Skills, v)
		}
	}
	for _, r := range root.Get("roles").Array() {
		if v := strings.TrimSpace(r.String()); v != "" {
			attrs.Roles = append(attrs.Roles, v)
		}
	}
	if attrs.ExperienceYears < 0 {
		attrs.ExperienceYears = 0
	}
	if attrs.Location == "" {
		attrs.Location = "Remote"
	}
	return attrs
}

// stripCodeFence unwraps a ```json fenced block if the model added one.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}
	parts := strings.Split(trimmed, "```")
	if len(parts) < 2 {
		return trimmed
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

func snippet(s string) string {
	if len(s) > 120 {
		return s[:120]
	}
	return s
}
