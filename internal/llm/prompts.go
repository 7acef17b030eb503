package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/analysis.txt
	analysisPrompt string
	//go:embed prompts/attributes.txt
	attributesPrompt string
)

// attributeResumeLimit caps how much resume text is sent for attribute extraction.
const attributeResumeLimit = 4000

// AnalysisPrompt builds the resume evaluation prompt for a given job description.
// The resume itself travels as an inline attachment, not in the prompt text.
func AnalysisPrompt(jobDescription string) string {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		jd = "N/A"
	}
	return strings.Replace(analysisPrompt, "{{JOB_DESCRIPTION}}", jd, 1)
}

// AttributeExtractionPrompt builds the strict-JSON attribute extraction prompt.
func AttributeExtractionPrompt(resumeText string) string {
	text := resumeText
	if len(text) > attributeResumeLimit {
		text = text[:attributeResumeLimit]
	}
	return strings.Replace(attributesPrompt, "{{RESUME_TEXT}}", text, 1)
}
