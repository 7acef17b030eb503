package llm

import (
	"strings"
	"testing"
)

func TestAnalysisPromptIncludesJobDescription(t *testing.T) {
	prompt := AnalysisPrompt("Senior Go engineer, Kubernetes experience")
	if !strings.Contains(prompt, "Senior Go engineer, Kubernetes experience") {
		t.Fatal("job description missing from prompt")
	}
	if strings.Contains(prompt, "{{JOB_DESCRIPTION}}") {
		t.Fatal("placeholder not replaced")
	}
}

func TestAnalysisPromptEmptyJobDescription(t *testing.T) {
	prompt := AnalysisPrompt("   ")
	if !strings.Contains(prompt, "JOB DESCRIPTION:\nN/A") {
		t.Fatal("expected N/A for empty job description")
	}
}

func TestAttributeExtractionPromptTruncates(t *testing.T) {
	long := strings.Repeat("x", attributeResumeLimit+500)
	prompt := AttributeExtractionPrompt(long)
	if strings.Contains(prompt, strings.Repeat("x", attributeResumeLimit+1)) {
		t.Fatal("resume text not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", attributeResumeLimit)) {
		t.Fatal("truncated resume text missing")
	}
}
