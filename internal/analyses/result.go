package analyses

// Per-field caps applied after extraction. Values mirror the product's
// long-standing response shape; changing them breaks stored results.
const (
	maxExplanationLen  = 600
	maxSummaryLen      = 1200
	maxImprovementsLen = 3000
	maxJobRolesLen     = 1500
)

// Defaults substituted when a text field ends up empty.
const (
	defaultExplanation  = "Resume evaluated based on job requirements"
	defaultSummary      = "Professional background and qualifications reviewed"
	defaultImprovements = "Focus on highlighting relevant experience and skills that match the job description"
	defaultJobRoles     = "Consider roles aligned with your technical expertise and experience"
)

// Canned section bodies used by the last-resort parsing stage.
const (
	cannedExplanation      = "Resume analyzed against job requirements"
	cannedImprovements     = "Consider tailoring your resume to highlight relevant skills mentioned in the job description"
	cannedJobRoles         = "Software Engineer, Data Analyst, Technical Consultant"
	cannedJobRolesFallback = "Based on your skills, consider roles in software engineering, data science, or related technical fields."
)

// AnalysisResult is the structured record extracted from a model's free-text
// evaluation. All numeric fields are clamped to [0,100] and all text fields
// are non-empty and length-capped.
type AnalysisResult struct {
	Score            int    `json:"score"`
	ScoreExplanation string `json:"scoreExplanation"`
	Summary          string `json:"summary"`
	Improvements     string `json:"improvements"`
	JobRoles         string `json:"jobRoles"`
	ATSScore         int    `json:"atsScore"`
	KeywordScore     int    `json:"keywordScore"`
	FormatScore      int    `json:"formatScore"`
	HeaderScore      int    `json:"headerScore"`
	ReadabilityScore int    `json:"readabilityScore"`
}
