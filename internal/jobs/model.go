package jobs

// ResumeAttributes are the skills/roles/location facts extracted from a
// resume, consumed read-only by the aggregator.
type ResumeAttributes struct {
	Skills          []string `json:"skills"`
	Roles           []string `json:"roles"`
	ExperienceYears int      `json:"experienceYears"`
	Location        string   `json:"location"`
	Seniority       string   `json:"seniority"`
}

// JobPosting is the normalized shape shared by all providers. Postings live
// only for the duration of one request and are never persisted.
type JobPosting struct {
	Source      string  `json:"source"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Salary      float64 `json:"salary"`
	PostedDate  string  `json:"postedDate"`
	Remote      bool    `json:"remote"`
	MatchScore  int     `json:"matchScore"`
}

// MatchResponse is the envelope returned by the job-match flow. Failures are
// reported in-band rather than as transport errors.
type MatchResponse struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	ResumeData ResumeAttributes `json:"resumeData"`
	TotalJobs  int              `json:"totalJobs"`
	Jobs       []JobPosting     `json:"jobs"`
}
