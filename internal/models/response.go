package models

type UploadRequest struct {
	Filename    string `validate:"required,max=255"`
	ContentType string `validate:"max=255"`
	Size        int64  `validate:"gt=0"`
}

type ParseResponse struct {
	OK   bool              `json:"ok"`
	Data *ExtractedProfile `json:"data"`
	Meta ParseMeta         `json:"meta"`
}

// ParseMeta tells the caller how the profile was produced, so an empty
// profile from an unreadable model answer can be told apart from an empty resume.
type ParseMeta struct {
	RunID            string   `json:"run_id,omitempty"`
	Format           string   `json:"format"`
	Strategy         string   `json:"strategy"`
	TextLength       int      `json:"text_length"`
	NormalizeOutcome string   `json:"normalize_outcome"`
	Warnings         []string `json:"warnings,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type RunResponse struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	Format           string  `json:"format"`
	Strategy         string  `json:"strategy,omitempty"`
	TextLength       int     `json:"text_length"`
	ExperienceCount  int     `json:"experience_count"`
	EducationCount   int     `json:"education_count"`
	SkillsCount      int     `json:"skills_count"`
	NormalizeOutcome string  `json:"normalize_outcome,omitempty"`
	DurationMs       int64   `json:"duration_ms"`
	ErrorKind        string  `json:"error_kind,omitempty"`
	ErrorMessage     *string `json:"error_message,omitempty"`
}

type RunListResponse struct {
	Runs []RunResponse `json:"runs"`
}
