package models

import (
	"time"

	"github.com/google/uuid"
)

type ParseRunStatus string

const (
	RunStatusCompleted ParseRunStatus = "completed"
	RunStatusFailed    ParseRunStatus = "failed"
)

// ParseRun is the audit record of one parse request. It keeps counts and
// timings only; none of the extracted profile values are stored.
type ParseRun struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalFilename string         `gorm:"type:text" json:"original_filename"`
	ContentType      string         `gorm:"type:text" json:"content_type"`
	Format           string         `gorm:"type:text" json:"format"`
	SizeBytes        int64          `json:"size_bytes"`
	Status           ParseRunStatus `gorm:"not null;default:'completed'" json:"status"`
	ErrorKind        string         `gorm:"type:text" json:"error_kind,omitempty"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	Strategy         string         `gorm:"type:text" json:"strategy,omitempty"`
	TextLength       int            `json:"text_length"`
	ExperienceCount  int            `json:"experience_count"`
	EducationCount   int            `json:"education_count"`
	SkillsCount      int            `json:"skills_count"`
	NormalizeOutcome string         `gorm:"type:text" json:"normalize_outcome,omitempty"`
	DurationMs       int64          `json:"duration_ms"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ParseRun) TableName() string {
	return "parse_runs"
}
