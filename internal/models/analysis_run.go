package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// AnalysisRun records the outcome of one generation request. Results themselves
// live only in the session; the run keeps what is needed to diagnose failures.
type AnalysisRun struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID     uuid.UUID `gorm:"type:uuid;index;not null" json:"session_id"`
	Mode          Mode      `gorm:"type:text;not null" json:"mode"`
	Status        RunStatus `gorm:"type:text;not null;default:'processing'" json:"status"`
	Provider      string    `gorm:"type:text" json:"provider"`
	Model         string    `gorm:"type:text" json:"model"`
	PromptChars   int       `json:"prompt_chars"`
	ResponseChars int       `json:"response_chars"`
	DurationMs    int64     `json:"duration_ms"`
	Degraded      bool      `json:"degraded"`
	ErrorKind     *string   `gorm:"type:text" json:"error_kind,omitempty"`
	ErrorMessage  *string   `gorm:"type:text" json:"error_message,omitempty"`
	RawOutput     *string   `gorm:"type:text" json:"raw_output,omitempty"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
