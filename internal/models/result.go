package models

import "time"

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type UploadResponse struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	Characters int    `json:"characters"`
}

type JobDescriptionRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
}

type AnalyzeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=full_analysis keyword_extraction"`
}

type AnalyzeResponse struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	Status    string `json:"status"`
}

type SessionStatus string

const (
	SessionIdle       SessionStatus = "idle"
	SessionProcessing SessionStatus = "processing"
	SessionCompleted  SessionStatus = "completed"
	SessionFailed     SessionStatus = "failed"
)

// SessionResponse is the read-only view of a session returned to clients.
type SessionResponse struct {
	ID                string          `json:"id"`
	Status            SessionStatus   `json:"status"`
	InFlightMode      string          `json:"in_flight_mode,omitempty"`
	ResumeFilename    string          `json:"resume_filename,omitempty"`
	ResumeCharacters  int             `json:"resume_characters"`
	HasJobDescription bool            `json:"has_job_description"`
	Analysis          *AnalysisResult `json:"analysis,omitempty"`
	Keywords          *KeywordResult  `json:"keywords,omitempty"`
	AnalysisIssues    []string        `json:"analysis_issues,omitempty"`
	KeywordIssues     []string        `json:"keyword_issues,omitempty"`
	LastError         *ErrorDetail    `json:"last_error,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ErrorDetail surfaces a failed request, including the raw model output when
// the failure happened while parsing it.
type ErrorDetail struct {
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode"`
	Message   string    `json:"message"`
	RawOutput string    `json:"raw_output,omitempty"`
	At        time.Time `json:"at"`
}
