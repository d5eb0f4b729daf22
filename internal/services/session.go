package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/analysis"
	"alfredoptarigan/ats-analyzer/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("an analysis request is already in progress for this session")
)

// Session holds one user's inputs and latest results. Every method is safe for
// concurrent use.
type Session struct {
	ID uuid.UUID

	mu             sync.Mutex
	resumeFilename string
	resumeText     string
	jobDescription string
	analysis       *models.AnalysisResult
	keywords       *models.KeywordResult
	analysisIssues []string
	keywordIssues  []string
	inFlight       models.Mode
	lastError      *models.ErrorDetail
	updatedAt      time.Time
}

func newSession() *Session {
	return &Session{
		ID:        uuid.New(),
		updatedAt: time.Now(),
	}
}

// SetResume replaces the extracted resume text wholesale.
func (s *Session) SetResume(filename, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeFilename = filename
	s.resumeText = text
	s.touch()
}

func (s *Session) SetJobDescription(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = text
	s.touch()
}

// Begin marks a request for mode as in flight and returns the request built
// from the session's current inputs. It fails with ErrSessionBusy while another
// request is running and with models.ErrInvalidRequest when inputs are missing.
func (s *Session) Begin(mode models.Mode) (models.AnalysisRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight != "" {
		return models.AnalysisRequest{}, ErrSessionBusy
	}

	req := models.AnalysisRequest{
		ResumeText:     s.resumeText,
		JobDescription: s.jobDescription,
		Mode:           mode,
	}
	if err := req.Validate(); err != nil {
		return models.AnalysisRequest{}, err
	}

	s.inFlight = mode
	s.touch()
	return req, nil
}

// Release clears the in-flight flag without recording an outcome.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = ""
	s.touch()
}

// Complete replaces the result for the result's mode. The other mode's result
// is left as it was.
func (s *Session) Complete(result *models.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch result.Mode {
	case models.ModeKeywordExtraction:
		s.keywords = result.Keywords
		s.keywordIssues = result.Issues
	default:
		s.analysis = result.Analysis
		s.analysisIssues = result.Issues
	}
	s.lastError = nil
	s.inFlight = ""
	s.touch()
}

// Fail records err for mode. Previous results stay untouched.
func (s *Session) Fail(mode models.Mode, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail := &models.ErrorDetail{
		Kind:    ErrorKind(err),
		Mode:    string(mode),
		Message: err.Error(),
		At:      time.Now(),
	}
	if raw, ok := analysis.RawOutput(err); ok {
		detail.RawOutput = raw
	}
	s.lastError = detail
	s.inFlight = ""
	s.touch()
}

// LatestAnalysis returns nil until a full analysis has completed.
func (s *Session) LatestAnalysis() *models.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

func (s *Session) Snapshot() models.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := models.SessionResponse{
		ID:                s.ID.String(),
		Status:            s.status(),
		InFlightMode:      string(s.inFlight),
		ResumeFilename:    s.resumeFilename,
		ResumeCharacters:  len([]rune(s.resumeText)),
		HasJobDescription: s.jobDescription != "",
		Analysis:          s.analysis,
		Keywords:          s.keywords,
		UpdatedAt:         s.updatedAt,
	}
	if len(s.analysisIssues) > 0 {
		resp.AnalysisIssues = append([]string(nil), s.analysisIssues...)
	}
	if len(s.keywordIssues) > 0 {
		resp.KeywordIssues = append([]string(nil), s.keywordIssues...)
	}
	if s.lastError != nil {
		detail := *s.lastError
		resp.LastError = &detail
	}
	return resp
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight != "" {
		return time.Now()
	}
	return s.updatedAt
}

func (s *Session) status() models.SessionStatus {
	switch {
	case s.inFlight != "":
		return models.SessionProcessing
	case s.lastError != nil:
		return models.SessionFailed
	case s.analysis != nil || s.keywords != nil:
		return models.SessionCompleted
	default:
		return models.SessionIdle
	}
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

type SessionStore interface {
	Create() *Session
	Get(id uuid.UUID) (*Session, error)
	Delete(id uuid.UUID) error
	Sweep(maxIdle time.Duration) int
	Len() int
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionStore() SessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*Session)}
}

func (st *sessionStore) Create() *Session {
	s := newSession()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	log.Printf("🆕 Session %s created", s.ID)
	return s
}

func (st *sessionStore) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

func (st *sessionStore) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(st.sessions, id)
	return nil
}

// Sweep removes sessions idle for longer than maxIdle. Sessions with a request
// in flight are never removed.
func (st *sessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

func (st *sessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
