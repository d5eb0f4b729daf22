package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
)

type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	block    chan struct{}
	prompts  []GenerationRequest
}

func (s *stubGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, req)
	s.mu.Unlock()

	if s.block != nil {
		<-s.block
	}
	return s.response, s.err
}

func (s *stubGenerator) Provider() string { return "stub" }

func (s *stubGenerator) Model() string { return "stub-model" }

func (s *stubGenerator) calls() []GenerationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GenerationRequest(nil), s.prompts...)
}

type recordingRunRepo struct {
	mu        sync.Mutex
	created   []models.AnalysisRun
	completed map[uuid.UUID]*repositories.RunResultData
	failed    map[uuid.UUID]*repositories.RunFailureData
}

func newRecordingRunRepo() *recordingRunRepo {
	return &recordingRunRepo{
		completed: make(map[uuid.UUID]*repositories.RunResultData),
		failed:    make(map[uuid.UUID]*repositories.RunFailureData),
	}
}

func (r *recordingRunRepo) Create(run *models.AnalysisRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, *run)
	return nil
}

func (r *recordingRunRepo) FindByID(id uuid.UUID) (*models.AnalysisRun, error) {
	return nil, repositories.ErrRunNotFound
}

func (r *recordingRunRepo) FindBySession(uuid.UUID, int) ([]models.AnalysisRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AnalysisRun(nil), r.created...), nil
}

func (r *recordingRunRepo) UpdateResult(id uuid.UUID, data *repositories.RunResultData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[id] = data
	return nil
}

func (r *recordingRunRepo) UpdateError(id uuid.UUID, data *repositories.RunFailureData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[id] = data
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates []SessionUpdate
}

func (n *recordingNotifier) Publish(_ uuid.UUID, update SessionUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, update)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) statuses() []models.SessionStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.SessionStatus, 0, len(n.updates))
	for _, u := range n.updates {
		out = append(out, u.Status)
	}
	return out
}
