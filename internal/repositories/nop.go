package repositories

import (
	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/models"
)

// NopAnalysisRunRepository discards runs. Used when no database is configured.
type NopAnalysisRunRepository struct{}

func NewNopAnalysisRunRepository() AnalysisRunRepository {
	return NopAnalysisRunRepository{}
}

func (NopAnalysisRunRepository) Create(*models.AnalysisRun) error { return nil }

func (NopAnalysisRunRepository) FindByID(uuid.UUID) (*models.AnalysisRun, error) {
	return nil, ErrRunNotFound
}

func (NopAnalysisRunRepository) FindBySession(uuid.UUID, int) ([]models.AnalysisRun, error) {
	return []models.AnalysisRun{}, nil
}

func (NopAnalysisRunRepository) UpdateResult(uuid.UUID, *RunResultData) error { return nil }

func (NopAnalysisRunRepository) UpdateError(uuid.UUID, *RunFailureData) error { return nil }
