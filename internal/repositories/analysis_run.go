package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ats-analyzer/internal/models"
)

var ErrRunNotFound = errors.New("analysis run not found")

type AnalysisRunRepository interface {
	Create(run *models.AnalysisRun) error
	FindByID(id uuid.UUID) (*models.AnalysisRun, error)
	FindBySession(sessionID uuid.UUID, limit int) ([]models.AnalysisRun, error)
	UpdateResult(id uuid.UUID, result *RunResultData) error
	UpdateError(id uuid.UUID, failure *RunFailureData) error
}

type RunResultData struct {
	ResponseChars int
	DurationMs    int64
	Degraded      bool
}

type RunFailureData struct {
	ErrorKind     string
	ErrorMessage  string
	RawOutput     *string
	ResponseChars int
	DurationMs    int64
}

type analysisRunRepository struct {
	db *gorm.DB
}

func NewAnalysisRunRepository(db *gorm.DB) AnalysisRunRepository {
	return &analysisRunRepository{db: db}
}

func (r *analysisRunRepository) Create(run *models.AnalysisRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}
	return nil
}

func (r *analysisRunRepository) FindByID(id uuid.UUID) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find analysis run: %w", err)
	}
	return &run, nil
}

func (r *analysisRunRepository) FindBySession(sessionID uuid.UUID, limit int) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find analysis runs: %w", err)
	}
	return runs, nil
}

func (r *analysisRunRepository) UpdateResult(id uuid.UUID, data *RunResultData) error {
	result := r.db.Model(&models.AnalysisRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.RunStatusCompleted,
			"response_chars": data.ResponseChars,
			"duration_ms":    data.DurationMs,
			"degraded":       data.Degraded,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *analysisRunRepository) UpdateError(id uuid.UUID, data *RunFailureData) error {
	updates := map[string]interface{}{
		"status":         models.RunStatusFailed,
		"error_kind":     data.ErrorKind,
		"error_message":  data.ErrorMessage,
		"response_chars": data.ResponseChars,
		"duration_ms":    data.DurationMs,
		"updated_at":     time.Now(),
	}
	if data.RawOutput != nil {
		updates["raw_output"] = *data.RawOutput
	}

	result := r.db.Model(&models.AnalysisRun{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis run error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}
