package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-parser/internal/models"
)

var (
	ErrRunNotFound         = errors.New("parse run not found")
	ErrRunTrackingDisabled = errors.New("parse run tracking is disabled")
)

type ParseRunRepository interface {
	Create(run *models.ParseRun) error
	FindByID(id uuid.UUID) (*models.ParseRun, error)
	FindRecent(limit int) ([]models.ParseRun, error)
}

type parseRunRepository struct {
	db *gorm.DB
}

// NewParseRunRepository returns a gorm-backed repository, or a no-op one when
// db is nil (run tracking disabled).
func NewParseRunRepository(db *gorm.DB) ParseRunRepository {
	if db == nil {
		return noopParseRunRepository{}
	}
	return &parseRunRepository{db: db}
}

// Create implements ParseRunRepository.
func (r *parseRunRepository) Create(run *models.ParseRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create parse run: %w", err)
	}
	return nil
}

// FindByID implements ParseRunRepository.
func (r *parseRunRepository) FindByID(id uuid.UUID) (*models.ParseRun, error) {
	var run models.ParseRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find parse run: %w", err)
	}
	return &run, nil
}

// FindRecent implements ParseRunRepository.
func (r *parseRunRepository) FindRecent(limit int) ([]models.ParseRun, error) {
	var runs []models.ParseRun
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent parse runs: %w", err)
	}
	return runs, nil
}

type noopParseRunRepository struct{}

func (noopParseRunRepository) Create(*models.ParseRun) error { return nil }

func (noopParseRunRepository) FindByID(uuid.UUID) (*models.ParseRun, error) {
	return nil, ErrRunTrackingDisabled
}

func (noopParseRunRepository) FindRecent(int) ([]models.ParseRun, error) {
	return nil, ErrRunTrackingDisabled
}
