package repositories

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-parser/internal/models"
)

// parse_runs without the postgres-only uuid default
const sqliteParseRunsDDL = `CREATE TABLE parse_runs (
	id TEXT PRIMARY KEY,
	original_filename TEXT,
	content_type TEXT,
	format TEXT,
	size_bytes INTEGER,
	status TEXT NOT NULL DEFAULT 'completed',
	error_kind TEXT,
	error_message TEXT,
	strategy TEXT,
	text_length INTEGER,
	experience_count INTEGER,
	education_count INTEGER,
	skills_count INTEGER,
	normalize_outcome TEXT,
	duration_ms INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would get its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(sqliteParseRunsDDL).Error)
	return db
}

func TestNewParseRunRepository_NilDBIsNoop(t *testing.T) {
	repo := NewParseRunRepository(nil)

	require.NoError(t, repo.Create(&models.ParseRun{ID: uuid.New()}))

	run, err := repo.FindByID(uuid.New())
	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrRunTrackingDisabled)

	runs, err := repo.FindRecent(10)
	assert.Nil(t, runs)
	assert.ErrorIs(t, err, ErrRunTrackingDisabled)
}

func TestParseRunRepository_CreateAndFindByID(t *testing.T) {
	repo := NewParseRunRepository(newTestDB(t))

	msg := "model call failed: configuration"
	run := &models.ParseRun{
		ID:               uuid.New(),
		OriginalFilename: "jane.pdf",
		ContentType:      "application/pdf",
		Format:           "pdf",
		SizeBytes:        2048,
		Status:           models.RunStatusFailed,
		ErrorKind:        "model_error",
		ErrorMessage:     &msg,
		Strategy:         "text-layer",
		TextLength:       1200,
		DurationMs:       35,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repo.Create(run))

	got, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "jane.pdf", got.OriginalFilename)
	assert.Equal(t, models.RunStatusFailed, got.Status)
	assert.Equal(t, "model_error", got.ErrorKind)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, msg, *got.ErrorMessage)
	assert.Equal(t, 1200, got.TextLength)
	assert.Equal(t, int64(35), got.DurationMs)
}

func TestParseRunRepository_FindByIDNotFound(t *testing.T) {
	repo := NewParseRunRepository(newTestDB(t))

	run, err := repo.FindByID(uuid.New())

	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestParseRunRepository_FindRecent(t *testing.T) {
	repo := NewParseRunRepository(newTestDB(t))

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		run := &models.ParseRun{
			ID:        uuid.New(),
			Status:    models.RunStatusCompleted,
			Format:    "docx",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(run))
		ids = append(ids, run.ID)
	}

	runs, err := repo.FindRecent(2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestParseRunRepository_CreateDuplicateFails(t *testing.T) {
	repo := NewParseRunRepository(newTestDB(t))
	run := &models.ParseRun{ID: uuid.New(), Status: models.RunStatusCompleted}

	require.NoError(t, repo.Create(run))
	err := repo.Create(&models.ParseRun{ID: run.ID, Status: models.RunStatusCompleted})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create parse run")
}
