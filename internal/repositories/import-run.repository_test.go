package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (*ImportRunRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&ImportRunModel{}, &ImportedLeadModel{}))
	return NewImportRunRepository(db), db
}

func queuedRun(id string) *app.ImportRun {
	return &app.ImportRun{
		ID:        id,
		Filename:  "leads.csv",
		Owner:     "ops",
		Status:    app.ImportJobQueued,
		StartedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func countLeads(t *testing.T, db *gorm.DB, runID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&ImportedLeadModel{}).Where("run_id = ?", runID).Count(&n).Error)
	return n
}

func TestImportRunRepository_CreateUpdateGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	run := queuedRun("run-1")
	require.NoError(t, repo.CreateRun(ctx, run))

	finished := run.StartedAt.Add(time.Minute)
	run.Status = app.ImportJobSucceeded
	run.Stats = app.ImportStats{TotalRows: 3, Imported: 2, Skipped: 1, Duplicates: 1}
	run.Mapping = app.ColumnMapping{app.LeadFieldEmail: "E-mail"}
	run.FinishedAt = &finished
	require.NoError(t, repo.UpdateRun(ctx, run))

	got, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, app.ImportJobSucceeded, got.Status)
	assert.Equal(t, run.Stats, got.Stats)
	assert.Equal(t, "E-mail", got.Mapping[app.LeadFieldEmail])
	require.NotNil(t, got.FinishedAt)
	assert.True(t, finished.Equal(*got.FinishedAt))
}

func TestImportRunRepository_UnchangedUpdateIsNotMissing(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	run := queuedRun("run-1")
	require.NoError(t, repo.CreateRun(ctx, run))

	require.NoError(t, repo.UpdateRun(ctx, run))
	require.NoError(t, repo.UpdateRun(ctx, run))
}

func TestImportRunRepository_MissingRun(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetRun(ctx, "nope")
	assert.True(t, errors.Is(err, app.ErrImportRunNotFound))

	err = repo.UpdateRun(ctx, queuedRun("nope"))
	assert.True(t, errors.Is(err, app.ErrImportRunNotFound))
}

func TestImportRunRepository_SaveLeadsReplacesEarlierAttempt(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateRun(ctx, queuedRun("run-1")))
	require.NoError(t, repo.CreateRun(ctx, queuedRun("run-2")))

	leads := []app.LeadCandidate{
		{FirstName: "Ann", Email: "ann@x.co", Company: app.Company{Name: "Acme"}},
		{FirstName: "Bob", Email: "bob@x.co"},
	}
	require.NoError(t, repo.SaveLeads(ctx, "run-1", leads))
	require.NoError(t, repo.SaveLeads(ctx, "run-2", leads[:1]))
	require.NoError(t, repo.SaveLeads(ctx, "run-1", leads))

	assert.EqualValues(t, 2, countLeads(t, db, "run-1"))
	assert.EqualValues(t, 1, countLeads(t, db, "run-2"))

	var first ImportedLeadModel
	require.NoError(t, db.Where("run_id = ? AND position = ?", "run-1", 0).First(&first).Error)
	assert.Equal(t, "Acme", first.CompanyName)

	require.NoError(t, repo.SaveLeads(ctx, "run-1", nil))
	assert.EqualValues(t, 0, countLeads(t, db, "run-1"))
}
