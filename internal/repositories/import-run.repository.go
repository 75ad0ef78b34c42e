package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

type ImportRunModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Filename       string    `gorm:"size:255;not null"`
	Owner          string    `gorm:"size:128"`
	Status         string    `gorm:"size:16;not null;index"`
	TotalRows      int       `gorm:"not null;default:0"`
	Imported       int       `gorm:"not null;default:0"`
	Skipped        int       `gorm:"not null;default:0"`
	Duplicates     int       `gorm:"not null;default:0"`
	ColumnMappings string    `gorm:"type:text"`
	Error          string    `gorm:"type:text"`
	StartedAt      time.Time `gorm:"not null"`
	FinishedAt     *time.Time
}

func (ImportRunModel) TableName() string { return "import_runs" }

type ImportedLeadModel struct {
	ID              string `gorm:"primaryKey;size:36"`
	RunID           string `gorm:"size:36;not null;index"`
	Position        int    `gorm:"not null"`
	FirstName       string `gorm:"size:255"`
	LastName        string `gorm:"size:255"`
	Email           string `gorm:"size:320;index"`
	Phone           string `gorm:"size:64"`
	Role            string `gorm:"size:255"`
	LinkedinURL     string `gorm:"size:512"`
	Source          string `gorm:"size:255"`
	Notes           string `gorm:"type:text"`
	CompanyName     string `gorm:"size:255"`
	CompanyWebsite  string `gorm:"size:512"`
	CompanyIndustry string `gorm:"size:255"`
	CompanySize     string `gorm:"size:64"`
	CompanyLocation string `gorm:"size:255"`
	CreatedAt       time.Time
}

func (ImportedLeadModel) TableName() string { return "imported_leads" }

type ImportRunRepository struct {
	db        *gorm.DB
	batchSize int
}

var _ app.ImportRunRepository = &ImportRunRepository{}

func NewImportRunRepository(db *gorm.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db, batchSize: 500}
}

func (this *ImportRunRepository) CreateRun(ctx context.Context, run *app.ImportRun) error {
	m, err := runToModel(run)
	if err != nil {
		return err
	}
	if err := this.db.WithContext(ctx).Create(m).Error; err != nil {
		return eris.Wrapf(err, "create import run %s", run.ID)
	}
	return nil
}

// UpdateRun stores the current status, stats and mapping of a run.
func (this *ImportRunRepository) UpdateRun(ctx context.Context, run *app.ImportRun) error {
	m, err := runToModel(run)
	if err != nil {
		return err
	}

	res := this.db.WithContext(ctx).
		Model(&ImportRunModel{}).
		Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":          m.Status,
			"total_rows":      m.TotalRows,
			"imported":        m.Imported,
			"skipped":         m.Skipped,
			"duplicates":      m.Duplicates,
			"column_mappings": m.ColumnMappings,
			"error":           m.Error,
			"finished_at":     m.FinishedAt,
		})
	if res.Error != nil {
		return eris.Wrapf(res.Error, "update import run %s", run.ID)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports changed rows only, so an unchanged run also lands here.
	var n int64
	if err := this.db.WithContext(ctx).Model(&ImportRunModel{}).Where("id = ?", run.ID).Count(&n).Error; err != nil {
		return eris.Wrapf(err, "update import run %s", run.ID)
	}
	if n == 0 {
		return eris.Wrap(app.ErrImportRunNotFound, run.ID)
	}
	return nil
}

// SaveLeads replaces the leads of a run in one transaction.
func (this *ImportRunRepository) SaveLeads(ctx context.Context, runID string, leads []app.LeadCandidate) error {
	models := make([]ImportedLeadModel, len(leads))
	for i, l := range leads {
		models[i] = ImportedLeadModel{
			ID:              uuid.NewString(),
			RunID:           runID,
			Position:        i,
			FirstName:       l.FirstName,
			LastName:        l.LastName,
			Email:           l.Email,
			Phone:           l.Phone,
			Role:            l.Role,
			LinkedinURL:     l.LinkedinURL,
			Source:          l.Source,
			Notes:           l.Notes,
			CompanyName:     l.Company.Name,
			CompanyWebsite:  l.Company.Website,
			CompanyIndustry: l.Company.Industry,
			CompanySize:     l.Company.Size,
			CompanyLocation: l.Company.Location,
		}
	}

	err := this.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", runID).Delete(&ImportedLeadModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, this.batchSize).Error
	})
	if err != nil {
		return eris.Wrapf(err, "save %d leads of run %s", len(leads), runID)
	}
	return nil
}

func (this *ImportRunRepository) GetRun(ctx context.Context, id string) (*app.ImportRun, error) {
	var m ImportRunModel
	err := this.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, app.ErrImportRunNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "get import run %s", id)
	}
	return modelToRun(&m)
}

func runToModel(run *app.ImportRun) (*ImportRunModel, error) {
	mappings, err := json.Marshal(run.Mapping)
	if err != nil {
		return nil, eris.Wrap(err, "encode column mappings")
	}
	return &ImportRunModel{
		ID:             run.ID,
		Filename:       run.Filename,
		Owner:          run.Owner,
		Status:         run.Status,
		TotalRows:      run.Stats.TotalRows,
		Imported:       run.Stats.Imported,
		Skipped:        run.Stats.Skipped,
		Duplicates:     run.Stats.Duplicates,
		ColumnMappings: string(mappings),
		Error:          run.Error,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}, nil
}

func modelToRun(m *ImportRunModel) (*app.ImportRun, error) {
	var mapping app.ColumnMapping
	if m.ColumnMappings != "" && m.ColumnMappings != "null" {
		if err := json.Unmarshal([]byte(m.ColumnMappings), &mapping); err != nil {
			return nil, eris.Wrapf(err, "decode column mappings of run %s", m.ID)
		}
	}
	return &app.ImportRun{
		ID:       m.ID,
		Filename: m.Filename,
		Owner:    m.Owner,
		Status:   m.Status,
		Stats: app.ImportStats{
			TotalRows:  m.TotalRows,
			Imported:   m.Imported,
			Skipped:    m.Skipped,
			Duplicates: m.Duplicates,
		},
		Mapping:    mapping,
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}, nil
}
