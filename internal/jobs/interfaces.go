package jobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
)

// Repository defines persistence operations for jobs and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateJob(ctx context.Context, job *models.Job) (*models.Job, error)
	CreateJobLines(ctx context.Context, lines []models.JobProduct) error
	FindJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*JobDetail, error)
	List(ctx context.Context, filters Filters) ([]JobDetail, error)
	UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteJob(ctx context.Context, id uuid.UUID) (int64, error)
}
