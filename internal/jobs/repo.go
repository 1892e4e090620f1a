package jobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a jobs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repository) CreateJobLines(ctx context.Context, lines []models.JobProduct) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) FindJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	job, err := r.FindJob(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := DetailFromModel(job)
	if err := r.attachNames(ctx, []*JobDetail{detail}); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *repository) List(ctx context.Context, filters Filters) ([]JobDetail, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{}).Preload("Items")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.DriverID != nil {
		query = query.Where("assigned_driver_id = ?", *filters.DriverID)
	}
	if filters.DeliveryFrom != nil {
		query = query.Where("delivery_date >= ?", *filters.DeliveryFrom)
	}
	if filters.DeliveryTo != nil {
		query = query.Where("delivery_date <= ?", *filters.DeliveryTo)
	}

	var rows []models.Job
	if err := query.Order("delivery_date ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]JobDetail, len(rows))
	refs := make([]*JobDetail, len(rows))
	for i := range rows {
		details[i] = *DetailFromModel(&rows[i])
		refs[i] = &details[i]
	}
	if err := r.attachNames(ctx, refs); err != nil {
		return nil, err
	}
	return details, nil
}

// attachNames resolves creator and driver display names in one users query.
func (r *repository) attachNames(ctx context.Context, details []*JobDetail) error {
	idSet := map[uuid.UUID]struct{}{}
	for _, d := range details {
		if d.CreatedBy != nil {
			idSet[*d.CreatedBy] = struct{}{}
		}
		if d.AssignedDriverID != nil {
			idSet[*d.AssignedDriverID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "first_name", "last_name").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return err
	}

	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
	}
	for _, d := range details {
		if d.CreatedBy != nil {
			if name, ok := names[*d.CreatedBy]; ok {
				d.CreatedByName = &name
			}
		}
		if d.AssignedDriverID != nil {
			if name, ok := names[*d.AssignedDriverID]; ok {
				d.DriverName = &name
			}
		}
	}
	return nil
}

func (r *repository) UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteJob(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	return result.RowsAffected, result.Error
}
