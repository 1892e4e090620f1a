package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db"
	"github.com/haulstead/dispatch-backend/pkg/db/models"
	"github.com/haulstead/dispatch-backend/pkg/enums"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines job operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateJobInput, actor Actor) (*JobDetail, error)
	Get(ctx context.Context, id uuid.UUID, actor Actor) (*JobDetail, error)
	List(ctx context.Context, filters Filters, actor Actor) ([]JobDetail, error)
	ListForDriver(ctx context.Context, driverID uuid.UUID) ([]JobDetail, error)
	Update(ctx context.Context, id uuid.UUID, patch UpdateJobInput, actor Actor) (*JobDetail, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a job service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("jobs repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Create validates and persists a new job with its line items in one
// transaction. Line prices are taken from the request as-is; see LineInput.
func (s *service) Create(ctx context.Context, input CreateJobInput, actor Actor) (*JobDetail, error) {
	if !actor.Role.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only office staff can create jobs")
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	job := assembleHeader(input, actor)
	lines, linesTotal := assembleLines(input.Lines)
	if input.TotalAmount.IsZero() {
		job.TotalAmount = linesTotal
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateJob(ctx, job)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].JobID = created.ID
		}
		return repo.CreateJobLines(ctx, lines)
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeReference, err, "customer or driver does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist job")
	}

	detail, err := s.repo.FindDetail(ctx, job.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload job after create")
	}
	return detail, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actor Actor) (*JobDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load job")
	}
	if actor.Role == enums.UserRoleDriver && (detail.AssignedDriverID == nil || *detail.AssignedDriverID != actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "job is not assigned to you")
	}
	return detail, nil
}

func (s *service) List(ctx context.Context, filters Filters, actor Actor) ([]JobDetail, error) {
	// Drivers only ever see their own assignments regardless of filters.
	if actor.Role == enums.UserRoleDriver {
		driverID := actor.UserID
		filters.DriverID = &driverID
	}
	details, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list jobs")
	}
	return details, nil
}

func (s *service) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]JobDetail, error) {
	details, err := s.repo.List(ctx, Filters{DriverID: &driverID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list driver jobs")
	}
	return details, nil
}

// Update applies a role-gated partial patch to the job header. Drivers may
// only touch status, driver notes, and payment received, and only on jobs
// assigned to them. Status changes must follow the delivery progression.
func (s *service) Update(ctx context.Context, id uuid.UUID, patch UpdateJobInput, actor Actor) (*JobDetail, error) {
	existing, err := s.repo.FindJob(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load job")
	}

	switch actor.Role {
	case enums.UserRoleAdmin, enums.UserRoleOffice:
	case enums.UserRoleDriver:
		if !isAssignedDriver(existing, actor) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "job is not assigned to you")
		}
		if patch.touchesNonDriverFields() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "drivers may only update status, driver notes, and payment received")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot update jobs")
	}

	updates, err := buildUpdates(existing, patch)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).UpdateJob(ctx, id, updates)
		})
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeReference, err, "customer or driver does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update job")
		}
	}

	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload job after update")
	}
	return detail, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if !actor.Role.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only office staff can delete jobs")
	}
	affected, err := s.repo.DeleteJob(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete job")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}
	return nil
}

func isAssignedDriver(job *models.Job, actor Actor) bool {
	return job.AssignedDriverID != nil && *job.AssignedDriverID == actor.UserID
}

func validateCreate(input CreateJobInput) error {
	if input.CustomerName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if input.Address == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if input.DeliveryDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery date is required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid job status %q", *input.Status))
	}
	for i, line := range input.Lines {
		if line.ProductName == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: product name is required", i+1))
		}
		if !line.Quantity.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
		if line.Unit == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: unit is required", i+1))
		}
	}
	return nil
}

func assembleHeader(input CreateJobInput, actor Actor) *models.Job {
	status := enums.JobStatusScheduled
	if input.Status != nil {
		status = *input.Status
	}
	createdBy := actor.UserID
	return &models.Job{
		ID:                 uuid.New(),
		CustomerID:         input.CustomerID,
		CustomerName:       input.CustomerName,
		CustomerPhone:      input.CustomerPhone,
		Address:            input.Address,
		DeliveryDate:       input.DeliveryDate,
		Status:             status,
		Paid:               input.Paid,
		PaymentReceived:    input.PaymentReceived,
		TotalAmount:        input.TotalAmount,
		ContractorDiscount: input.ContractorDiscount,
		Notes:              input.Notes,
		CreatedBy:          &createdBy,
		AssignedDriverID:   input.AssignedDriverID,
	}
}

// assembleLines materializes line items and returns them with their sum. A
// supplied non-zero total wins over the computed one, and a line with neither
// unit price nor total persists at zero.
func assembleLines(inputs []LineInput) ([]models.JobProduct, decimal.Decimal) {
	lines := make([]models.JobProduct, 0, len(inputs))
	sum := decimal.Zero
	for _, in := range inputs {
		total := in.TotalPrice
		if total.IsZero() && !in.UnitPrice.IsZero() {
			total = in.UnitPrice.Mul(in.Quantity).Round(2)
		}
		priceType := in.PriceType
		if !priceType.IsValid() {
			priceType = enums.PriceTierRetail
		}
		lines = append(lines, models.JobProduct{
			ID:          uuid.New(),
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			TotalPrice:  total,
			PriceType:   priceType,
		})
		sum = sum.Add(total)
	}
	return lines, sum
}

// buildUpdates turns the typed patch into a column update map, validating the
// status transition against the current state.
func buildUpdates(existing *models.Job, patch UpdateJobInput) (map[string]any, error) {
	updates := map[string]any{}

	if patch.Status != nil {
		next := *patch.Status
		if !next.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid job status %q", next))
		}
		if !existing.Status.CanTransitionTo(next) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move job from %s to %s", existing.Status, next))
		}
		if next != existing.Status {
			updates["status"] = next
		}
	}
	if patch.CustomerID != nil {
		updates["customer_id"] = *patch.CustomerID
	}
	if patch.CustomerName != nil {
		if *patch.CustomerName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["customer_name"] = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		updates["customer_phone"] = *patch.CustomerPhone
	}
	if patch.Address != nil {
		if *patch.Address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address cannot be empty")
		}
		updates["address"] = *patch.Address
	}
	if patch.DeliveryDate != nil {
		updates["delivery_date"] = *patch.DeliveryDate
	}
	if patch.Paid != nil {
		updates["paid"] = *patch.Paid
	}
	if patch.PaymentReceived != nil {
		if patch.PaymentReceived.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment received cannot be negative")
		}
		updates["payment_received"] = *patch.PaymentReceived
	}
	if patch.TotalAmount != nil {
		updates["total_amount"] = *patch.TotalAmount
	}
	if patch.ContractorDiscount != nil {
		updates["contractor_discount"] = *patch.ContractorDiscount
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.DriverNotes != nil {
		updates["driver_notes"] = *patch.DriverNotes
	}
	if patch.AssignedDriverID != nil {
		updates["assigned_driver_id"] = *patch.AssignedDriverID
	}
	return updates, nil
}
