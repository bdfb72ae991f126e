package fee

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/student"
)

var ErrNotFound = core.NewNotFoundError("fee not found")

// byDueDateDesc lists the most recently due fees first.
var byDueDateDesc = []core.DBOrdering{{Field: "dueDate", Ascending: false}}

type (
	// Repository reads always populate Fee.Student.
	Repository interface {
		CreateFee(ctx context.Context, f Fee) (Fee, error)
		// QueryFees applies `ordering` in the given order; ties keep storage order.
		QueryFees(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Fee, error)
		GetFee(ctx context.Context, id string) (Fee, error)
		UpdateFee(ctx context.Context, f Fee) (Fee, error)
		DeleteFee(ctx context.Context, id string) error
	}

	Service struct {
		repo        Repository
		studentRepo student.Repository
		validate    *validator.Validate
	}
)

func NewService(repo Repository, studentRepo student.Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, studentRepo: studentRepo, validate: validate}
}

// Create bills the referenced Student. New fees are always pending with nothing paid.
func (svc *Service) Create(ctx context.Context, nf NewFee) (Fee, error) {
	if err := nf.Validate(svc.validate); err != nil {
		return Fee{}, err
	}

	std, err := svc.studentRepo.GetStudent(ctx, nf.Student)
	if err != nil {
		return Fee{}, err
	}

	now := time.Now().UTC()
	f, err := svc.repo.CreateFee(ctx, Fee{
		StudentID:  std.ID,
		FeeType:    nf.FeeType,
		Amount:     nf.Amount,
		DueDate:    nf.DueDate.Time,
		Status:     StatusPending,
		PaidAmount: 0,
		Notes:      nf.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return Fee{}, errors.Wrap(err, "creating fee")
	}
	f.Student = &StudentInfo{ID: std.ID, Name: std.DisplayName(), ClassName: std.ClassName}
	return f, nil
}

// Query lists the fees matching `filter`, most recently due first.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Fee, error) {
	filter.StudentID = core.CleanString(filter.StudentID)
	return svc.repo.QueryFees(ctx, filter, byDueDateDesc...)
}

func (svc *Service) Get(ctx context.Context, id string) (Fee, error) {
	return svc.repo.GetFee(ctx, id)
}

// Update merges the provided fields of `uf` into the Fee. Status is never recomputed.
func (svc *Service) Update(ctx context.Context, id string, uf UpdateFee) (Fee, error) {
	if err := uf.Validate(svc.validate); err != nil {
		return Fee{}, err
	}

	f, err := svc.repo.GetFee(ctx, id)
	if err != nil {
		return Fee{}, err
	}
	f = uf.Apply(f)
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(ctx, f)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteFee(ctx, id)
}

func (svc *Service) SummaryForStudent(ctx context.Context, studentID string) (Summary, error) {
	fees, err := svc.repo.QueryFees(ctx, QueryFilter{StudentID: core.CleanString(studentID)})
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying student fees")
	}
	return Summarize(fees), nil
}
