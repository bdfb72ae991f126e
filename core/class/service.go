package class

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core/teacher"
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class) (Class, error)
		QueryClasses(ctx context.Context) ([]Class, error)
	}

	Service struct {
		repo        Repository
		teacherRepo teacher.Repository
		validate    *validator.Validate
	}
)

func NewService(repo Repository, teacherRepo teacher.Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, teacherRepo: teacherRepo, validate: validate}
}

// Create stores a new Class. A provided teacher id must resolve to a Teacher.
func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	nc.Clean()
	if err := svc.validate.Struct(nc); err != nil {
		return Class{}, err
	}

	if nc.TeacherID != "" {
		if _, err := svc.teacherRepo.GetTeacher(ctx, nc.TeacherID); err != nil {
			return Class{}, errors.Wrap(err, "resolving class teacher")
		}
	}

	now := time.Now().UTC()
	return svc.repo.CreateClass(ctx, Class{
		Name:      nc.Name,
		Level:     nc.Level,
		TeacherID: nc.TeacherID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Query(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}
