package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
)

var ErrNotFound = core.NewNotFoundError("student not found")

type (
	// Repository reads always populate Student.User.
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		DeleteStudent(ctx context.Context, id string) (Student, error)
	}

	Service struct {
		repo     Repository
		usrSvc   *user.Service
		validate *validator.Validate
	}
)

func NewService(repo Repository, usrSvc *user.Service, validate *validator.Validate) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, validate: validate}
}

// Create registers the owning User then the Student referencing it.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}

	usr, err := svc.usrSvc.Create(ctx, ns.user())
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student user")
	}

	now := time.Now().UTC()
	s, err := svc.repo.CreateStudent(ctx, Student{
		UserID:      usr.ID,
		ClassName:   ns.ClassName,
		Section:     ns.Section,
		AdmissionNo: ns.AdmissionNo,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if delErr := svc.usrSvc.Delete(ctx, usr.ID); delErr != nil {
			return Student{}, errors.Wrapf(err, "creating student (user %s not removed: %v)", usr.ID, delErr)
		}
		return Student{}, errors.Wrap(err, "creating student")
	}
	s.User = &usr
	return s, nil
}

func (svc *Service) Query(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// Delete removes the Student and its owning User.
func (svc *Service) Delete(ctx context.Context, id string) error {
	s, err := svc.repo.DeleteStudent(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.usrSvc.Delete(ctx, s.UserID); err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting student user")
	}
	return nil
}
