package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("teacher not found")
	ErrStaffIDExists = core.NewConflictError("staff id already in use")
)

type (
	// Repository reads always populate Teacher.User.
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		// FirstTeacher returns the first teacher in storage order.
		FirstTeacher(ctx context.Context) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		SetFeatured(ctx context.Context, id string, featured bool) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) (Teacher, error)
		StaffIDExists(ctx context.Context, staffID string) (bool, error)
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

// Create stores a User with the teacher role, then the Teacher referencing it.
// The User is removed again if the Teacher cannot be stored.
func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	nt.Clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, err
	}

	exists, err := svc.repo.StaffIDExists(ctx, nt.StaffID)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "checking staff id uniqueness")
	}
	if exists {
		return Teacher{}, ErrStaffIDExists
	}

	usr, err := svc.usrSvc.Create(ctx, nt.user())
	if err != nil {
		return Teacher{}, errors.Wrap(err, "creating teacher user")
	}

	now := time.Now().UTC()
	t, err := svc.repo.CreateTeacher(ctx, Teacher{
		UserID:        usr.ID,
		StaffID:       nt.StaffID,
		Subjects:      nt.Subjects,
		Qualification: nt.Qualification,
		Experience:    nt.Experience,
		Department:    nt.Department,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		if delErr := svc.usrSvc.Delete(ctx, usr.ID); delErr != nil {
			return Teacher{}, errors.Wrapf(err, "creating teacher (user %s not removed: %v)", usr.ID, delErr)
		}
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	t.User = &usr
	return t, nil
}

func (svc *Service) Query(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	ut.Clean()
	if err := svc.validate.Struct(ut); err != nil {
		return Teacher{}, err
	}

	t, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	t = ut.Apply(t)
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, t)
}

// Delete removes the Teacher and its owning User.
func (svc *Service) Delete(ctx context.Context, id string) error {
	t, err := svc.repo.DeleteTeacher(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.usrSvc.Delete(ctx, t.UserID); err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting teacher user")
	}
	return nil
}
