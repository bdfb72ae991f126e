package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
)

// NewValidator returns a validator with every domain validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	fee.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo student.Repository, usr user.User, className string) student.Student {
	now := time.Now().UTC()
	s, err := repo.CreateStudent(context.Background(), student.Student{
		UserID:    usr.ID,
		ClassName: className,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	s.User = &usr
	return s
}

func CreateTeacher(t *testing.T, repo teacher.Repository, usr user.User, staffID string, subjects ...string) teacher.Teacher {
	now := time.Now().UTC()
	tch, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		UserID:    usr.ID,
		StaffID:   staffID,
		Subjects:  subjects,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	tch.User = &usr
	return tch
}

// CreateFee stores a fee as is, bypassing the creation defaults.
func CreateFee(t *testing.T, repo fee.Repository, f fee.Fee) fee.Fee {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
		f.UpdatedAt = f.CreatedAt
	}
	f, err := repo.CreateFee(context.Background(), f)
	if err != nil {
		t.Fatalf("CreateFee() failed: %v", err)
	}
	return f
}
