package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/user"
	"github.com/schoolhub/backend/storage/database/inmem"
	"github.com/schoolhub/backend/tests"
)

func TestService(t *testing.T) {
	db := inmemdb.Open()
	validate, _ := testutil.NewValidator()
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), validate)
	svc := student.NewService(inmemdb.NewStudentRepository(db), usrSvc, validate)
	ctx := context.Background()

	s, err := svc.Create(ctx, student.NewStudent{
		Name:      "Kofi Boateng",
		Email:     "kofi@school.edu",
		Password:  "student123",
		ClassName: "JHS 2",
		Section:   "B",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, s.User.Role)

	_, err = svc.Create(ctx, student.NewStudent{Name: "Kofi B", Email: "kofi@school.edu", Password: "student123"})
	assert.True(t, core.IsConflict(err))

	students, err := svc.Query(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Kofi Boateng", students[0].DisplayName())

	got, err := svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "JHS 2", student.NewView(got).ClassName)

	require.NoError(t, svc.Delete(ctx, s.ID))
	_, err = usrSvc.GetByID(ctx, s.UserID)
	assert.Equal(t, user.ErrNotFound, err)
	assert.Equal(t, student.ErrNotFound, svc.Delete(ctx, s.ID))
}

func TestStudent_DisplayName(t *testing.T) {
	assert.Equal(t, "N/A", student.Student{}.DisplayName())
	assert.Equal(t, "Esi", student.Student{User: &user.User{Name: "Esi"}}.DisplayName())
}
