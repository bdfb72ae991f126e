package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/core/admin"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
	"github.com/schoolhub/backend/tests"
)

func Test_adminApi_permissions(t *testing.T) {
	app := setup(t)
	tch := app.createUser(t, "Kojo Mensah", "kojo@school.edu", "secret1", user.RoleTeacher)

	var tests []httpTest
	for _, path := range []string{"/api/admin/top-teacher", "/api/admin/pending-tasks", "/api/admin/health"} {
		tests = append(tests,
			httpTest{
				name:     path + " no token",
				method:   http.MethodGet,
				path:     path,
				wantCode: http.StatusUnauthorized,
				wantData: marchallObj(t, errMissingToken),
			},
			httpTest{
				name:     path + " not admin",
				method:   http.MethodGet,
				path:     path,
				token:    app.getToken(t, tch),
				wantCode: http.StatusForbidden,
				wantData: marchallObj(t, errForbidden),
			},
		)
	}
	runHttpTests(t, app, tests)
}

func Test_adminApi_topTeacher(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)

	t.Run("placeholder", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/top-teacher", token)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got admin.TopTeacher
		unmarchallObj(t, rec, &got)
		assert.Empty(t, got.ID)
		assert.Equal(t, "Ms. Ama Mensah", got.Name)
		require.NotNil(t, got.Subject)
		assert.Equal(t, "Mathematics", *got.Subject)
	})

	t.Run("first teacher", func(t *testing.T) {
		usr := app.createUser(t, "Kojo Mensah", "kojo@school.edu", "", user.RoleTeacher)
		tch := testutil.CreateTeacher(t, app.teacherRepo, usr, "T-001", "Physics", "Chemistry")

		req, rec := newAuthRequest(http.MethodGet, "/api/admin/top-teacher", token)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got admin.TopTeacher
		unmarchallObj(t, rec, &got)
		assert.Equal(t, tch.ID, got.ID)
		assert.Equal(t, "Kojo Mensah", got.Name)
		assert.Equal(t, "kojo@school.edu", got.Email)
		require.NotNil(t, got.Subject)
		assert.Equal(t, "Physics", *got.Subject)
		assert.Equal(t, 4.6, got.Rating)
		assert.False(t, got.Featured)
	})
}

func Test_adminApi_tasks(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)
	s1 := app.createStudent(t, "Kofi Boateng", "kofi@school.edu", "JHS 2")
	assignee := app.createUser(t, "Kojo Mensah", "kojo@school.edu", "", user.RoleTeacher)

	f := testutil.CreateFee(t, app.feeRepo, fee.Fee{
		StudentID: s1.ID,
		FeeType:   fee.TypeTuition,
		Amount:    1000,
		DueDate:   time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Status:    fee.StatusPending,
		Notes:     "term 1",
	})

	t.Run("pending tasks", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/pending-tasks", token)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got []admin.Task
		unmarchallObj(t, rec, &got)
		require.Len(t, got, 2)
		assert.Equal(t, f.ID, got[0].ID)
		assert.Equal(t, "Kofi Boateng · JHS 2 · ₵1000", got[0].Summary)
		assert.Equal(t, "Approve Announcement", got[1].Title)
	})

	t.Run("assign without assignee", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/tasks/"+f.ID+"/assign", token, []byte(`{}`))
		app.serve(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Missing assignee id"}),
		}, rec)
	})

	t.Run("assign", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/tasks/"+f.ID+"/assign", token,
			[]byte(`{"assigneeId": "`+assignee.ID+`"}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got admin.TaskResult
		unmarchallObj(t, rec, &got)
		assert.True(t, got.Success)
		require.NotNil(t, got.Task)
		assert.Equal(t, assignee.ID, got.Task.AssignedTo)

		stored, err := app.feeRepo.GetFee(context.Background(), f.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored.Notes, "term 1"), "prior notes are preserved")
		assert.Contains(t, stored.Notes, "Assigned to "+assignee.ID+" by admin")

		if sent := app.mailSvc.SentMessages(); assert.Len(t, sent, 1) {
			assert.Equal(t, "kojo@school.edu", sent[0].To[0].Address)
		}
	})

	t.Run("assign placeholder", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/tasks/placeholder-1/assign", token,
			[]byte(`{"assigneeId": "someone"}`))
		app.serve(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "message": "Task assigned (placeholder)"}`),
		}, rec)
	})

	t.Run("complete", func(t *testing.T) {
		for i := 0; i < 2; i++ { // idempotent
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/tasks/"+f.ID+"/complete", token)
			app.serve(req, rec)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got admin.TaskResult
			unmarchallObj(t, rec, &got)
			assert.True(t, got.Success)
			require.NotNil(t, got.Task)
			assert.Equal(t, fee.StatusPending, got.Task.Status)

			stored, err := app.feeRepo.GetFee(context.Background(), f.ID)
			require.NoError(t, err)
			assert.Equal(t, stored.Amount, stored.PaidAmount)
		}
	})

	t.Run("complete placeholder", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/tasks/placeholder-1/complete", token)
		app.serve(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "message": "Task completed (placeholder)"}`),
		}, rec)
	})
}

func Test_adminApi_health(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)

	get := func(t *testing.T) admin.Health {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/health", token)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var h admin.Health
		unmarchallObj(t, rec, &h)
		return h
	}

	h := get(t)
	assert.Equal(t, "ok", h.Status)
	assert.True(t, h.DBConnected)
	assert.Equal(t, "0h 0m", h.Uptime)

	app.db.SetConnected(false)
	h = get(t)
	assert.Equal(t, "degraded", h.Status)
	assert.False(t, h.DBConnected)
}

func Test_adminApi_featureTeacher(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)
	usr := app.createUser(t, "Kojo Mensah", "kojo@school.edu", "", user.RoleTeacher)
	tch := testutil.CreateTeacher(t, app.teacherRepo, usr, "T-001", "Physics")

	req, rec := newAuthRequest(http.MethodPost, "/api/admin/teachers/"+tch.ID+"/feature", token)
	app.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Success bool         `json:"success"`
		Teacher teacher.View `json:"teacher"`
	}
	unmarchallObj(t, rec, &got)
	assert.True(t, got.Success)
	assert.Equal(t, tch.ID, got.Teacher.ID)
	assert.True(t, got.Teacher.Featured)

	runHttpTests(t, app, []httpTest{
		{
			name:     "unknown teacher",
			method:   http.MethodPost,
			path:     "/api/admin/teachers/5f1d7a1b2c3d4e5f6a7b8c9d/feature",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "teacher not found"}),
		},
	})
}
