package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/core/class"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
)

func Test_teacherApi(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)

	body := []byte(`{
		"name": "Kojo Mensah", "email": "kojo@school.edu", "password": "secret1",
		"staffId": "T-001", "subjects": ["Physics", " "], "experience": 4, "department": "Science"
	}`)
	req, rec := newAuthRequest(http.MethodPost, "/api/teachers", token, body)
	app.serve(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created teacher.View
	unmarchallObj(t, rec, &created)
	assert.Equal(t, "Kojo Mensah", created.Name)
	assert.Equal(t, []string{"Physics"}, created.Subjects)
	assert.Equal(t, 4, created.Experience)

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/teachers/"+created.ID, token, []byte(`{"qualification": "MSc"}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got teacher.View
		unmarchallObj(t, rec, &got)
		assert.Equal(t, "MSc", got.Qualification)
		assert.Equal(t, "Science", got.Department)
	})

	t.Run("list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/teachers", token)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got []teacher.View
		unmarchallObj(t, rec, &got)
		if assert.Len(t, got, 1) {
			assert.Equal(t, created.ID, got[0].ID)
		}
	})

	runHttpTests(t, app, []httpTest{
		{
			name:     "duplicate staffId",
			method:   http.MethodPost,
			path:     "/api/teachers",
			body:     []byte(`{"name": "Efua Ansah", "email": "efua@school.edu", "password": "secret1", "staffId": "T-001"}`),
			token:    token,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: teacher.ErrStaffIDExists.Error()}),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/teachers/" + created.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"message": "Teacher deleted successfully"}`),
		},
		{
			name:     "retrieve deleted",
			method:   http.MethodGet,
			path:     "/api/teachers/" + created.ID,
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "teacher not found"}),
		},
	})

	_, err := app.usrRepo.GetUser(req.Context(), user.GetFilter{ID: created.UserID})
	assert.Equal(t, user.ErrNotFound, err, "the owning user is deleted too")
}

func Test_studentApi(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)

	body := []byte(`{"name": "Esi Badu", "email": "esi@school.edu", "password": "secret1", "className": "JHS 1", "section": "A"}`)
	req, rec := newAuthRequest(http.MethodPost, "/api/students", token, body)
	app.serve(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created student.View
	unmarchallObj(t, rec, &created)
	assert.Equal(t, "Esi Badu", created.Name)
	assert.Equal(t, "JHS 1", created.ClassName)

	runHttpTests(t, app, []httpTest{
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/api/students/" + created.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, created),
		},
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/api/students",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []student.View{created}),
		},
		{
			name:     "duplicate email",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     body,
			token:    token,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "email already in use"}),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/students/" + created.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"message": "Student deleted successfully"}`),
		},
		{
			name:     "delete again",
			method:   http.MethodDelete,
			path:     "/api/students/" + created.ID,
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "student not found"}),
		},
	})
}

func Test_classApi(t *testing.T) {
	app := setup(t)
	_, token := app.createAdmin(t)

	runHttpTests(t, app, []httpTest{
		{
			name:     "unknown teacher",
			method:   http.MethodPost,
			path:     "/api/classes",
			body:     []byte(`{"name": "JHS 1", "teacherId": "5f1d7a1b2c3d4e5f6a7b8c9d"}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "teacher not found"}),
		},
		{
			name:     "blank name",
			method:   http.MethodPost,
			path:     "/api/classes",
			body:     []byte(`{"name": "  "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/api/classes", token, []byte(`{"name": "JHS 2", "level": "Junior High"}`))
	app.serve(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created class.View
	unmarchallObj(t, rec, &created)

	req, rec = newAuthRequest(http.MethodGet, "/api/classes", token)
	app.serve(req, rec)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, []class.View{created})}, rec)
}
