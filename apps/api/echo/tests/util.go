package tests

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/schoolhub/backend/apps/api/echo"
	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/admin"
	"github.com/schoolhub/backend/core/chat"
	"github.com/schoolhub/backend/core/class"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
	"github.com/schoolhub/backend/services/email"
	"github.com/schoolhub/backend/services/logger"
	"github.com/schoolhub/backend/storage/database/inmem"
	"github.com/schoolhub/backend/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type testApp struct {
	server      *Server
	db          *inmemdb.DB
	mailSvc     *emailsvc.ConsoleService
	usrRepo     user.Repository
	studentRepo student.Repository
	teacherRepo teacher.Repository
	feeRepo     fee.Repository
}

func setup(t *testing.T) testApp {
	conf := &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "School Management API",
		SecretKey:          "test-secret",
		DefaultFromEmail:   "noreply@school.edu",
		JWTExpirationDelta: time.Hour,
		Server:             core.ServerConfig{CORSOrigins: []string{"*"}},
	}
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	studentRepo := inmemdb.NewStudentRepository(db)
	teacherRepo := inmemdb.NewTeacherRepository(db)
	classRepo := inmemdb.NewClassRepository(db)
	feeRepo := inmemdb.NewFeeRepository(db)

	// set up services
	validate, translator := testutil.NewValidator()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(usrRepo, validate)

	// set up server
	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		TeacherSvc:     teacher.NewService(teacherRepo, usrSvc, validate),
		StudentSvc:     student.NewService(studentRepo, usrSvc, validate),
		ClassSvc:       class.NewService(classRepo, teacherRepo, validate),
		FeeSvc:         fee.NewService(feeRepo, studentRepo, validate),
		AdminSvc:       admin.NewService(db, feeRepo, teacherRepo, usrSvc, mailSvc, logger, time.Now()),
		ChatSvc:        chat.NewService(nil, logger),
	})

	return testApp{
		server:      server,
		db:          db,
		mailSvc:     mailSvc,
		usrRepo:     usrRepo,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		feeRepo:     feeRepo,
	}
}

func (app testApp) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	app.server.ServeHTTP(rec, req)
}

func (app testApp) createUser(t *testing.T, name, email, pwd, role string) user.User {
	return testutil.CreateUser(t, app.usrRepo, name, email, pwd, role)
}

func (app testApp) createAdmin(t *testing.T) (user.User, string) {
	usr := app.createUser(t, "Admin User", "admin@school.com", "admin123", user.RoleAdmin)
	return usr, app.getToken(t, usr)
}

func (app testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.server.GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchallObj() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHttpTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}
