package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/admin"
	"github.com/schoolhub/backend/core/chat"
	"github.com/schoolhub/backend/core/class"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
)

const bodyLimit = "10M"

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc    *user.Service
		TeacherSvc *teacher.Service
		StudentSvc *student.Service
		ClassSvc   *class.Service
		FeeSvc     *fee.Service
		AdminSvc   *admin.Service
		ChatSvc    *chat.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: conf.Server.CORSOrigins}))
	s.app.Use(middleware.BodyLimit(bodyLimit))
	s.app.Use(metricsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if conf.Server.UploadsDir != "" {
		s.app.Static("/uploads", conf.Server.UploadsDir)
	}

	api := s.app.Group("/api")
	jwt := s.auth.middleware()

	registerUserAPI(api, jwt, s.auth, s.deps.UserSvc)
	registerFeeAPI(api, jwt, s.deps.FeeSvc)
	registerAdminAPI(api, jwt, s.deps.AdminSvc)
	registerTeacherAPI(api, jwt, s.deps.TeacherSvc)
	registerStudentAPI(api, jwt, s.deps.StudentSvc)
	registerClassAPI(api, jwt, s.deps.ClassSvc)
	registerChatAPI(api, jwt, s.deps.ChatSvc)
}

// Start blocks until the server stops. Failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// GenerateToken issues a session token for `usr`.
func (s *Server) GenerateToken(usr user.User) (string, error) {
	return s.auth.GenerateToken(usr)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signalled
	}
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "name": s.deps.Conf.AppName})
}

func newRequestID() string {
	return uuid.New().String()
}
