package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/schoolhub/backend/apps/api/echo"
	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/admin"
	"github.com/schoolhub/backend/core/chat"
	"github.com/schoolhub/backend/core/class"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
	aisvc "github.com/schoolhub/backend/services/ai"
	emailsvc "github.com/schoolhub/backend/services/email"
	logsvc "github.com/schoolhub/backend/services/logger"
	"github.com/schoolhub/backend/storage/database"
	mongorepos "github.com/schoolhub/backend/storage/database/mongodb"
)

func main() {
	startedAt := time.Now()

	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()
		if err = db.Close(ctx); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	usrRepo := mongorepos.NewUserRepository(db)
	teacherRepo := mongorepos.NewTeacherRepository(db)
	studentRepo := mongorepos.NewStudentRepository(db)
	classRepo := mongorepos.NewClassRepository(db)
	feeRepo := mongorepos.NewFeeRepository(db)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	fee.InitValidators(validate, translator)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var completer chat.Completer
	if ai := aisvc.NewOpenAIService(conf); ai != nil {
		completer = ai
	} else {
		logger.Info("OPENAI_API_KEY not set : chat uses canned replies")
	}

	usrSvc := user.NewService(usrRepo, validate)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			UserSvc:    usrSvc,
			TeacherSvc: teacher.NewService(teacherRepo, usrSvc, validate),
			StudentSvc: student.NewService(studentRepo, usrSvc, validate),
			ClassSvc:   class.NewService(classRepo, teacherRepo, validate),
			FeeSvc:     fee.NewService(feeRepo, studentRepo, validate),
			AdminSvc:   admin.NewService(db, feeRepo, teacherRepo, usrSvc, mailSvc, logger, startedAt),
			ChatSvc:    chat.NewService(completer, logger),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*database.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
	defer cancel()

	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}
