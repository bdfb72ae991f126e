package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
	"github.com/schoolhub/backend/storage/database"
	mongorepos "github.com/schoolhub/backend/storage/database/mongodb"
)

var logger *log.Logger

func main() {
	os.Exit(start())
}

func start() int {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
	db, err := database.Open(ctx, conf)
	cancel()
	errAndDie(err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()
		_ = db.Close(ctx)
	}()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		usrSvc:    user.NewService(mongorepos.NewUserRepository(db), validate),
		migrateDB: migrateFunc(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
