package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/adapter"
	"github.com/stfnfhrmnn/vocabsync/internal/client"
	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/service"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// enrollment flags must be declared before the config is built,
	// because the config layer parses the shared command line
	registerAccount := flag.Bool("register", false, "create a server account with -user/-password and bootstrap this device")
	loginAccount := flag.Bool("login", false, "log in to an existing account with -user/-password and bootstrap this device")
	accountLogin := flag.String("user", "", "account login for -register or -login")
	accountPassword := flag.String("password", "", "account password for -register or -login")

	log := logger.NewClientLogger("vocabsync-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	enrollment, err := enrollmentFromFlags(*registerAccount, *loginAccount, *accountLogin, *accountPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid enrollment flags")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorage, err := store.NewClientStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	services := service.NewClientServices(localStorage, serverAdapter, cfg, log)
	background := workers.NewWorkers(services, log)

	app, err := client.NewApp(services, localStorage, background, enrollment, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func enrollmentFromFlags(register, login bool, user, password string) (*client.Enrollment, error) {
	if !register && !login {
		return nil, nil
	}
	if register && login {
		return nil, errors.New("-register and -login are mutually exclusive")
	}
	if user == "" || password == "" {
		return nil, errors.New("-register and -login require -user and -password")
	}

	return &client.Enrollment{
		CreateAccount: register,
		Login:         user,
		Password:      password,
	}, nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
