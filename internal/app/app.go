package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SchoolAPI/internal/app/server"
	"SchoolAPI/internal/config"
	"SchoolAPI/internal/delivery/http"
	"SchoolAPI/internal/service"
	"SchoolAPI/internal/service/auth"
	"SchoolAPI/internal/storage/postgres"
	"SchoolAPI/pkg/logger"
)

const seedAdminPassword = "admin"

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(context.Background(), cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	adminHash, err := auth.HashPassword(seedAdminPassword)
	if err != nil {
		log.FatalErr("error hashing seed password", err)
	}
	if err := postgres.Seed(context.Background(), pg.Pool, adminHash); err != nil {
		log.FatalErr("error seeding roles", err)
	}

	accountRepo := postgres.NewAccountPostgres(pg.Pool)
	rolesRepo := postgres.NewRolesPostgres(pg.Pool)
	tokenIssuer, err := auth.NewTokenIssuer(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTTL)
	if err != nil {
		log.FatalErr("error configuring token issuer", err)
	}
	accountService := auth.NewAccountService(log, tokenIssuer, accountRepo, rolesRepo)
	u := service.Collection{AccountService: accountService}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	err = srv.Shutdown()
	if err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
