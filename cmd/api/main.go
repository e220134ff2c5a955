package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/pvedi/crm-backend/config"
	"github.com/pvedi/crm-backend/internal/bootstrap"
	"github.com/pvedi/crm-backend/internal/db"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		logger.Fatal().Err(err).Msg("create schema")
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "crm-backend",
		Version:     cfg.App.Version,
		SecretKey:   cfg.App.SecretKey,
		DB:          conn,
		Logger:      logger,
	})

	logger.Info().Str("port", cfg.Server.Port).Msg("listening")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
