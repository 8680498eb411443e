// Command seed initializes the store: it waits for the database, runs
// migrations, and inserts the default widget configuration plus the starter
// FAQ when the knowledge base is empty. Safe to run repeatedly.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sigmalab/assistant-backend/internal/config"
	"github.com/sigmalab/assistant-backend/internal/repo"
	"github.com/sigmalab/assistant-backend/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.DBConnectRetries+1)*cfg.DBConnectBackoff)
	defer cancel()

	if err := repo.WaitForDB(ctx, db, cfg.DBConnectRetries, cfg.DBConnectBackoff); err != nil {
		log.Fatal().Err(err).Msg("database never became ready")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}
	if err := seed.Run(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed store")
	}
	log.Info().Msg("seed complete")
}
