package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"truth-or-dare/internal/config"
	"truth-or-dare/internal/db"
	"truth-or-dare/internal/server"
)

func main() {
	log := logrus.New()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.WithError(err).Warn("failed to load .env")
	}
	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := db.Migrate(conn); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	srv := server.New(conn, cfg, log)
	log.WithField("addr", cfg.Addr).Info("truth-or-dare server listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
