package main

import (
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/Talal-Sharaa/ReceIT/internal/config"
	"github.com/Talal-Sharaa/ReceIT/internal/serverapp"
)

func main() {
	// Optional; a missing .env just means the environment is already set.
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "receit",
	})

	cfgPath := os.Getenv("RECEIT_CONFIG")
	if cfgPath == "" {
		cfgPath = "receit.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}

	app, err := serverapp.New(serverapp.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("build server", "err", err)
	}
	defer app.Close()

	logger.Info("listening", "addr", cfg.Server.Addr, "backend", cfg.Storage.Backend)
	if err := http.ListenAndServe(cfg.Server.Addr, app.Handler); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
