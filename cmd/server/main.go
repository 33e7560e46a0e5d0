package main

import (
	"flag"
	"os"

	"github.com/konman95/mainst.ai/internal/config"
	"github.com/konman95/mainst.ai/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Secrets come from the environment; a local .env is optional.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file (JSON)")
	flag.Parse()

	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	srv, cleanup, err := SetupServer(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}
	defer cleanup()

	if err := StartServer(srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
