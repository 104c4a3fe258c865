package main

import (
	"flag"
	"os"

	"github.com/yigit/registry/internal/pkg/logger"
	"github.com/yigit/registry/internal/server"
)

// @title Registry API
// @version 1.0
// @description Academic registry: students, lecturers, departments, courses and their relationships

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file (default configs/config.yaml)")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
