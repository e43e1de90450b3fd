package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/wiseaidev/stegano/config"
	"github.com/wiseaidev/stegano/handlers"
)

func main() {
	cfg, err := config.Load(os.Getenv("STEGANO_CONFIG"))
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg.Log)

	router, err := handlers.NewRouter(cfg, log)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	log.Infof("Server starting on %s", cfg.Addr())
	log.Info("API endpoints:")
	log.Info("  POST /api/v1/stego/inject  - Hide an encrypted payload in a PNG or JPEG (returns stego image)")
	log.Info("  POST /api/v1/stego/extract - Recover the payload from a stego image (returns raw bytes)")
	log.Info("  POST /api/v1/meta          - Describe the chunks or segments of an image")
	log.Info("  GET  /api/v1/health        - Health check")

	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
