package main

import (
	"flag"

	"github.com/wiseaidev/stegano/config"
	"github.com/wiseaidev/stegano/handlers"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)

	router, err := handlers.NewRouter(cfg, logger)
	if err != nil {
		return err
	}
	logger.Infof("Server starting on %s", cfg.Addr())
	return router.Run(cfg.Addr())
}
