package main

import (
	"flag"
	"fmt"
	"os"

	"asrdesk/config"
	"asrdesk/logger"
	"asrdesk/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var (
		configPath string
		addr       string
		dataDir    string
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&addr, "addr", "", "Listen address (overrides config)")
	flag.StringVar(&dataDir, "data", "", "File store directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if dataDir != "" {
		cfg.Store.Dir = dataDir
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	if err := os.MkdirAll(cfg.Store.Dir, 0755); err != nil {
		log.Fatalw("failed to create store directory", "dir", cfg.Store.Dir, "error", err)
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	lib := services.OpenLibrary(cfg.Store.Dir, log)
	router := newRouter(cfg, lib, log)

	log.Infow("starting asrdesk", "addr", cfg.HTTP.Addr, "store", cfg.Store.Dir)
	if err := router.Run(cfg.HTTP.Addr); err != nil {
		log.Fatalw("server exited", "error", err)
	}
}
