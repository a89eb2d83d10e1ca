package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/cache"
	"parcelTrackingManagement/internal/config"
	"parcelTrackingManagement/internal/httpapi"
	"parcelTrackingManagement/internal/sim"
	"parcelTrackingManagement/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Infof("Configuration loaded: %v", cfg)

	client := store.New(cfg.Store.URL, cfg.Store.APIKey, log)

	// The redis cache is optional; without it every lookup hits the store.
	var oc *cache.OrderCache
	if cfg.Redis.URL != "" {
		oc, err = cache.New(cfg.Redis.URL, cfg.Redis.CacheTTL)
		if err != nil {
			log.Fatalf("connect redis: %v", err)
		}
		defer oc.Close()
		log.Info("order cache enabled")
	}

	simCfg := sim.DefaultConfig()
	simCfg.TickInterval = cfg.Sim.TickInterval
	simCfg.StepFraction = cfg.Sim.StepFraction
	simCfg.ArrivalThreshold = cfg.Sim.ArrivalThreshold
	simCfg.AutoComplete = cfg.Sim.AutoComplete
	simulator := sim.New(client, simCfg, log)

	server := httpapi.NewServer(cfg, client, oc, simulator, log)
	shutdown, err := server.Start()
	if err != nil {
		log.Fatalf("start http: %v", err)
	}

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Errorf("shutdown error: %v", err)
	}
	simulator.StopAll()
	simulator.Wait()
}
