// The storestub binary serves the PostgREST subset over local SQLite so the
// tracking server can run without a hosted store.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/config"
	"parcelTrackingManagement/internal/db"
	"parcelTrackingManagement/internal/storestub"
	"parcelTrackingManagement/repository"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Errorf("close db: %v", err)
		}
	}()

	orders := repository.NewOrderRepository(d)
	notifications := repository.NewNotificationRepository(d)

	addr := os.Getenv("STORE_STUB_ADDRESS")
	if addr == "" {
		addr = ":9090"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: storestub.New(orders, notifications, cfg.Store.APIKey, log).Router(),
	}

	go func() {
		log.Infof("store stub listening on %s (db %s)", addr, cfg.Database.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown error: %v", err)
	}
}
