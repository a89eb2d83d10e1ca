// Package httpapi exposes the three role surfaces over HTTP: the public
// customer tracking endpoints, the password-gated admin console API, and the
// driver delivery API. Which surfaces are mounted is decided by configuration,
// so one binary can ship as a customer-only tracker or the full console.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/auth"
	"parcelTrackingManagement/internal/cache"
	"parcelTrackingManagement/internal/config"
	"parcelTrackingManagement/internal/sim"
	"parcelTrackingManagement/models"
)

// OrderStore is the slice of the store client the handlers need.
type OrderStore interface {
	FetchAll(ctx context.Context) ([]models.Order, error)
	FetchByCode(ctx context.Context, code string) (*models.Order, error)
	Upsert(ctx context.Context, o models.Order) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	FetchNotifications(ctx context.Context) ([]models.AppNotification, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	cfg   *config.Config
	store OrderStore
	cache *cache.OrderCache // nil-safe; nil means no caching
	sim   *sim.Simulator
	log   *logrus.Logger

	// baseCtx outlives individual requests; delivery loops started from a
	// request must not die with it.
	baseCtx context.Context
}

// NewServer wires a Server. cache may be nil.
func NewServer(cfg *config.Config, st OrderStore, oc *cache.OrderCache, simulator *sim.Simulator, log *logrus.Logger) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		cache:   oc,
		sim:     simulator,
		log:     log,
		baseCtx: context.Background(),
	}
}

// Router builds the gin engine with the surfaces for the configured role.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestMetrics(), requestLogger(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	role := s.cfg.Role
	if role == config.RoleCustomer || role == config.RoleAll {
		s.mountCustomer(r)
	}
	if role == config.RoleAdmin || role == config.RoleAll {
		s.mountAdmin(r)
	}
	if role == config.RoleDriver || role == config.RoleAll {
		s.mountDriver(r)
	}
	return r
}

func (s *Server) mountCustomer(r *gin.Engine) {
	r.GET("/api/track/:code", s.trackOrder)
	r.GET("/api/notifications", s.listNotifications)
}

func (s *Server) mountAdmin(r *gin.Engine) {
	r.POST("/api/admin/login", s.adminLogin)

	g := r.Group("/api/admin", auth.RequireKinds(s.cfg.Auth.JWTSecret, "admin"))
	g.GET("/orders", s.adminListOrders)
	g.POST("/orders", s.adminCreateOrder)
	g.PUT("/orders/:code", s.adminUpdateOrder)
	g.DELETE("/orders/:code", s.adminDeleteOrder)
}

func (s *Server) mountDriver(r *gin.Engine) {
	r.POST("/api/driver/login", s.driverLogin)

	// Admins can drive deliveries too; the console reuses this surface.
	g := r.Group("/api/driver", auth.RequireKinds(s.cfg.Auth.JWTSecret, "driver", "admin"))
	g.GET("/deliveries/:code", s.driverDeliveryStatus)
	g.POST("/deliveries/:code/start", s.driverStartDelivery)
	g.POST("/deliveries/:code/complete", s.driverCompleteDelivery)
}

// Start listens on the configured address and returns a shutdown function.
func (s *Server) Start() (func(ctx context.Context) error, error) {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	shutdown := func(ctx context.Context) error {
		select {
		case err := <-errCh:
			return err
		default:
		}
		return srv.Shutdown(ctx)
	}
	return shutdown, nil
}
