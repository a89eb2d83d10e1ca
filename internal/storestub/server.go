// Package storestub serves the small PostgREST subset the store client
// speaks, backed by local sqlite. It exists for development and tests, so
// the rest of the system can run without a hosted store.
package storestub

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/repository"
)

// Server mounts /rest/v1 order and notification tables.
type Server struct {
	orders        *repository.OrderRepository
	notifications *repository.NotificationRepository
	apiKey        string
	log           *logrus.Logger
}

func New(orders *repository.OrderRepository, notifications *repository.NotificationRepository, apiKey string, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{orders: orders, notifications: notifications, apiKey: apiKey, log: log}
}

// Router builds the gin engine. Kept separate from listening so tests can
// drive it through httptest.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	rest := r.Group("/rest/v1", s.requireAPIKey)
	rest.GET("/orders", s.listOrders)
	rest.POST("/orders", s.insertOrder)
	rest.PATCH("/orders", s.patchOrder)
	rest.DELETE("/orders", s.deleteOrder)
	rest.GET("/notifications", s.listNotifications)

	return r
}

// requireAPIKey rejects requests without the expected apikey header. An
// empty configured key disables the check, matching local-dev stores.
func (s *Server) requireAPIKey(c *gin.Context) {
	if s.apiKey != "" && c.GetHeader("apikey") != s.apiKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid api key"})
		return
	}
	c.Next()
}

// eqFilter extracts the value of a PostgREST "column=eq.value" query
// parameter, reporting whether the parameter was present.
func eqFilter(c *gin.Context, column string) (string, bool) {
	raw, ok := c.GetQuery(column)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(raw, "eq."), true
}

func (s *Server) listOrders(c *gin.Context) {
	ctx := c.Request.Context()

	if code, ok := eqFilter(c, "order_code"); ok {
		row, err := s.orders.GetByCode(ctx, code)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rowsOrEmpty(row))
		return
	}
	if id, ok := eqFilter(c, "id"); ok {
		row, err := s.orders.GetByID(ctx, id)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rowsOrEmpty(row))
		return
	}

	rows, err := s.orders.List(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	if rows == nil {
		rows = []store.Row{}
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) insertOrder(c *gin.Context) {
	var row store.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	inserted, err := s.orders.Insert(c.Request.Context(), row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"message": "duplicate order_code"})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, []store.Row{*inserted})
}

func (s *Server) patchOrder(c *gin.Context) {
	id, ok := eqFilter(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id filter is required"})
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	delete(fields, "id")
	patched, err := s.orders.Patch(c.Request.Context(), id, fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rowsOrEmpty(patched))
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, ok := eqFilter(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id filter is required"})
		return
	}
	if _, err := s.orders.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listNotifications(c *gin.Context) {
	rows, err := s.notifications.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if rows == nil {
		rows = []store.NotificationRow{}
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.WithError(err).Error("store stub request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

func rowsOrEmpty[T any](row *T) []T {
	if row == nil {
		return []T{}
	}
	return []T{*row}
}
