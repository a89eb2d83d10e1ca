package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"parcelTrackingManagement/internal/auth"
	"parcelTrackingManagement/internal/stages"
	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/models"
)

const tokenTTL = 12 * time.Hour

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// adminLogin exchanges the shared console password for an admin token.
func (s *Server) adminLogin(c *gin.Context) {
	s.login(c, "admin")
}

func (s *Server) login(c *gin.Context, kind string) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}
	if !auth.VerifyPassword(req.Password, s.cfg.Auth.AdminPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}
	name := req.Name
	if name == "" {
		name = kind
	}
	token, err := auth.IssueToken(s.cfg.Auth.JWTSecret, name, kind, tokenTTL)
	if err != nil {
		s.log.WithError(err).Error("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "kind": kind, "name": name})
}

// adminListOrders returns every order, newest first.
func (s *Server) adminListOrders(c *gin.Context) {
	orders, err := s.store.FetchAll(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Error("order list failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// intakeLocations is the stage-1 description stamped on orders created
// without an explicit physical location.
var intakeLocations = map[string]string{
	"en": "Stage 1: Inspection",
	"ar": "المرحلة 1: فحص السلعة",
}

// adminCreateOrder registers a new shipment. The contact and product fields
// are mandatory at intake; a missing tracking code is generated, and a
// supplied one that already exists is rejected so intake can't silently
// overwrite another shipment.
func (s *Server) adminCreateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	lang := c.DefaultQuery("lang", "en")
	if lang != "ar" {
		lang = "en"
	}

	var o models.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	required := []struct{ name, value string }{
		{"customerName", o.CustomerName},
		{"customerPhone", o.CustomerPhone},
		{"customerAddress", o.CustomerAddress},
		{"productName", o.ProductName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": f.name + " is required"})
			return
		}
	}
	o.ID = "" // ids are store-assigned
	o.OrderCode = models.NormalizeCode(o.OrderCode)

	if o.OrderCode == "" {
		o.OrderCode = generateOrderCode()
	} else if _, err := s.store.FetchByCode(ctx, o.OrderCode); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("order %s already exists", o.OrderCode)})
		return
	} else if !store.IsNotFound(err) {
		s.log.WithError(err).Error("order create lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	if o.Status == "" {
		o.Status = models.StatusPendingInspection
	}
	if _, ok := stages.ListFor(o.Status); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", o.Status)})
		return
	}
	if strings.TrimSpace(o.CurrentPhysicalLocation) == "" {
		o.CurrentPhysicalLocation = intakeLocations[lang]
	}

	written, err := s.store.Upsert(ctx, o)
	if err != nil {
		s.log.WithError(err).Error("order create failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	s.cache.Invalidate(ctx, written.OrderCode)
	c.JSON(http.StatusCreated, written)
}

// orderUpdate carries a partial edit; nil fields are left untouched.
type orderUpdate struct {
	CustomerName            *string           `json:"customerName"`
	CustomerPhone           *string           `json:"customerPhone"`
	CustomerAddress         *string           `json:"customerAddress"`
	ProductName             *string           `json:"productName"`
	Quantity                *int              `json:"quantity"`
	TotalPrice              *float64          `json:"totalPrice"`
	Weight                  *string           `json:"weight"`
	Volume                  *string           `json:"volume"`
	PaymentMethod           *string           `json:"paymentMethod"`
	Status                  *string           `json:"status"`
	CurrentPhysicalLocation *string           `json:"currentPhysicalLocation"`
	CustomerLocation        **models.Location `json:"customerLocation"`
	DriverLocation          **models.Location `json:"driverLocation"`
}

// adminUpdateOrder applies a partial edit to the order with the given code.
func (s *Server) adminUpdateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	code := models.NormalizeCode(c.Param("code"))

	var upd orderUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.store.FetchByCode(ctx, code)
	switch {
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		s.log.WithError(err).Error("order update lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	if upd.Status != nil {
		st := models.OrderStatus(*upd.Status)
		if _, ok := stages.ListFor(st); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", *upd.Status)})
			return
		}
		order.Status = st
	}
	if upd.CustomerName != nil {
		order.CustomerName = *upd.CustomerName
	}
	if upd.CustomerPhone != nil {
		order.CustomerPhone = *upd.CustomerPhone
	}
	if upd.CustomerAddress != nil {
		order.CustomerAddress = *upd.CustomerAddress
	}
	if upd.ProductName != nil {
		order.ProductName = *upd.ProductName
	}
	if upd.Quantity != nil {
		order.Quantity = *upd.Quantity
	}
	if upd.TotalPrice != nil {
		order.TotalPrice = *upd.TotalPrice
	}
	if upd.Weight != nil {
		order.Weight = *upd.Weight
	}
	if upd.Volume != nil {
		order.Volume = *upd.Volume
	}
	if upd.PaymentMethod != nil {
		order.PaymentMethod = models.PaymentMethod(*upd.PaymentMethod)
	}
	if upd.CurrentPhysicalLocation != nil {
		order.CurrentPhysicalLocation = *upd.CurrentPhysicalLocation
	}
	if upd.CustomerLocation != nil {
		order.CustomerLocation = *upd.CustomerLocation
	}
	if upd.DriverLocation != nil {
		order.DriverLocation = *upd.DriverLocation
	}

	written, err := s.store.Upsert(ctx, *order)
	if err != nil {
		s.log.WithError(err).Error("order update failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	s.cache.Invalidate(ctx, code)
	c.JSON(http.StatusOK, written)
}

// adminDeleteOrder removes the order with the given code. The store keys
// deletes by id, so the code is resolved first.
func (s *Server) adminDeleteOrder(c *gin.Context) {
	ctx := c.Request.Context()
	code := models.NormalizeCode(c.Param("code"))

	order, err := s.store.FetchByCode(ctx, code)
	switch {
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		s.log.WithError(err).Error("order delete lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	if err := s.store.Delete(ctx, order.ID); err != nil {
		s.log.WithError(err).Error("order delete failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	s.sim.Stop(code)
	s.cache.Invalidate(ctx, code)
	c.Status(http.StatusNoContent)
}

// generateOrderCode mints a human-facing tracking code. Millisecond time is
// unique enough for a single intake console.
func generateOrderCode() string {
	return fmt.Sprintf("LY-%d", time.Now().UnixMilli())
}
