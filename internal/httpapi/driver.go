package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parcelTrackingManagement/internal/geo"
	"parcelTrackingManagement/internal/sim"
	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/models"
)

// deliverySpeedMPH is the nominal urban courier speed used for ETA display.
const deliverySpeedMPH = 25.0

// driverLogin exchanges the shared password for a driver token.
func (s *Server) driverLogin(c *gin.Context) {
	s.login(c, "driver")
}

// driverStartDelivery marks the order out for delivery and launches its
// location loop. The loop is bound to the server lifetime, not this request.
func (s *Server) driverStartDelivery(c *gin.Context) {
	ctx := c.Request.Context()
	code := models.NormalizeCode(c.Param("code"))

	order, err := s.store.FetchByCode(ctx, code)
	switch {
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		s.log.WithError(err).Error("delivery start lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	if order.Status == models.StatusDelivered {
		c.JSON(http.StatusConflict, gin.H{"error": "order is already delivered"})
		return
	}

	if order.Status != models.StatusOutForDelivery {
		order.Status = models.StatusOutForDelivery
		order.CurrentPhysicalLocation = "Out for delivery"
		order, err = s.store.Upsert(ctx, *order)
		if err != nil {
			s.log.WithError(err).Error("delivery start write failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
			return
		}
		s.cache.Invalidate(ctx, code)
	}

	if _, err := s.sim.Start(s.baseCtx, *order); err != nil {
		if errors.Is(err, sim.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "delivery is already in progress"})
			return
		}
		s.log.WithError(err).Error("delivery simulation start failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"orderCode": code, "status": models.StatusOutForDelivery})
}

// driverCompleteDelivery stops the loop and marks the order delivered. The
// live positions are cleared; they mean nothing once the parcel is handed over.
func (s *Server) driverCompleteDelivery(c *gin.Context) {
	ctx := c.Request.Context()
	code := models.NormalizeCode(c.Param("code"))

	s.sim.Stop(code)

	order, err := s.store.FetchByCode(ctx, code)
	switch {
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		s.log.WithError(err).Error("delivery complete lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	order.Status = models.StatusDelivered
	order.CurrentPhysicalLocation = "Delivered to customer"
	order.CustomerLocation = nil
	order.DriverLocation = nil

	written, err := s.store.Upsert(ctx, *order)
	if err != nil {
		s.log.WithError(err).Error("delivery complete write failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	s.cache.Invalidate(ctx, code)
	c.JSON(http.StatusOK, written)
}

// deliveryStatus is the driver's view of one running (or finished) delivery.
type deliveryStatus struct {
	Order          models.Order `json:"order"`
	Active         bool         `json:"active"`
	RemainingMiles *float64     `json:"remainingMiles,omitempty"`
	EtaSeconds     *float64     `json:"etaSeconds,omitempty"`
}

// driverDeliveryStatus reports progress for one delivery, with remaining
// distance and a nominal-speed ETA when both positions are known.
func (s *Server) driverDeliveryStatus(c *gin.Context) {
	ctx := c.Request.Context()
	code := models.NormalizeCode(c.Param("code"))

	order, err := s.store.FetchByCode(ctx, code)
	switch {
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		s.log.WithError(err).Error("delivery status lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	out := deliveryStatus{Order: *order, Active: s.sim.Active(code)}
	if order.DriverLocation != nil && order.CustomerLocation != nil {
		miles := geo.HaversineMiles(
			order.DriverLocation.Lat, order.DriverLocation.Lng,
			order.CustomerLocation.Lat, order.CustomerLocation.Lng,
		)
		eta := geo.ETASeconds(miles, deliverySpeedMPH)
		out.RemainingMiles = &miles
		out.EtaSeconds = &eta
	}
	c.JSON(http.StatusOK, out)
}
