package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"parcelTrackingManagement/internal/stages"
	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/models"
)

// stageView is one lifecycle stage as the tracking page renders it.
type stageView struct {
	Stage models.OrderStatus `json:"stage"`
	State stages.State       `json:"state"`
	Label string             `json:"label"`
}

// trackView is the public shape of one tracked shipment.
type trackView struct {
	Order       models.Order `json:"order"`
	Stages      []stageView  `json:"stages"`
	StatusLabel string       `json:"statusLabel"`
}

var notFoundMessages = map[string]string{
	"en": "No shipment was found for this tracking code. Check the code and try again.",
	"ar": "لم يتم العثور على شحنة بهذا الرقم. تأكد من الرقم وحاول مرة أخرى.",
}

// trackOrder is the public lookup: GET /api/track/:code?lang=ar|en.
func (s *Server) trackOrder(c *gin.Context) {
	ctx := c.Request.Context()
	code := models.NormalizeCode(c.Param("code"))
	lang := c.DefaultQuery("lang", "en")
	if lang != "ar" {
		lang = "en"
	}

	order, hit := s.cache.Get(ctx, code)
	if !hit {
		var err error
		order, err = s.store.FetchByCode(ctx, code)
		switch {
		case store.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessages[lang]})
			return
		case err != nil:
			s.log.WithError(err).Error("tracking lookup failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tracking is temporarily unavailable"})
			return
		}
		s.cache.Put(ctx, order)
	}

	view, err := buildTrackView(*order, lang)
	if err != nil {
		// A status outside both stage vocabularies means the row predates
		// this build or the schema drifted; surface it as unavailable rather
		// than rendering a broken progress bar.
		s.log.WithField("status", order.Status).WithError(err).Error("unclassifiable order status")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tracking is temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func buildTrackView(o models.Order, lang string) (*trackView, error) {
	list, ok := stages.ListFor(o.Status)
	if !ok {
		return nil, fmt.Errorf("order status %q is in no stage list", o.Status)
	}
	classified, err := stages.Classify(o.Status, list)
	if err != nil {
		return nil, err
	}

	views := make([]stageView, len(classified))
	for i, st := range classified {
		views[i] = stageView{Stage: st.Stage, State: st.State, Label: stages.Label(st.Stage, lang)}
	}

	// Live positions are meaningful only while the driver is en route to the
	// customer; outside that window they are stale and withheld.
	if o.Status != models.StatusOutForDelivery {
		o.CustomerLocation = nil
		o.DriverLocation = nil
	}

	return &trackView{Order: o, Stages: views, StatusLabel: stages.Label(o.Status, lang)}, nil
}

// listNotifications is polled by the tracking page. A store failure here
// degrades to an empty list: notifications are decoration, not state.
func (s *Server) listNotifications(c *gin.Context) {
	notes, err := s.store.FetchNotifications(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Warn("notification fetch failed")
		notes = []models.AppNotification{}
	}
	if notes == nil {
		notes = []models.AppNotification{}
	}
	c.JSON(http.StatusOK, notes)
}
