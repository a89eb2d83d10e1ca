package store

import (
	"time"

	"parcelTrackingManagement/models"
)

// TimeFormat is RFC3339 UTC with a fixed-width nanosecond fraction. Unlike
// RFC3339Nano it never trims trailing zeros, so the lexicographic order of
// two stamps always equals their chronological order; the stub's
// ORDER BY updated_at sorts these as plain strings.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Row is the flat lower-snake-case shape of an order as it exists in the
// remote table. The in-memory model is camelCase; translation happens on
// every read and write. The store stub shares this type so client and stub
// can never drift apart on the wire schema.
type Row struct {
	ID              string   `json:"id,omitempty"`
	OrderCode       string   `json:"order_code"`
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
	CustomerAddress string   `json:"customer_address"`
	ProductName     string   `json:"product_name"`
	Quantity        int      `json:"quantity"`
	TotalPrice      float64  `json:"total_price"`
	Weight          string   `json:"weight"`
	Volume          string   `json:"volume"`
	PaymentMethod   string   `json:"payment_method"`
	Status          string   `json:"status"`
	CurrentLocation string   `json:"current_location"`
	CustomerLat     *float64 `json:"customer_lat,omitempty"`
	CustomerLng     *float64 `json:"customer_lng,omitempty"`
	DriverLat       *float64 `json:"driver_lat,omitempty"`
	DriverLng       *float64 `json:"driver_lng,omitempty"`
	UpdatedAt       string   `json:"updated_at"`
}

// RowFromOrder maps an order to its wire row, stamping updated_at with now.
// Zero-value descriptive fields get the same defaults the intake form applies:
// quantity 1, Cash_China, Pending_Inspection.
func RowFromOrder(o models.Order, now time.Time) Row {
	if o.Quantity <= 0 {
		o.Quantity = 1
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.PaymentCashChina
	}
	if o.Status == "" {
		o.Status = models.StatusPendingInspection
	}
	r := Row{
		ID:              o.ID,
		OrderCode:       models.NormalizeCode(o.OrderCode),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		TotalPrice:      o.TotalPrice,
		Weight:          o.Weight,
		Volume:          o.Volume,
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		CurrentLocation: o.CurrentPhysicalLocation,
		UpdatedAt:       now.UTC().Format(TimeFormat),
	}
	if o.CustomerLocation != nil {
		lat, lng := o.CustomerLocation.Lat, o.CustomerLocation.Lng
		r.CustomerLat, r.CustomerLng = &lat, &lng
	}
	if o.DriverLocation != nil {
		lat, lng := o.DriverLocation.Lat, o.DriverLocation.Lng
		r.DriverLat, r.DriverLng = &lat, &lng
	}
	return r
}

// Order maps a wire row back to the in-memory model.
func (r Row) Order() models.Order {
	o := models.Order{
		ID:                      r.ID,
		OrderCode:               r.OrderCode,
		CustomerName:            r.CustomerName,
		CustomerPhone:           r.CustomerPhone,
		CustomerAddress:         r.CustomerAddress,
		ProductName:             r.ProductName,
		Quantity:                r.Quantity,
		TotalPrice:              r.TotalPrice,
		Weight:                  r.Weight,
		Volume:                  r.Volume,
		PaymentMethod:           models.PaymentMethod(r.PaymentMethod),
		Status:                  models.OrderStatus(r.Status),
		CurrentPhysicalLocation: r.CurrentLocation,
	}
	if o.Quantity <= 0 {
		o.Quantity = 1
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.PaymentCashChina
	}
	if o.Status == "" {
		o.Status = models.StatusPendingInspection
	}
	if r.CustomerLat != nil && r.CustomerLng != nil {
		o.CustomerLocation = &models.Location{Lat: *r.CustomerLat, Lng: *r.CustomerLng}
	}
	if r.DriverLat != nil && r.DriverLng != nil {
		o.DriverLocation = &models.Location{Lat: *r.DriverLat, Lng: *r.DriverLng}
	}
	if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
		o.UpdatedAt = t
	}
	return o
}

// NotificationRow is the wire shape of a notification row.
type NotificationRow struct {
	ID        string `json:"id"`
	OrderCode string `json:"order_code"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
	IsRead    bool   `json:"is_read"`
}

// Notification maps a wire row to the in-memory model.
func (r NotificationRow) Notification() models.AppNotification {
	n := models.AppNotification{
		ID:        r.ID,
		OrderCode: r.OrderCode,
		Body:      r.Body,
		IsRead:    r.IsRead,
	}
	if t, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
		n.Timestamp = t
	}
	return n
}
