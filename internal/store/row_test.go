package store

import (
	"testing"
	"time"

	"parcelTrackingManagement/models"
)

func TestRowRoundTrip(t *testing.T) {
	o := models.Order{
		ID:                      "abc-123",
		OrderCode:               "LY-4521",
		CustomerName:            "Ahmed",
		CustomerPhone:           "0910000000",
		CustomerAddress:         "Tripoli, Hay Alandalus",
		ProductName:             "Phone case",
		Quantity:                3,
		TotalPrice:              45.5,
		Weight:                  "small",
		Volume:                  "box",
		PaymentMethod:           models.PaymentCreditCard,
		Status:                  models.StatusOutForDelivery,
		CurrentPhysicalLocation: "With the delivery agent",
		CustomerLocation:        &models.Location{Lat: 32.89, Lng: 13.19},
		DriverLocation:          &models.Location{Lat: 32.9, Lng: 13.2},
		UpdatedAt:               time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got := RowFromOrder(o, now).Order()

	// updatedAt is expected to advance to the stamp time.
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt = %v, want %v", got.UpdatedAt, now)
	}
	got.UpdatedAt = o.UpdatedAt
	if got.ID != o.ID || got.OrderCode != o.OrderCode || got.CustomerName != o.CustomerName ||
		got.CustomerPhone != o.CustomerPhone || got.CustomerAddress != o.CustomerAddress ||
		got.ProductName != o.ProductName || got.Quantity != o.Quantity || got.TotalPrice != o.TotalPrice ||
		got.Weight != o.Weight || got.Volume != o.Volume || got.PaymentMethod != o.PaymentMethod ||
		got.Status != o.Status || got.CurrentPhysicalLocation != o.CurrentPhysicalLocation {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, o)
	}
	if got.CustomerLocation == nil || *got.CustomerLocation != *o.CustomerLocation {
		t.Fatalf("customer location lost: %+v", got.CustomerLocation)
	}
	if got.DriverLocation == nil || *got.DriverLocation != *o.DriverLocation {
		t.Fatalf("driver location lost: %+v", got.DriverLocation)
	}
}

func TestRowFromOrder_Defaults(t *testing.T) {
	r := RowFromOrder(models.Order{OrderCode: " ly-9 "}, time.Now())
	if r.OrderCode != "LY-9" {
		t.Fatalf("code not normalized: %q", r.OrderCode)
	}
	if r.Quantity != 1 || r.PaymentMethod != string(models.PaymentCashChina) || r.Status != string(models.StatusPendingInspection) {
		t.Fatalf("defaults not applied: %+v", r)
	}
	if r.CustomerLat != nil || r.DriverLat != nil {
		t.Fatal("absent locations must stay null on the wire")
	}
}

func TestTimeFormatStringOrderIsTimeOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// RFC3339Nano would render these as .1Z and .12Z, which sort backwards
	// as strings. The fixed-width format must not.
	earlier := RowFromOrder(models.Order{OrderCode: "LY-1"}, base.Add(100*time.Millisecond)).UpdatedAt
	later := RowFromOrder(models.Order{OrderCode: "LY-1"}, base.Add(120*time.Millisecond)).UpdatedAt
	if !(earlier < later) {
		t.Fatalf("stamp order inverted: %q !< %q", earlier, later)
	}

	// The stamp still parses back to the exact instant.
	got, err := time.Parse(time.RFC3339, later)
	if err != nil {
		t.Fatalf("parse stamp: %v", err)
	}
	if !got.Equal(base.Add(120 * time.Millisecond)) {
		t.Fatalf("stamp does not round-trip: %v", got)
	}
}

func TestRow_OrderOmitsPartialLocation(t *testing.T) {
	lat := 32.9
	r := Row{OrderCode: "LY-1", DriverLat: &lat} // lng missing
	if r.Order().DriverLocation != nil {
		t.Fatal("half a coordinate pair must not become a location")
	}
}
