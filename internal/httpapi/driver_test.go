package httpapi_test

import (
	"net/http"
	"testing"
	"time"

	"parcelTrackingManagement/models"
)

func TestDriverLogin(t *testing.T) {
	h := newHarness(t)

	var resp map[string]string
	status := h.request(t, http.MethodPost, "/api/driver/login", "", map[string]string{"password": testPassword}, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp["kind"] != "driver" || resp["token"] == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestDriverRoutesRejectCustomerToken(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Order{OrderCode: "LY-300", Status: models.StatusProcessingLY})

	status := h.request(t, http.MethodPost, "/api/driver/deliveries/LY-300/start", h.token(t, "customer"), nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
}

func TestDriverRoutesAllowAdminToken(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Order{OrderCode: "LY-301", Status: models.StatusOutForDelivery,
		CustomerLocation: &models.Location{Lat: 32.9, Lng: 13.2},
		DriverLocation:   &models.Location{Lat: 32.8, Lng: 13.1},
	})

	status := h.request(t, http.MethodGet, "/api/driver/deliveries/LY-301", h.token(t, "admin"), nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected admins to reach the driver surface, got %d", status)
	}
}

func TestDriverStartDelivery(t *testing.T) {
	h := newHarness(t)
	tok := h.token(t, "driver")
	h.seed(t, models.Order{OrderCode: "LY-302", Status: models.StatusProcessingLY})

	status := h.request(t, http.MethodPost, "/api/driver/deliveries/ly-302/start", tok, nil, nil)
	if status != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", status)
	}

	got, err := h.stub.Client.FetchByCode(testContext(), "LY-302")
	if err != nil {
		t.Fatalf("fetch after start: %v", err)
	}
	if got.Status != models.StatusOutForDelivery {
		t.Fatalf("expected Out_for_Delivery, got %q", got.Status)
	}
	// Start synthesized and persisted both positions before the first tick.
	if got.CustomerLocation == nil || got.DriverLocation == nil {
		t.Fatalf("expected synthesized locations, got %+v", got)
	}
	if !h.sim.Active("LY-302") {
		t.Fatalf("expected an active delivery loop")
	}

	// Starting again while the loop runs is a conflict.
	if status := h.request(t, http.MethodPost, "/api/driver/deliveries/LY-302/start", tok, nil, nil); status != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate start, got %d", status)
	}
}

func TestDriverStartUnknownOrder(t *testing.T) {
	h := newHarness(t)

	status := h.request(t, http.MethodPost, "/api/driver/deliveries/LY-999/start", h.token(t, "driver"), nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestDriverStartDeliveredOrder(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Order{OrderCode: "LY-303", Status: models.StatusDelivered})

	status := h.request(t, http.MethodPost, "/api/driver/deliveries/LY-303/start", h.token(t, "driver"), nil, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for delivered order, got %d", status)
	}
}

func TestDriverCompleteDelivery(t *testing.T) {
	h := newHarness(t)
	tok := h.token(t, "driver")
	h.seed(t, models.Order{OrderCode: "LY-304", Status: models.StatusProcessingLY})

	if status := h.request(t, http.MethodPost, "/api/driver/deliveries/LY-304/start", tok, nil, nil); status != http.StatusAccepted {
		t.Fatalf("start: expected 202, got %d", status)
	}

	var completed models.Order
	if status := h.request(t, http.MethodPost, "/api/driver/deliveries/LY-304/complete", tok, nil, &completed); status != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", status)
	}
	if completed.Status != models.StatusDelivered {
		t.Fatalf("expected Delivered, got %q", completed.Status)
	}
	if completed.CustomerLocation != nil || completed.DriverLocation != nil {
		t.Fatalf("expected locations cleared, got %+v", completed)
	}

	// The loop observes the status change (or the cancel) and winds down.
	deadline := time.Now().Add(2 * time.Second)
	for h.sim.Active("LY-304") {
		if time.Now().After(deadline) {
			t.Fatalf("delivery loop still active after completion")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDriverDeliveryStatusETA(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Order{OrderCode: "LY-305", Status: models.StatusOutForDelivery,
		CustomerLocation: &models.Location{Lat: 32.95, Lng: 13.25},
		DriverLocation:   &models.Location{Lat: 32.8872, Lng: 13.1913},
	})

	var resp struct {
		Active         bool     `json:"active"`
		RemainingMiles *float64 `json:"remainingMiles"`
		EtaSeconds     *float64 `json:"etaSeconds"`
	}
	status := h.request(t, http.MethodGet, "/api/driver/deliveries/LY-305", h.token(t, "driver"), nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.Active {
		t.Fatalf("no loop was started for this order")
	}
	if resp.RemainingMiles == nil || *resp.RemainingMiles <= 0 {
		t.Fatalf("expected positive remaining distance, got %v", resp.RemainingMiles)
	}
	if resp.EtaSeconds == nil || *resp.EtaSeconds <= 0 {
		t.Fatalf("expected positive ETA, got %v", resp.EtaSeconds)
	}
}

func TestDriverDeliveryStatusWithoutLocations(t *testing.T) {
	h := newHarness(t)
	h.seed(t, models.Order{OrderCode: "LY-306", Status: models.StatusLibyaWarehouse})

	var resp struct {
		RemainingMiles *float64 `json:"remainingMiles"`
	}
	status := h.request(t, http.MethodGet, "/api/driver/deliveries/LY-306", h.token(t, "driver"), nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.RemainingMiles != nil {
		t.Fatalf("expected no distance without positions, got %v", *resp.RemainingMiles)
	}
}
