package storestub_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/internal/testutil"
)

func TestRequiresAPIKey(t *testing.T) {
	stub := testutil.StartStubStore(t, "secret-key")

	req, _ := http.NewRequest(http.MethodGet, stub.URL+"/rest/v1/orders", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without apikey, got %d", resp.StatusCode)
	}

	req.Header.Set("apikey", "secret-key")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with apikey, got %d", resp.StatusCode)
	}
}

func TestEqFilterReturnsArray(t *testing.T) {
	stub := testutil.StartStubStore(t, "k")
	ctx := context.Background()

	if _, err := stub.Orders.Insert(ctx, store.Row{OrderCode: "LY-1", CustomerName: "A"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	get := func(path string) []store.Row {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, stub.URL+path, nil)
		req.Header.Set("apikey", "k")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get %s: status %d", path, resp.StatusCode)
		}
		var rows []store.Row
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		return rows
	}

	// A match comes back as a one-element array, a miss as an empty array;
	// both with status 200. Absence is not an HTTP error in this dialect.
	if rows := get("/rest/v1/orders?order_code=eq.LY-1"); len(rows) != 1 || rows[0].CustomerName != "A" {
		t.Fatalf("unexpected match result: %+v", rows)
	}
	if rows := get("/rest/v1/orders?order_code=eq.LY-MISSING"); len(rows) != 0 {
		t.Fatalf("expected empty array for miss, got %+v", rows)
	}
}

func TestDeleteWithoutFilterRejected(t *testing.T) {
	stub := testutil.StartStubStore(t, "k")

	req, _ := http.NewRequest(http.MethodDelete, stub.URL+"/rest/v1/orders", nil)
	req.Header.Set("apikey", "k")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unfiltered delete, got %d", resp.StatusCode)
	}
}
