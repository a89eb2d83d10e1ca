package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/config"
	"parcelTrackingManagement/internal/httpapi"
	"parcelTrackingManagement/internal/sim"
	"parcelTrackingManagement/internal/testutil"
	"parcelTrackingManagement/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSecret   = "test-secret"
	testPassword = "console-password"
)

type harness struct {
	srv  *httptest.Server
	stub *testutil.StubStore
	sim  *sim.Simulator
	cfg  *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	stub := testutil.StartStubStore(t, "test-key")

	cfg := &config.Config{
		Role: config.RoleAll,
		Auth: config.AuthConfig{JWTSecret: testSecret, AdminPassword: testPassword},
	}

	simCfg := sim.DefaultConfig()
	simCfg.TickInterval = 50 * time.Millisecond
	simCfg.StepFraction = 0.5
	simulator := sim.New(stub.Client, simCfg, stub.Log)

	server := httpapi.NewServer(cfg, stub.Client, nil, simulator, stub.Log)
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	h := &harness{srv: srv, stub: stub, sim: simulator, cfg: cfg}
	// Delivery loops must be fully stopped before the stub goes away, or a
	// background tick logs through a finished test.
	t.Cleanup(func() {
		simulator.StopAll()
		simulator.Wait()
	})
	return h
}

func (h *harness) seed(t *testing.T, o models.Order) models.Order {
	t.Helper()
	written, err := h.stub.Client.Upsert(testContext(), o)
	if err != nil {
		t.Fatalf("seed order %s: %v", o.OrderCode, err)
	}
	return *written
}

func (h *harness) token(t *testing.T, kind string) string {
	t.Helper()
	return testutil.GenerateJWTHS256(t, testSecret, "tester", kind, time.Hour)
}

// request performs one HTTP call against the harness server and decodes the
// JSON response into out (when non-nil).
func (h *harness) request(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func testContext() context.Context {
	return context.Background()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
