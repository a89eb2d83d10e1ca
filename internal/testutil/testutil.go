// Package testutil holds shared helpers for package tests.
package testutil

import (
	"database/sql"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/db"
	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/internal/storestub"
	"parcelTrackingManagement/repository"
)

var dbSeq atomic.Int64

// OpenInMemoryDB opens a fresh migrated in-memory sqlite database. Each call
// gets its own shared-cache name so parallel tests stay isolated.
func OpenInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	d, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// StubStore bundles a running PostgREST stub with a client wired to it and
// direct repository handles for seeding.
type StubStore struct {
	URL           string
	Client        *store.Client
	Orders        *repository.OrderRepository
	Notifications *repository.NotificationRepository
	Log           *logrus.Logger
}

// StartStubStore spins up the PostgREST stub over a fresh in-memory database
// and returns a store client pointed at it.
func StartStubStore(t *testing.T, apiKey string) *StubStore {
	t.Helper()
	d := OpenInMemoryDB(t)
	orders := repository.NewOrderRepository(d)
	notifications := repository.NewNotificationRepository(d)

	log := logrus.New()
	log.SetOutput(testWriter{t})

	srv := httptest.NewServer(storestub.New(orders, notifications, apiKey, log).Router())
	t.Cleanup(srv.Close)

	return &StubStore{
		URL:           srv.URL,
		Client:        store.New(srv.URL, apiKey, log),
		Orders:        orders,
		Notifications: notifications,
		Log:           log,
	}
}

// GenerateJWTHS256 mints a signed token for handler tests.
func GenerateJWTHS256(t *testing.T, secret, name, kind string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"name": name,
		"kind": kind,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}
