// Package sim drives the live delivery marker. Once a shipment goes out for
// delivery, a per-order loop repeatedly moves the driver position a fixed
// fraction of the remaining vector toward the customer and persists it, so a
// tracking viewer polling the store sees the marker approach. The movement is
// an exponential approach, not constant speed; a deliberate simplification.
package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"parcelTrackingManagement/internal/geo"
	"parcelTrackingManagement/internal/store"
	"parcelTrackingManagement/models"
)

// Store is the slice of the order store the simulator needs.
type Store interface {
	FetchByCode(ctx context.Context, code string) (*models.Order, error)
	Upsert(ctx context.Context, o models.Order) (*models.Order, error)
}

// Config tunes one simulator instance.
type Config struct {
	TickInterval     time.Duration
	StepFraction     float64 // fraction of the remaining vector per tick
	ArrivalThreshold float64 // planar distance in degrees considered arrived
	AutoComplete     bool    // arrival also marks the order Delivered
	BaseLat          float64 // origin for drivers and jitter base for synthesized destinations
	BaseLng          float64
	JitterAmplitude  float64
}

// DefaultConfig returns the production tuning: a 2s tick covering 5% of the
// remaining distance, arriving within roughly a city block of the customer.
func DefaultConfig() Config {
	return Config{
		TickInterval:     2 * time.Second,
		StepFraction:     0.05,
		ArrivalThreshold: 0.0001,
		AutoComplete:     false,
		BaseLat:          geo.TripoliLat,
		BaseLng:          geo.TripoliLng,
		JitterAmplitude:  0.01,
	}
}

// ErrAlreadyRunning is returned by Start when a delivery simulation is
// already active for the order's code.
var ErrAlreadyRunning = errors.New("sim: delivery already running for this order")

// Simulator owns the active delivery loops, at most one per tracking code.
type Simulator struct {
	store Store
	cfg   Config
	log   *logrus.Logger

	mu     sync.Mutex
	active map[string]context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Simulator.
func New(st Store, cfg Config, log *logrus.Logger) *Simulator {
	return &Simulator{
		store:  st,
		cfg:    cfg,
		log:    log,
		active: map[string]context.CancelFunc{},
	}
}

// Start begins simulating the delivery of order. If the order has no customer
// location one is synthesized once (base point plus bounded jitter) and
// persisted before the first tick, so the destination is stable for the
// lifetime of the delivery. The returned stop function cancels the loop and
// is safe to call more than once.
func (s *Simulator) Start(ctx context.Context, order models.Order) (func(), error) {
	code := models.NormalizeCode(order.OrderCode)
	if code == "" {
		return nil, errors.New("sim: order code is required")
	}
	order.OrderCode = code

	// Establish a stable destination and starting position up front. This
	// write must succeed; ticking toward a destination nobody recorded would
	// show the viewer a marker chasing nothing.
	changed := false
	if order.CustomerLocation == nil {
		lat, lng := geo.Jitter(s.cfg.BaseLat, s.cfg.BaseLng, s.cfg.JitterAmplitude)
		order.CustomerLocation = &models.Location{Lat: lat, Lng: lng}
		changed = true
	}
	if order.DriverLocation == nil {
		order.DriverLocation = &models.Location{Lat: s.cfg.BaseLat, Lng: s.cfg.BaseLng}
		changed = true
	}
	if changed {
		persisted, err := s.store.Upsert(ctx, order)
		if err != nil {
			return nil, err
		}
		order = *persisted
	}

	s.mu.Lock()
	if _, ok := s.active[code]; ok {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.active[code] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(loopCtx, order)

	return func() { s.Stop(code) }, nil
}

// Stop cancels the active delivery loop for code, if any.
func (s *Simulator) Stop(code string) bool {
	code = models.NormalizeCode(code)
	s.mu.Lock()
	cancel, ok := s.active[code]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Active reports whether a delivery loop is running for code.
func (s *Simulator) Active(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[models.NormalizeCode(code)]
	return ok
}

// StopAll cancels every active delivery loop. Used on shutdown.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	for _, cancel := range s.active {
		cancel()
	}
	s.mu.Unlock()
}

// Wait blocks until every loop has exited. Used on shutdown.
func (s *Simulator) Wait() {
	s.wg.Wait()
}

func (s *Simulator) clear(code string) {
	s.mu.Lock()
	if cancel, ok := s.active[code]; ok {
		cancel()
		delete(s.active, code)
	}
	s.mu.Unlock()
}

// run is the tick loop for one delivery. Ticks for the same delivery never
// overlap; each iteration re-reads the order so an external completion or
// deletion stops the loop instead of being overwritten.
func (s *Simulator) run(ctx context.Context, order models.Order) {
	defer s.wg.Done()
	defer s.clear(order.OrderCode)

	log := s.log.WithField("orderCode", order.OrderCode)
	pos := *order.DriverLocation
	dest := *order.CustomerLocation

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cur, err := s.store.FetchByCode(ctx, order.OrderCode)
		switch {
		case store.IsNotFound(err):
			log.Warn("order disappeared mid-delivery, stopping simulation")
			return
		case err != nil:
			// Transport failure is non-fatal: keep ticking from the last
			// known position rather than aborting the delivery.
			log.WithError(err).Warn("tick read failed")
			cur = &order
		default:
			order = *cur
		}

		if cur.Status != models.StatusOutForDelivery {
			log.WithField("status", cur.Status).Info("delivery completed externally, stopping simulation")
			return
		}
		if cur.DriverLocation != nil {
			pos = *cur.DriverLocation
		}
		if cur.CustomerLocation != nil {
			dest = *cur.CustomerLocation
		}

		lat, lng := geo.StepToward(pos.Lat, pos.Lng, dest.Lat, dest.Lng, s.cfg.StepFraction)
		pos = models.Location{Lat: lat, Lng: lng}
		order.DriverLocation = &pos

		arrived := geo.Planar(pos.Lat, pos.Lng, dest.Lat, dest.Lng) < s.cfg.ArrivalThreshold
		if arrived && s.cfg.AutoComplete {
			order.Status = models.StatusDelivered
			order.CurrentPhysicalLocation = "Delivered to customer"
			order.DriverLocation = nil
			order.CustomerLocation = nil
		}

		if _, err := s.store.Upsert(ctx, order); err != nil {
			// Best-effort position broadcast: a lost tick is invisible to the
			// viewer, the next one catches up.
			log.WithError(err).Warn("tick write failed")
		}

		if arrived {
			log.Info("driver reached customer location")
			return
		}
	}
}
