package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/raksh/borewell-capture/schema"
)

const (
	probeLogPrefix = "probe"

	NotSupportedMessage = "Geolocation is not supported on this device."
	UnavailableMessage  = "Unable to get current location."
)

// DefaultPositionOptions prefers high accuracy, waits up to ten seconds and
// never accepts a cached reading.
var DefaultPositionOptions = schema.PositionOptions{
	EnableHighAccuracy: true,
	Timeout:            10 * time.Second,
	MaximumAge:         0,
}

// Probe requests the device position once and keeps the outcome.
type Probe struct {
	locator Locator
	options schema.PositionOptions
	metrics tally.Scope

	mu      sync.RWMutex
	state   schema.GeolocationState
	started bool

	updates chan schema.GeolocationState
}

type ProbeOption func(*Probe)

func WithPositionOptions(opts schema.PositionOptions) ProbeOption {
	return func(p *Probe) {
		p.options = opts
	}
}

func WithProbeMetrics(scope tally.Scope) ProbeOption {
	return func(p *Probe) {
		p.metrics = scope
	}
}

func NewProbe(locator Locator, opts ...ProbeOption) *Probe {
	p := &Probe{
		locator: locator,
		options: DefaultPositionOptions,
		metrics: tally.NoopScope,
		updates: make(chan schema.GeolocationState, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the latest snapshot.
func (p *Probe) State() schema.GeolocationState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Updates delivers the terminal state once, then closes. It closes without a
// value when the lifetime given to Start ends before the request resolves.
func (p *Probe) Updates() <-chan schema.GeolocationState {
	return p.updates
}

// Start issues the position request. ctx bounds the probe lifetime: a result
// arriving after ctx is done is dropped. Only the first call has any effect.
func (p *Probe) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true

	if p.locator == nil || p.locator.Supported() != nil {
		p.state = schema.GeolocationState{Error: NotSupportedMessage}
		p.mu.Unlock()

		log.WithField("prefix", probeLogPrefix).Info("geolocation is not supported")
		p.metrics.Counter("probe.error").Inc(1)
		p.updates <- schema.GeolocationState{Error: NotSupportedMessage}
		close(p.updates)
		return
	}

	p.state = schema.GeolocationState{Loading: true}
	p.mu.Unlock()

	go p.request(ctx)
}

func (p *Probe) request(ctx context.Context) {
	defer close(p.updates)

	reqCtx := ctx
	if p.options.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, p.options.Timeout)
		defer cancel()
	}

	fix, err := p.locator.CurrentPosition(reqCtx, p.options)

	if ctx.Err() != nil {
		log.WithField("prefix", probeLogPrefix).Debug("probe released before the position resolved")
		return
	}

	var next schema.GeolocationState
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = ErrTimeout
		}

		msg := err.Error()
		if msg == "" {
			msg = UnavailableMessage
		}
		next = schema.GeolocationState{Error: msg}

		log.WithFields(log.Fields{
			"prefix": probeLogPrefix,
			"error":  msg,
		}).Info("position request failed")
		p.metrics.Counter("probe.error").Inc(1)
	} else {
		lat, lng, accuracy := fix.Latitude, fix.Longitude, fix.Accuracy
		next = schema.GeolocationState{
			Latitude:  &lat,
			Longitude: &lng,
			Accuracy:  &accuracy,
		}

		log.WithFields(log.Fields{
			"prefix":   probeLogPrefix,
			"lat":      lat,
			"lng":      lng,
			"accuracy": accuracy,
		}).Debug("position resolved")
		p.metrics.Counter("probe.fix").Inc(1)
	}

	p.mu.Lock()
	p.state = next
	p.mu.Unlock()

	p.updates <- next
}
