package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"github.com/raksh/borewell-capture/schema"
)

const locatorLogPrefix = "locator"

var (
	ErrNotSupported        = fmt.Errorf("geolocation is not supported")
	ErrPermissionDenied    = fmt.Errorf("permission to read location denied")
	ErrPositionUnavailable = fmt.Errorf("position unavailable")
	ErrTimeout             = fmt.Errorf("timeout expired while reading location")
)

// Locator - a device geolocation capability
type Locator interface {
	// Supported returns ErrNotSupported when the capability is absent.
	Supported() error
	CurrentPosition(context.Context, schema.PositionOptions) (schema.Fix, error)
}

// Unsupported is a Locator for platforms without any geolocation capability.
var Unsupported Locator = unsupported{}

type unsupported struct{}

func (unsupported) Supported() error {
	return ErrNotSupported
}

func (unsupported) CurrentPosition(context.Context, schema.PositionOptions) (schema.Fix, error) {
	return schema.Fix{}, ErrNotSupported
}

// StaticLocator always reports the same configured reading.
type StaticLocator struct {
	fix schema.Fix
}

func NewStaticLocator(latitude, longitude, accuracy float64) *StaticLocator {
	return &StaticLocator{
		fix: schema.Fix{
			Latitude:  latitude,
			Longitude: longitude,
			Accuracy:  accuracy,
		},
	}
}

func (s *StaticLocator) Supported() error {
	return nil
}

func (s *StaticLocator) CurrentPosition(ctx context.Context, _ schema.PositionOptions) (schema.Fix, error) {
	if err := ctx.Err(); err != nil {
		return schema.Fix{}, err
	}

	fix := s.fix
	fix.Timestamp = time.Now().UTC()
	return fix, nil
}

// GoogleLocator reads the position from the Google Geolocation API.
type GoogleLocator struct {
	client *maps.Client
}

func NewGoogleLocator(client *maps.Client) *GoogleLocator {
	return &GoogleLocator{
		client: client,
	}
}

func (g *GoogleLocator) Supported() error {
	if g.client == nil {
		return ErrNotSupported
	}
	return nil
}

// CurrentPosition asks the Geolocation API for a fresh fix. The API never
// serves cached readings, so MaximumAge is always satisfied.
func (g *GoogleLocator) CurrentPosition(ctx context.Context, opts schema.PositionOptions) (schema.Fix, error) {
	if err := g.Supported(); err != nil {
		return schema.Fix{}, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	r, err := g.client.Geolocate(ctx, &maps.GeolocationRequest{
		ConsiderIP: true,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return schema.Fix{}, ErrTimeout
		}

		log.WithFields(log.Fields{
			"prefix": locatorLogPrefix,
			"error":  err,
		}).Warn("geolocate")
		return schema.Fix{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, err)
	}

	return schema.Fix{
		Latitude:  r.Location.Lat,
		Longitude: r.Location.Lng,
		Accuracy:  r.Accuracy,
		Timestamp: time.Now().UTC(),
	}, nil
}

// LocatorConfig selects and configures a Locator.
type LocatorConfig struct {
	// Provider is one of google, static or none.
	Provider     string
	GoogleAPIKey string

	Latitude  float64
	Longitude float64
	Accuracy  float64
}

func NewLocator(cfg LocatorConfig) (Locator, error) {
	switch cfg.Provider {
	case "google":
		client, err := maps.NewClient(maps.WithAPIKey(cfg.GoogleAPIKey))
		if err != nil {
			return nil, err
		}
		return NewGoogleLocator(client), nil
	case "static":
		return NewStaticLocator(cfg.Latitude, cfg.Longitude, cfg.Accuracy), nil
	case "none", "":
		return Unsupported, nil
	default:
		return nil, fmt.Errorf("unknown locator provider: %s", cfg.Provider)
	}
}
