package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"

	"github.com/raksh/borewell-capture/schema"
)

func TestStaticLocator(t *testing.T) {
	l := NewStaticLocator(22.72, 75.86, 5)
	assert.NoError(t, l.Supported())

	fix, err := l.CurrentPosition(context.Background(), DefaultPositionOptions)
	assert.NoError(t, err)
	assert.Equal(t, 22.72, fix.Latitude)
	assert.Equal(t, 75.86, fix.Longitude)
	assert.Equal(t, float64(5), fix.Accuracy)
	assert.False(t, fix.Timestamp.IsZero())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.CurrentPosition(ctx, DefaultPositionOptions)
	assert.Error(t, err)
}

func TestUnsupportedLocator(t *testing.T) {
	assert.True(t, errors.Is(Unsupported.Supported(), ErrNotSupported))

	_, err := Unsupported.CurrentPosition(context.Background(), DefaultPositionOptions)
	assert.True(t, errors.Is(err, ErrNotSupported))
}

func TestGoogleLocatorWithoutClient(t *testing.T) {
	l := NewGoogleLocator(nil)
	assert.True(t, errors.Is(l.Supported(), ErrNotSupported))
}

func TestGoogleLocator(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/geolocation/v1/geolocate", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["considerIp"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"location":{"lat":22.72,"lng":75.86},"accuracy":15}`))
	}))
	defer ts.Close()

	client, err := maps.NewClient(maps.WithAPIKey("AIzaFakeKeyForTests"), maps.WithBaseURL(ts.URL))
	assert.NoError(t, err)

	l := NewGoogleLocator(client)
	fix, err := l.CurrentPosition(context.Background(), schema.PositionOptions{
		EnableHighAccuracy: true,
		Timeout:            time.Second,
	})
	assert.NoError(t, err)
	assert.Equal(t, 22.72, fix.Latitude)
	assert.Equal(t, 75.86, fix.Longitude)
	assert.Equal(t, float64(15), fix.Accuracy)
}

func TestGoogleLocatorTimeout(t *testing.T) {
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(done)

	client, err := maps.NewClient(maps.WithAPIKey("AIzaFakeKeyForTests"), maps.WithBaseURL(ts.URL))
	assert.NoError(t, err)

	l := NewGoogleLocator(client)
	_, err = l.CurrentPosition(context.Background(), schema.PositionOptions{Timeout: 20 * time.Millisecond})
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestNewLocator(t *testing.T) {
	l, err := NewLocator(LocatorConfig{Provider: "static", Latitude: 22.72, Longitude: 75.86, Accuracy: 3})
	assert.NoError(t, err)
	assert.IsType(t, &StaticLocator{}, l)

	l, err = NewLocator(LocatorConfig{Provider: "google", GoogleAPIKey: "AIzaFakeKeyForTests"})
	assert.NoError(t, err)
	assert.NoError(t, l.Supported())

	_, err = NewLocator(LocatorConfig{Provider: "google"})
	assert.Error(t, err, "a google locator needs an api key")

	for _, provider := range []string{"", "none"} {
		l, err = NewLocator(LocatorConfig{Provider: provider})
		assert.NoError(t, err)
		assert.Equal(t, Unsupported, l)
	}

	_, err = NewLocator(LocatorConfig{Provider: "gps"})
	assert.EqualError(t, err, "unknown locator provider: gps")
}
