package schema

import "time"

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AddressComponent
}

// AddressComponent holds the administrative names of a point.
type AddressComponent struct {
	Country  string `json:"country,omitempty" bson:"country"`
	State    string `json:"state,omitempty" bson:"state"`
	District string `json:"district,omitempty" bson:"district"`
	Block    string `json:"block,omitempty" bson:"block"`
	Village  string `json:"village,omitempty" bson:"village"`
	Address  string `json:"address,omitempty" bson:"-"`
}

// Fix is a single reading from a geolocation capability.
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// PositionOptions tunes a current-position request.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	// MaximumAge is the oldest cached reading a locator may return. Zero demands a fresh one.
	MaximumAge time.Duration
}

// GeolocationState is the probe's view of the device position. It is
// replaced as a whole on every change.
type GeolocationState struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Error     string   `json:"error,omitempty"`
	Loading   bool     `json:"loading"`
}

// HasCoordinates reports whether both coordinates are known.
func (g GeolocationState) HasCoordinates() bool {
	return g.Latitude != nil && g.Longitude != nil
}
