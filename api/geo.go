package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raksh/borewell-capture/geo"
)

// parseGeoPosition reads a `lat;lng` or `lat;lng;accuracy` header value.
func parseGeoPosition(geoPosition string) (float64, float64, float64, error) {
	positions := strings.Split(geoPosition, ";")

	if len(positions) != 2 && len(positions) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid geo-position value")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(positions[0]), 64)
	if err != nil {
		return 0, 0, 0, err
	}

	long, err := strconv.ParseFloat(strings.TrimSpace(positions[1]), 64)
	if err != nil {
		return 0, 0, 0, err
	}

	if lat < -90 || lat > 90 || long < -180 || long > 180 {
		return 0, 0, 0, fmt.Errorf("geo-position out of range")
	}

	var accuracy float64
	if len(positions) == 3 {
		if accuracy, err = strconv.ParseFloat(strings.TrimSpace(positions[2]), 64); err != nil {
			return 0, 0, 0, err
		}
	}

	return lat, long, accuracy, nil
}

// draftLocator picks the locator for a new draft. A device that already knows
// its position sends it in the Geo-Position header; otherwise the server's
// own locator is used.
func (s *Server) draftLocator(geoPosition string) (geo.Locator, error) {
	if geoPosition == "" {
		return s.locator, nil
	}

	lat, long, accuracy, err := parseGeoPosition(geoPosition)
	if err != nil {
		return nil, err
	}
	return geo.NewStaticLocator(lat, long, accuracy), nil
}
