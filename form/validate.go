package form

import (
	"math"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/raksh/borewell-capture/schema"
	"github.com/raksh/borewell-capture/utils"
)

// ValidationError is the first field constraint a draft fails.
type ValidationError struct {
	Field   string
	Message *i18n.Message
}

func (e *ValidationError) Error() string {
	return e.Message.Other
}

func invalid(field string, msg *i18n.Message) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Validate checks the draft in a fixed order and reports the first failure.
func Validate(d Draft) error {
	_, err := d.Payload()
	return err
}

// Payload validates the draft and builds the registry request from it.
func (d Draft) Payload() (schema.RegistrationPayload, error) {
	lat, latOK := utils.ParseFloat(d.Latitude)
	lng, lngOK := utils.ParseFloat(d.Longitude)
	if !latOK || !lngOK {
		return schema.RegistrationPayload{}, invalid("latitude", msgInvalidCoordinates)
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return schema.RegistrationPayload{}, invalid("latitude", msgCoordinatesOutOfRange)
	}

	required := []struct {
		field string
		value string
		msg   *i18n.Message
	}{
		{"owner_name", d.OwnerName, msgOwnerRequired},
		{"village", d.Village, msgVillageRequired},
		{"block", d.Block, msgBlockRequired},
		{"district", d.District, msgDistrictRequired},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return schema.RegistrationPayload{}, invalid(r.field, r.msg)
		}
	}

	var depth float64
	if d.HasBeenDrilled {
		var ok bool
		depth, ok = utils.ParseFloat(d.ActualDepth)
		if !ok || math.IsInf(depth, 0) || depth <= 0 {
			return schema.RegistrationPayload{}, invalid("actual_depth_m", msgInvalidDepth)
		}
	}

	payload := schema.RegistrationPayload{
		Latitude:       lat,
		Longitude:      lng,
		OwnerName:      strings.TrimSpace(d.OwnerName),
		Village:        strings.TrimSpace(d.Village),
		Block:          strings.TrimSpace(d.Block),
		District:       strings.TrimSpace(d.District),
		Purpose:        d.Purpose,
		HasBeenDrilled: d.HasBeenDrilled,
	}

	if parcel := strings.TrimSpace(d.LandParcelID); parcel != "" {
		payload.LandParcelID = &parcel
	}

	if d.HasBeenDrilled {
		outcome := d.ActualOutcome
		payload.ActualDepthM = &depth
		payload.ActualOutcome = &outcome
	}

	return payload, nil
}
