package form

import "github.com/nicksnyder/go-i18n/v2/i18n"

var (
	msgInvalidCoordinates = &i18n.Message{
		ID:    "form.invalid_coordinates",
		Other: "Latitude and longitude must be valid numbers.",
	}
	msgCoordinatesOutOfRange = &i18n.Message{
		ID:    "form.coordinates_out_of_range",
		Other: "Latitude must be between -90 and 90, longitude between -180 and 180.",
	}
	msgOwnerRequired = &i18n.Message{
		ID:    "form.owner_required",
		Other: "Owner name is required.",
	}
	msgVillageRequired = &i18n.Message{
		ID:    "form.village_required",
		Other: "Village is required.",
	}
	msgBlockRequired = &i18n.Message{
		ID:    "form.block_required",
		Other: "Block is required.",
	}
	msgDistrictRequired = &i18n.Message{
		ID:    "form.district_required",
		Other: "District is required.",
	}
	msgInvalidDepth = &i18n.Message{
		ID:    "form.invalid_depth",
		Other: "Please enter a valid actual depth (m) for drilled borewells.",
	}
	msgRegistrationFailed = &i18n.Message{
		ID:    "form.registration_failed",
		Other: "Registration failed. Please try again.",
	}
	msgDetectingLocation = &i18n.Message{
		ID:    "form.detecting_location",
		Other: "Trying to detect device location. Please allow location access.",
	}
)

// Messages are the English defaults of every user-facing form message.
var Messages = []*i18n.Message{
	msgInvalidCoordinates,
	msgCoordinatesOutOfRange,
	msgOwnerRequired,
	msgVillageRequired,
	msgBlockRequired,
	msgDistrictRequired,
	msgInvalidDepth,
	msgRegistrationFailed,
	msgDetectingLocation,
}
