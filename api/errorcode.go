package api

import (
	"github.com/raksh/borewell-capture/form"
	"github.com/raksh/borewell-capture/geo"
	"github.com/raksh/borewell-capture/store"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",
		1012: "invalid geo-position value",

		1100: store.ErrDraftNotFound.Error(),
		1101: "invalid registration draft",
		1102: form.ErrSubmitting.Error(),
		1103: "registration failed",

		1200: "unknown device location",
		1201: geo.ErrNoGeoInfoFound.Error(),
		1202: "suggestions are not available",
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorInvalidGeoPosition = errorJSON(1012)

	errorDraftNotFound      = errorJSON(1100)
	errorInvalidDraft       = errorJSON(1101)
	errorSubmitting         = errorJSON(1102)
	errorRegistrationFailed = errorJSON(1103)

	errorUnknownLocation        = errorJSON(1200)
	errorNoSuggestion           = errorJSON(1201)
	errorSuggestionsUnavailable = errorJSON(1202)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
