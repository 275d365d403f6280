package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePurpose(t *testing.T) {
	for _, p := range Purposes {
		actual, err := ParsePurpose(string(p))
		assert.NoError(t, err)
		assert.Equal(t, p, actual)
	}

	_, err := ParsePurpose("mining")
	assert.True(t, errors.Is(err, ErrInvalidPurpose))

	_, err = ParsePurpose("")
	assert.True(t, errors.Is(err, ErrInvalidPurpose))
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("low_yield")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeLowYield, o)

	_, err = ParseOutcome("LOW_YIELD")
	assert.True(t, errors.Is(err, ErrInvalidOutcome))
}

func TestUnmarshalRejectsUnknownEnumValues(t *testing.T) {
	var p RegistrationPayload
	err := json.Unmarshal([]byte(`{"purpose":"swimming"}`), &p)
	assert.True(t, errors.Is(err, ErrInvalidPurpose))

	err = json.Unmarshal([]byte(`{"purpose":"drinking","actual_outcome":"dry"}`), &p)
	assert.True(t, errors.Is(err, ErrInvalidOutcome))

	err = json.Unmarshal([]byte(`{"purpose":"drinking","actual_outcome":"failed"}`), &p)
	assert.NoError(t, err)
	assert.Equal(t, PurposeDrinking, p.Purpose)
	assert.Equal(t, OutcomeFailed, *p.ActualOutcome)
}

func TestPayloadEncodesAbsentFieldsAsNull(t *testing.T) {
	p := RegistrationPayload{
		Latitude:  22.72,
		Longitude: 75.86,
		OwnerName: "Ramesh",
		Village:   "Rau",
		Block:     "Indore",
		District:  "Indore",
		Purpose:   PurposeIrrigation,
	}

	b, err := json.Marshal(p)
	assert.NoError(t, err)

	var m map[string]interface{}
	assert.NoError(t, json.Unmarshal(b, &m))
	assert.Len(t, m, 11)
	assert.Nil(t, m["land_parcel_id"])
	assert.Nil(t, m["actual_depth_m"])
	assert.Nil(t, m["actual_outcome"])
	assert.Equal(t, false, m["has_been_drilled"])
	assert.Equal(t, "irrigation", m["purpose"])
}

func TestGeolocationStateHasCoordinates(t *testing.T) {
	lat, lng := 1.0, 2.0
	assert.False(t, GeolocationState{}.HasCoordinates())
	assert.False(t, GeolocationState{Latitude: &lat}.HasCoordinates())
	assert.True(t, GeolocationState{Latitude: &lat, Longitude: &lng}.HasCoordinates())
}
