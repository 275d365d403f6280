package form

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raksh/borewell-capture/schema"
)

func validDraft() Draft {
	d := NewDraft()
	d.Latitude = "22.72"
	d.Longitude = "75.86"
	d.OwnerName = "Ramesh Patel"
	d.Village = "Rau"
	d.Block = "Indore"
	d.District = "Indore"
	return d
}

func messageOf(t *testing.T, err error) string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return verr.Message.Other
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, schema.PurposeIrrigation, d.Purpose)
	assert.Equal(t, schema.OutcomeSuccess, d.ActualOutcome)
	assert.False(t, d.HasBeenDrilled)
	assert.Empty(t, d.Latitude)
}

func TestValidateOrder(t *testing.T) {
	cases := []struct {
		name    string
		edit    func(*Draft)
		message string
	}{
		{"missing latitude", func(d *Draft) { d.Latitude = "" }, "Latitude and longitude must be valid numbers."},
		{"text longitude", func(d *Draft) { d.Longitude = "east" }, "Latitude and longitude must be valid numbers."},
		{"numbers beat names", func(d *Draft) { d.Latitude = "x"; d.OwnerName = "" }, "Latitude and longitude must be valid numbers."},
		{"latitude above range", func(d *Draft) { d.Latitude = "90.0001" }, "Latitude must be between -90 and 90, longitude between -180 and 180."},
		{"longitude below range", func(d *Draft) { d.Longitude = "-180.5" }, "Latitude must be between -90 and 90, longitude between -180 and 180."},
		{"infinite latitude", func(d *Draft) { d.Latitude = "Infinity" }, "Latitude must be between -90 and 90, longitude between -180 and 180."},
		{"blank owner", func(d *Draft) { d.OwnerName = "   " }, "Owner name is required."},
		{"owner beats village", func(d *Draft) { d.OwnerName = ""; d.Village = "" }, "Owner name is required."},
		{"blank village", func(d *Draft) { d.Village = "\t" }, "Village is required."},
		{"blank block", func(d *Draft) { d.Block = "" }, "Block is required."},
		{"blank district", func(d *Draft) { d.District = "" }, "District is required."},
		{"drilled without depth", func(d *Draft) { d.HasBeenDrilled = true }, "Please enter a valid actual depth (m) for drilled borewells."},
		{"drilled zero depth", func(d *Draft) { d.HasBeenDrilled = true; d.ActualDepth = "0" }, "Please enter a valid actual depth (m) for drilled borewells."},
		{"drilled negative depth", func(d *Draft) { d.HasBeenDrilled = true; d.ActualDepth = "-3" }, "Please enter a valid actual depth (m) for drilled borewells."},
		{"drilled text depth", func(d *Draft) { d.HasBeenDrilled = true; d.ActualDepth = "deep" }, "Please enter a valid actual depth (m) for drilled borewells."},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := validDraft()
			c.edit(&d)
			assert.Equal(t, c.message, messageOf(t, Validate(d)))
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	for _, coords := range [][2]string{{"90", "180"}, {"-90", "-180"}, {"0", "0"}} {
		d := validDraft()
		d.Latitude, d.Longitude = coords[0], coords[1]
		assert.NoError(t, Validate(d), coords)
	}
}

func TestValidateIgnoresDepthWhenNotDrilled(t *testing.T) {
	d := validDraft()
	d.ActualDepth = "not a number"
	assert.NoError(t, Validate(d))
}

func TestPayload(t *testing.T) {
	d := validDraft()
	d.OwnerName = "  Ramesh Patel "
	d.LandParcelID = "   "
	d.Purpose = schema.PurposeDrinking

	p, err := d.Payload()
	assert.NoError(t, err)
	assert.Equal(t, 22.72, p.Latitude)
	assert.Equal(t, 75.86, p.Longitude)
	assert.Equal(t, "Ramesh Patel", p.OwnerName)
	assert.Equal(t, schema.PurposeDrinking, p.Purpose)
	assert.Nil(t, p.LandParcelID)
	assert.False(t, p.HasBeenDrilled)
	assert.Nil(t, p.ActualDepthM)
	assert.Nil(t, p.ActualOutcome)
}

func TestPayloadDrilled(t *testing.T) {
	d := validDraft()
	d.LandParcelID = " MP-IND-0042 "
	d.HasBeenDrilled = true
	d.ActualDepth = "120.5 m"
	d.ActualOutcome = schema.OutcomeLowYield

	p, err := d.Payload()
	assert.NoError(t, err)
	assert.Equal(t, "MP-IND-0042", *p.LandParcelID)
	assert.True(t, p.HasBeenDrilled)
	assert.Equal(t, 120.5, *p.ActualDepthM)
	assert.Equal(t, schema.OutcomeLowYield, *p.ActualOutcome)
}

func TestPayloadLenientNumbers(t *testing.T) {
	d := validDraft()
	d.Latitude = " 22.72abc"
	d.Longitude = "75.86°E"

	p, err := d.Payload()
	assert.NoError(t, err)
	assert.Equal(t, 22.72, p.Latitude)
	assert.Equal(t, 75.86, p.Longitude)
}

func TestValidateCoordinateSweep(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for lng := -180.0; lng <= 180; lng += 15 {
			d := validDraft()
			d.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
			d.Longitude = strconv.FormatFloat(lng, 'f', -1, 64)
			assert.NoError(t, Validate(d), "%s,%s", d.Latitude, d.Longitude)
		}
	}
}

func TestValidateRangeBeatsMissingNames(t *testing.T) {
	for _, lat := range []string{"91", "-91", "1000"} {
		d := NewDraft()
		d.Latitude = lat
		d.Longitude = "0"
		assert.Equal(t, "Latitude must be between -90 and 90, longitude between -180 and 180.", messageOf(t, Validate(d)))
	}
}

func TestValidateDrilledDepth(t *testing.T) {
	d := validDraft()
	d.HasBeenDrilled = true
	d.ActualDepth = "120.5"
	assert.NoError(t, Validate(d))
}
