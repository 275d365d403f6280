package form

import (
	"github.com/raksh/borewell-capture/schema"
)

// Draft is the in-progress, user-editable registration. Numbers are kept as
// typed text until submission.
type Draft struct {
	Latitude     string         `json:"latitude"`
	Longitude    string         `json:"longitude"`
	OwnerName    string         `json:"owner_name"`
	Village      string         `json:"village"`
	Block        string         `json:"block"`
	District     string         `json:"district"`
	Purpose      schema.Purpose `json:"purpose"`
	LandParcelID string         `json:"land_parcel_id"`

	HasBeenDrilled bool           `json:"has_been_drilled"`
	ActualDepth    string         `json:"actual_depth_m"`
	ActualOutcome  schema.Outcome `json:"actual_outcome"`
}

func NewDraft() Draft {
	return Draft{
		Purpose:       schema.PurposeIrrigation,
		ActualOutcome: schema.OutcomeSuccess,
	}
}

// DraftPatch carries field edits. Nil fields are left untouched.
type DraftPatch struct {
	Latitude     *string         `json:"latitude"`
	Longitude    *string         `json:"longitude"`
	OwnerName    *string         `json:"owner_name"`
	Village      *string         `json:"village"`
	Block        *string         `json:"block"`
	District     *string         `json:"district"`
	Purpose      *schema.Purpose `json:"purpose"`
	LandParcelID *string         `json:"land_parcel_id"`

	HasBeenDrilled *bool           `json:"has_been_drilled"`
	ActualDepth    *string         `json:"actual_depth_m"`
	ActualOutcome  *schema.Outcome `json:"actual_outcome"`
}

func (p DraftPatch) apply(d *Draft) {
	setString(&d.Latitude, p.Latitude)
	setString(&d.Longitude, p.Longitude)
	setString(&d.OwnerName, p.OwnerName)
	setString(&d.Village, p.Village)
	setString(&d.Block, p.Block)
	setString(&d.District, p.District)
	setString(&d.LandParcelID, p.LandParcelID)
	setString(&d.ActualDepth, p.ActualDepth)

	if p.Purpose != nil {
		d.Purpose = *p.Purpose
	}
	if p.HasBeenDrilled != nil {
		d.HasBeenDrilled = *p.HasBeenDrilled
	}
	if p.ActualOutcome != nil {
		d.ActualOutcome = *p.ActualOutcome
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
