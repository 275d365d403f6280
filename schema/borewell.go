package schema

import (
	"encoding/json"
	"fmt"
)

var (
	ErrInvalidPurpose = fmt.Errorf("invalid borewell purpose")
	ErrInvalidOutcome = fmt.Errorf("invalid drilling outcome")
)

// Purpose is the primary use of a borewell.
type Purpose string

const (
	PurposeIrrigation Purpose = "irrigation"
	PurposeDrinking   Purpose = "drinking"
	PurposeDomestic   Purpose = "domestic"
	PurposeIndustrial Purpose = "industrial"
	PurposeOther      Purpose = "other"
)

// Purposes lists every accepted purpose in display order.
var Purposes = []Purpose{
	PurposeIrrigation,
	PurposeDrinking,
	PurposeDomestic,
	PurposeIndustrial,
	PurposeOther,
}

// ParsePurpose returns the purpose named by s or ErrInvalidPurpose.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range Purposes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPurpose, s)
}

func (p *Purpose) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v, err := ParsePurpose(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Outcome is the observed result of drilling a borewell.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeLowYield Outcome = "low_yield"
	OutcomeFailed   Outcome = "failed"
)

var Outcomes = []Outcome{
	OutcomeSuccess,
	OutcomeLowYield,
	OutcomeFailed,
}

// ParseOutcome returns the outcome named by s or ErrInvalidOutcome.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// RegistrationPayload is the body of POST /borewells/.
type RegistrationPayload struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	OwnerName      string   `json:"owner_name"`
	Village        string   `json:"village"`
	Block          string   `json:"block"`
	District       string   `json:"district"`
	Purpose        Purpose  `json:"purpose"`
	LandParcelID   *string  `json:"land_parcel_id"`
	HasBeenDrilled bool     `json:"has_been_drilled"`
	ActualDepthM   *float64 `json:"actual_depth_m"`
	ActualOutcome  *Outcome `json:"actual_outcome"`
}

// RegistrationResult is the registry's snapshot of a saved borewell.
type RegistrationResult struct {
	ID                int64    `json:"id"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	PredictedFeasible *bool    `json:"predicted_feasible"`
	PredictedDepthM   *float64 `json:"predicted_depth_m"`
	ModelVersion      *string  `json:"model_version"`
	ActualFeasible    *bool    `json:"actual_feasible,omitempty"`
	ActualDepthM      *float64 `json:"actual_depth_m,omitempty"`
}
