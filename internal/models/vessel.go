package models

import "time"

// Status is the lifecycle state of a vessel call.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Services are port services requested for the call.
type Services struct {
	FreshWater    bool `json:"freshWater"`
	Provisions    bool `json:"provisions"`
	WasteDisposal bool `json:"wasteDisposal"`
}

// Requests are marine services requested for the call.
type Requests struct {
	Pilotage bool `json:"pilotage"`
	Towage   bool `json:"towage"`
	Linesmen bool `json:"linesmen"`
}

// Vessel is one vessel call. Timestamps are stored and returned in UTC.
type Vessel struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	ETA                time.Time  `json:"eta"`
	ETB                *time.Time `json:"etb"`
	ETD                *time.Time `json:"etd"`
	Berth              string     `json:"berth,omitempty"`
	IMO                string     `json:"imo,omitempty"`
	Cargo              string     `json:"cargo,omitempty"`
	FreshWaterQuantity *float64   `json:"freshWaterQuantity,omitempty"`
	Services           Services   `json:"services"`
	Requests           Requests   `json:"requests"`
	Status             Status     `json:"status"`
	CreatedBy          string     `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy so stores can hand out records without sharing pointers.
func (v *Vessel) Clone() *Vessel {
	if v == nil {
		return nil
	}
	c := *v
	if v.ETB != nil {
		t := *v.ETB
		c.ETB = &t
	}
	if v.ETD != nil {
		t := *v.ETD
		c.ETD = &t
	}
	if v.FreshWaterQuantity != nil {
		q := *v.FreshWaterQuantity
		c.FreshWaterQuantity = &q
	}
	return &c
}

// VesselInput is the body of a create request. Timestamps stay as strings
// until validation so that parse errors can be reported per field.
type VesselInput struct {
	Name               string   `json:"name"`
	ETA                string   `json:"eta"`
	ETB                string   `json:"etb,omitempty"`
	ETD                string   `json:"etd,omitempty"`
	Berth              string   `json:"berth,omitempty"`
	IMO                string   `json:"imo,omitempty"`
	Cargo              string   `json:"cargo,omitempty"`
	FreshWaterQuantity *float64 `json:"freshWaterQuantity,omitempty"`
	Services           Services `json:"services"`
	Requests           Requests `json:"requests"`
	Status             string   `json:"status,omitempty"`
}

// ServicesPatch updates individual service flags; nil leaves a flag as is.
type ServicesPatch struct {
	FreshWater    *bool `json:"freshWater,omitempty"`
	Provisions    *bool `json:"provisions,omitempty"`
	WasteDisposal *bool `json:"wasteDisposal,omitempty"`
}

// RequestsPatch updates individual request flags; nil leaves a flag as is.
type RequestsPatch struct {
	Pilotage *bool `json:"pilotage,omitempty"`
	Towage   *bool `json:"towage,omitempty"`
	Linesmen *bool `json:"linesmen,omitempty"`
}

// VesselPatch is the body of an update request. Only present fields are merged;
// an explicit null clears optional fields (etb, etd, berth...).
type VesselPatch struct {
	Name               Field[string]  `json:"name,omitzero"`
	ETA                Field[string]  `json:"eta,omitzero"`
	ETB                Field[string]  `json:"etb,omitzero"`
	ETD                Field[string]  `json:"etd,omitzero"`
	Berth              Field[string]  `json:"berth,omitzero"`
	IMO                Field[string]  `json:"imo,omitzero"`
	Cargo              Field[string]  `json:"cargo,omitzero"`
	FreshWaterQuantity Field[float64] `json:"freshWaterQuantity,omitzero"`
	Status             Field[string]  `json:"status,omitzero"`
	Services           *ServicesPatch `json:"services,omitempty"`
	Requests           *RequestsPatch `json:"requests,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p *VesselPatch) Empty() bool {
	return !p.Name.Set && !p.ETA.Set && !p.ETB.Set && !p.ETD.Set &&
		!p.Berth.Set && !p.IMO.Set && !p.Cargo.Set && !p.FreshWaterQuantity.Set &&
		!p.Status.Set && p.Services == nil && p.Requests == nil
}
