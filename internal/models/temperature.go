package models

import (
	"encoding/json"
	"time"
)

// Slot keys for the two independent temperature checks of a day. These are
// document key literals and must not change.
const (
	SlotLog1 = "log1"
	SlotLog2 = "log2"
)

func Slots() []string { return []string{SlotLog1, SlotLog2} }

func ValidSlot(slot string) bool {
	return slot == SlotLog1 || slot == SlotLog2
}

// EquipmentReading is one equipment entry of a check document. Label, min and
// max are stored redundantly with every reading so readers never re-join the
// store's equipment configuration.
type EquipmentReading struct {
	Label      string   `json:"label"`
	Temp       *float64 `json:"temp"`
	Unit       string   `json:"unit"`
	Note       string   `json:"note,omitempty"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	OutOfRange bool     `json:"outOfRange"`
}

// UnmarshalJSON tolerates the historical field-name variants found in stored
// documents (tempC/value/temperature, minC/minTemp/low, maxC/maxTemp/high,
// name/title/equipmentLabel). Canonical writes only ever use the struct tags
// above; the aliases exist at the read boundary only.
func (r *EquipmentReading) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Label = pickString(raw, "label", "name", "title", "equipmentLabel")
	r.Unit = pickString(raw, "unit")
	r.Note = pickString(raw, "note")
	r.Temp = pickFloat(raw, "temp", "tempC", "value", "temperature", "celsius")
	r.Min = pickFloat(raw, "min", "minC", "minTemp", "low")
	r.Max = pickFloat(raw, "max", "maxC", "maxTemp", "high")

	if v, ok := raw["outOfRange"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			r.OutOfRange = b
			return nil
		}
	}

	// Flag missing in legacy documents: derive it from the reading itself.
	if r.Temp != nil {
		if r.Min != nil && *r.Temp < *r.Min {
			r.OutOfRange = true
		}
		if r.Max != nil && *r.Temp > *r.Max {
			r.OutOfRange = true
		}
	}
	return nil
}

func pickString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && s != "" {
				return s
			}
		}
	}
	return ""
}

func pickFloat(raw map[string]json.RawMessage, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := raw[k]
		// An explicit JSON null unmarshals into a zero float without error,
		// which would turn an absent reading into 0.0.
		if !ok || string(v) == "null" {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			return &f
		}
	}
	return nil
}

// TemperatureCheck is one authored slot document ("log1" or "log2") under a
// day. Slot documents are the only source of truth for readings.
type TemperatureCheck struct {
	StoreID       string                      `json:"store_id" db:"store_id"`
	SubmittedDate string                      `json:"submitted_date" db:"submitted_date"`
	Slot          string                      `json:"slot" db:"slot"`
	CheckAt       time.Time                   `json:"check_at" db:"check_at"`
	CreatedByID   string                      `json:"created_by_id" db:"created_by_id"`
	CreatedByName string                      `json:"created_by_name" db:"created_by_name"`
	UpdatedAt     time.Time                   `json:"updated_at" db:"updated_at"`
	UpdatedByName string                      `json:"updated_by_name" db:"updated_by_name"`
	Equipment     map[string]EquipmentReading `json:"equipment" db:"equipment"`
	HasOutOfRange bool                        `json:"has_out_of_range" db:"has_out_of_range"`
}

// TemperatureDay is the derived per-day summary, always recomputed from the
// slot documents and never authored directly.
type TemperatureDay struct {
	StoreID          string     `json:"store_id" db:"store_id"`
	SubmittedDate    string     `json:"submitted_date" db:"submitted_date"`
	CheckCount       int        `json:"check_count" db:"check_count"`
	HasOutOfRange    bool       `json:"has_out_of_range" db:"has_out_of_range"`
	LastCheckAt      *time.Time `json:"last_check_at" db:"last_check_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedByName    string     `json:"updated_by_name" db:"updated_by_name"`
	IsReadByAdmin    bool       `json:"is_read_by_admin" db:"is_read_by_admin"`
	NeedsAdminReview bool       `json:"needs_admin_review" db:"needs_admin_review"`
}
