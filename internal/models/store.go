package models

import (
	"time"
)

// EquipmentConfig is one entry of a store's ordered temperature equipment list.
// Min/Max are optional; when absent the safe range is inferred from the label.
type EquipmentConfig struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

type Store struct {
	ID                   string            `json:"id" db:"id"`
	Name                 string            `json:"name" db:"name"`
	IsActive             bool              `json:"is_active" db:"is_active"`
	TemperatureEquipment []EquipmentConfig `json:"temperature_equipment" db:"temperature_equipment"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}
