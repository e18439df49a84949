// Package status holds the pure stock-status and temperature-range rules.
// Everything here is total and deterministic; callers are responsible for
// rejecting negative or non-numeric input before calling.
package status

import (
	"strings"

	"shiftstock/internal/models"
)

const (
	OutOfStock = "out_of_stock"
	NeedStock  = "need_stock"
	InStock    = "in_stock"
)

// StockStatus maps a counted quantity against an optional low-stock
// threshold. Zero is always OUT regardless of threshold.
func StockStatus(quantity float64, threshold *float64) string {
	if quantity == 0 {
		return OutOfStock
	}
	if threshold != nil && quantity <= *threshold {
		return NeedStock
	}
	return InStock
}

// TemperatureInRange reports whether temp lies within [min, max]. An absent
// reading cannot be evaluated and is never considered in range here; callers
// decide how to treat it.
func TemperatureInRange(temp *float64, min, max float64) bool {
	if temp == nil {
		return false
	}
	return *temp >= min && *temp <= max
}

type Range struct {
	Min float64
	Max float64
}

var (
	freezerRange = Range{Min: -25, Max: -15}
	coolerRange  = Range{Min: 0, Max: 5}
)

// ResolveRange yields the safe temperature range for a piece of equipment:
// explicit config wins, else the label/id text decides, else the cooler
// default. Never fails.
func ResolveRange(eq models.EquipmentConfig) Range {
	if eq.Min != nil && eq.Max != nil {
		return Range{Min: *eq.Min, Max: *eq.Max}
	}

	txt := strings.ToLower(eq.Label + " " + eq.ID)
	if strings.Contains(txt, "freezer") {
		return freezerRange
	}
	if strings.Contains(txt, "cooler") || strings.Contains(txt, "fridge") {
		return coolerRange
	}
	return coolerRange
}
