package status

import (
	"testing"

	"shiftstock/internal/models"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestStockStatus_ZeroIsAlwaysOut(t *testing.T) {
	assert.Equal(t, OutOfStock, StockStatus(0, nil))
	assert.Equal(t, OutOfStock, StockStatus(0, floatPtr(0)))
	assert.Equal(t, OutOfStock, StockStatus(0, floatPtr(5)))
	assert.Equal(t, OutOfStock, StockStatus(0, floatPtr(100)))
}

func TestStockStatus_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		threshold *float64
		want      string
	}{
		{"at threshold is low", 5, floatPtr(5), NeedStock},
		{"below threshold is low", 3, floatPtr(5), NeedStock},
		{"above threshold is ok", 6, floatPtr(5), InStock},
		{"no threshold is ok", 1, nil, InStock},
		{"fractional below threshold", 0.5, floatPtr(2), NeedStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockStatus(tt.quantity, tt.threshold))
		})
	}
}

func TestTemperatureInRange(t *testing.T) {
	assert.True(t, TemperatureInRange(floatPtr(3), 0, 5))
	assert.True(t, TemperatureInRange(floatPtr(0), 0, 5))
	assert.True(t, TemperatureInRange(floatPtr(5), 0, 5))
	assert.False(t, TemperatureInRange(floatPtr(-0.1), 0, 5))
	assert.False(t, TemperatureInRange(floatPtr(5.1), 0, 5))
	assert.False(t, TemperatureInRange(nil, 0, 5), "absent reading is never in range")
}

func TestResolveRange_ExplicitConfigWins(t *testing.T) {
	r := ResolveRange(models.EquipmentConfig{
		ID:    "freezer1",
		Label: "Walk-in Freezer",
		Min:   floatPtr(-30),
		Max:   floatPtr(-20),
	})
	assert.Equal(t, Range{Min: -30, Max: -20}, r)
}

func TestResolveRange_LabelHeuristics(t *testing.T) {
	tests := []struct {
		name string
		eq   models.EquipmentConfig
		want Range
	}{
		{"freezer label", models.EquipmentConfig{ID: "eq1", Label: "Chest Freezer"}, Range{-25, -15}},
		{"freezer id only", models.EquipmentConfig{ID: "freezer2"}, Range{-25, -15}},
		{"cooler label", models.EquipmentConfig{ID: "eq2", Label: "Drinks Cooler"}, Range{0, 5}},
		{"fridge label", models.EquipmentConfig{ID: "eq3", Label: "Prep Fridge"}, Range{0, 5}},
		{"case insensitive", models.EquipmentConfig{ID: "eq4", Label: "FREEZER unit"}, Range{-25, -15}},
		{"unknown defaults to cooler", models.EquipmentConfig{ID: "eq5", Label: "Hot hold"}, Range{0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRange(tt.eq))
		})
	}
}

func TestResolveRange_PartialExplicitFallsBackToLabel(t *testing.T) {
	// Only min configured: not enough, the label decides.
	r := ResolveRange(models.EquipmentConfig{ID: "eq1", Label: "Back freezer", Min: floatPtr(-40)})
	assert.Equal(t, Range{-25, -15}, r)
}
