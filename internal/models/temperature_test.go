package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquipmentReading_CanonicalFields(t *testing.T) {
	var r EquipmentReading
	err := json.Unmarshal([]byte(`{"label":"Walk-in Freezer","temp":-18,"unit":"C","min":-25,"max":-15,"outOfRange":false}`), &r)
	assert.NoError(t, err)
	assert.Equal(t, "Walk-in Freezer", r.Label)
	assert.Equal(t, -18.0, *r.Temp)
	assert.Equal(t, -25.0, *r.Min)
	assert.Equal(t, -15.0, *r.Max)
	assert.False(t, r.OutOfRange)
}

func TestEquipmentReading_LegacyAliases(t *testing.T) {
	var r EquipmentReading
	err := json.Unmarshal([]byte(`{"name":"Prep Fridge","tempC":4,"minTemp":0,"maxTemp":5}`), &r)
	assert.NoError(t, err)
	assert.Equal(t, "Prep Fridge", r.Label)
	assert.Equal(t, 4.0, *r.Temp)
	assert.Equal(t, 0.0, *r.Min)
	assert.Equal(t, 5.0, *r.Max)
}

func TestEquipmentReading_NullTempStaysAbsent(t *testing.T) {
	// Legacy documents store unfilled readings as explicit nulls. A null
	// must not decode as 0.0, which would sit inside every fridge range.
	var r EquipmentReading
	err := json.Unmarshal([]byte(`{"label":"Prep Fridge","temp":null,"min":0,"max":5}`), &r)
	assert.NoError(t, err)
	assert.Nil(t, r.Temp)
	assert.False(t, r.OutOfRange)
}

func TestEquipmentReading_NullAliasFallsThroughToLaterKey(t *testing.T) {
	var r EquipmentReading
	err := json.Unmarshal([]byte(`{"temp":null,"tempC":3.5}`), &r)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, *r.Temp)
}

func TestEquipmentReading_DerivesOutOfRangeWhenFlagMissing(t *testing.T) {
	var r EquipmentReading
	err := json.Unmarshal([]byte(`{"temp":-10,"min":-25,"max":-15}`), &r)
	assert.NoError(t, err)
	assert.True(t, r.OutOfRange)

	var ok EquipmentReading
	err = json.Unmarshal([]byte(`{"temp":-18,"min":-25,"max":-15}`), &ok)
	assert.NoError(t, err)
	assert.False(t, ok.OutOfRange)
}
