package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatesValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinates
		wantErr bool
	}{
		{name: "taipei", c: Coordinates{Lat: 25.0330, Lon: 121.5654}},
		{name: "poles and antimeridian", c: Coordinates{Lat: -90, Lon: 180}},
		{name: "latitude too large", c: Coordinates{Lat: 200, Lon: 0}, wantErr: true},
		{name: "longitude too small", c: Coordinates{Lat: 0, Lon: -180.5}, wantErr: true},
		{name: "nan latitude", c: Coordinates{Lat: math.NaN(), Lon: 0}, wantErr: true},
		{name: "infinite longitude", c: Coordinates{Lat: 0, Lon: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHaversineKm(t *testing.T) {
	// One degree of longitude on the equator is R * pi / 180.
	oneDegree := EarthRadiusKm * math.Pi / 180

	assert.InDelta(t, oneDegree, HaversineKm(Coordinates{0, 0}, Coordinates{0, 1}), 1e-9)
	assert.InDelta(t, oneDegree, HaversineKm(Coordinates{0, 0}, Coordinates{1, 0}), 1e-9)
	assert.Zero(t, HaversineKm(Coordinates{25.0330, 121.5654}, Coordinates{25.0330, 121.5654}))

	antipodal := HaversineKm(Coordinates{0, 0}, Coordinates{0, 180})
	assert.InDelta(t, math.Pi*EarthRadiusKm, antipodal, 1e-6)
}

func TestTravelMinutes(t *testing.T) {
	assert.Equal(t, 0, TravelMinutes(0, 40))
	assert.Equal(t, 15, TravelMinutes(10, 40))
	assert.Equal(t, 16, TravelMinutes(10.01, 40))
	assert.Equal(t, 0, TravelMinutes(10, 0))
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityUrgent, ParsePriority(" Urgent "))
	assert.Equal(t, PriorityNormal, ParsePriority(""))
	assert.Equal(t, Priority("low"), ParsePriority("LOW"))

	assert.Equal(t, 0.5, PriorityUrgent.Multiplier())
	assert.Equal(t, 0.7, PriorityHigh.Multiplier())
	assert.Equal(t, 1.0, PriorityNormal.Multiplier())
	assert.Equal(t, 1.0, Priority("low").Multiplier())
}

func TestValidateStops(t *testing.T) {
	err := ValidateStops(nil)
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))

	err = ValidateStops([]Stop{
		{ID: "a", Coordinates: Coordinates{Lat: 200, Lon: 0}},
		{ID: "b", Coordinates: Coordinates{Lat: 0, Lon: 0}},
		{ID: "c", Coordinates: Coordinates{Lat: math.NaN(), Lon: 0}},
	})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.Contains(t, err.Error(), "stop 1 (a)")
	assert.Contains(t, err.Error(), "stop 3 (c)")
	assert.NotContains(t, err.Error(), "stop 2 (b)")

	assert.NoError(t, ValidateStops([]Stop{{ID: "ok", Coordinates: Coordinates{Lat: 1, Lon: 1}}}))
}
