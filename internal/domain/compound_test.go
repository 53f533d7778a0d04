package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViolation_FineDue(t *testing.T) {
	v := Violation{FineTier1: 30, FineTier2: 50, FineTier3: 80, FineTier4: 100}
	issued := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		paidAfter time.Duration
		want      float64
	}{
		{0, 30},
		{14 * day, 30},
		{14*day + 23*time.Hour, 30},
		{15 * day, 50},
		{30 * day, 50},
		{31 * day, 80},
		{60 * day, 80},
		{61 * day, 100},
		{365 * day, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.FineDue(issued, issued.Add(tt.paidAfter)), "paid after %s", tt.paidAfter)
	}
}

func TestStatusColours(t *testing.T) {
	assert.Equal(t, "green", SessionActive.Color())
	assert.Equal(t, "red", SessionExpired.Color())
	assert.Equal(t, "gray", ParkingSessionStatus("unknown").Color())

	assert.True(t, SpotDisable.Valid())
	assert.False(t, SpotType("blue").Valid())
	assert.Equal(t, "#8E8E93", SpotType("blue").Color())

	assert.True(t, OfficialEnforcement.Valid())
	assert.False(t, ReportStatus("closed").Valid())
}
