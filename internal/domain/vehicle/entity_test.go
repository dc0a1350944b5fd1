//go:build unit

package vehicle_test

import (
	"testing"
	"time"

	"parkgate/internal/domain/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	v, err := vehicle.NewVehicle("ab-123-cd", "Jane Doe", "jane@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, "AB123CD", v.Plate())
	assert.True(t, v.Active())
	assert.Equal(t, now, v.RegisteredAt())

	_, err = vehicle.NewVehicle("!!", "Jane Doe", "jane@example.com", now)
	assert.ErrorIs(t, err, vehicle.ErrInvalidPlate)
}

func TestVehicleLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	v, err := vehicle.NewVehicle("AB123CD", "Jane Doe", "jane@example.com", now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	v.UpdateOwner("John Doe", "john@example.com", later)
	assert.Equal(t, "John Doe", v.OwnerName())
	assert.Equal(t, later, v.UpdatedAt())

	require.NoError(t, v.Deactivate(later.Add(time.Minute)))
	assert.False(t, v.Active())
	assert.ErrorIs(t, v.Deactivate(later.Add(2*time.Minute)), vehicle.ErrAlreadyDeactivated)
}
