package postgres

import (
	"testing"
	"time"

	"uav-maintenance-service/internal/domain/uav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertArgsDefaultsStatus(t *testing.T) {
	args := insertArgs(&uav.CreateUAVRequest{
		UAVNumber:   "UAV-001",
		Location:    "Hangar A",
		ArrivalDate: uav.NewDate(2024, time.March, 9),
	})

	require.Len(t, args, 8)
	assert.Equal(t, "unknown", args[2])
	assert.Equal(t, "", args[3])
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), args[4])
	assert.Nil(t, args[5])
}

func TestInsertArgsKeepsExplicitValues(t *testing.T) {
	completed := uav.NewDate(2024, time.March, 12)
	notes := "rotor swapped"
	args := insertArgs(&uav.CreateUAVRequest{
		UAVNumber:      "UAV-002",
		Location:       "Field",
		Status:         uav.StatusCritical,
		ArrivalDate:    uav.NewDate(2024, time.March, 10),
		CompletionDate: &completed,
		Notes:          &notes,
	})

	assert.Equal(t, "critical", args[2])
	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), args[5])
	assert.Equal(t, &notes, args[7])
}
