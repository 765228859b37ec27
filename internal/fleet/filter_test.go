package fleet

import (
	"testing"

	"uav-maintenance-service/internal/domain/uav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, number, location string, status uav.Status, malfunctions string) uav.UAV {
	return uav.UAV{
		ID:           id,
		UAVNumber:    number,
		Location:     location,
		Status:       status,
		Malfunctions: malfunctions,
		ArrivalDate:  uav.NewDate(2024, 3, 1),
	}
}

func sampleFleet() []uav.UAV {
	return []uav.UAV{
		record("1", "UAV-001", "Hangar A", uav.StatusMaintenance, "Motor failure"),
		record("2", "UAV-002", "Field Base", uav.StatusMaintenance, "Camera drift"),
		record("3", "UAV-003", "hangar b", uav.StatusCritical, "Battery not charging"),
		record("4", "UAV-004", "Depot", uav.StatusOperational, ""),
		record("5", "UAV-005", "Hangar C", uav.StatusRepair, "GPS HANGAR antenna"),
	}
}

func ids(records []uav.UAV) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseStatusFilter("ALL")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseStatusFilter("Critical")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter("critical"), f)

	_, err = ParseStatusFilter("broken")
	assert.Error(t, err)
}

func TestMatchesSearch(t *testing.T) {
	r := record("1", "UAV-001", "Hangar A", uav.StatusOperational, "Motor Failure")

	assert.True(t, MatchesSearch(r, ""))
	assert.True(t, MatchesSearch(r, "uav-0"))
	assert.True(t, MatchesSearch(r, "HANGAR"))
	assert.True(t, MatchesSearch(r, "motor f"))
	assert.False(t, MatchesSearch(r, "battery"))
	assert.False(t, MatchesSearch(r, "operational"), "status text is not searched")
}

func TestFilterByStatusOnly(t *testing.T) {
	records := sampleFleet()

	for _, status := range uav.Statuses {
		filtered := Filter(records, "", StatusFilter(status))
		for _, r := range filtered {
			assert.Equal(t, status, r.Status)
		}
		expected := 0
		for _, r := range records {
			if r.Status == status {
				expected++
			}
		}
		assert.Len(t, filtered, expected, "status %s", status)
	}

	assert.Len(t, Filter(records, "", FilterAll), len(records))
}

func TestFilterCombinesSearchAndStatus(t *testing.T) {
	records := sampleFleet()

	filtered := Filter(records, "hangar", StatusFilter(uav.StatusMaintenance))
	assert.Equal(t, []string{"1"}, ids(filtered))

	filtered = Filter(records, "hangar", FilterAll)
	assert.Equal(t, []string{"1", "3", "5"}, ids(filtered), "order is preserved")
}

func TestFilterIsIdempotent(t *testing.T) {
	records := sampleFleet()

	once := Filter(records, "uav", StatusFilter(uav.StatusMaintenance))
	twice := Filter(once, "uav", StatusFilter(uav.StatusMaintenance))
	assert.Equal(t, once, twice)
}

func TestFilterEmptyCollection(t *testing.T) {
	filtered := Filter(nil, "anything", StatusFilter(uav.StatusCritical))
	require.NotNil(t, filtered)
	assert.Empty(t, filtered)
}
