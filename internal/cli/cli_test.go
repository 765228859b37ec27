package cli

import (
	"bytes"
	"context"
	"testing"

	"uav-maintenance-service/internal/domain/uav"
	"uav-maintenance-service/internal/repository"
	"uav-maintenance-service/internal/repository/memory"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func useMemoryBackend(t *testing.T) *memory.RecordRepository {
	t.Helper()
	color.NoColor = true

	repo := memory.NewRecordRepository()
	seed := []struct {
		number, location, malfunctions string
		status                         uav.Status
	}{
		{"UAV-001", "Hangar A", "Motor failure", uav.StatusRepair},
		{"UAV-002", "Hangar B", "Camera drift", uav.StatusOperational},
		{"UAV-003", "Hangar B", "Motor failure", uav.StatusCritical},
	}
	for _, s := range seed {
		m := s.malfunctions
		require.NoError(t, repo.Insert(context.Background(), &uav.CreateUAVRequest{
			UAVNumber:    s.number,
			Location:     s.location,
			Status:       s.status,
			Malfunctions: &m,
			ArrivalDate:  uav.NewDate(2024, 3, 1),
		}))
	}

	prev := openBackend
	openBackend = func(ctx context.Context) (*repository.Backend, *zap.Logger, error) {
		return &repository.Backend{Driver: "memory", Records: repo, Users: memory.NewUserRepository()}, zap.NewNop(), nil
	}
	t.Cleanup(func() { openBackend = prev })
	return repo
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := RootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListFilters(t *testing.T) {
	useMemoryBackend(t)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "UAV-001")
	assert.Contains(t, out, "3 of 3 records")

	out, err = run(t, "list", "--search", "hangar b", "--status", "critical")
	require.NoError(t, err)
	assert.Contains(t, out, "UAV-003")
	assert.NotContains(t, out, "UAV-002")
	assert.Contains(t, out, "1 of 3 records")

	out, err = run(t, "list", "--search", "nothing like this")
	require.NoError(t, err)
	assert.Contains(t, out, "No records match (3 total)")

	_, err = run(t, "list", "--status", "flying")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	useMemoryBackend(t)

	out, err := run(t, "stats", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:           3")
	assert.Contains(t, out, "Hangar B")
	assert.Contains(t, out, "1. Motor failure (2)")
	assert.NotContains(t, out, "Camera drift")

	_, err = run(t, "stats", "--days", "-1")
	assert.Error(t, err)

	_, err = run(t, "stats", "--days", "100000")
	assert.Error(t, err)
}

func TestMigrateAndLoadFailure(t *testing.T) {
	repo := useMemoryBackend(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema applied (memory)")

	repo.FailWith(assert.AnError)
	_, err = run(t, "list")
	assert.ErrorIs(t, err, assert.AnError)
}
