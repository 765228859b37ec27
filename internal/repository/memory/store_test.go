package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"uav-maintenance-service/internal/domain/auth"
	"uav-maintenance-service/internal/domain/uav"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReq(number string) *uav.CreateUAVRequest {
	m := "prop damage"
	return &uav.CreateUAVRequest{
		UAVNumber:    number,
		Location:     "Base A",
		Status:       uav.StatusRepair,
		Malfunctions: &m,
		ArrivalDate:  uav.NewDate(2024, time.March, 1),
	}
}

func TestRecordRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()

	require.NoError(t, repo.Insert(ctx, createReq("UAV-1")))
	require.NoError(t, repo.Insert(ctx, createReq("UAV-2")))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "UAV-2", records[0].UAVNumber)
	assert.Equal(t, "UAV-1", records[1].UAVNumber)
	assert.NotEmpty(t, records[0].ID)
	assert.Nil(t, records[0].CompletionDate)
	assert.Nil(t, records[0].Notes)
}

func TestRecordRepositoryPatchAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()
	require.NoError(t, repo.Insert(ctx, createReq("UAV-1")))

	records, _ := repo.ListAll(ctx)
	id := records[0].ID

	notes := "checked"
	status := uav.StatusOperational
	require.NoError(t, repo.Patch(ctx, id, &uav.UpdateUAVRequest{Notes: &notes, Status: &status}))

	records, _ = repo.ListAll(ctx)
	require.NotNil(t, records[0].Notes)
	assert.Equal(t, "checked", *records[0].Notes)
	assert.Equal(t, uav.StatusOperational, records[0].Status)
	assert.Equal(t, "Base A", records[0].Location)

	assert.ErrorIs(t, repo.Patch(ctx, "missing", &uav.UpdateUAVRequest{Notes: &notes}), xerrors.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), xerrors.ErrNotFound)

	records, _ = repo.ListAll(ctx)
	assert.Empty(t, records)
}

func TestRecordRepositoryListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()
	req := createReq("UAV-1")
	notes := "original"
	req.Notes = &notes
	require.NoError(t, repo.Insert(ctx, req))

	records, _ := repo.ListAll(ctx)
	*records[0].Notes = "mutated"

	again, _ := repo.ListAll(ctx)
	assert.Equal(t, "original", *again[0].Notes)
}

func TestRecordRepositoryFailWith(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()
	boom := errors.New("network unreachable")

	repo.FailWith(boom)
	_, err := repo.ListAll(ctx)
	assert.Equal(t, boom, err)
	assert.Equal(t, boom, repo.Insert(ctx, createReq("UAV-1")))

	repo.FailWith(nil)
	_, err = repo.ListAll(ctx)
	assert.NoError(t, err)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := &auth.User{Email: "ops@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	assert.ErrorIs(t, repo.Create(ctx, &auth.User{Email: "OPS@example.com"}), xerrors.ErrDuplicateEntry)

	exists, err := repo.ExistsByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.UpdateEmail(ctx, user.ID, "lead@example.com"))
	found, err := repo.FindByEmail(ctx, "lead@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
