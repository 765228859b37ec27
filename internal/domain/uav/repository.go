package uav

import "context"

// RecordStore is the remote record store backing the fleet state.
type RecordStore interface {
	// ListAll returns every record, newest-created first.
	ListAll(ctx context.Context) ([]UAV, error)
	Insert(ctx context.Context, req *CreateUAVRequest) error
	// Patch writes only the non-nil fields; xerrors.ErrNotFound when id is absent.
	Patch(ctx context.Context, id string, req *UpdateUAVRequest) error
	Delete(ctx context.Context, id string) error
}
