// internal/repository/memory/store.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"uav-maintenance-service/internal/domain/auth"
	"uav-maintenance-service/internal/domain/uav"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

// RecordRepository keeps records in process memory, newest first.
type RecordRepository struct {
	mu      sync.Mutex
	records []uav.UAV
	failErr error
	now     func() time.Time
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{now: time.Now}
}

// FailWith makes every following call return err until cleared with nil.
func (r *RecordRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

func (r *RecordRepository) ListAll(ctx context.Context) ([]uav.UAV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return nil, r.failErr
	}

	out := make([]uav.UAV, len(r.records))
	for i := range r.records {
		out[i] = cloneRecord(r.records[i])
	}
	return out, nil
}

func (r *RecordRepository) Insert(ctx context.Context, req *uav.CreateUAVRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return r.failErr
	}

	now := r.now()
	rec := uav.UAV{
		ID:           ulid.Make().String(),
		UAVNumber:    req.UAVNumber,
		Location:     req.Location,
		Status:       req.StatusOrDefault(),
		Malfunctions: req.MalfunctionText(),
		ArrivalDate:  req.ArrivalDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	(&uav.UpdateUAVRequest{
		CompletionDate:   req.CompletionDate,
		ManagerSignature: req.ManagerSignature,
		Notes:            req.Notes,
	}).Apply(&rec)

	r.records = append([]uav.UAV{rec}, r.records...)
	return nil
}

func (r *RecordRepository) Patch(ctx context.Context, id string, req *uav.UpdateUAVRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return r.failErr
	}

	for i := range r.records {
		if r.records[i].ID == id {
			req.Apply(&r.records[i])
			r.records[i].UpdatedAt = r.now()
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return r.failErr
	}

	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func cloneRecord(u uav.UAV) uav.UAV {
	if u.CompletionDate != nil {
		d := *u.CompletionDate
		u.CompletionDate = &d
	}
	if u.ManagerSignature != nil {
		s := *u.ManagerSignature
		u.ManagerSignature = &s
	}
	if u.Notes != nil {
		n := *u.Notes
		u.Notes = &n
	}
	return u
}

// ========== Users ==========

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*auth.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*auth.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return xerrors.ErrDuplicateEntry
		}
	}

	now := time.Now()
	user.ID = ulid.Make().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := *u
			return &found, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == xerrors.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && strings.EqualFold(other.Email, email) {
			return xerrors.ErrDuplicateEntry
		}
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}
