// internal/repository/sqlite/uav_repo.go
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"uav-maintenance-service/internal/domain/uav"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type UAVRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUAVRepository(db *sql.DB) *UAVRepository {
	return &UAVRepository{db: db, now: time.Now}
}

// ListAll retrieves every record, newest first
func (r *UAVRepository) ListAll(ctx context.Context) ([]uav.UAV, error) {
	query := `
		SELECT id, uav_number, location, status, malfunctions,
		       arrival_date, completion_date, manager_signature, notes,
		       created_at, updated_at
		FROM uavs
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list uavs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]uav.UAV, 0)
	for rows.Next() {
		var (
			u                uav.UAV
			status           string
			completion       sql.NullString
			signature, notes sql.NullString
			created, updated int64
		)
		if err := rows.Scan(
			&u.ID, &u.UAVNumber, &u.Location, &status, &u.Malfunctions,
			&u.ArrivalDate, &completion, &signature, &notes,
			&created, &updated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan uav: %w", err)
		}

		u.Status = uav.Status(status)
		if completion.Valid && completion.String != "" {
			d, err := uav.ParseDate(completion.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse completion_date: %w", err)
			}
			u.CompletionDate = &d
		}
		u.ManagerSignature = nullableString(signature)
		u.Notes = nullableString(notes)
		u.CreatedAt = time.Unix(0, created)
		u.UpdatedAt = time.Unix(0, updated)
		records = append(records, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uavs: %w", err)
	}

	return records, nil
}

func (r *UAVRepository) Insert(ctx context.Context, req *uav.CreateUAVRequest) error {
	query := `
		INSERT INTO uavs (
			id, uav_number, location, status, malfunctions,
			arrival_date, completion_date, manager_signature, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	status := req.StatusOrDefault()
	var completion any
	if req.CompletionDate != nil {
		completion = req.CompletionDate.String()
	}
	now := r.now().UnixNano()

	_, err := r.db.ExecContext(ctx, query,
		ulid.Make().String(), req.UAVNumber, req.Location, string(status), req.MalfunctionText(),
		req.ArrivalDate.String(), completion, req.ManagerSignature, req.Notes,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create uav: %w", err)
	}
	return nil
}

// Patch updates only the provided columns
func (r *UAVRepository) Patch(ctx context.Context, id string, req *uav.UpdateUAVRequest) error {
	assignments := req.Assignments()

	setClauses := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+2)
	for _, a := range assignments {
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", a.Column))
		args = append(args, sqliteValue(a.Value))
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, r.now().UnixNano(), id)

	query := fmt.Sprintf(`UPDATE uavs SET %s WHERE id = ?`, strings.Join(setClauses, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update uav: %w", err)
	}
	return requireAffected(result)
}

func (r *UAVRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM uavs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete uav: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func sqliteValue(v any) any {
	if d, ok := v.(uav.Date); ok {
		return d.String()
	}
	return v
}
