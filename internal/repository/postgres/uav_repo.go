// internal/repository/postgres/uav_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"uav-maintenance-service/internal/domain/uav"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type UAVRepository struct {
	db *pgxpool.Pool
}

func NewUAVRepository(db *pgxpool.Pool) *UAVRepository {
	return &UAVRepository{db: db}
}

// ListAll retrieves every record, newest first
func (r *UAVRepository) ListAll(ctx context.Context) ([]uav.UAV, error) {
	query := `
		SELECT id, uav_number, location, status, malfunctions,
		       arrival_date, completion_date, manager_signature, notes,
		       created_at, updated_at
		FROM uavs
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list uavs: %w", err)
	}
	defer rows.Close()

	records := make([]uav.UAV, 0)
	for rows.Next() {
		var (
			u          uav.UAV
			status     string
			arrival    time.Time
			completion *time.Time
		)
		if err := rows.Scan(
			&u.ID, &u.UAVNumber, &u.Location, &status, &u.Malfunctions,
			&arrival, &completion, &u.ManagerSignature, &u.Notes,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan uav: %w", err)
		}

		u.Status = uav.Status(status)
		u.ArrivalDate = uav.DateOf(arrival)
		if completion != nil {
			d := uav.DateOf(*completion)
			u.CompletionDate = &d
		}
		records = append(records, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uavs: %w", err)
	}

	return records, nil
}

// Insert creates a record; id and timestamps come from the database
func (r *UAVRepository) Insert(ctx context.Context, req *uav.CreateUAVRequest) error {
	query := `
		INSERT INTO uavs (
			uav_number, location, status, malfunctions,
			arrival_date, completion_date, manager_signature, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query, insertArgs(req)...)
	if err != nil {
		return fmt.Errorf("failed to create uav: %w", err)
	}

	return nil
}

// Patch updates only the provided columns
func (r *UAVRepository) Patch(ctx context.Context, id string, req *uav.UpdateUAVRequest) error {
	assignments := req.Assignments()
	if len(assignments) == 0 {
		return r.touch(ctx, id)
	}

	setClauses := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+1)
	argPos := 1

	for _, a := range assignments {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(a.Column), argPos))
		args = append(args, pgValue(a.Value))
		argPos++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE uavs SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), argPos)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update uav: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a record
func (r *UAVRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM uavs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete uav: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *UAVRepository) touch(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `UPDATE uavs SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update uav: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// insertArgs orders the INSERT placeholders $1..$8
func insertArgs(req *uav.CreateUAVRequest) []any {
	var completion any
	if req.CompletionDate != nil {
		completion = dateArg(*req.CompletionDate)
	}
	return []any{
		req.UAVNumber, req.Location, string(req.StatusOrDefault()), req.MalfunctionText(),
		dateArg(req.ArrivalDate), completion, req.ManagerSignature, req.Notes,
	}
}

func dateArg(d uav.Date) time.Time {
	return d.Midnight(time.UTC)
}

func pgValue(v any) any {
	if d, ok := v.(uav.Date); ok {
		return dateArg(d)
	}
	return v
}
