package blood

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/db"
	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type unitRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &unitRepoPG{pool: pool}
}

func (r *unitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const unitCols = `id, facility_id, blood_type, quantity, collected_at, expires_at, status,
	created_at, updated_at`

func (r *unitRepoPG) scanRow(row pgx.Row) (*Unit, error) {
	var u Unit
	err := row.Scan(&u.ID, &u.FacilityID, &u.BloodType, &u.Quantity, &u.CollectedAt,
		&u.ExpiresAt, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *unitRepoPG) scanRows(rows pgx.Rows) ([]*Unit, error) {
	defer rows.Close()
	var units []*Unit
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *unitRepoPG) Create(ctx context.Context, u *Unit) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_units (id, facility_id, blood_type, quantity, collected_at, expires_at, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.FacilityID, u.BloodType, u.Quantity, u.CollectedAt, u.ExpiresAt, u.Status)
	return err
}

func (r *unitRepoPG) GetByID(ctx context.Context, facilityID, id uuid.UUID) (*Unit, error) {
	u, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+unitCols+` FROM blood_units WHERE id = $1 AND facility_id = $2`, id, facilityID))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("blood unit not found")
	}
	return u, err
}

func (r *unitRepoPG) Update(ctx context.Context, u *Unit) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_units SET blood_type=$3, quantity=$4, collected_at=$5, expires_at=$6,
			status=$7, updated_at=NOW()
		WHERE id = $1 AND facility_id = $2`,
		u.ID, u.FacilityID, u.BloodType, u.Quantity, u.CollectedAt, u.ExpiresAt, u.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blood unit not found")
	}
	return nil
}

func (r *unitRepoPG) Delete(ctx context.Context, facilityID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM blood_units WHERE id = $1 AND facility_id = $2`, id, facilityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blood unit not found")
	}
	return nil
}

func (r *unitRepoPG) List(ctx context.Context, facilityID uuid.UUID, f Filter, limit, offset int) ([]*Unit, int, error) {
	where := `facility_id = $1`
	args := []interface{}{facilityID}

	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.BloodType != "" {
		args = append(args, f.BloodType)
		where += fmt.Sprintf(` AND blood_type = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM blood_units WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+unitCols+` FROM blood_units WHERE `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	units, err := r.scanRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return units, total, nil
}

func (r *unitRepoPG) Summary(ctx context.Context, facilityID uuid.UUID, now time.Time) ([]TypeSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT blood_type, COALESCE(SUM(quantity), 0), COUNT(*)
		FROM blood_units
		WHERE facility_id = $1 AND status = $2 AND expires_at >= $3
		GROUP BY blood_type
		ORDER BY blood_type ASC`,
		facilityID, StatusAvailable, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []TypeSummary
	for rows.Next() {
		var s TypeSummary
		if err := rows.Scan(&s.BloodType, &s.TotalQuantity, &s.UnitCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *unitRepoPG) ListExpired(ctx context.Context, facilityID uuid.UUID, now time.Time) ([]*Unit, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+unitCols+` FROM blood_units
		WHERE facility_id = $1 AND expires_at < $2
		ORDER BY expires_at ASC`,
		facilityID, now)
	if err != nil {
		return nil, err
	}
	return r.scanRows(rows)
}

func (r *unitRepoPG) SweepExpired(ctx context.Context, facilityID uuid.UUID, now time.Time) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_units SET status = $3, updated_at = NOW()
		WHERE facility_id = $1 AND status = $2 AND expires_at < $4`,
		facilityID, StatusAvailable, StatusExpired, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *unitRepoPG) ListAvailableForUpdate(ctx context.Context, facilityID uuid.UUID, bt bloodtype.BloodType, now time.Time) ([]*Unit, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+unitCols+` FROM blood_units
		WHERE facility_id = $1 AND blood_type = $2 AND status = $3 AND expires_at >= $4
		ORDER BY collected_at ASC
		FOR UPDATE`,
		facilityID, bt, StatusAvailable, now)
	if err != nil {
		return nil, err
	}
	return r.scanRows(rows)
}
