package camp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type campRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &campRepoPG{pool: pool}
}

func (r *campRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const campCols = `c.id, c.hospital_id, c.title, c.street, c.city, c.state, c.pincode,
	c.starts_at, c.ends_at, c.capacity, c.status, c.created_at, c.updated_at`

const campColsWithCount = campCols + `,
	(SELECT COUNT(*) FROM camp_registrations r WHERE r.camp_id = c.id) AS registered_count`

func (r *campRepoPG) scanRow(row pgx.Row, withCount bool) (*Camp, error) {
	var c Camp
	dest := []interface{}{&c.ID, &c.HospitalID, &c.Title, &c.Street, &c.City, &c.State, &c.Pincode,
		&c.StartsAt, &c.EndsAt, &c.Capacity, &c.Status, &c.CreatedAt, &c.UpdatedAt}
	if withCount {
		dest = append(dest, &c.RegisteredCount)
	}
	err := row.Scan(dest...)
	return &c, err
}

func (r *campRepoPG) Create(ctx context.Context, c *Camp) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO camps (id, hospital_id, title, street, city, state, pincode,
			starts_at, ends_at, capacity, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.HospitalID, c.Title, c.Street, c.City, c.State, c.Pincode,
		c.StartsAt, c.EndsAt, c.Capacity, c.Status)
	return err
}

func (r *campRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Camp, error) {
	c, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+campColsWithCount+` FROM camps c WHERE c.id = $1`, id), true)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("camp not found")
	}
	return c, err
}

func (r *campRepoPG) GetForUpdate(ctx context.Context, id uuid.UUID) (*Camp, error) {
	c, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+campCols+` FROM camps c WHERE c.id = $1 FOR UPDATE`, id), false)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("camp not found")
	}
	return c, err
}

func (r *campRepoPG) Update(ctx context.Context, c *Camp) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE camps SET title=$3, street=$4, city=$5, state=$6, pincode=$7,
			starts_at=$8, ends_at=$9, capacity=$10, status=$11, updated_at=NOW()
		WHERE id = $1 AND hospital_id = $2`,
		c.ID, c.HospitalID, c.Title, c.Street, c.City, c.State, c.Pincode,
		c.StartsAt, c.EndsAt, c.Capacity, c.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("camp not found")
	}
	return nil
}

func (r *campRepoPG) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM camps WHERE id = $1 AND hospital_id = $2`, id, hospitalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("camp not found")
	}
	return nil
}

// sortColumns whitelists the sortable columns; anything else falls back to
// the start date.
var sortColumns = map[string]string{
	"date":     "c.starts_at",
	"title":    "c.title",
	"capacity": "c.capacity",
}

func (r *campRepoPG) List(ctx context.Context, f Filter, sort Sort, limit, offset int) ([]*Camp, int, error) {
	where := `1=1`
	var args []interface{}

	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND c.status = $%d`, len(args))
	}
	if f.HospitalID != uuid.Nil {
		args = append(args, f.HospitalID)
		where += fmt.Sprintf(` AND c.hospital_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (c.title ILIKE $%d OR c.city ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM camps c WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol, ok := sortColumns[sort.By]
	if !ok {
		orderCol = sortColumns["date"]
	}
	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+campColsWithCount+` FROM camps c WHERE `+where+
			fmt.Sprintf(` ORDER BY %s %s LIMIT $%d OFFSET $%d`, orderCol, direction, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var camps []*Camp
	for rows.Next() {
		c, err := r.scanRow(rows, true)
		if err != nil {
			return nil, 0, err
		}
		camps = append(camps, c)
	}
	return camps, total, rows.Err()
}

func (r *campRepoPG) AddRegistration(ctx context.Context, reg *Registration) error {
	reg.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO camp_registrations (id, camp_id, donor_id, registered_at)
		VALUES ($1,$2,$3,$4)`,
		reg.ID, reg.CampID, reg.DonorID, reg.RegisteredAt)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict("donor already registered for this camp")
	}
	return err
}

func (r *campRepoPG) CountRegistrations(ctx context.Context, campID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM camp_registrations WHERE camp_id = $1`, campID).Scan(&count)
	return count, err
}

func (r *campRepoPG) ListRegistrations(ctx context.Context, campID uuid.UUID) ([]*Registration, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, camp_id, donor_id, registered_at
		FROM camp_registrations WHERE camp_id = $1
		ORDER BY registered_at ASC`, campID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.CampID, &reg.DonorID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}
