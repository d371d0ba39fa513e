package request

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

type requestRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &requestRepoPG{pool: pool}
}

func (r *requestRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const requestCols = `id, hospital_id, lab_id, blood_type, units, status, created_at, processed_at`

func (r *requestRepoPG) scanRow(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.HospitalID, &req.LabID, &req.BloodType, &req.Units,
		&req.Status, &req.CreatedAt, &req.ProcessedAt)
	return &req, err
}

func (r *requestRepoPG) Create(ctx context.Context, req *Request) error {
	req.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_requests (id, hospital_id, lab_id, blood_type, units, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		req.ID, req.HospitalID, req.LabID, req.BloodType, req.Units, req.Status)
	return err
}

func (r *requestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	req, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+requestCols+` FROM blood_requests WHERE id = $1`, id))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("blood request not found")
	}
	return req, err
}

func (r *requestRepoPG) GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error) {
	req, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+requestCols+` FROM blood_requests WHERE id = $1 FOR UPDATE`, id))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("blood request not found")
	}
	return req, err
}

func (r *requestRepoPG) Update(ctx context.Context, req *Request) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_requests SET status=$2, processed_at=$3 WHERE id = $1`,
		req.ID, req.Status, req.ProcessedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blood request not found")
	}
	return nil
}

func (r *requestRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	where := `1=1`
	var args []interface{}

	if f.HospitalID != uuid.Nil {
		args = append(args, f.HospitalID)
		where += fmt.Sprintf(` AND hospital_id = $%d`, len(args))
	}
	if f.LabID != uuid.Nil {
		args = append(args, f.LabID)
		where += fmt.Sprintf(` AND lab_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM blood_requests WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+requestCols+` FROM blood_requests WHERE `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reqs []*Request
	for rows.Next() {
		req, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, req)
	}
	return reqs, total, rows.Err()
}
