package account

import (
	"context"
	"errors"
	"strings"

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

type accountRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &accountRepoPG{pool: pool}
}

func (r *accountRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const accountCols = `id, role, name, email, password_hash, phone,
	street, city, state, pincode, blood_type, license_number,
	created_at, updated_at`

func (r *accountRepoPG) scanRow(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Role, &a.Name, &a.Email, &a.PasswordHash, &a.Phone,
		&a.Street, &a.City, &a.State, &a.Pincode, &a.BloodType, &a.LicenseNumber,
		&a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO accounts (id, role, name, email, password_hash, phone,
			street, city, state, pincode, blood_type, license_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.Role, a.Name, a.Email, a.PasswordHash, a.Phone,
		a.Street, a.City, a.State, a.Pincode, a.BloodType, a.LicenseNumber)
	if db.IsUniqueViolation(err) {
		return conflictError(err)
	}
	return err
}

// conflictError translates a unique violation into the conflict message for
// the offending key.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	msg := "account already exists"
	if errors.As(err, &pgErr) {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			msg = "email already registered"
		case strings.Contains(pgErr.ConstraintName, "license"):
			msg = "license number already registered"
		}
	}
	return apperr.Conflict("%s", msg)
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	a, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("account not found")
	}
	return a, err
}

func (r *accountRepoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	a, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE email = $1`, email))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("account not found")
	}
	return a, err
}

func (r *accountRepoPG) Update(ctx context.Context, a *Account) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE accounts SET name=$2, phone=$3, street=$4, city=$5, state=$6,
			pincode=$7, blood_type=$8, license_number=$9, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Name, a.Phone, a.Street, a.City, a.State,
		a.Pincode, a.BloodType, a.LicenseNumber)
	if db.IsUniqueViolation(err) {
		return conflictError(err)
	}
	return err
}
