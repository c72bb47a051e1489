package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"coffee-shop/backend/internal/account/domain"
)

const uniqueViolation = "23505"

// PostgresRepository persists accounts in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, password_hash, first_name, last_name, is_verified, verification_code, role, created_at, updated_at`

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByEmail returns the account with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// List returns accounts ordered by id ascending, with offset/limit pagination.
func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id ASC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the total number of accounts.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

// Create persists a new account. The unique constraint on email makes a
// concurrent duplicate signup fail with ErrDuplicateEmail instead of
// inserting a second row.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Email, a.PasswordHash,
		nullString(a.FirstName), nullString(a.LastName),
		a.IsVerified, nullString(a.VerificationCode),
		string(a.Role), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Update persists all mutable fields of the account.
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Account) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
		     is_verified = $6, verification_code = $7, role = $8, updated_at = $9
		 WHERE id = $1`,
		a.ID, a.Email, a.PasswordHash,
		nullString(a.FirstName), nullString(a.LastName),
		a.IsVerified, nullString(a.VerificationCode),
		string(a.Role), a.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the account permanently.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUnverifiedBefore removes unverified accounts created before cutoff.
// The is_verified predicate is evaluated inside the DELETE, so an account
// verified between cutoff computation and execution is not removed.
func (r *PostgresRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE is_verified = false AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var firstName, lastName, code sql.NullString
	var role string
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &firstName, &lastName,
		&a.IsVerified, &code, &role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.FirstName = firstName.String
	a.LastName = lastName.String
	a.VerificationCode = code.String
	a.Role = domain.Role(role)
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
