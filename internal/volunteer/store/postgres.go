package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"aakseva/internal/volunteer/models"
	"aakseva/pkg/platform/sentinel"
	"aakseva/pkg/platform/tx"
)

// Postgres persists volunteer records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed volunteer store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// querier picks the transaction from context when one is open, so store
// calls inside RunInTx share the same transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) querier(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

// EnsureSchema creates the volunteers table if it does not exist. The unique
// indexes on aak_no and unique_id are the store-level backstop for the
// service-level checks.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS volunteers (
			id                UUID PRIMARY KEY,
			name              TEXT NOT NULL,
			aak_no            TEXT NOT NULL UNIQUE,
			mobile_no         TEXT NOT NULL,
			address           TEXT NOT NULL,
			image_url         TEXT NOT NULL DEFAULT '',
			unique_id         BIGINT NOT NULL UNIQUE,
			role              TEXT NOT NULL DEFAULT 'employee',
			assigned_by_email TEXT,
			assigned_at       TIMESTAMPTZ,
			join_date         TIMESTAMPTZ NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure volunteers schema: %w", err)
	}
	return nil
}

const volunteerColumns = `id, name, aak_no, mobile_no, address, image_url, unique_id, role, assigned_by_email, assigned_at, join_date, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, v *models.Volunteer) error {
	// The sequence number is computed inside the INSERT so it cannot drift
	// from what gets persisted; the unique index rejects the loser if two
	// inserts race.
	row := s.querier(ctx).QueryRowContext(ctx, `
		INSERT INTO volunteers (`+volunteerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(unique_id), 0) + 1 FROM volunteers),
			$7, $8, $9, $10, $11, $12)
		RETURNING unique_id`,
		v.ID, v.Name, v.AAKNo, v.MobileNo, v.Address, v.ImageURL,
		v.Role, assignedEmail(v), assignedAt(v), v.JoinDate, v.CreatedAt, v.UpdatedAt,
	)
	if err := row.Scan(&v.UniqueID); err != nil {
		if isUniqueViolation(err, "volunteers_aak_no_key") {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create volunteer: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	row := s.querier(ctx).QueryRowContext(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE id = $1`, id)
	return scanVolunteer(row)
}

func (s *Postgres) ListNewestFirst(ctx context.Context) ([]*models.Volunteer, error) {
	rows, err := s.querier(ctx).QueryContext(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers ORDER BY created_at DESC, unique_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return collectVolunteers(rows)
}

func (s *Postgres) ListByRoleRank(ctx context.Context) ([]*models.Volunteer, error) {
	// Explicit rank mapping; never rely on the enum's string order.
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT `+volunteerColumns+` FROM volunteers
		ORDER BY CASE role
			WHEN 'president' THEN 0
			WHEN 'vice-president' THEN 1
			ELSE 2
		END, created_at DESC, unique_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list volunteers by role rank: %w", err)
	}
	return collectVolunteers(rows)
}

func (s *Postgres) FindByRole(ctx context.Context, role models.Role) (*models.Volunteer, error) {
	row := s.querier(ctx).QueryRowContext(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE role = $1 LIMIT 1`, role)
	return scanVolunteer(row)
}

// LockRole takes a transaction-scoped advisory lock keyed on the role name.
// Two transactions assigning the same exclusive role block each other here,
// so the second one sees the first one's committed holder. Read-committed
// isolation alone cannot do this for a vacant seat: there is no row to lock,
// and both plain reads would see nobody holding the role.
func (s *Postgres) LockRole(ctx context.Context, role models.Role) error {
	_, err := s.querier(ctx).ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('volunteer_role'), hashtext($1))`, string(role))
	if err != nil {
		return fmt.Errorf("lock role %s: %w", role, err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, v *models.Volunteer) error {
	res, err := s.querier(ctx).ExecContext(ctx, `
		UPDATE volunteers
		SET role = $2, assigned_by_email = $3, assigned_at = $4, updated_at = $5
		WHERE id = $1`,
		v.ID, v.Role, assignedEmail(v), assignedAt(v), v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update volunteer: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.querier(ctx).ExecContext(ctx, `DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) CountAll(ctx context.Context) (int, error) {
	var count int
	err := s.querier(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM volunteers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count volunteers: %w", err)
	}
	return count, nil
}

func (s *Postgres) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var count int
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM volunteers WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count volunteers by role: %w", err)
	}
	return count, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}

func assignedEmail(v *models.Volunteer) sql.NullString {
	if v.AssignedBy == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.AssignedBy.AdminEmail, Valid: true}
}

func assignedAt(v *models.Volunteer) sql.NullTime {
	if v.AssignedBy == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.AssignedBy.AssignedAt, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVolunteer(row rowScanner) (*models.Volunteer, error) {
	var (
		v     models.Volunteer
		email sql.NullString
		at    sql.NullTime
	)
	err := row.Scan(&v.ID, &v.Name, &v.AAKNo, &v.MobileNo, &v.Address, &v.ImageURL,
		&v.UniqueID, &v.Role, &email, &at, &v.JoinDate, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan volunteer: %w", err)
	}
	if email.Valid {
		v.AssignedBy = &models.RoleAssignment{AdminEmail: email.String, AssignedAt: at.Time}
	}
	return &v, nil
}

func collectVolunteers(rows *sql.Rows) ([]*models.Volunteer, error) {
	defer rows.Close()
	var out []*models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}
	return out, nil
}

// SQLTx runs fn inside a single database transaction carried through
// context; store calls within fn see and join that transaction. This is what
// makes the demote-then-promote pair atomic on Postgres.
type SQLTx struct {
	db *sql.DB
}

func NewSQLTx(db *sql.DB) *SQLTx {
	return &SQLTx{db: db}
}

func (t *SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
