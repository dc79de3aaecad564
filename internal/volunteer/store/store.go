// Package store persists volunteer records.
//
// Stores are interface-driven so the in-memory implementation can back unit
// tests and small deployments while Postgres serves production, without
// rewiring business code. Store methods return sentinel errors; services
// translate them into domain errors.
package store

import (
	"context"

	"github.com/google/uuid"

	"aakseva/internal/volunteer/models"
)

// VolunteerStore is the persistence contract for volunteer records.
type VolunteerStore interface {
	// Create persists a new record, assigning its UniqueID as the current
	// maximum plus one (1 for the first record). Returns
	// sentinel.ErrAlreadyUsed when the AAK number is taken.
	Create(ctx context.Context, v *models.Volunteer) error

	// FindByID returns sentinel.ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)

	// ListNewestFirst returns all records ordered by creation time descending.
	ListNewestFirst(ctx context.Context) ([]*models.Volunteer, error)

	// ListByRoleRank returns all records ordered by role rank (president
	// first), then creation time descending.
	ListByRoleRank(ctx context.Context) ([]*models.Volunteer, error)

	// FindByRole returns the current holder of an exclusive role, or
	// sentinel.ErrNotFound when the seat is vacant.
	FindByRole(ctx context.Context, role models.Role) (*models.Volunteer, error)

	// LockRole serializes assignment of an exclusive role until the
	// surrounding RunInTx completes. A row lock cannot cover a vacant seat,
	// so the lock keys on the role itself. Must be called inside RunInTx.
	LockRole(ctx context.Context, role models.Role) error

	// Update persists role changes. Returns sentinel.ErrNotFound for
	// unknown ids.
	Update(ctx context.Context, v *models.Volunteer) error

	// Delete removes a record. Returns sentinel.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id uuid.UUID) error

	CountAll(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
}

// Tx serializes multi-write sequences. The SQL implementation opens a real
// transaction and carries it through context; the in-memory implementation
// holds a mutex for the duration of fn.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
