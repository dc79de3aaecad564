// Package roles manages organizational role assignments.
//
// President and vice-president are single-holder seats. Assigning one to a
// volunteer demotes the current holder in the same transaction, so two
// concurrent assignments can never leave two holders behind.
package roles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"aakseva/internal/audit"
	"aakseva/internal/platform/metrics"
	"aakseva/internal/volunteer/models"
	"aakseva/internal/volunteer/store"
	dErrors "aakseva/pkg/domain-errors"
	"aakseva/pkg/platform/sentinel"
	"aakseva/pkg/requestcontext"
)

// DashboardStats summarizes the registry for the admin dashboard.
type DashboardStats struct {
	Total         int `json:"total"`
	President     int `json:"president"`
	VicePresident int `json:"vicePresident"`
	Employees     int `json:"employees"`
}

// Service applies role changes and computes dashboard statistics.
type Service struct {
	store    store.VolunteerStore
	tx       store.Tx
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(s store.VolunteerStore, tx store.Tx, recorder *audit.Recorder, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    s,
		tx:       tx,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// AssignRole gives a volunteer the named role. For exclusive roles the
// current holder, if any, is demoted to the base role inside the same
// transaction. Assigning the base role is equivalent to RemoveRole.
func (s *Service) AssignRole(ctx context.Context, volunteerID uuid.UUID, roleName, adminEmail string) (*models.Volunteer, error) {
	role, err := models.ParseRole(roleName)
	if err != nil {
		return nil, err
	}

	var assigned *models.Volunteer
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.store.FindByID(ctx, volunteerID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "volunteer not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch volunteer")
		}

		now := requestcontext.Now(ctx)

		if role.Exclusive() {
			// Serializes concurrent assignments of the same seat; without it
			// two transactions can both read a vacant seat and both promote.
			if err := s.store.LockRole(ctx, role); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock role")
			}
			holder, err := s.store.FindByRole(ctx, role)
			switch {
			case err == nil:
				if holder.ID == target.ID {
					// Already holds the seat; restamp the assignment.
					break
				}
				holder.ClearRole(adminEmail, now)
				if err := s.store.Update(ctx, holder); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to demote current holder")
				}
			case errors.Is(err, sentinel.ErrNotFound):
				// Seat is vacant.
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up current holder")
			}
		}

		target.ApplyRole(role, adminEmail, now)
		if err := s.store.Update(ctx, target); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign role")
		}
		assigned = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRoleAssignments(string(role))
	s.recorder.Record(ctx, audit.ActionRoleAssigned, adminEmail, volunteerID.String(), string(role))
	return assigned, nil
}

// RemoveRole demotes a volunteer back to the base role.
func (s *Service) RemoveRole(ctx context.Context, volunteerID uuid.UUID, adminEmail string) (*models.Volunteer, error) {
	var demoted *models.Volunteer
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.store.FindByID(ctx, volunteerID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "volunteer not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch volunteer")
		}

		target.ClearRole(adminEmail, requestcontext.Now(ctx))
		if err := s.store.Update(ctx, target); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove role")
		}
		demoted = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActionRoleRemoved, adminEmail, volunteerID.String(), "")
	return demoted, nil
}

// Stats counts the registry in parallel. Employees is derived from the total
// so the numbers always add up even if a count lands mid-assignment.
func (s *Service) Stats(ctx context.Context) (*DashboardStats, error) {
	var total, presidents, vicePresidents int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		presidents, err = s.store.CountByRole(gctx, models.RolePresident)
		return err
	})
	g.Go(func() error {
		var err error
		vicePresidents, err = s.store.CountByRole(gctx, models.RoleVicePresident)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute dashboard stats")
	}

	return &DashboardStats{
		Total:         total,
		President:     presidents,
		VicePresident: vicePresidents,
		Employees:     total - presidents - vicePresidents,
	}, nil
}
