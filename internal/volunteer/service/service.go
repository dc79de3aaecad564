// Package service implements volunteer registration and lifecycle operations.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"aakseva/internal/audit"
	"aakseva/internal/media"
	"aakseva/internal/platform/metrics"
	"aakseva/internal/volunteer/models"
	"aakseva/internal/volunteer/store"
	dErrors "aakseva/pkg/domain-errors"
	"aakseva/pkg/platform/sentinel"
	"aakseva/pkg/requestcontext"
)

// RegisterInput carries the fields of a registration request. Image is
// optional; when present the service stores it and records the resulting URL
// on the volunteer.
type RegisterInput struct {
	Name     string
	AAKNo    string
	MobileNo string
	Address  string

	Image         io.Reader
	ImageFilename string
}

// Service coordinates volunteer persistence, image storage, auditing and
// metrics.
type Service struct {
	store    store.VolunteerStore
	media    media.Store
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(s store.VolunteerStore, m media.Store, recorder *audit.Recorder, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    s,
		media:    m,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Register validates the input, stores an uploaded image if any, and persists
// the new record. The store assigns the sequential unique id. A duplicate AAK
// number is rejected as a bad request.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Volunteer, error) {
	imageURL := ""
	if in.Image != nil {
		url, err := s.media.Save(ctx, in.ImageFilename, in.Image)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store image")
		}
		imageURL = url
	}

	v, err := models.NewVolunteer(in.Name, in.AAKNo, in.MobileNo, in.Address, imageURL, requestcontext.Now(ctx))
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, err
	}

	if err := s.store.Create(ctx, v); err != nil {
		s.discardImage(ctx, imageURL)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "volunteer with this AAK number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register volunteer")
	}

	s.metrics.IncVolunteersRegistered()
	s.recorder.Record(ctx, audit.ActionVolunteerRegistered, requestcontext.AdminEmail(ctx), v.ID.String(), v.AAKNo)
	return v, nil
}

// List returns all volunteers, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Volunteer, error) {
	vs, err := s.store.ListNewestFirst(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list volunteers")
	}
	return vs, nil
}

// ListByRoleRank returns all volunteers ordered for the admin view, role
// holders first.
func (s *Service) ListByRoleRank(ctx context.Context) ([]*models.Volunteer, error) {
	vs, err := s.store.ListByRoleRank(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list volunteers")
	}
	return vs, nil
}

// Get returns one volunteer by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "volunteer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch volunteer")
	}
	return v, nil
}

// Delete removes a volunteer record and its stored image.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "volunteer not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch volunteer")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "volunteer not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete volunteer")
	}

	// The record is gone; a leftover image file is only worth a log line.
	s.discardImage(ctx, v.ImageURL)

	s.metrics.IncVolunteersDeleted()
	s.recorder.Record(ctx, audit.ActionVolunteerDeleted, requestcontext.AdminEmail(ctx), id.String(), v.AAKNo)
	return nil
}

func (s *Service) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Remove(ctx, url); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to remove volunteer image",
			"image_url", url,
			"error", err,
		)
	}
}
