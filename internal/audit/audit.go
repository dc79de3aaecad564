// Package audit captures who did what to the volunteer registry. Events are
// emitted from domain logic and fanned out to a store; keep the event
// transport-agnostic so stores can vary.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aakseva/pkg/requestcontext"
)

// Action names a recorded occurrence.
type Action string

const (
	ActionVolunteerRegistered Action = "volunteer_registered"
	ActionVolunteerDeleted    Action = "volunteer_deleted"
	ActionRoleAssigned        Action = "role_assigned"
	ActionRoleRemoved         Action = "role_removed"
	ActionAdminLoggedIn       Action = "admin_logged_in"
	ActionAdminLoginFailed    Action = "admin_login_failed"
	ActionAdminLoggedOut      Action = "admin_logged_out"
)

// Event is one audit trail entry.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Action     Action    `json:"action"`
	ActorEmail string    `json:"actorEmail,omitempty"`
	SubjectID  string    `json:"subjectId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	ClientIP   string    `json:"clientIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Store appends and lists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// Recorder enriches events with request metadata and writes them to the
// store. Recording is fail-open: a store failure is logged, never propagated,
// so an audit outage cannot block registrations or role changes.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record writes one event. Safe on a nil receiver so services can treat the
// recorder as optional.
func (r *Recorder) Record(ctx context.Context, action Action, actorEmail, subjectID, detail string) {
	if r == nil || r.store == nil {
		return
	}
	event := Event{
		ID:         uuid.New(),
		Action:     action,
		ActorEmail: actorEmail,
		SubjectID:  subjectID,
		Detail:     detail,
		RequestID:  requestcontext.RequestID(ctx),
		ClientIP:   requestcontext.ClientIP(ctx),
		UserAgent:  requestcontext.UserAgent(ctx),
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := r.store.Append(ctx, event); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "failed to append audit event",
			"action", action,
			"subject_id", subjectID,
			"error", err,
		)
	}
}
