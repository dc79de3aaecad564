package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
type Metrics struct {
	VolunteersRegistered prometheus.Counter
	VolunteersDeleted    prometheus.Counter
	RoleAssignments      *prometheus.CounterVec
	AdminLoginFailures   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		VolunteersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aakseva_volunteers_registered_total",
			Help: "Total number of volunteer registrations",
		}),
		VolunteersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aakseva_volunteers_deleted_total",
			Help: "Total number of volunteer records deleted",
		}),
		RoleAssignments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aakseva_role_assignments_total",
			Help: "Total number of role assignments, by assigned role",
		}, []string{"role"}),
		AdminLoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aakseva_admin_login_failures_total",
			Help: "Total number of failed admin login attempts",
		}),
	}
}

// IncVolunteersRegistered increments the registration counter by 1.
func (m *Metrics) IncVolunteersRegistered() {
	if m != nil {
		m.VolunteersRegistered.Inc()
	}
}

// IncVolunteersDeleted increments the deletion counter by 1.
func (m *Metrics) IncVolunteersDeleted() {
	if m != nil {
		m.VolunteersDeleted.Inc()
	}
}

// IncRoleAssignments increments the assignment counter for the given role.
func (m *Metrics) IncRoleAssignments(role string) {
	if m != nil {
		m.RoleAssignments.WithLabelValues(role).Inc()
	}
}

// IncAdminLoginFailures increments the failed-login counter by 1.
func (m *Metrics) IncAdminLoginFailures() {
	if m != nil {
		m.AdminLoginFailures.Inc()
	}
}
