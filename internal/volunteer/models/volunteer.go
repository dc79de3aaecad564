package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "aakseva/pkg/domain-errors"
)

// Role is a volunteer's organizational rank.
//
// "employee" is the base rank every volunteer starts with (rendered as
// "Soorveer Yodha" on the site; the canonical value is what gets persisted).
// President and vice-president are exclusive: at most one record may hold
// each at any time, enforced by the role service.
type Role string

const (
	RoleEmployee      Role = "employee"
	RolePresident     Role = "president"
	RoleVicePresident Role = "vice-president"
)

// ParseRole validates a client-supplied role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RolePresident, RoleVicePresident:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid role")
	}
}

// Rank orders roles for admin listings: president first, then
// vice-president, then everyone else. An explicit map, not enum ordering,
// so renaming a role can never silently reshuffle the listing.
func (r Role) Rank() int {
	switch r {
	case RolePresident:
		return 0
	case RoleVicePresident:
		return 1
	default:
		return 2
	}
}

// Exclusive reports whether at most one volunteer may hold this role.
func (r Role) Exclusive() bool {
	return r == RolePresident || r == RoleVicePresident
}

// RoleAssignment records who last changed a volunteer's role and when.
type RoleAssignment struct {
	AdminEmail string    `json:"adminEmail"`
	AssignedAt time.Time `json:"assignedAt"`
}

// Volunteer is the aggregate root for a registered volunteer.
//
// Invariants:
//   - AAKNo is unique across all records (natural/business key)
//   - MobileNo is exactly 10 digits
//   - UniqueID is unique and strictly increasing in assignment order;
//     the store assigns it at creation time
//   - Only Role, AssignedBy and UpdatedAt change after creation
type Volunteer struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	AAKNo      string          `json:"aakNo"`
	MobileNo   string          `json:"mobileNo"`
	Address    string          `json:"address"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	UniqueID   int64           `json:"uniqueId"`
	Role       Role            `json:"role"`
	AssignedBy *RoleAssignment `json:"assignedBy,omitempty"`
	JoinDate   time.Time       `json:"joinDate"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

var mobileNoPattern = regexp.MustCompile(`^[0-9]{10}$`)

// NewVolunteer validates registration input and builds a record with the
// base role. The store assigns UniqueID on insert.
func NewVolunteer(name, aakNo, mobileNo, address, imageURL string, now time.Time) (*Volunteer, error) {
	name = strings.TrimSpace(name)
	aakNo = strings.TrimSpace(aakNo)
	mobileNo = strings.TrimSpace(mobileNo)
	address = strings.TrimSpace(address)

	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if aakNo == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "AAK number is required")
	}
	if !mobileNoPattern.MatchString(mobileNo) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "mobile number must be exactly 10 digits")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "address is required")
	}

	return &Volunteer{
		ID:        uuid.New(),
		Name:      name,
		AAKNo:     aakNo,
		MobileNo:  mobileNo,
		Address:   address,
		ImageURL:  imageURL,
		Role:      RoleEmployee,
		JoinDate:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyRole sets the volunteer's role and stamps the assignment.
func (v *Volunteer) ApplyRole(role Role, adminEmail string, now time.Time) {
	v.Role = role
	v.AssignedBy = &RoleAssignment{AdminEmail: adminEmail, AssignedAt: now}
	v.UpdatedAt = now
}

// ClearRole demotes the volunteer back to the base role.
func (v *Volunteer) ClearRole(adminEmail string, now time.Time) {
	v.ApplyRole(RoleEmployee, adminEmail, now)
}
