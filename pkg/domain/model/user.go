package model

import (
	"strings"
	"time"

	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

// UserID is the identity provider's opaque user id. It doubles as the key
// of the user's profile document.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// User is the stored profile of a person
type User struct {
	ID          UserID
	Name        string
	Email       string // always lowercase
	Role        types.Role
	Department  string
	Designation string
	Active      bool
	PhotoURL    string

	// InitiativeIDs lists the initiatives the user leads or is a member of,
	// in the order they were joined. The initiative list read path scopes
	// non-admin queries by this list.
	InitiativeIDs []InitiativeID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user bypasses initiative membership scoping
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}

// IsMemberOf reports whether id is in the user's membership list
func (u *User) IsMemberOf(id InitiativeID) bool {
	if u == nil {
		return false
	}
	for _, v := range u.InitiativeIDs {
		if v == id {
			return true
		}
	}
	return false
}

// NormalizeEmail returns the canonical form used for email comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserPatch names the profile fields a partial update writes. Nil fields are
// left untouched and the membership list is never part of a patch.
type UserPatch struct {
	Name        *string
	Role        *types.Role
	Department  *string
	Designation *string
	PhotoURL    *string
	Active      *bool
	UpdatedAt   time.Time
}

// Apply writes the set fields of p onto u
func (p *UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Designation != nil {
		u.Designation = *p.Designation
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
	if !p.UpdatedAt.IsZero() {
		u.UpdatedAt = p.UpdatedAt
	}
}
