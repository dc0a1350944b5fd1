package operator

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRole  = errors.New("invalid operator role")
	ErrInvalidEmail = errors.New("invalid email format")
)

type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

func NewRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Operator is a staff account that can view dashboards and, depending on
// role, drive gates and grant extensions.
type Operator struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	createdAt    time.Time
}

func NewOperator(email Email, passwordHash string, role Role, now time.Time) (*Operator, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &Operator{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
	}, nil
}

func ReconstructOperator(id uuid.UUID, email Email, passwordHash string, role Role, createdAt time.Time) *Operator {
	return &Operator{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
	}
}

func (o *Operator) ID() uuid.UUID        { return o.id }
func (o *Operator) Email() Email         { return o.email }
func (o *Operator) PasswordHash() string { return o.passwordHash }
func (o *Operator) Role() Role           { return o.role }
func (o *Operator) CreatedAt() time.Time { return o.createdAt }
