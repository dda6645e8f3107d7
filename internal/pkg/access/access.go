// Package access decides whether an actor may perform an operation.
//
// Roles are compared by exact tag. An admin does not inherit client or
// professional permissions; operations open to more than one role use
// AuthorizeAny.
package access

import (
	"crypto/subtle"
	"errors"

	"txunajob/internal/domain"
)

type Actor struct {
	ID   int64
	Role domain.Role
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonRoleMismatch    Reason = "role_mismatch"
	ReasonNotOwner        Reason = "not_owner"
	ReasonRegistrationKey Reason = "invalid_registration_key"
)

var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrRoleMismatch        = errors.New("role not permitted")
	ErrNotOwner            = errors.New("resource belongs to another account")
	ErrInvalidRegistration = errors.New("admin registration key invalid")
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason Reason) Decision { return Decision{Reason: reason} }

// Err maps a denial to its sentinel error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonNotOwner:
		return ErrNotOwner
	case ReasonRegistrationKey:
		return ErrInvalidRegistration
	default:
		return ErrRoleMismatch
	}
}

// Authorize checks the actor against required and, when ownerID is given,
// against the owning account.
func Authorize(actor *Actor, required domain.Role, ownerID *int64) Decision {
	if actor == nil || actor.ID <= 0 {
		return Deny(ReasonUnauthenticated)
	}
	if actor.Role != required {
		return Deny(ReasonRoleMismatch)
	}
	if ownerID != nil && *ownerID != actor.ID {
		return Deny(ReasonNotOwner)
	}
	return Allow()
}

func AuthorizeAny(actor *Actor, roles ...domain.Role) Decision {
	if actor == nil || actor.ID <= 0 {
		return Deny(ReasonUnauthenticated)
	}
	for _, r := range roles {
		if actor.Role == r {
			return Allow()
		}
	}
	return Deny(ReasonRoleMismatch)
}

// AuthorizeAdminRegistration is the admin self-registration rule. While no
// admin exists, any caller holding the bootstrap key may register. After
// that only an authenticated admin may. An empty expected key never
// matches.
func AuthorizeAdminRegistration(adminCount int64, actor *Actor, suppliedKey, expectedKey string) Decision {
	if adminCount == 0 {
		if expectedKey == "" || subtle.ConstantTimeCompare([]byte(suppliedKey), []byte(expectedKey)) != 1 {
			return Deny(ReasonRegistrationKey)
		}
		return Allow()
	}
	return Authorize(actor, domain.RoleAdmin, nil)
}
