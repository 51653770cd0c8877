// Package authz holds the caller identity that flows through a request and
// the ordered capability checks that decide whether it may proceed.
package authz

import (
	"context"
	"errors"

	apperrors "github.com/blooner/bloodlink/pkg/errors"
)

// Role controls access to gated operations.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Roles lists every legal role.
var Roles = []Role{RoleDonor, RoleVolunteer, RoleAdmin}

// IsValid checks if the role is one of the predefined roles
func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	default:
		return false
	}
}

// Principal is the verified caller. Role is empty until a check resolves it.
type Principal struct {
	Email string
	Role  Role
}

// Decision is the outcome of a single check. Principal carries the caller
// as seen by the next check; Err explains a denial.
type Decision struct {
	Allowed   bool
	Principal Principal
	Err       error
}

func Permit(p Principal) Decision {
	return Decision{Allowed: true, Principal: p}
}

func Deny(p Principal, err error) Decision {
	return Decision{Allowed: false, Principal: p, Err: err}
}

// Check inspects the principal and permits or denies.
type Check func(ctx context.Context, p Principal) Decision

// Pipeline runs checks in order and stops at the first denial.
type Pipeline []Check

// Evaluate threads the principal through every check.
func (pl Pipeline) Evaluate(ctx context.Context, p Principal) Decision {
	d := Permit(p)
	for _, check := range pl {
		d = check(ctx, d.Principal)
		if !d.Allowed {
			return d
		}
	}
	return d
}

// RoleResolver looks up the stored role for an email. It returns an error
// wrapping apperrors.ErrNotFound when no user has that email.
type RoleResolver interface {
	RoleByEmail(ctx context.Context, email string) (Role, error)
}

// LoadRole resolves the caller's stored role. An unknown caller is denied.
func LoadRole(resolver RoleResolver) Check {
	return func(ctx context.Context, p Principal) Decision {
		role, err := resolver.RoleByEmail(ctx, p.Email)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return Deny(p, apperrors.Forbidden("forbidden access"))
			}
			return Deny(p, apperrors.Internal("Failed to resolve caller role", err))
		}
		p.Role = role
		return Permit(p)
	}
}

// RequireRole permits iff the principal's role is in roles.
func RequireRole(roles ...Role) Check {
	return func(_ context.Context, p Principal) Decision {
		for _, r := range roles {
			if p.Role == r {
				return Permit(p)
			}
		}
		return Deny(p, apperrors.Forbidden("forbidden access"))
	}
}

// AdminOnly is the gate for admin operations.
func AdminOnly(resolver RoleResolver) Pipeline {
	return Pipeline{LoadRole(resolver), RequireRole(RoleAdmin)}
}

// AdminOrVolunteer is the gate for staff operations.
func AdminOrVolunteer(resolver RoleResolver) Pipeline {
	return Pipeline{LoadRole(resolver), RequireRole(RoleAdmin, RoleVolunteer)}
}
