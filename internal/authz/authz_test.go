package authz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleMap map[string]Role

func (m roleMap) RoleByEmail(_ context.Context, email string) (Role, error) {
	r, ok := m[email]
	if !ok {
		return "", fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
	}
	return r, nil
}

type brokenResolver struct{}

func (brokenResolver) RoleByEmail(context.Context, string) (Role, error) {
	return "", errors.New("connection reset")
}

func TestRoleIsValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.IsValid(), r)
	}
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestGates(t *testing.T) {
	resolver := roleMap{
		"admin@x.com":     RoleAdmin,
		"volunteer@x.com": RoleVolunteer,
		"donor@x.com":     RoleDonor,
	}

	tests := []struct {
		email            string
		adminOnly        bool
		adminOrVolunteer bool
	}{
		{"admin@x.com", true, true},
		{"volunteer@x.com", false, true},
		{"donor@x.com", false, false},
		{"ghost@x.com", false, false},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			p := Principal{Email: tt.email}

			d := AdminOnly(resolver).Evaluate(ctx, p)
			assert.Equal(t, tt.adminOnly, d.Allowed)
			if !d.Allowed {
				assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(d.Err))
			}

			d = AdminOrVolunteer(resolver).Evaluate(ctx, p)
			assert.Equal(t, tt.adminOrVolunteer, d.Allowed)
		})
	}
}

func TestPipelineThreadsResolvedRole(t *testing.T) {
	d := AdminOrVolunteer(roleMap{"v@x.com": RoleVolunteer}).Evaluate(context.Background(), Principal{Email: "v@x.com"})

	require.True(t, d.Allowed)
	assert.Equal(t, RoleVolunteer, d.Principal.Role)
	assert.Equal(t, "v@x.com", d.Principal.Email)
}

func TestPipelineStopsAtFirstDenial(t *testing.T) {
	called := false
	pl := Pipeline{
		RequireRole(RoleAdmin),
		func(_ context.Context, p Principal) Decision {
			called = true
			return Permit(p)
		},
	}

	d := pl.Evaluate(context.Background(), Principal{Email: "d@x.com", Role: RoleDonor})

	assert.False(t, d.Allowed)
	assert.False(t, called)
}

func TestLoadRoleLookupFailureIsInternal(t *testing.T) {
	d := AdminOnly(brokenResolver{}).Evaluate(context.Background(), Principal{Email: "a@x.com"})

	assert.False(t, d.Allowed)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(d.Err))
}
