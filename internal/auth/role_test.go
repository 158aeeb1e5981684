package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

func TestResolveActorStaff(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Set(ctx, CollStaff, "u1", docstore.Fields{
		"name":         "Kari",
		"departmentId": "red",
	}))

	actor, err := ResolveActor(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, ActorStaff, actor.Kind)
	require.NotNil(t, actor.Staff)
	assert.Nil(t, actor.Guardian)
	assert.Equal(t, "Kari", actor.Staff.Name)
	assert.Equal(t, "red", actor.Staff.DepartmentID)
	assert.Equal(t, RoleStaff, actor.Role())
}

func TestResolveActorAdminFlag(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Set(ctx, CollStaff, "u1", docstore.Fields{
		"name":  "Kari",
		"admin": true,
	}))

	actor, err := ResolveActor(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, ActorStaff, actor.Kind)
	assert.Equal(t, RoleAdmin, actor.Role())
}

func TestResolveActorGuardian(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Set(ctx, CollGuardians, "u2", docstore.Fields{
		"name":  "Per",
		"phone": "99887766",
	}))

	actor, err := ResolveActor(ctx, store, "u2")
	require.NoError(t, err)
	assert.Equal(t, ActorGuardian, actor.Kind)
	require.NotNil(t, actor.Guardian)
	assert.Nil(t, actor.Staff)
	assert.Equal(t, "Per", actor.Guardian.Name)
	assert.Equal(t, RoleGuardian, actor.Role())
}

func TestResolveActorStaffWinsOverGuardian(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Set(ctx, CollStaff, "u3", docstore.Fields{"name": "Kari"}))
	require.NoError(t, store.Set(ctx, CollGuardians, "u3", docstore.Fields{"name": "Kari"}))

	actor, err := ResolveActor(ctx, store, "u3")
	require.NoError(t, err)
	assert.Equal(t, ActorStaff, actor.Kind)
}

func TestResolveActorUnresolved(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	actor, err := ResolveActor(ctx, store, "ghost")
	require.NoError(t, err)
	assert.Equal(t, ActorUnresolved, actor.Kind)
	assert.Nil(t, actor.Staff)
	assert.Nil(t, actor.Guardian)
	assert.Empty(t, actor.Role())
}

func TestIssueParseRoundtrip(t *testing.T) {
	pair, err := Issue("u1", RoleStaff, "nursery", "secret", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := Parse(pair.AccessToken, "secret", "nursery")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, RoleStaff, claims.Role)

	_, err = Parse(pair.AccessToken, "other-secret", "nursery")
	assert.Error(t, err)

	_, err = Parse(pair.AccessToken, "secret", "someone-else")
	assert.Error(t, err)
}
