package guestlink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

func TestCreateAndListNewestDateFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	_, err := svc.Create(ctx, "c1", "Grandma Eva", "grandparent", "2025-03-10", "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "c1", "Uncle Jon", "uncle", "2025-03-20", "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "c2", "Grandma Eva", "grandparent", "2025-03-10", "u1")
	require.NoError(t, err)

	links, err := svc.ByChild(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Uncle Jon", links[0].GuestName)
	assert.Equal(t, "2025-03-20", links[0].Date)
	assert.Equal(t, "Grandma Eva", links[1].GuestName)
	assert.Equal(t, "c1", links[0].ChildID)
	assert.NotEmpty(t, links[0].CreatedAt)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	id, err := svc.Create(ctx, "c1", "Grandma Eva", "grandparent", "2025-03-10", "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, "c1", id))

	links, err := svc.ByChild(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, links)
}
