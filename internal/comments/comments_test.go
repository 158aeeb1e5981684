package comments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

func TestAddAndListByChild(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	_, err := svc.Add(ctx, "c1", "u1", "Kari", "slept well")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "c1", "u2", "Per", "picked up early")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "c2", "u1", "Kari", "other child")
	require.NoError(t, err)

	list, err := svc.ByChild(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "slept well", list[0].Body)
	assert.Equal(t, "picked up early", list[1].Body)
	assert.Equal(t, "Kari", list[0].AuthorName)
	assert.LessOrEqual(t, list[0].CreatedAt, list[1].CreatedAt)
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	id, err := svc.Add(ctx, "c1", "u1", "Kari", "to be removed")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	list, err := svc.ByChild(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListEmptyChild(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	list, err := svc.ByChild(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}
