package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "children", "a", Fields{"firstName": "Vera", "checkedIn": false}))

	doc, err := m.Get(ctx, "children", "a")
	require.NoError(t, err)
	assert.Equal(t, "Vera", doc.Fields.Str("firstName"))
	assert.False(t, doc.Fields.Bool("checkedIn"))

	require.NoError(t, m.Update(ctx, "children", "a", Fields{"checkedIn": true}))
	doc, err = m.Get(ctx, "children", "a")
	require.NoError(t, err)
	assert.True(t, doc.Fields.Bool("checkedIn"))
	assert.Equal(t, "Vera", doc.Fields.Str("firstName"), "partial update keeps other fields")

	require.NoError(t, m.Delete(ctx, "children", "a"))
	_, err = m.Get(ctx, "children", "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateMissing(t *testing.T) {
	m := NewMemory()
	err := m.Update(context.Background(), "children", "nope", Fields{"x": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryQueryEqual(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "children", "a", Fields{"departmentId": "red"}))
	require.NoError(t, m.Set(ctx, "children", "b", Fields{"departmentId": "blue"}))
	require.NoError(t, m.Set(ctx, "children", "c", Fields{"departmentId": "red"}))

	docs, err := m.Query(ctx, "children", "departmentId", OpEqual, "red")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = m.Query(ctx, "children", "", "", nil)
	require.NoError(t, err)
	assert.Len(t, docs, 3, "empty field returns the whole collection")
}

func TestMemoryQueryArrayContains(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "children", "a", Fields{"guardianIds": []any{"g1", "g2"}}))
	require.NoError(t, m.Set(ctx, "children", "b", Fields{"guardianIds": []any{"g3"}}))

	docs, err := m.Query(ctx, "children", "guardianIds", OpArrayContains, "g2")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
}

func TestMemoryQueryUnsupportedOp(t *testing.T) {
	m := NewMemory()
	_, err := m.Query(context.Background(), "children", "x", Op(">"), 1)
	assert.Error(t, err)
}

func TestMemoryServerTimestamp(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.Add(ctx, "comments", Fields{"body": "hi", "createdAt": ServerTimestamp()})
	require.NoError(t, err)

	doc, err := m.Get(ctx, "comments", id)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Fields.Str("createdAt"))
}

func TestMemoryReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "children", "a", Fields{"firstName": "Vera"}))

	doc, err := m.Get(ctx, "children", "a")
	require.NoError(t, err)
	doc.Fields["firstName"] = "hacked"

	fresh, err := m.Get(ctx, "children", "a")
	require.NoError(t, err)
	assert.Equal(t, "Vera", fresh.Fields.Str("firstName"))
}

func TestMemoryRunAtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.RunAtomic(ctx, func(tx Store) error {
		if _, err := tx.Add(ctx, "accounts", Fields{"email": "a@b.c"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	docs, err := m.Query(ctx, "accounts", "", "", nil)
	require.NoError(t, err)
	assert.Empty(t, docs, "aborted writes are not visible")
}

func TestMemoryRunAtomicCommits(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.RunAtomic(ctx, func(tx Store) error {
		if _, err := tx.Add(ctx, "accounts", Fields{"email": "a@b.c"}); err != nil {
			return err
		}
		return tx.Set(ctx, "guardians", "u1", Fields{"name": "Kim"})
	})
	require.NoError(t, err)

	docs, err := m.Query(ctx, "accounts", "", "", nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	_, err = m.Get(ctx, "guardians", "u1")
	assert.NoError(t, err)
}

func TestSubPath(t *testing.T) {
	assert.Equal(t, "children/abc/absences", Sub("children", "abc", "absences"))
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields{
		"name":      "Vera",
		"checkedIn": true,
		"tags":      []any{"nuts", "milk", 3.0},
		"missing":   nil,
	}
	assert.Equal(t, "Vera", f.Str("name"))
	assert.Equal(t, "", f.Str("missing"))
	assert.True(t, f.Bool("checkedIn"))
	assert.False(t, f.Bool("absent"))
	assert.Equal(t, []string{"nuts", "milk"}, f.Strings("tags"), "non-strings are skipped")
	assert.Nil(t, f.Strings("name"))
}
