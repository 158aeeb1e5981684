package roster

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/dateutil"
)

func TestRegisterSicknessForSelected(t *testing.T) {
	repo := newFakeRepo(child("a", true), child("b", false), child("c", true))
	notifier := &fakeNotifier{}
	sess := loadSession(t, repo, notifier, "a", "b")

	outcome := sess.RegisterSicknessForSelected(context.Background())
	assert.Equal(t, FullyApplied, outcome.Status)

	today := dateutil.Today()
	for _, c := range sess.Children() {
		if c.ID == "c" {
			assert.True(t, c.CheckedIn, "unselected child untouched")
			continue
		}
		assert.Equal(t, children.AbsenceSickness, c.AbsenceType)
		assert.Equal(t, today, c.AbsenceFrom)
		assert.Equal(t, today, c.AbsenceTo)
		assert.False(t, c.CheckedIn)
		assert.False(t, c.Selected)
	}

	// One history entry per child, plus the checked-in point write.
	require.Len(t, repo.appends, 2)
	for _, entry := range repo.appends {
		assert.Equal(t, children.AbsenceSickness, entry.Type)
		assert.Equal(t, today, entry.From)
		assert.Equal(t, today, entry.To)
	}
	assert.False(t, repo.byID["a"].CheckedIn)
	assert.False(t, repo.byID["b"].CheckedIn)

	require.Len(t, notifier.absence, 1)
	assert.Equal(t, []string{"a", "b"}, notifier.absence[0])
}

func TestRegisterVacationRange(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		wantSpan int
	}{
		{"five days", 5, 5},
		{"one day", 1, 1},
		{"zero clamps to one", 0, 1},
		{"over maximum clamps to thirty", 45, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(child("a", true))
			sess := loadSession(t, repo, nil, "a")

			outcome := sess.RegisterVacationForSelected(context.Background(), tt.days)
			require.Equal(t, FullyApplied, outcome.Status)

			got := sess.Children()[0]
			assert.Equal(t, children.AbsenceVacation, got.AbsenceType)
			assert.Equal(t, dateutil.Today(), got.AbsenceFrom)
			wantTo, err := dateutil.SpanEnd(dateutil.Today(), tt.wantSpan)
			require.NoError(t, err)
			assert.Equal(t, wantTo, got.AbsenceTo)
			assert.False(t, got.CheckedIn)
		})
	}
}

func TestRegisterAbsenceEmptySelection(t *testing.T) {
	repo := newFakeRepo(child("a", true))
	sess := loadSession(t, repo, nil)

	outcome := sess.RegisterSicknessForSelected(context.Background())
	assert.Equal(t, FullyApplied, outcome.Status)
	assert.Empty(t, repo.appends)
	assert.True(t, repo.byID["a"].CheckedIn)
}

func TestRegisterAbsencePartialFailure(t *testing.T) {
	repo := newFakeRepo(child("a", true), child("b", true))
	repo.failAppend["b"] = errors.New("append refused")
	notifier := &fakeNotifier{}
	sess := loadSession(t, repo, notifier, "a", "b")

	outcome := sess.RegisterSicknessForSelected(context.Background())
	assert.Equal(t, PartiallyApplied, outcome.Status)
	assert.Equal(t, []string{"b"}, outcome.FailedIDs())
	applied := append([]string(nil), outcome.Applied...)
	sort.Strings(applied)
	assert.Equal(t, []string{"a"}, applied)

	// Local view is optimistic for both; the failed child's remote
	// state is now inconsistent until the next refresh.
	for _, c := range sess.Children() {
		assert.Equal(t, children.AbsenceSickness, c.AbsenceType)
	}
	assert.True(t, repo.byID["b"].CheckedIn)

	require.Len(t, notifier.absence, 1)
	assert.Equal(t, []string{"a"}, notifier.absence[0])
}

func TestAbsenceLabel(t *testing.T) {
	mk := func(typ, from, to string) Child {
		c := Child{}
		c.AbsenceType = typ
		c.AbsenceFrom = from
		c.AbsenceTo = to
		return c
	}
	tests := []struct {
		name string
		in   Child
		want string
	}{
		{"no absence", Child{}, ""},
		{"sick single day", mk(children.AbsenceSickness, "2025-03-01", "2025-03-01"), "Sick today (01.03)"},
		{"sick range", mk(children.AbsenceSickness, "2025-03-01", "2025-03-03"), "Sick 01.03–03.03"},
		{"vacation single day", mk(children.AbsenceVacation, "2025-03-01", "2025-03-01"), "Vacation (01.03)"},
		{"vacation range", mk(children.AbsenceVacation, "2025-03-01", "2025-03-05"), "Vacation 01.03–05.03"},
		{"unknown type", mk("other", "2025-03-01", "2025-03-01"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsenceLabel(tt.in))
		})
	}
}
