// Package roster implements the state engine behind the attendance
// screens: a session-scoped, mutable view of a set of children that is
// kept in sync with the document store through optimistic point writes.
package roster

import (
	"context"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/metrics"
)

// Child is a child record annotated with per-session UI state. Selected
// always starts false on load and is reset after every bulk transition;
// the whole annotation is discarded on the next refresh.
type Child struct {
	children.Child
	Selected bool `json:"selected"`
}

// Scope selects whose roster a session shows: a guardian's own children
// or every child of a department. Exactly one field should be set.
type Scope struct {
	GuardianID   string
	DepartmentID string
}

// Repo is the slice of the children repository the engine needs.
type Repo interface {
	ByGuardian(ctx context.Context, uid string) ([]children.Child, error)
	ByDepartment(ctx context.Context, departmentID string) ([]children.Child, error)
	SetCheckedIn(ctx context.Context, id string, checkedIn bool) error
	AppendAbsence(ctx context.Context, childID, typ, from, to string) error
}

// Notifier receives change signals after remote writes settle, so the
// background worker can rebuild derived state. Implementations must not
// block.
type Notifier interface {
	AttendanceChanged(ctx context.Context, childIDs []string)
	AbsenceRecorded(ctx context.Context, childIDs []string)
}

type noopNotifier struct{}

func (noopNotifier) AttendanceChanged(context.Context, []string) {}
func (noopNotifier) AbsenceRecorded(context.Context, []string)  {}

// Session owns the roster for one mounted screen. It is not safe for
// concurrent use; each screen holds its own session and re-fetches to
// observe other writers.
type Session struct {
	repo     Repo
	notifier Notifier
	list     []Child
}

// NewSession creates an empty session over the repository. notifier may
// be nil.
func NewSession(repo Repo, notifier Notifier) *Session {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Session{repo: repo, notifier: notifier}
}

// Load fetches the roster for a scope and replaces the in-memory list.
// On failure the list becomes empty and a children/LOAD_FAILED error is
// returned; Load never panics past this boundary.
func (s *Session) Load(ctx context.Context, scope Scope) ([]Child, error) {
	var (
		recs []children.Child
		err  error
	)
	if scope.GuardianID != "" {
		recs, err = s.repo.ByGuardian(ctx, scope.GuardianID)
	} else {
		recs, err = s.repo.ByDepartment(ctx, scope.DepartmentID)
	}
	if err != nil {
		s.list = []Child{}
		metrics.RosterLoads.WithLabelValues("error").Inc()
		return s.list, apperr.New(apperr.DomainChildren, apperr.KindLoadFailed, err)
	}

	list := make([]Child, 0, len(recs))
	for _, rec := range recs {
		list = append(list, Child{Child: rec})
	}
	s.list = list
	metrics.RosterLoads.WithLabelValues("ok").Inc()
	return s.list, nil
}

// Refresh is Load under another name: a wholesale replacement of the
// list. Any optimistic mutation not yet confirmed remotely is discarded
// and all selection state resets; the last response to resolve wins.
func (s *Session) Refresh(ctx context.Context, scope Scope) ([]Child, error) {
	return s.Load(ctx, scope)
}

// ToggleSelect flips the selection flag of exactly one record. Unknown
// ids are a no-op. Pure local mutation, no remote call.
func (s *Session) ToggleSelect(id string) {
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].Selected = !s.list[i].Selected
			return
		}
	}
}

// Children returns the current in-memory roster.
func (s *Session) Children() []Child {
	return s.list
}

// selectedIdx returns the indices of the selected records.
func (s *Session) selectedIdx() []int {
	var idx []int
	for i := range s.list {
		if s.list[i].Selected {
			idx = append(idx, i)
		}
	}
	return idx
}
