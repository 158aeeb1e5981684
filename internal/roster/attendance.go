package roster

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/petteraas52-ux/Surat-sub000/internal/metrics"
)

// writeParallelism bounds the fan-out of per-child remote writes.
const writeParallelism = 4

// ActionLabel is the bulk-action button text implied by the current
// selection.
type ActionLabel string

const (
	LabelSelectChildren ActionLabel = "select children"
	LabelCheckIn        ActionLabel = "check in"
	LabelCheckOut       ActionLabel = "check out"
	LabelUpdateStatus   ActionLabel = "update status"
)

// AnySelected reports whether at least one record is selected.
func (s *Session) AnySelected() bool {
	return len(s.selectedIdx()) > 0
}

// ActionLabel derives the bulk button text. A selection that mixes
// checked-in and checked-out children gets the neutral update label
// rather than a majority guess.
func (s *Session) ActionLabel() ActionLabel {
	idx := s.selectedIdx()
	if len(idx) == 0 {
		return LabelSelectChildren
	}
	allIn, allOut := true, true
	for _, i := range idx {
		if s.list[i].CheckedIn {
			allOut = false
		} else {
			allIn = false
		}
	}
	switch {
	case allIn:
		return LabelCheckOut
	case allOut:
		return LabelCheckIn
	default:
		return LabelUpdateStatus
	}
}

// ApplyBulkTransition moves every selected child to the same new
// attendance state: checked out if all were checked in, checked in
// otherwise. Local state updates first (optimistically); the per-child
// remote writes then fan out with bounded parallelism and the joined
// result is reported per child. Failed writes are not rolled back or
// retried.
func (s *Session) ApplyBulkTransition(ctx context.Context) Outcome {
	idx := s.selectedIdx()
	if len(idx) == 0 {
		return Outcome{Status: FullyApplied}
	}

	allCheckedIn := true
	for _, i := range idx {
		if !s.list[i].CheckedIn {
			allCheckedIn = false
			break
		}
	}
	newCheckedIn := !allCheckedIn

	ids := make([]string, 0, len(idx))
	for _, i := range idx {
		s.list[i].CheckedIn = newCheckedIn
		s.list[i].Selected = false
		if newCheckedIn {
			s.clearAbsence(i)
		}
		ids = append(ids, s.list[i].ID)
	}

	kind := "check_out"
	if newCheckedIn {
		kind = "check_in"
	}
	metrics.Transitions.WithLabelValues(kind).Inc()

	outcome := s.writeCheckedIn(ctx, kind, ids, newCheckedIn)
	if len(outcome.Applied) > 0 {
		s.notifier.AttendanceChanged(ctx, outcome.Applied)
	}
	return outcome
}

// ToggleSingle flips one child's attendance flag from the detail view,
// independent of selection state. Same optimistic-then-remote pattern as
// the bulk path, including the absence clearing on check-in.
func (s *Session) ToggleSingle(ctx context.Context, id string) Outcome {
	for i := range s.list {
		if s.list[i].ID != id {
			continue
		}
		s.list[i].CheckedIn = !s.list[i].CheckedIn
		newCheckedIn := s.list[i].CheckedIn
		if newCheckedIn {
			s.clearAbsence(i)
		}
		metrics.Transitions.WithLabelValues("toggle").Inc()
		outcome := s.writeCheckedIn(ctx, "toggle", []string{id}, newCheckedIn)
		if len(outcome.Applied) > 0 {
			s.notifier.AttendanceChanged(ctx, outcome.Applied)
		}
		return outcome
	}
	return Outcome{Status: FullyFailed, Failures: []Failure{{ChildID: id, Err: fmt.Errorf("child %s not in roster", id)}}}
}

// clearAbsence nulls the absence window; checking a child in implicitly
// cancels any recorded absence.
func (s *Session) clearAbsence(i int) {
	s.list[i].AbsenceType = ""
	s.list[i].AbsenceFrom = ""
	s.list[i].AbsenceTo = ""
}

// writeCheckedIn fans out the per-child point writes and joins them.
func (s *Session) writeCheckedIn(ctx context.Context, kind string, ids []string, checkedIn bool) Outcome {
	var (
		mu       sync.Mutex
		applied  []string
		failures []Failure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(writeParallelism)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := s.repo.SetCheckedIn(gctx, id, checkedIn)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.RemoteWriteFailures.WithLabelValues(kind).Inc()
				failures = append(failures, Failure{ChildID: id, Err: err})
				return nil
			}
			applied = append(applied, id)
			return nil
		})
	}
	_ = g.Wait()
	return outcomeOf(applied, failures)
}
