package roster

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/dateutil"
	"github.com/petteraas52-ux/Surat-sub000/internal/metrics"
)

// Vacation length bounds in calendar days, inclusive.
const (
	MinVacationDays = 1
	MaxVacationDays = 30
)

// RegisterSicknessForSelected records a single-day sickness (today) for
// every selected child. Locally each child gets the absence window and
// is checked out and deselected; remotely one entry is appended to the
// child's absence log and the checked-in flag is cleared. The two writes
// per child are independent point writes, no transaction.
func (s *Session) RegisterSicknessForSelected(ctx context.Context) Outcome {
	today := dateutil.Today()
	metrics.Transitions.WithLabelValues("sickness").Inc()
	return s.registerAbsence(ctx, children.AbsenceSickness, today, today)
}

// RegisterVacationForSelected records a vacation of days calendar days
// starting today for every selected child. days is clamped to
// [MinVacationDays, MaxVacationDays]; the span is inclusive, so one day
// means today only.
func (s *Session) RegisterVacationForSelected(ctx context.Context, days int) Outcome {
	if days < MinVacationDays {
		days = MinVacationDays
	}
	if days > MaxVacationDays {
		days = MaxVacationDays
	}
	from := dateutil.Today()
	to, err := dateutil.SpanEnd(from, days)
	if err != nil {
		return Outcome{Status: FullyFailed, Failures: []Failure{{Err: err}}}
	}
	metrics.Transitions.WithLabelValues("vacation").Inc()
	return s.registerAbsence(ctx, children.AbsenceVacation, from, to)
}

func (s *Session) registerAbsence(ctx context.Context, typ, from, to string) Outcome {
	idx := s.selectedIdx()
	if len(idx) == 0 {
		return Outcome{Status: FullyApplied}
	}

	ids := make([]string, 0, len(idx))
	for _, i := range idx {
		s.list[i].AbsenceType = typ
		s.list[i].AbsenceFrom = from
		s.list[i].AbsenceTo = to
		s.list[i].CheckedIn = false
		s.list[i].Selected = false
		ids = append(ids, s.list[i].ID)
	}

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
			err := s.repo.AppendAbsence(gctx, id, typ, from, to)
			if err == nil {
				err = s.repo.SetCheckedIn(gctx, id, false)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.RemoteWriteFailures.WithLabelValues(typ).Inc()
				failures = append(failures, Failure{ChildID: id, Err: err})
				return nil
			}
			applied = append(applied, id)
			return nil
		})
	}
	_ = g.Wait()

	outcome := outcomeOf(applied, failures)
	if len(outcome.Applied) > 0 {
		s.notifier.AbsenceRecorded(ctx, outcome.Applied)
	}
	return outcome
}

// AbsenceLabel renders the human-readable absence text for a child:
// "Sick today (D.M)" / "Vacation (D.M)" for a single day and
// "Sick D.M–D.M" / "Vacation D.M–D.M" for a range. Empty when no
// absence is recorded.
func AbsenceLabel(c Child) string {
	if c.AbsenceType == "" {
		return ""
	}
	from := dateutil.DayMonth(c.AbsenceFrom)
	to := dateutil.DayMonth(c.AbsenceTo)
	switch c.AbsenceType {
	case children.AbsenceSickness:
		if c.AbsenceFrom == c.AbsenceTo {
			return fmt.Sprintf("Sick today (%s)", from)
		}
		return fmt.Sprintf("Sick %s–%s", from, to)
	case children.AbsenceVacation:
		if c.AbsenceFrom == c.AbsenceTo {
			return fmt.Sprintf("Vacation (%s)", from)
		}
		return fmt.Sprintf("Vacation %s–%s", from, to)
	}
	return ""
}
