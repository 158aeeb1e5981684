package roster

import (
	"fmt"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
)

// OutcomeStatus classifies how much of a bulk transition reached the
// remote store.
type OutcomeStatus int

const (
	FullyApplied OutcomeStatus = iota
	PartiallyApplied
	FullyFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case FullyApplied:
		return "applied"
	case PartiallyApplied:
		return "partial"
	case FullyFailed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeStatus(%d)", int(s))
}

// Failure records one child whose remote write did not land.
type Failure struct {
	ChildID string
	Err     error
}

// Outcome reports a bulk transition per child instead of collapsing the
// batch into a single error string, so callers can tell exactly which
// records remain locally optimistic.
type Outcome struct {
	Status   OutcomeStatus
	Applied  []string
	Failures []Failure
}

func outcomeOf(applied []string, failures []Failure) Outcome {
	status := FullyApplied
	if len(failures) > 0 {
		status = PartiallyApplied
		if len(applied) == 0 {
			status = FullyFailed
		}
	}
	return Outcome{Status: status, Applied: applied, Failures: failures}
}

// Err returns nil when everything applied, otherwise a domain-tagged
// error carrying the first underlying failure.
func (o Outcome) Err(domain apperr.Domain) error {
	if o.Status == FullyApplied {
		return nil
	}
	var cause error
	if len(o.Failures) > 0 {
		cause = o.Failures[0].Err
	}
	return apperr.New(domain, apperr.KindServer, cause)
}

// FailedIDs lists the children whose writes failed.
func (o Outcome) FailedIDs() []string {
	ids := make([]string, 0, len(o.Failures))
	for _, f := range o.Failures {
		ids = append(ids, f.ChildID)
	}
	return ids
}
