package apperr

import (
	"errors"
	"fmt"
)

// Domain identifies the feature area an error belongs to.
type Domain string

const (
	DomainChildren  Domain = "children"
	DomainParents   Domain = "parents"
	DomainEvents    Domain = "events"
	DomainImage     Domain = "image"
	DomainCheckIn   Domain = "checkInOut"
	DomainAbsence   Domain = "absence"
	DomainCalendar  Domain = "calendar"
	DomainGuestLink Domain = "guestLink"
	DomainAuth      Domain = "auth"
	DomainGeneral   Domain = "general"
)

// Kind classifies what went wrong within a domain.
type Kind string

const (
	KindLoadFailed   Kind = "LOAD_FAILED"
	KindCreateFailed Kind = "CREATE_FAILED"
	KindUpdateFailed Kind = "UPDATE_FAILED"
	KindDeleteFailed Kind = "DELETE_FAILED"
	KindServer       Kind = "SERVER"
	KindNetwork      Kind = "NETWORK"
	KindUnknown      Kind = "UNKNOWN"
)

// Error is a domain-tagged error with a fixed user-facing message.
type Error struct {
	Domain Domain
	Kind   Kind
	Err    error
}

// New wraps err with a (domain, kind) tag.
func New(domain Domain, kind Kind, err error) *Error {
	return &Error{Domain: domain, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s/%s: %v", e.Domain, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s/%s", e.Domain, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on (domain, kind) so callers can test with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Domain == t.Domain && e.Kind == t.Kind
}

const globalUnknown = "Something went wrong. Please try again."

var messages = map[Domain]map[Kind]string{
	DomainChildren: {
		KindLoadFailed:   "Could not load the list of children.",
		KindCreateFailed: "Could not register the child.",
		KindUpdateFailed: "Could not save changes to the child.",
		KindUnknown:      "Something went wrong with the children list.",
	},
	DomainParents: {
		KindLoadFailed: "Could not load guardian information.",
		KindUnknown:    "Something went wrong with guardian information.",
	},
	DomainEvents: {
		KindLoadFailed:   "Could not load events.",
		KindCreateFailed: "Could not create the event.",
		KindUnknown:      "Something went wrong with events.",
	},
	DomainImage: {
		KindCreateFailed: "Could not upload the photo.",
		KindLoadFailed:   "Could not load the photo.",
		KindUnknown:      "Something went wrong with the photo.",
	},
	DomainCheckIn: {
		KindUpdateFailed: "Could not update attendance.",
		KindServer:       "The attendance change was not saved everywhere. Pull to refresh.",
		KindUnknown:      "Something went wrong with attendance.",
	},
	DomainAbsence: {
		KindCreateFailed: "Could not register the absence.",
		KindServer:       "The absence was not saved everywhere. Pull to refresh.",
		KindUnknown:      "Something went wrong with absence registration.",
	},
	DomainCalendar: {
		KindLoadFailed: "Could not load the calendar.",
		KindUnknown:    "Something went wrong with the calendar.",
	},
	DomainGuestLink: {
		KindCreateFailed: "Could not register the pickup authorization.",
		KindLoadFailed:   "Could not load pickup authorizations.",
		KindDeleteFailed: "Could not revoke the pickup authorization.",
		KindUnknown:      "Something went wrong with pickup authorizations.",
	},
	DomainAuth: {
		KindServer:  "Sign-in failed. Check your email and password.",
		KindNetwork: "No connection. Check your network and try again.",
		KindUnknown: "Something went wrong with sign-in.",
	},
	DomainGeneral: {
		KindNetwork: "No connection. Check your network and try again.",
		KindUnknown: globalUnknown,
	},
}

// Message returns the fixed user-facing text for a (domain, kind) pair.
// Unrecognized pairs fall back to the domain's unknown message, then to
// the global unknown message.
func Message(domain Domain, kind Kind) string {
	if byKind, ok := messages[domain]; ok {
		if msg, ok := byKind[kind]; ok {
			return msg
		}
		if msg, ok := byKind[KindUnknown]; ok {
			return msg
		}
	}
	return globalUnknown
}

// UserMessage resolves the display text for any error, using the taxonomy
// when err carries a tag and the global fallback otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return Message(e.Domain, e.Kind)
	}
	return globalUnknown
}
