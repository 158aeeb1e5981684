package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageLookup(t *testing.T) {
	assert.Equal(t, "Could not load the list of children.", Message(DomainChildren, KindLoadFailed))
	assert.Equal(t, "Could not register the absence.", Message(DomainAbsence, KindCreateFailed))
}

func TestMessageFallsBackToDomainUnknown(t *testing.T) {
	// No fixed message for this pair; the domain unknown text wins.
	assert.Equal(t, "Something went wrong with the calendar.", Message(DomainCalendar, KindDeleteFailed))
}

func TestMessageFallsBackToGlobalUnknown(t *testing.T) {
	assert.Equal(t, globalUnknown, Message(Domain("bogus"), KindLoadFailed))
}

func TestErrorIsMatchesOnDomainAndKind(t *testing.T) {
	err := New(DomainCheckIn, KindServer, errors.New("socket closed"))
	assert.True(t, errors.Is(err, New(DomainCheckIn, KindServer, nil)))
	assert.False(t, errors.Is(err, New(DomainCheckIn, KindUpdateFailed, nil)))
	assert.False(t, errors.Is(err, New(DomainAbsence, KindServer, nil)))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := New(DomainCheckIn, KindServer, cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "checkInOut/SERVER")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "The attendance change was not saved everywhere. Pull to refresh.",
		UserMessage(New(DomainCheckIn, KindServer, nil)))
	assert.Equal(t, globalUnknown, UserMessage(errors.New("plain")))
}
