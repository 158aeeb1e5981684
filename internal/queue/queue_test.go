package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	out, err := q.Consume(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Publish(ctx, Message{Kind: KindAttendanceChanged, ChildIDs: []string{"c1", "c2"}}))
	require.NoError(t, q.Publish(ctx, Message{Kind: KindAbsenceRecorded, ChildIDs: []string{"c3"}}))

	first := receive(t, out)
	assert.Equal(t, KindAttendanceChanged, first.Kind)
	assert.Equal(t, []string{"c1", "c2"}, first.ChildIDs)

	second := receive(t, out)
	assert.Equal(t, KindAbsenceRecorded, second.Kind)
}

func TestInMemoryPublishCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := NewInMemory(0)
	err := q.Publish(ctx, Message{Kind: KindAttendanceChanged, ChildIDs: []string{"c1"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNotifierPublishesKinds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	n := Notifier{Q: q}
	out, err := q.Consume(ctx)
	require.NoError(t, err)

	n.AttendanceChanged(ctx, []string{"c1"})
	n.AbsenceRecorded(ctx, []string{"c2"})

	assert.Equal(t, KindAttendanceChanged, receive(t, out).Kind)
	assert.Equal(t, KindAbsenceRecorded, receive(t, out).Kind)
}

func TestNotifierSkipsEmpty(t *testing.T) {
	q := NewInMemory(0)
	n := Notifier{Q: q}

	// An unbuffered queue would block if anything were published.
	n.AttendanceChanged(context.Background(), nil)
	n.AbsenceRecorded(context.Background(), []string{})

	var nilGuard Notifier
	nilGuard.AttendanceChanged(context.Background(), []string{"c1"})
}

func receive(t *testing.T, out <-chan Message) Message {
	t.Helper()
	select {
	case msg := <-out:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}
