package queue

import (
	"context"
	"log"
)

// Notifier adapts a Queue to the roster engine's change-signal interface.
// Publish failures are logged and swallowed: a missed rebuild signal
// degrades to a stale absence cache, never a failed user action.
type Notifier struct {
	Q Queue
}

// AttendanceChanged signals check-in state changes for childIDs.
func (n Notifier) AttendanceChanged(ctx context.Context, childIDs []string) {
	n.publish(ctx, KindAttendanceChanged, childIDs)
}

// AbsenceRecorded signals new absence log entries for childIDs.
func (n Notifier) AbsenceRecorded(ctx context.Context, childIDs []string) {
	n.publish(ctx, KindAbsenceRecorded, childIDs)
}

func (n Notifier) publish(ctx context.Context, kind string, childIDs []string) {
	if n.Q == nil || len(childIDs) == 0 {
		return
	}
	if err := n.Q.Publish(ctx, Message{Kind: kind, ChildIDs: childIDs}); err != nil {
		log.Printf("queue publish %s failed: %v", kind, err)
	}
}
