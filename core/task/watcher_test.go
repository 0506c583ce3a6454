package task

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/session"
)

type fakeSubscription struct {
	events    chan ChangeEvent
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan ChangeEvent),
		closed: make(chan struct{}),
	}
}

func (s *fakeSubscription) Events() <-chan ChangeEvent { return s.events }

func (s *fakeSubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.events)
		close(s.closed)
	})
	return nil
}

func (s *fakeSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

type fakeSource struct {
	mu   sync.Mutex
	subs []*fakeSubscription
}

func (f *fakeSource) SubscribeTaskUpdates() (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := newFakeSubscription()
	f.subs = append(f.subs, sub)
	return sub, nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func updateEvent(title string, before, after null.String) ChangeEvent {
	return ChangeEvent{
		Op:     OpUpdate,
		Before: Task{Title: title, AssignedTo: before},
		After:  Task{Title: title, AssignedTo: after},
	}
}

func Test_filter(t *testing.T) {
	me := null.StringFrom("e1")
	other := null.StringFrom("e2")
	unassigned := null.String{}

	tests := []struct {
		name string
		ev   ChangeEvent
		want bool
	}{
		{"unassigned to me", updateEvent("Design banner", unassigned, me), true},
		{"reassigned from someone else to me", updateEvent("Design banner", other, me), true},
		{"already mine", updateEvent("Design banner", me, me), false},
		{"assigned to someone else", updateEvent("Design banner", unassigned, other), false},
		{"unassigned from me", updateEvent("Design banner", me, unassigned), false},
		{"insert never notifies", ChangeEvent{Op: OpInsert, After: Task{AssignedTo: me}}, false},
		{"delete never notifies", ChangeEvent{Op: OpDelete, Before: Task{AssignedTo: me}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := filter(tt.ev, "e1")
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, "New task assigned to you: Design banner", n.Message)
				assert.Equal(t, 5000, n.TimeoutMS)
				assert.True(t, n.Sound)
			}
		})
	}
}

func TestWatcher_notifiesOnAssignment(t *testing.T) {
	source := &fakeSource{}
	notifs := make(chan Notification, 4)
	watcher := NewWatcher(source, nopLogger{}, func(n Notification) { notifs <- n })

	err := watcher.Start(session.UserSession{UserID: "u1", EmployeeID: "e1"})
	require.NoError(t, err)
	defer watcher.Stop()

	sub := source.subs[0]
	sub.events <- updateEvent("Design banner", null.String{}, null.StringFrom("e2")) // not mine
	sub.events <- updateEvent("Print flyers", null.String{}, null.StringFrom("e1"))

	select {
	case n := <-notifs:
		assert.Equal(t, "New task assigned to you: Print flyers", n.Message)
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
	select {
	case n := <-notifs:
		t.Fatalf("unexpected notification %q", n.Message)
	default:
	}
}

func TestWatcher_singleSubscription(t *testing.T) {
	source := &fakeSource{}
	watcher := NewWatcher(source, nopLogger{}, func(Notification) {})

	require.NoError(t, watcher.Start(session.UserSession{UserID: "u1", EmployeeID: "e1"}))
	require.NoError(t, watcher.Start(session.UserSession{UserID: "u2", EmployeeID: "e2"}))
	defer watcher.Stop()

	require.Len(t, source.subs, 2)
	assert.True(t, source.subs[0].isClosed(), "starting again must close the previous subscription")
	assert.False(t, source.subs[1].isClosed())
}

func TestWatcher_unlinkedSessionDeactivates(t *testing.T) {
	source := &fakeSource{}
	watcher := NewWatcher(source, nopLogger{}, func(Notification) {})

	require.NoError(t, watcher.Start(session.UserSession{UserID: "u1", EmployeeID: "e1"}))
	require.NoError(t, watcher.Start(session.UserSession{UserID: "u2"}))

	require.Len(t, source.subs, 1)
	assert.True(t, source.subs[0].isClosed())
}

func TestWatcher_stopIsSynchronous(t *testing.T) {
	source := &fakeSource{}
	var mu sync.Mutex
	var raised []Notification
	watcher := NewWatcher(source, nopLogger{}, func(n Notification) {
		mu.Lock()
		raised = append(raised, n)
		mu.Unlock()
	})

	require.NoError(t, watcher.Start(session.UserSession{UserID: "u1", EmployeeID: "e1"}))
	watcher.Stop()

	assert.True(t, source.subs[0].isClosed())
	mu.Lock()
	assert.Empty(t, raised)
	mu.Unlock()

	// idempotent
	watcher.Stop()
}
