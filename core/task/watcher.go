package task

import (
	"fmt"
	"sync"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/session"
)

// Change operations, as carried on the realtime channel.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

type (
	// ChangeEvent is one task row change delivered by the realtime channel:
	// a before/after image pair. Consumed once and discarded.
	ChangeEvent struct {
		Op     string `json:"op"`
		Before Task   `json:"before"`
		After  Task   `json:"after"`
	}

	// Subscription is a live feed of task changes. Events is closed by Close
	// (and on transport loss); Close is safe to call more than once.
	Subscription interface {
		Events() <-chan ChangeEvent
		Close() error
	}

	// EventSource opens subscriptions on the task relation. The transport
	// owns reconnection; the watcher only consumes delivered events.
	EventSource interface {
		SubscribeTaskUpdates() (Subscription, error)
	}

	// Notification is what the watcher raises towards the UI. TimeoutMS is
	// the auto-dismiss delay; Sound asks the client for a best-effort
	// audible cue (playback failure must not affect anything).
	Notification struct {
		Message   string `json:"message"`
		TimeoutMS int    `json:"timeout_ms"`
		Sound     bool   `json:"sound"`
	}
)

const notificationTimeoutMS = 5000

// Watcher notifies an employee when a task transitions into being assigned
// to them. At most one subscription is active at a time; starting for a new
// session tears the previous one down first, and Stop is synchronous: once
// it returns, no further notification is raised.
type Watcher struct {
	source EventSource
	logger core.Logger
	notify func(Notification)

	mu         sync.Mutex
	sub        Subscription
	stop       chan struct{}
	done       chan struct{}
	employeeID string
}

func NewWatcher(source EventSource, logger core.Logger, notify func(Notification)) *Watcher {
	return &Watcher{source: source, logger: logger, notify: notify}
}

// Start begins watching on behalf of the given session. A session without an
// employee linkage deactivates the watcher instead (nothing to watch for).
func (w *Watcher) Start(sess session.UserSession) error {
	w.Stop()

	if sess.EmployeeID == "" {
		return nil
	}

	sub, err := w.source.SubscribeTaskUpdates()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.sub = sub
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.employeeID = sess.EmployeeID
	w.mu.Unlock()

	go w.run(sub, w.stop, w.done, sess.EmployeeID)
	return nil
}

// Stop tears down the active subscription, if any. It blocks until the event
// loop has exited; events still in flight when teardown is requested are
// drained without being raised.
func (w *Watcher) Stop() {
	w.mu.Lock()
	sub, stop, done := w.sub, w.stop, w.done
	w.sub, w.stop, w.done, w.employeeID = nil, nil, nil, ""
	w.mu.Unlock()

	if sub == nil {
		return
	}
	close(stop)
	if err := sub.Close(); err != nil {
		w.logger.Warn(fmt.Sprintf("closing task subscription: %v", err))
	}
	<-done
}

func (w *Watcher) run(sub Subscription, stop, done chan struct{}, employeeID string) {
	defer close(done)
	for ev := range sub.Events() {
		select {
		case <-stop:
			continue // drain without raising
		default:
		}
		if n, ok := filter(ev, employeeID); ok {
			w.notify(n)
		}
	}
}

// filter implements the assignment-transition check: notify only when the
// after image is assigned to the watching employee and the before image was
// not. Any other update (including edits to an already-assigned task) is
// ignored. Missed events degrade to missed notifications, nothing more.
func filter(ev ChangeEvent, employeeID string) (Notification, bool) {
	if ev.Op != OpUpdate {
		return Notification{}, false
	}
	after := ev.After.AssignedTo
	before := ev.Before.AssignedTo
	if !after.Valid || after.String != employeeID {
		return Notification{}, false
	}
	if before.Valid && before.String == employeeID {
		return Notification{}, false
	}
	return Notification{
		Message:   fmt.Sprintf("New task assigned to you: %s", ev.After.Title),
		TimeoutMS: notificationTimeoutMS,
		Sound:     true,
	}, true
}
