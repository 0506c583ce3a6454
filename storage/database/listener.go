package database

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/task"
)

const taskChannel = "task_changes"

// TaskEventSource opens realtime subscriptions on the task relation using
// Postgres LISTEN/NOTIFY. Reconnection is owned by pq.Listener; events
// missed while disconnected are simply not delivered.
type TaskEventSource struct {
	connStr string
	logger  core.Logger
}

var _ task.EventSource = (*TaskEventSource)(nil)

func NewTaskEventSource(conf *core.Config, logger core.Logger) *TaskEventSource {
	return &TaskEventSource{connStr: ConnString(conf), logger: logger}
}

func (src *TaskEventSource) SubscribeTaskUpdates() (task.Subscription, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			src.logger.Warn(fmt.Sprintf("task listener: %v", err))
		}
	}
	listener := pq.NewListener(src.connStr, 10*time.Second, time.Minute, reportProblem)
	if err := listener.Listen(taskChannel); err != nil {
		_ = listener.Close()
		return nil, err
	}

	sub := &taskSubscription{
		listener: listener,
		events:   make(chan task.ChangeEvent, 16),
		closing:  make(chan struct{}),
		logger:   src.logger,
	}
	go sub.pump()
	return sub, nil
}

type taskSubscription struct {
	listener  *pq.Listener
	events    chan task.ChangeEvent
	closing   chan struct{}
	closeOnce sync.Once
	logger    core.Logger
}

var _ task.Subscription = (*taskSubscription)(nil)

func (sub *taskSubscription) Events() <-chan task.ChangeEvent { return sub.events }

func (sub *taskSubscription) Close() error {
	var err error
	sub.closeOnce.Do(func() {
		close(sub.closing)
		err = sub.listener.Close() // unblocks pump; Notify channel is closed
	})
	return err
}

func (sub *taskSubscription) pump() {
	defer close(sub.events)
	for {
		select {
		case <-sub.closing:
			return
		case n, ok := <-sub.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// connection loss marker; pq.Listener reconnects on its own
				continue
			}
			ev, err := decodeTaskEvent(n.Extra)
			if err != nil {
				sub.logger.Warn(fmt.Sprintf("task listener: bad payload: %v", err))
				continue
			}
			select {
			case sub.events <- ev:
			case <-sub.closing:
				return
			}
		}
	}
}

// wireTaskEvent mirrors the JSON built by the notify_task_change trigger.
type wireTaskEvent struct {
	Op     string     `json:"op"`
	Before *task.Task `json:"before"`
	After  *task.Task `json:"after"`
}

func decodeTaskEvent(payload string) (task.ChangeEvent, error) {
	var wire wireTaskEvent
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return task.ChangeEvent{}, err
	}
	ev := task.ChangeEvent{Op: wire.Op}
	if wire.Before != nil {
		ev.Before = *wire.Before
	}
	if wire.After != nil {
		ev.After = *wire.After
	}
	return ev, nil
}
