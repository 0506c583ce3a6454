package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/task"
)

type notificationApi struct {
	source task.EventSource
	logger core.Logger
}

func registerNotificationAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sess echo.MiddlewareFunc,
	source task.EventSource,
	logger core.Logger,
) {
	api := notificationApi{source: source, logger: logger}
	g.GET("/notifications/stream", api.stream, jwt, sess)
}

// stream pushes assignment notifications to the caller over SSE. One watcher
// per connection; disconnecting tears its subscription down before the
// handler returns.
func (api *notificationApi) stream(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	notifs := make(chan task.Notification, 8)
	watcher := task.NewWatcher(api.source, api.logger, func(n task.Notification) {
		select {
		case notifs <- n:
		default: // slow client; drop rather than block the event loop
		}
	})
	if err := watcher.Start(sess); err != nil {
		return err
	}
	defer watcher.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case n := <-notifs:
			payload, err := json.Marshal(n)
			if err != nil {
				api.logger.Error(fmt.Sprintf("marshaling notification: %v", err), err)
				continue
			}
			if _, err := fmt.Fprintf(res, "event: notification\ndata: %s\n\n", payload); err != nil {
				return nil // client gone
			}
			res.Flush()
		}
	}
}
