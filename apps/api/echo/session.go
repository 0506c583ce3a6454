package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/wakala/core/session"
)

// SessionResponse is the bootstrap payload the UI renders its shell from:
// the capability snapshot, the visible sections in display order, and where
// to land first.
type SessionResponse struct {
	Session  session.UserSession `json:"session"`
	Sections []session.Section   `json:"sections"`
	Landing  session.Landing     `json:"landing"`
}

func registerSessionAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc) {
	g.GET("/session", retrieveSession, jwt, sess)
}

func retrieveSession(ctx echo.Context) error {
	s, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		Session:  s,
		Sections: session.VisibleSections(s, session.Sections),
		Landing:  session.LandingFor(s, session.Sections),
	})
}
