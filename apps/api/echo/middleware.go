package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/user"
)

// sessionMiddleware resolves the caller's capability bundle for the request.
// Resolution runs on every request; a revoked permission takes effect on the
// very next call, not on the next login.
func sessionMiddleware(jwt *jwtHelper, userSvc user.ServiceInterface, resolver *session.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, userSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if !usr.IsActive {
				return errAccountDeactivated
			}

			sess, err := resolver.Resolve(ctx.Request().Context(), usr)
			if err != nil {
				return errors.Wrap(err, "resolving session")
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (session.UserSession, error) {
	if sess, ok := ctx.Get(contextSessionKey).(session.UserSession); ok {
		return sess, nil
	}
	return session.UserSession{}, errUnauthorized
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if sess.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// navMiddleware gates a route group on a navigation section key.
func navMiddleware(sectionKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if sess.HasNav(sectionKey) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// vaultViewMiddleware gates credential reads on the category in the route param.
func vaultViewMiddleware(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if sess.CanViewVault(ctx.Param(param)) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// vaultEditMiddleware gates credential writes on the category in the route param.
func vaultEditMiddleware(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if sess.CanEditVault(ctx.Param(param)) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
