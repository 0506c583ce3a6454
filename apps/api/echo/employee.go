package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/session"
)

type employeeApi struct {
	svc      employee.ServiceInterface
	validate *validator.Validate
}

func registerEmployeeAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sess echo.MiddlewareFunc,
	svc employee.ServiceInterface,
	validate *validator.Validate,
) {
	api := employeeApi{svc: svc, validate: validate}

	eg := g.Group("/employees", jwt, sess)

	// management endpoints; admin only
	eg.POST("", api.create, adminMiddleware())
	eg.GET("", api.query, adminMiddleware())
	eg.PUT("/:id", api.update, adminMiddleware())
	eg.DELETE("", api.destroyMultiple, adminMiddleware())
	eg.DELETE("/:id", api.destroy, adminMiddleware())

	// an employee may always read their own record (profile page)
	eg.GET("/:id", api.retrieve, selfOrAdminMiddleware())
}

// selfOrAdminMiddleware admits admins and the employee whose record the
// route points at.
func selfOrAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if sess.IsAdmin || (sess.EmployeeID != "" && sess.EmployeeID == ctx.Param("id")) {
				return next(ctx)
			}
			return errHttpNotFound
		}
	}
}

// Handlers

func (api *employeeApi) create(ctx echo.Context) error {
	var data employee.NewEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEmployee")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	emp, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating employee")
	}
	return ctx.JSON(http.StatusCreated, emp)
}

func (api *employeeApi) query(ctx echo.Context) error {
	emps, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying employees")
	}
	if emps == nil {
		emps = []employee.Employee{}
	}
	return ctx.JSON(http.StatusOK, emps)
}

func (api *employeeApi) retrieve(ctx echo.Context) error {
	emp, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if !sess.IsAdmin {
		// employees never see each other's permission maps
		return ctx.JSON(http.StatusOK, newEmployeeProfile(emp, sess))
	}
	return ctx.JSON(http.StatusOK, emp)
}

func (api *employeeApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data employee.UpdateEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEmployee")
	}
	if err := data.Validate(api.validate, orig, api.svc); err != nil {
		return err
	}

	emp, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating employee")
	}
	return ctx.JSON(http.StatusOK, emp)
}

func (api *employeeApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting employee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *employeeApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting employees")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// EmployeeProfile is the self-view of an employee record.
type EmployeeProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	CanViewPlans bool   `json:"can_view_plans"`
}

func newEmployeeProfile(emp employee.Employee, sess session.UserSession) EmployeeProfile {
	return EmployeeProfile{
		ID:           emp.ID,
		Name:         emp.Name,
		Email:        emp.Email,
		Role:         emp.Role,
		CanViewPlans: sess.CanViewPlans,
	}
}
