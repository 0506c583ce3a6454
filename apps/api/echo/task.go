package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/task"
)

type taskApi struct {
	svc      task.ServiceInterface
	validate *validator.Validate
}

func registerTaskAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sess echo.MiddlewareFunc,
	svc task.ServiceInterface,
	validate *validator.Validate,
) {
	api := taskApi{svc: svc, validate: validate}

	tg := g.Group("/tasks", jwt, sess, navMiddleware(session.SectionTasks))
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.GET("/mine", api.queryMine)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.PUT("/:id/assign", api.assign)
	tg.DELETE("", api.destroyMultiple, adminMiddleware())
	tg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tsk, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskApi) query(ctx echo.Context) error {
	tasks, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

// queryMine lists the tasks assigned to the calling employee.
func (api *taskApi) queryMine(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if sess.EmployeeID == "" {
		return ctx.JSON(http.StatusOK, []task.Task{})
	}

	tasks, err := api.svc.QueryByAssignee(ctx.Request().Context(), sess.EmployeeID)
	if err != nil {
		return errors.Wrap(err, "querying tasks by assignee")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	tsk, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	tsk, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) assign(ctx echo.Context) error {
	var data AssignTaskRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTaskRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	tsk, err := api.svc.Assign(ctx.Request().Context(), ctx.Param("id"), data.EmployeeID)
	if err != nil {
		return errors.Wrap(err, "assigning task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *taskApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type AssignTaskRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}
