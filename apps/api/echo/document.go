package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/document"
	"github.com/trezcool/wakala/core/session"
)

type documentApi struct {
	svc      document.ServiceInterface
	validate *validator.Validate
}

func registerDocumentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sess echo.MiddlewareFunc,
	svc document.ServiceInterface,
	validate *validator.Validate,
) {
	api := documentApi{svc: svc, validate: validate}

	dg := g.Group("/documents", jwt, sess, navMiddleware(session.SectionDocuments))
	dg.POST("", api.create)
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
	dg.PUT("/:id", api.update)
	dg.DELETE("", api.destroyMultiple, adminMiddleware())
	dg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *documentApi) create(ctx echo.Context) error {
	var data document.NewDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDocument")
	}

	// stamp the uploader from the session, never from the payload
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	data.UploadedBy.Valid = false
	if sess.EmployeeID != "" {
		data.UploadedBy.SetValid(sess.EmployeeID)
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	doc, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) query(ctx echo.Context) error {
	docs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying documents")
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	doc, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data document.UpdateDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDocument")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	doc, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *documentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting documents")
	}
	return ctx.NoContent(http.StatusNoContent)
}
