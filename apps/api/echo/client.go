package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/client"
	"github.com/trezcool/wakala/core/session"
)

type clientApi struct {
	svc      client.ServiceInterface
	validate *validator.Validate
}

func registerClientAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sess echo.MiddlewareFunc,
	svc client.ServiceInterface,
	validate *validator.Validate,
) {
	api := clientApi{svc: svc, validate: validate}

	cg := g.Group("/clients", jwt, sess, navMiddleware(session.SectionClients))
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/campaigns", api.queryCampaignsByClient)
	cg.PUT("/:id", api.update)
	cg.DELETE("", api.destroyMultiple, adminMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())

	pg := g.Group("/campaigns", jwt, sess, navMiddleware(session.SectionCampaigns))
	pg.POST("", api.createCampaign)
	pg.GET("", api.queryCampaigns)
	pg.GET("/:id", api.retrieveCampaign)
	pg.PUT("/:id", api.updateCampaign)
	pg.DELETE("", api.destroyCampaigns, adminMiddleware())
	pg.DELETE("/:id", api.destroyCampaign, adminMiddleware())
}

// Client handlers

func (api *clientApi) create(ctx echo.Context) error {
	var data client.NewClient
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClient")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cl, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating client")
	}
	return ctx.JSON(http.StatusCreated, cl)
}

func (api *clientApi) query(ctx echo.Context) error {
	clients, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying clients")
	}
	if clients == nil {
		clients = []client.Client{}
	}
	return ctx.JSON(http.StatusOK, clients)
}

func (api *clientApi) retrieve(ctx echo.Context) error {
	cl, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cl)
}

func (api *clientApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data client.UpdateClient
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClient")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	cl, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating client")
	}
	return ctx.JSON(http.StatusOK, cl)
}

func (api *clientApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting client")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *clientApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting clients")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Campaign handlers

func (api *clientApi) createCampaign(ctx echo.Context) error {
	var data client.NewCampaign
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCampaign")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cp, err := api.svc.CreateCampaign(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating campaign")
	}
	return ctx.JSON(http.StatusCreated, cp)
}

func (api *clientApi) queryCampaigns(ctx echo.Context) error {
	cps, err := api.svc.QueryAllCampaigns(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying campaigns")
	}
	if cps == nil {
		cps = []client.Campaign{}
	}
	return ctx.JSON(http.StatusOK, cps)
}

func (api *clientApi) queryCampaignsByClient(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	cps, err := api.svc.QueryCampaignsByClient(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying campaigns by client")
	}
	if cps == nil {
		cps = []client.Campaign{}
	}
	return ctx.JSON(http.StatusOK, cps)
}

func (api *clientApi) retrieveCampaign(ctx echo.Context) error {
	cp, err := api.svc.GetCampaignByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cp)
}

func (api *clientApi) updateCampaign(ctx echo.Context) error {
	orig, err := api.svc.GetCampaignByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data client.UpdateCampaign
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCampaign")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	cp, err := api.svc.UpdateCampaign(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating campaign")
	}
	return ctx.JSON(http.StatusOK, cp)
}

func (api *clientApi) destroyCampaign(ctx echo.Context) error {
	if _, err := api.svc.GetCampaignByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.DeleteCampaigns(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting campaign")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *clientApi) destroyCampaigns(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.DeleteCampaigns(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting campaigns")
	}
	return ctx.NoContent(http.StatusNoContent)
}
