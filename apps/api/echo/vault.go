package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/vault"
)

type vaultApi struct {
	svc      vault.ServiceInterface
	validate *validator.Validate
}

func registerVaultAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sess echo.MiddlewareFunc,
	svc vault.ServiceInterface,
	validate *validator.Validate,
) {
	api := vaultApi{svc: svc, validate: validate}

	vg := g.Group("/vault", jwt, sess, navMiddleware(session.SectionVault))

	// categories: listing is open to anyone with the vault section; the
	// response is filtered to the categories the caller can at least view.
	vg.GET("/categories", api.queryCategories)
	vg.POST("/categories", api.createCategory, adminMiddleware())
	vg.DELETE("/categories", api.destroyCategories, adminMiddleware())
	vg.DELETE("/categories/:id", api.destroyCategory, adminMiddleware())

	// credentials: per-category view/edit levels
	vg.GET("/categories/:id/credentials", api.queryCredentials, vaultViewMiddleware("id"))
	vg.POST("/categories/:id/credentials", api.createCredential, vaultEditMiddleware("id"))

	cg := vg.Group("/credentials/:id", credentialPermMiddleware(api.svc))
	cg.GET("", api.retrieveCredential)
	cg.PUT("", api.updateCredential)
	cg.DELETE("", api.destroyCredential)
}

// credentialPermMiddleware resolves the credential's category and gates the
// request on it: view level for reads, edit level for writes.
func credentialPermMiddleware(svc vault.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}

			cred, err := svc.GetCredentialByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return err
			}

			allowed := sess.CanEditVault(cred.CategoryID)
			if ctx.Request().Method == http.MethodGet {
				allowed = sess.CanViewVault(cred.CategoryID)
			}
			if !allowed {
				return errHttpForbidden
			}
			ctx.Set("credential", cred)
			return next(ctx)
		}
	}
}

// Handlers

func (api *vaultApi) createCategory(ctx echo.Context) error {
	var data vault.NewCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cat, err := api.svc.CreateCategory(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating vault category")
	}
	return ctx.JSON(http.StatusCreated, cat)
}

func (api *vaultApi) queryCategories(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	cats, err := api.svc.QueryCategories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying vault categories")
	}

	visible := make([]vault.Category, 0, len(cats))
	for _, cat := range cats {
		if sess.CanViewVault(cat.ID) {
			visible = append(visible, cat)
		}
	}
	return ctx.JSON(http.StatusOK, visible)
}

func (api *vaultApi) destroyCategory(ctx echo.Context) error {
	if _, err := api.svc.GetCategoryByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.DeleteCategories(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting vault category")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *vaultApi) destroyCategories(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.DeleteCategories(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting vault categories")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *vaultApi) createCredential(ctx echo.Context) error {
	var data vault.NewCredential
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCredential")
	}
	data.CategoryID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cred, err := api.svc.CreateCredential(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating credential")
	}
	return ctx.JSON(http.StatusCreated, cred)
}

func (api *vaultApi) queryCredentials(ctx echo.Context) error {
	if _, err := api.svc.GetCategoryByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}

	creds, err := api.svc.QueryByCategory(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying credentials")
	}
	if creds == nil {
		creds = []vault.Credential{}
	}
	return ctx.JSON(http.StatusOK, creds)
}

func (api *vaultApi) retrieveCredential(ctx echo.Context) error {
	cred, ok := ctx.Get("credential").(vault.Credential)
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, cred)
}

func (api *vaultApi) updateCredential(ctx echo.Context) error {
	orig, ok := ctx.Get("credential").(vault.Credential)
	if !ok {
		return errHttpNotFound
	}

	var data vault.UpdateCredential
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCredential")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	cred, err := api.svc.UpdateCredential(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating credential")
	}
	return ctx.JSON(http.StatusOK, cred)
}

func (api *vaultApi) destroyCredential(ctx echo.Context) error {
	cred, ok := ctx.Get("credential").(vault.Credential)
	if !ok {
		return errHttpNotFound
	}
	if err := api.svc.DeleteCredentials(ctx.Request().Context(), cred.ID); err != nil {
		return errors.Wrap(err, "deleting credential")
	}
	return ctx.NoContent(http.StatusNoContent)
}
