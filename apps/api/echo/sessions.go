package echoapi

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/bulletin/core/provider"
	"github.com/trezcool/bulletin/core/session"
)

type sessionApi struct {
	svc session.ServiceInterface
}

func registerSessionAPI(g *echo.Group, svc session.ServiceInterface) {
	api := sessionApi{svc: svc}

	sg := g.Group("/sessions")
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/reset", api.reset)
	dg.POST("/undo", api.undo)

	cg := dg.Group("/courses/:course")
	cg.POST("/assignments", api.addAssignment)
	cg.PUT("/assignments/:assignment", api.updatePoints)
	cg.DELETE("/assignments/:assignment", api.deleteAssignment)
	cg.POST("/categories/:category/toggle", api.toggleCategory)
}

// param returns the path parameter `name`, unescaped: course & assignment names carry spaces, parentheses...
func param(ctx echo.Context, name string) string {
	val := ctx.Param(name)
	if unescaped, err := url.PathUnescape(val); err == nil {
		return unescaped
	}
	return val
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	var data provider.Gradebook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to provider.Gradebook")
	}

	sess, err := api.svc.Open(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "opening session")
	}
	return ctx.JSON(http.StatusCreated, newSessionResponse(sess))
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	sess, err := api.svc.Get(ctx.Request().Context(), param(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "getting session")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), param(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) reset(ctx echo.Context) error {
	sess, err := api.svc.Reset(ctx.Request().Context(), param(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "resetting session")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *sessionApi) undo(ctx echo.Context) error {
	sess, err := api.svc.Undo(ctx.Request().Context(), param(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "undoing last mutation")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *sessionApi) updatePoints(ctx echo.Context) error {
	var data session.UpdatePoints
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePoints")
	}

	sess, err := api.svc.UpdatePoints(
		ctx.Request().Context(), param(ctx, "id"), param(ctx, "course"), param(ctx, "assignment"), data,
	)
	if err != nil {
		return errors.Wrap(err, "updating points")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *sessionApi) addAssignment(ctx echo.Context) error {
	var data session.AddAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddAssignment")
	}

	sess, err := api.svc.AddAssignment(ctx.Request().Context(), param(ctx, "id"), param(ctx, "course"), data)
	if err != nil {
		return errors.Wrap(err, "adding assignment")
	}
	return ctx.JSON(http.StatusCreated, newSessionResponse(sess))
}

func (api *sessionApi) deleteAssignment(ctx echo.Context) error {
	sess, err := api.svc.DeleteAssignment(
		ctx.Request().Context(), param(ctx, "id"), param(ctx, "course"), param(ctx, "assignment"),
	)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *sessionApi) toggleCategory(ctx echo.Context) error {
	sess, err := api.svc.ToggleCategory(
		ctx.Request().Context(), param(ctx, "id"), param(ctx, "course"), param(ctx, "category"),
	)
	if err != nil {
		return errors.Wrap(err, "toggling category")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}
