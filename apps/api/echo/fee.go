package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core/fee"
)

type feeApi struct {
	svc *fee.Service
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fee.Service) {
	api := feeApi{svc: svc}

	fg := g.Group("/fees", jwt)
	fg.POST("", api.create, adminMiddleware)
	fg.GET("", api.query)
	fg.GET("/student/:studentId/summary", api.summary)

	// detail endpoints
	dg := fg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware)
	dg.DELETE("", api.destroy, adminMiddleware)
}

// Handlers

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}

	f, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, fee.NewView(f))
}

func (api *feeApi) query(ctx echo.Context) error {
	fees, err := api.svc.Query(ctx.Request().Context(), bindFeeFilter(ctx))
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, fee.NewViews(fees))
}

func (api *feeApi) retrieve(ctx echo.Context) error {
	f, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting fee")
	}
	return ctx.JSON(http.StatusOK, fee.NewView(f))
}

func (api *feeApi) update(ctx echo.Context) error {
	var data fee.UpdateFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFee")
	}

	f, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, fee.NewView(f))
}

func (api *feeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Fee deleted successfully"})
}

func (api *feeApi) summary(ctx echo.Context) error {
	s, err := api.svc.SummaryForStudent(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "summarizing student fees")
	}
	return ctx.JSON(http.StatusOK, s)
}
