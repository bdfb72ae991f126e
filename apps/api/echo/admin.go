package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core/admin"
	"github.com/schoolhub/backend/core/teacher"
)

type adminApi struct {
	svc *admin.Service
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *admin.Service) {
	api := adminApi{svc: svc}

	ag := g.Group("/admin", jwt, adminMiddleware)
	ag.GET("/top-teacher", api.topTeacher)
	ag.GET("/pending-tasks", api.pendingTasks)
	ag.GET("/health", api.health)
	ag.POST("/tasks/:id/complete", api.completeTask)
	ag.POST("/tasks/:id/assign", api.assignTask)
	ag.POST("/teachers/:id/feature", api.featureTeacher)
}

type featureResponse struct {
	Success bool         `json:"success"`
	Teacher teacher.View `json:"teacher"`
}

// Handlers

func (api *adminApi) topTeacher(ctx echo.Context) error {
	t, err := api.svc.TopTeacher(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting top teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *adminApi) pendingTasks(ctx echo.Context) error {
	tasks, err := api.svc.PendingTasks(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting pending tasks")
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *adminApi) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.SystemHealth(ctx.Request().Context()))
}

func (api *adminApi) completeTask(ctx echo.Context) error {
	res, err := api.svc.CompleteTask(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing task")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *adminApi) assignTask(ctx echo.Context) error {
	var data admin.AssignTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTask")
	}

	res, err := api.svc.AssignTask(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "assigning task")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *adminApi) featureTeacher(ctx echo.Context) error {
	t, err := api.svc.FeatureTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "featuring teacher")
	}
	return ctx.JSON(http.StatusOK, featureResponse{Success: true, Teacher: teacher.NewView(t)})
}
