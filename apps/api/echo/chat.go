package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core/chat"
)

type chatApi struct {
	svc *chat.Service
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *chat.Service) {
	api := chatApi{svc: svc}
	g.POST("/ai", api.chat, jwt)
}

func (api *chatApi) chat(ctx echo.Context) error {
	var data chat.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to chat.Request")
	}

	reply, err := api.svc.Chat(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "chatting")
	}
	return ctx.JSON(http.StatusOK, reply)
}
