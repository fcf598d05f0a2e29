package controller

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Service: svc}
}

// @Summary Create or refresh a user profile from the account system
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UserInput true "Profile"
// @Success 200 {object} util.Response{data=model.User}
// @Router /admin/users [put]
func (c *UserController) Sync(ctx *gin.Context) {
	var req service.UserInput
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := c.Service.Sync(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary The caller's profile
// @Tags Users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /me [get]
func (c *UserController) Me(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	me, err := c.Service.Me(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, me)
}
