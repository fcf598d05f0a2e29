package controller

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Service *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Service: svc}
}

// @Summary The caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Max items" default(50)
// @Success 200 {object} util.Response
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", 50)
	if !ok {
		return
	}
	list, err := c.Service.ListForUser(ctx.Request.Context(), user.UserID, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} util.Response
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.MarkRead(ctx.Request.Context(), user.UserID, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "isRead": true})
}
