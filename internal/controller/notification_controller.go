package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// List godoc
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param unread query bool false "只看未读"
// @Success 200 {object} util.Response{data=[]model.Notification}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	ns, err := c.NotificationService.List(ctx.Request.Context(), userID, ctx.Query("unread") == "true")
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, ns)
}

// MarkRead godoc
// @Summary 标记已读
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "通知ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.NotificationService.MarkRead(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SendToClass godoc
// @Summary 向班级发送通知
// @Tags 通知
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "班级ID"
// @Param body body service.ClassMessageRequest true "通知内容"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Router /api/teachers/classes/{id}/notify [post]
func (c *NotificationController) SendToClass(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.ClassMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sent, err := c.NotificationService.SendToClass(ctx.Request.Context(), teacherID, ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sent": sent})
}
