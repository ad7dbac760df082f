package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// CreateSession godoc
// @Summary 创建对话会话
// @Tags 对话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateSessionRequest true "会话信息"
// @Success 201 {object} util.Response{data=model.ChatSession}
// @Router /api/chat/sessions [post]
func (c *ChatController) CreateSession(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	session, err := c.ChatService.CreateSession(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// ListSessions godoc
// @Summary 会话列表
// @Tags 对话
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ChatSession}
// @Router /api/chat/sessions [get]
func (c *ChatController) ListSessions(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	sessions, err := c.ChatService.ListSessions(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// SendMessage godoc
// @Summary 向学科辅导发送消息
// @Description 回答成功后获得 5 点经验
// @Tags 对话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SendMessageRequest true "消息"
// @Success 200 {object} util.Response{data=service.ChatReply}
// @Router /api/chat/message [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	reply, err := c.ChatService.SendMessage(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

// History godoc
// @Summary 对话历史
// @Tags 对话
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "学科"
// @Param limit query int false "条数" default(50)
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/chat/history [get]
func (c *ChatController) History(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	limit := util.QueryInt(ctx.Query("limit"), 50)
	msgs, err := c.ChatService.History(ctx.Request.Context(), studentID, ctx.Query("subject"), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}
