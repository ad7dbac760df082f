package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// WellbeingController 正念练习与学习日程
type WellbeingController struct {
	MindfulnessService *service.MindfulnessService
	CalendarService    *service.CalendarService
}

func NewWellbeingController(mindfulness *service.MindfulnessService, calendar *service.CalendarService) *WellbeingController {
	return &WellbeingController{MindfulnessService: mindfulness, CalendarService: calendar}
}

// RecordMindfulness godoc
// @Summary 记录正念练习
// @Tags 身心健康
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.MindfulnessRequest true "练习记录"
// @Success 201 {object} util.Response{data=service.MindfulnessResult}
// @Router /api/mindfulness/sessions [post]
func (c *WellbeingController) RecordMindfulness(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.MindfulnessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.MindfulnessService.RecordSession(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// MindfulnessHistory godoc
// @Summary 正念练习历史
// @Tags 身心健康
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.MindfulnessSession}
// @Router /api/mindfulness/sessions [get]
func (c *WellbeingController) MindfulnessHistory(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	sessions, err := c.MindfulnessService.History(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// CreateEvent godoc
// @Summary 创建日程
// @Tags 日程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateEventRequest true "日程"
// @Success 201 {object} util.Response{data=model.CalendarEvent}
// @Router /api/calendar/events [post]
func (c *WellbeingController) CreateEvent(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	event, err := c.CalendarService.CreateEvent(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// ListEvents godoc
// @Summary 日程列表
// @Tags 日程
// @Produce json
// @Security ApiKeyAuth
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.CalendarEvent}
// @Router /api/calendar/events [get]
func (c *WellbeingController) ListEvents(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	from, err := util.ParseDate(ctx.Query("start_date"))
	if err != nil {
		util.BadRequest(ctx, "invalid start_date")
		return
	}
	to, err := util.ParseDate(ctx.Query("end_date"))
	if err != nil {
		util.BadRequest(ctx, "invalid end_date")
		return
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	events, err := c.CalendarService.ListEvents(ctx.Request.Context(), studentID, from, to)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, events)
}
