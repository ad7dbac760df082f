package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssistantController struct {
	AssistantService *service.AssistantService
}

func NewAssistantController(assistantService *service.AssistantService) *AssistantController {
	return &AssistantController{AssistantService: assistantService}
}

// Query godoc
// @Summary 学习助手问答
// @Tags 学习助手
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssistantQueryRequest true "问题"
// @Success 200 {object} util.Response{data=service.AssistantAnswer}
// @Router /api/assistant/query [post]
func (c *AssistantController) Query(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.AssistantQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	answer, err := c.AssistantService.Query(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// StudyPlan godoc
// @Summary 生成学习计划
// @Tags 学习助手
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.StudyPlanRequest true "计划参数"
// @Success 200 {object} util.Response{data=service.AssistantAnswer}
// @Router /api/assistant/study-plan [post]
func (c *AssistantController) StudyPlan(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.StudyPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	plan, err := c.AssistantService.StudyPlan(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}
