package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// GenerateTest godoc
// @Summary 生成练习卷
// @Description 优先使用未做过的题库题目，不足时生成新题
// @Tags 练习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GenerateTestRequest true "出题参数"
// @Success 200 {object} util.Response{data=service.GenerateTestResult}
// @Failure 400 {object} util.Response
// @Router /api/practice/generate [post]
func (c *PracticeController) GenerateTest(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.GenerateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.PracticeService.GenerateTest(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SubmitAttempt godoc
// @Summary 提交练习
// @Description 判分并发放经验，每次提交都会新增一条记录
// @Tags 练习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitAttemptRequest true "作答"
// @Success 200 {object} util.Response{data=service.SubmitAttemptResult}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/practice/submit [post]
func (c *PracticeController) SubmitAttempt(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.PracticeService.SubmitAttempt(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListResults godoc
// @Summary 练习记录
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "学科"
// @Success 200 {object} util.Response{data=[]model.PracticeResultView}
// @Router /api/practice/results [get]
func (c *PracticeController) ListResults(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	results, err := c.PracticeService.ListResults(ctx.Request.Context(), studentID, ctx.Query("subject"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// ResultDetails godoc
// @Summary 练习详情
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response{data=model.PracticeResultView}
// @Failure 404 {object} util.Response
// @Router /api/practice/results/{id} [get]
func (c *PracticeController) ResultDetails(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	view, err := c.PracticeService.ResultDetails(ctx.Request.Context(), studentID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SubjectStats godoc
// @Summary 单学科练习统计
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param subject path string true "学科"
// @Success 200 {object} util.Response{data=service.SubjectStats}
// @Router /api/practice/stats/{subject} [get]
func (c *PracticeController) SubjectStats(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	stats, err := c.PracticeService.SubjectStats(ctx.Request.Context(), studentID, ctx.Param("subject"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
