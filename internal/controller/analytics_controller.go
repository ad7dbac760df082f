package controller

import (
	"projectk_backend/internal/model"
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 学生各学科学习分析
// @Description 每个学科都会出现，无记录的学科各项为 0
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/students/analytics [get]
func (c *AnalyticsController) StudentSubjects(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	analytics, err := c.AnalyticsService.StudentSubjectAnalytics(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// @Summary 班级成绩分析
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "班级ID"
// @Success 200 {object} util.Response{data=model.ClassPerformanceReport}
// @Failure 403 {object} util.Response "非本人班级"
// @Router /api/teachers/classes/{id}/performance [get]
func (c *AnalyticsController) ClassPerformance(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	report, err := c.AnalyticsService.ClassPerformance(ctx.Request.Context(), teacherID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 班级学习数据
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "班级ID"
// @Success 200 {object} util.Response{data=model.ClassAnalytics}
// @Failure 403 {object} util.Response
// @Router /api/teachers/classes/{id}/analytics [get]
func (c *AnalyticsController) ClassAnalytics(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	analytics, err := c.AnalyticsService.ClassAnalytics(ctx.Request.Context(), teacherID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// @Summary 教师总览
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.TeacherOverview}
// @Router /api/teachers/analytics/overview [get]
func (c *AnalyticsController) TeacherOverview(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	overview, err := c.AnalyticsService.TeacherOverview(ctx.Request.Context(), teacherID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary 学生详细报告
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "学生ID"
// @Success 200 {object} util.Response{data=model.StudentReport}
// @Failure 403 {object} util.Response "学生不在本人班级"
// @Router /api/teachers/students/{id}/report [get]
func (c *AnalyticsController) StudentReport(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	report, err := c.AnalyticsService.StudentReport(ctx.Request.Context(), teacherID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 练习结果查询
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param class_id query string false "班级ID"
// @Param student_id query string false "学生ID"
// @Param subject query string false "学科"
// @Success 200 {object} util.Response{data=model.TestResultsReport}
// @Router /api/teachers/test-results [get]
func (c *AnalyticsController) TestResults(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	filter := model.TestResultFilter{
		ClassID:   ctx.Query("class_id"),
		StudentID: ctx.Query("student_id"),
	}
	if raw := ctx.Query("subject"); raw != "" {
		subject, ok := model.ParseSubject(raw)
		if !ok {
			util.BadRequest(ctx, "unknown subject")
			return
		}
		filter.Subject = subject
	}
	report, err := c.AnalyticsService.TestResults(ctx.Request.Context(), teacherID, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
