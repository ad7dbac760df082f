package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

// CreateClass godoc
// @Summary 创建班级
// @Tags 班级
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateClassRequest true "班级信息"
// @Success 201 {object} util.Response{data=model.ClassRoom}
// @Router /api/teachers/classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	class, err := c.ClassService.CreateClass(ctx.Request.Context(), teacherID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

// TeacherClasses godoc
// @Summary 教师的班级列表
// @Tags 班级
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ClassRoom}
// @Router /api/teachers/classes [get]
func (c *ClassController) TeacherClasses(ctx *gin.Context) {
	teacherID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	classes, err := c.ClassService.TeacherClasses(ctx.Request.Context(), teacherID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

type JoinClassRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

// JoinClass godoc
// @Summary 通过加入码加入班级
// @Tags 班级
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body JoinClassRequest true "加入码"
// @Success 200 {object} util.Response{data=model.ClassRoom}
// @Failure 404 {object} util.Response "加入码无效"
// @Router /api/students/classes/join [post]
func (c *ClassController) JoinClass(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req JoinClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	class, err := c.ClassService.JoinClass(ctx.Request.Context(), studentID, req.JoinCode)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, class)
}

// StudentClasses godoc
// @Summary 学生加入的班级
// @Tags 班级
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ClassRoom}
// @Router /api/students/classes [get]
func (c *ClassController) StudentClasses(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	classes, err := c.ClassService.StudentClasses(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}
