package controller

import (
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	NoteService *service.NoteService
}

func NewNoteController(noteService *service.NoteService) *NoteController {
	return &NoteController{NoteService: noteService}
}

// GenerateNotes godoc
// @Summary 生成学习笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GenerateNotesRequest true "笔记主题"
// @Success 201 {object} util.Response{data=service.GeneratedNote}
// @Router /api/notes/generate [post]
func (c *NoteController) GenerateNotes(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.GenerateNotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	note, err := c.NoteService.GenerateNotes(ctx.Request.Context(), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, note)
}

// ListNotes godoc
// @Summary 笔记列表
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "学科"
// @Param favorites query bool false "只看收藏"
// @Success 200 {object} util.Response{data=[]model.StudyNote}
// @Router /api/notes [get]
func (c *NoteController) ListNotes(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	notes, err := c.NoteService.ListNotes(ctx.Request.Context(), studentID, ctx.Query("subject"), ctx.Query("favorites") == "true")
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// GetNote godoc
// @Summary 笔记详情
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "笔记ID"
// @Success 200 {object} util.Response{data=model.StudyNote}
// @Router /api/notes/{id} [get]
func (c *NoteController) GetNote(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	note, err := c.NoteService.GetNote(ctx.Request.Context(), studentID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// ToggleFavorite godoc
// @Summary 收藏或取消收藏
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "笔记ID"
// @Success 200 {object} util.Response{data=model.StudyNote}
// @Router /api/notes/{id}/favorite [put]
func (c *NoteController) ToggleFavorite(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	note, err := c.NoteService.ToggleFavorite(ctx.Request.Context(), studentID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// DeleteNote godoc
// @Summary 删除笔记
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "笔记ID"
// @Success 200 {object} util.Response
// @Router /api/notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.NoteService.DeleteNote(ctx.Request.Context(), studentID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ExportNote godoc
// @Summary 导出笔记
// @Description 以 markdown 文件上传至存储，返回访问地址
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "笔记ID"
// @Success 200 {object} util.Response{data=model.StudyNote}
// @Router /api/notes/{id}/export [post]
func (c *NoteController) ExportNote(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	note, err := c.NoteService.ExportNote(ctx.Request.Context(), studentID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, note)
}
