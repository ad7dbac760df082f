package controller

import (
	"errors"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 按错误类别映射 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidInput):
		util.BadRequest(ctx, strings.TrimPrefix(err.Error(), util.ErrInvalidInput.Error()+": "))
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, util.ErrEmailRegistered.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, 401, util.ErrInvalidCredentials.Error())
	case errors.Is(err, util.ErrStoreUnavailable):
		logger.Log.Error("store unavailable", zap.Error(err), zap.String("path", ctx.FullPath()))
		util.ServiceUnavailable(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID 未认证时已写出 401
func currentUserID(ctx *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return "", false
	}
	return claims.UserID, true
}
