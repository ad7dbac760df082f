package middleware

import (
	"net/http"
	"net/http/httptest"
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, role model.UserRole, secret string) string {
	t.Helper()
	user := &model.User{Role: role}
	user.ID = "u-" + string(role)
	token, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	r := gin.New()
	teachers := r.Group("/teachers", AuthMiddleware(cfg), RoleMiddleware(model.Teacher))
	teachers.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).UserID)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + tokenFor(t, model.Teacher, "other"), http.StatusUnauthorized},
		{"student forbidden", "Bearer " + tokenFor(t, model.Student, "test-secret"), http.StatusForbidden},
		{"teacher allowed", "Bearer " + tokenFor(t, model.Teacher, "test-secret"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/teachers/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
