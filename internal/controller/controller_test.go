package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"projectk_backend/internal/model"
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memQuestions map[string]model.Question

func (m memQuestions) FindByID(_ context.Context, id string) (*model.Question, error) {
	q, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m memQuestions) FindByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	var out []model.Question
	for _, id := range ids {
		if q, ok := m[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m memQuestions) FindBySubjectAndTopics(context.Context, model.Subject, []string) ([]model.Question, error) {
	return nil, nil
}

func (m memQuestions) CreateBatch(_ context.Context, qs []model.Question) error {
	for _, q := range qs {
		m[q.ID] = q
	}
	return nil
}

type memAttempts struct {
	attempts []model.PracticeAttempt
}

func (m *memAttempts) Insert(_ context.Context, a *model.PracticeAttempt) (string, error) {
	a.ID = fmt.Sprintf("a%d", len(m.attempts)+1)
	m.attempts = append(m.attempts, *a)
	return a.ID, nil
}

func (m *memAttempts) FindByID(_ context.Context, id string) (*model.PracticeAttempt, error) {
	for i := range m.attempts {
		if m.attempts[i].ID == id {
			return &m.attempts[i], nil
		}
	}
	return nil, nil
}

func (m *memAttempts) FindByStudent(_ context.Context, studentID string, _ model.Subject) ([]model.PracticeAttempt, error) {
	var out []model.PracticeAttempt
	for _, a := range m.attempts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttempts) FindByStudents(ctx context.Context, ids []string, subject model.Subject) ([]model.PracticeAttempt, error) {
	var out []model.PracticeAttempt
	for _, id := range ids {
		found, _ := m.FindByStudent(ctx, id, subject)
		out = append(out, found...)
	}
	return out, nil
}

type memProfiles struct {
	profile model.StudentProfile
}

func (m *memProfiles) GetStudentProfile(_ context.Context, userID string) (*model.StudentProfile, error) {
	if userID != m.profile.UserID {
		return nil, nil
	}
	p := m.profile
	return &p, nil
}

func (m *memProfiles) FindStudentProfiles(_ context.Context, _ []string) ([]model.StudentProfile, error) {
	return []model.StudentProfile{m.profile}, nil
}

func (m *memProfiles) UpdateXP(_ context.Context, _ string, totalXP, level int) error {
	m.profile.TotalXP = totalXP
	m.profile.Level = level
	return nil
}

func newPracticeRouter(studentID string) (*gin.Engine, *memAttempts) {
	q1 := model.Question{Subject: model.SubjectMath, QuestionText: "2+2", CorrectAnswer: "4", QuestionType: model.QuestionNumerical}
	q1.ID = "q1"
	q2 := model.Question{Subject: model.SubjectMath, QuestionText: "3*3", CorrectAnswer: "9", QuestionType: model.QuestionNumerical}
	q2.ID = "q2"

	attempts := &memAttempts{}
	profiles := &memProfiles{profile: model.StudentProfile{UserID: "s1", Level: 1}}
	xp := service.NewXPService(profiles)
	svc := service.NewPracticeService(memQuestions{"q1": q1, "q2": q2}, attempts, xp, nil)
	ctrl := NewPracticeController(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if studentID != "" {
			c.Set(util.ContextUserKey, &util.Claims{UserID: studentID, Role: model.Student})
		}
		c.Next()
	})
	r.POST("/api/practice/submit", ctrl.SubmitAttempt)
	r.GET("/api/practice/results/:id", ctrl.ResultDetails)
	return r, attempts
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type submitResponse struct {
	Code int                         `json:"code"`
	Data service.SubmitAttemptResult `json:"data"`
}

func TestSubmitAttemptHandler(t *testing.T) {
	r, attempts := newPracticeRouter("s1")

	rec := doJSON(r, http.MethodPost, "/api/practice/submit", map[string]interface{}{
		"test_id":      "t1",
		"question_ids": []string{"q1", "q2"},
		"answers":      map[string]interface{}{"q1": 4, "q2": "8"},
		"time_taken":   60,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.CorrectAnswers)
	assert.Equal(t, 2, resp.Data.TotalQuestions)
	assert.InDelta(t, 50.0, resp.Data.Score, 1e-9)
	assert.Equal(t, 25, resp.Data.XPEarned)
	assert.Len(t, attempts.attempts, 1)
}

func TestSubmitAttemptHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
		body      interface{}
		want      int
	}{
		{"unauthenticated", "", map[string]interface{}{"question_ids": []string{"q1"}}, http.StatusUnauthorized},
		{"missing question ids", "s1", map[string]interface{}{"answers": map[string]string{}}, http.StatusBadRequest},
		{"object answer", "s1", map[string]interface{}{"question_ids": []string{"q1"}, "answers": map[string]interface{}{"q1": []int{1}}}, http.StatusBadRequest},
		{"unknown subject", "s1", map[string]interface{}{"question_ids": []string{"q1"}, "subject": "astrology"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, attempts := newPracticeRouter(tt.studentID)
			rec := doJSON(r, http.MethodPost, "/api/practice/submit", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Empty(t, attempts.attempts)
		})
	}
}

func TestResultDetailsHandlerNotFound(t *testing.T) {
	r, _ := newPracticeRouter("s1")
	rec := doJSON(r, http.MethodGet, "/api/practice/results/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err     error
		want    int
		message string
	}{
		{util.InvalidInput("duration must be positive"), http.StatusBadRequest, "duration must be positive"},
		{util.ErrPermissionDenied, http.StatusForbidden, "Forbidden"},
		{util.ErrClassNotFound, http.StatusNotFound, "Resource not found"},
		{util.ErrEmailRegistered, http.StatusConflict, "email already registered"},
		{util.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{util.StoreError("insert", errors.New("broken pipe")), http.StatusServiceUnavailable, "Service temporarily unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(ctx, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			var resp util.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}
