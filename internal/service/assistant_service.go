package service

import (
	"context"
	"fmt"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const assistantSystemPrompt = "You are a study assistant for secondary school students. Give practical, encouraging answers."

type AssistantQueryRequest struct {
	Query   string `json:"query" binding:"required"`
	Subject string `json:"subject"`
}

type StudyPlanRequest struct {
	Subjects    []string `json:"subjects" binding:"required"`
	Goals       []string `json:"goals"`
	HoursPerDay int      `json:"hours_per_day"`
	Days        int      `json:"days"`
}

type AssistantAnswer struct {
	Response string    `json:"response"`
	XPEarned int       `json:"xp_earned"`
	XPEvents []XPEvent `json:"xp_events,omitempty"`
}

// AssistantService 学习助手：问答与学习计划
type AssistantService struct {
	Writer TextWriter
	XP     *XPService
}

func NewAssistantService(writer TextWriter, xp *XPService) *AssistantService {
	return &AssistantService{Writer: writer, XP: xp}
}

func (s *AssistantService) Query(ctx context.Context, studentID string, req AssistantQueryRequest) (*AssistantAnswer, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, util.InvalidInput("query must not be empty")
	}
	subject, err := parseOptionalSubject(req.Subject)
	if err != nil {
		return nil, err
	}
	if subject != "" {
		query = fmt.Sprintf("[%s] %s", subject, query)
	}

	response, err := s.Writer.Complete(ctx, assistantSystemPrompt, query)
	if err != nil {
		logger.Log.Warn("assistant query failed", zap.String("studentId", studentID), zap.Error(err))
		response = chatFallbackReply
	}
	return s.award(ctx, studentID, response, XPAssistantQuery, "assistant_query"), nil
}

func (s *AssistantService) StudyPlan(ctx context.Context, studentID string, req StudyPlanRequest) (*AssistantAnswer, error) {
	if len(req.Subjects) == 0 {
		return nil, util.InvalidInput("subjects must not be empty")
	}
	subjects := make([]string, 0, len(req.Subjects))
	for _, raw := range req.Subjects {
		subject, ok := model.ParseSubject(raw)
		if !ok {
			return nil, util.InvalidInput("unknown subject %q", raw)
		}
		subjects = append(subjects, string(subject))
	}
	if req.HoursPerDay < 0 || req.HoursPerDay > 24 {
		return nil, util.InvalidInput("hours_per_day must be between 0 and 24")
	}
	if req.HoursPerDay == 0 {
		req.HoursPerDay = 2
	}
	if req.Days <= 0 {
		req.Days = 7
	}

	prompt := fmt.Sprintf("Create a %d-day study plan with %d hours per day for: %s.",
		req.Days, req.HoursPerDay, strings.Join(subjects, ", "))
	if len(req.Goals) > 0 {
		prompt += " Goals: " + strings.Join(req.Goals, "; ") + "."
	}
	prompt += " Format it as markdown with one section per day."

	plan, err := s.Writer.Complete(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		logger.Log.Warn("study plan generation failed", zap.String("studentId", studentID), zap.Error(err))
		plan = fallbackStudyPlan(subjects, req.Days, req.HoursPerDay)
	}
	return s.award(ctx, studentID, plan, XPStudyPlan, "study_plan"), nil
}

func (s *AssistantService) award(ctx context.Context, studentID, response string, amount int, reason string) *AssistantAnswer {
	answer := &AssistantAnswer{Response: response}
	award, err := s.XP.AwardXP(ctx, studentID, amount, reason)
	if err != nil {
		logger.Log.Error("award assistant xp failed", zap.String("studentId", studentID), zap.String("reason", reason), zap.Error(err))
		return answer
	}
	answer.XPEarned = award.Awarded
	answer.XPEvents = award.Events
	return answer
}

// fallbackStudyPlan 按学科轮换排课
func fallbackStudyPlan(subjects []string, days, hours int) string {
	var sb strings.Builder
	sb.WriteString("# Study plan\n")
	for d := 0; d < days; d++ {
		sb.WriteString(fmt.Sprintf("\n## Day %d\n\n- %s: %d hour(s)\n", d+1, subjects[d%len(subjects)], hours))
	}
	return sb.String()
}
