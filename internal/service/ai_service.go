package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"
	"projectk_backend/pkg/logger"
	"projectk_backend/pkg/monitoring"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrAIUnavailable = errors.New("ai service not configured")

// QuestionSpec 出题参数
type QuestionSpec struct {
	Subject       model.Subject
	Topics        []string
	Difficulty    model.Difficulty
	Count         int
	QuestionTypes []model.QuestionType
	GradeLevel    model.GradeLevel
}

// ChatTurn 一轮历史对话
type ChatTurn struct {
	UserMessage string
	BotResponse string
}

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, spec QuestionSpec) ([]model.Question, error)
}

type Tutor interface {
	TutorReply(ctx context.Context, subject model.Subject, history []ChatTurn, message string) (string, error)
}

// TextWriter 笔记与学习助手使用的通用补全
type TextWriter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type AIService struct {
	api   *openai.Client
	model string
}

// NewAIService 未配置 api key 时返回的实例每次调用都返回 ErrAIUnavailable
func NewAIService(cfg config.AIConfig) *AIService {
	if cfg.APIKey == "" {
		return &AIService{model: cfg.Model}
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &AIService{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}
}

func (s *AIService) complete(ctx context.Context, kind string, req openai.ChatCompletionRequest) (string, error) {
	if s == nil || s.api == nil {
		monitoring.AIRequests.WithLabelValues(kind, "unavailable").Inc()
		return "", ErrAIUnavailable
	}
	req.Model = s.model

	resp, err := s.api.CreateChatCompletion(ctx, req)
	if err != nil {
		monitoring.AIRequests.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("AI API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		monitoring.AIRequests.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("AI returned no choices")
	}
	monitoring.AIRequests.WithLabelValues(kind, "ok").Inc()
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) TutorReply(ctx context.Context, subject model.Subject, history []ChatTurn, message string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tutorSystemPrompt(subject)},
	}
	// 注入历史对话记录
	for _, h := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: h.UserMessage},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: h.BotResponse},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	return s.complete(ctx, "tutor", openai.ChatCompletionRequest{
		Messages:    messages,
		Temperature: 0.7,
	})
}

func (s *AIService) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.complete(ctx, "completion", openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.5,
	})
}

type generatedQuestion struct {
	QuestionText       string      `json:"question_text"`
	QuestionType       string      `json:"question_type"`
	Options            []string    `json:"options"`
	CorrectAnswer      interface{} `json:"correct_answer"`
	Explanation        string      `json:"explanation"`
	Topics             []string    `json:"topics"`
	Difficulty         string      `json:"difficulty"`
	LearningObjectives []string    `json:"learning_objectives"`
}

func (s *AIService) GenerateQuestions(ctx context.Context, spec QuestionSpec) ([]model.Question, error) {
	raw, err := s.complete(ctx, "questions", openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an expert teacher who writes practice questions for students."},
			{Role: openai.ChatMessageRoleUser, Content: questionPrompt(spec)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}
	return parseGeneratedQuestions(raw, spec)
}

func parseGeneratedQuestions(raw string, spec QuestionSpec) ([]model.Question, error) {
	var payload struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		logger.Log.Warn("parse generated questions failed", zap.Error(err), zap.String("raw", raw))
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}

	questions := make([]model.Question, 0, len(payload.Questions))
	for _, g := range payload.Questions {
		if strings.TrimSpace(g.QuestionText) == "" {
			continue
		}
		answer, err := model.CoerceAnswer(g.CorrectAnswer)
		if err != nil {
			continue
		}
		difficulty, ok := model.ParseDifficulty(g.Difficulty)
		if !ok {
			difficulty = spec.Difficulty
		}
		topics := g.Topics
		if len(topics) == 0 {
			topics = spec.Topics
		}
		qtype := model.ParseQuestionType(g.QuestionType)
		options := g.Options
		if qtype == model.QuestionMCQ {
			// 选择题的标准答案必须是选项之一，否则无法作答
			if !answerInOptions(answer, options) {
				logger.Log.Debug("drop generated mcq without matching option", zap.String("question", g.QuestionText))
				continue
			}
		} else {
			options = nil
		}
		questions = append(questions, model.Question{
			Subject:            spec.Subject,
			Topics:             topics,
			QuestionType:       qtype,
			Difficulty:         difficulty,
			GradeLevel:         spec.GradeLevel,
			QuestionText:       g.QuestionText,
			Options:            options,
			CorrectAnswer:      answer,
			Explanation:        g.Explanation,
			LearningObjectives: g.LearningObjectives,
		})
		if len(questions) == spec.Count {
			break
		}
	}
	return questions, nil
}

func answerInOptions(answer string, options []string) bool {
	for _, opt := range options {
		if MatchAnswer(opt, answer) {
			return true
		}
	}
	return false
}

func tutorSystemPrompt(subject model.Subject) string {
	if subject == "" {
		return "You are a patient tutor for secondary school students. Explain step by step."
	}
	return fmt.Sprintf("You are a patient %s tutor for secondary school students. Explain step by step and stay on %s topics.", subject, subject)
}

func questionPrompt(spec QuestionSpec) string {
	types := make([]string, 0, len(spec.QuestionTypes))
	for _, t := range spec.QuestionTypes {
		types = append(types, string(t))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Create %d %s practice questions", spec.Count, spec.Subject))
	if len(spec.Topics) > 0 {
		sb.WriteString(" covering: " + strings.Join(spec.Topics, ", "))
	}
	sb.WriteString(".\n")
	sb.WriteString(fmt.Sprintf("Difficulty: %s.\n", spec.Difficulty))
	if spec.GradeLevel != "" {
		sb.WriteString(fmt.Sprintf("Grade level: %s.\n", spec.GradeLevel))
	}
	sb.WriteString("Question types: " + strings.Join(types, ", ") + ".\n")
	sb.WriteString("For mcq questions the correct_answer must be exactly one of the options.\n")
	sb.WriteString("\nRespond ONLY with a JSON object:\n")
	sb.WriteString(`{"questions": [{"question_text": "", "question_type": "", "options": [], "correct_answer": "", "explanation": "", "topics": [], "difficulty": "", "learning_objectives": []}]}`)
	sb.WriteString("\n")
	return sb.String()
}
