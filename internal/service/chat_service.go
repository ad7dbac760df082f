package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	chatBotTutor        = "tutor"
	chatFallbackReply   = "I'm having trouble answering right now. Please try again in a moment."
	defaultHistoryLimit = 10
	maxHistoryPage      = 100
)

type CreateSessionRequest struct {
	Subject string `json:"subject"`
	Title   string `json:"title"`
}

type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Subject   string `json:"subject"`
	Message   string `json:"message" binding:"required"`
	Topic     string `json:"topic"`
}

type ChatReply struct {
	Message  *model.ChatMessage `json:"message"`
	Cached   bool               `json:"cached"`
	Turn     int64              `json:"turn,omitempty"`
	XPEarned int                `json:"xp_earned"`
	XPEvents []XPEvent          `json:"xp_events,omitempty"`
}

type ChatService struct {
	ChatRepo     *repository.ChatRepository
	Cache        *repository.ChatCache
	Tutor        Tutor
	XP           *XPService
	HistoryLimit int
}

func NewChatService(chatRepo *repository.ChatRepository, cache *repository.ChatCache, tutor Tutor, xp *XPService, historyLimit int) *ChatService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ChatService{
		ChatRepo:     chatRepo,
		Cache:        cache,
		Tutor:        tutor,
		XP:           xp,
		HistoryLimit: historyLimit,
	}
}

func parseOptionalSubject(raw string) (model.Subject, error) {
	if raw == "" {
		return "", nil
	}
	subject, ok := model.ParseSubject(raw)
	if !ok {
		return "", util.InvalidInput("unknown subject %q", raw)
	}
	return subject, nil
}

func (s *ChatService) CreateSession(ctx context.Context, studentID string, req CreateSessionRequest) (*model.ChatSession, error) {
	subject, err := parseOptionalSubject(req.Subject)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New chat"
	}
	session := &model.ChatSession{StudentID: studentID, Subject: subject, Title: title}
	if err := s.ChatRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, studentID string) ([]model.ChatSession, error) {
	return s.ChatRepo.ListSessions(ctx, studentID)
}

// SendMessage 取最近若干轮对话作为上下文请求回答；
// 同学科下相同问题直接复用缓存的回答。模型失败时返回兜底回复且不写缓存。
func (s *ChatService) SendMessage(ctx context.Context, studentID string, req SendMessageRequest) (*ChatReply, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, util.InvalidInput("message must not be empty")
	}
	subject, err := parseOptionalSubject(req.Subject)
	if err != nil {
		return nil, err
	}

	var history []ChatTurn
	if req.SessionID != "" {
		session, err := s.ChatRepo.FindSession(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if session == nil || session.StudentID != studentID {
			return nil, util.ErrSessionNotFound
		}
		if subject == "" {
			subject = session.Subject
		}
		recent, err := s.ChatRepo.RecentBySession(ctx, session.ID, s.HistoryLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range recent {
			history = append(history, ChatTurn{UserMessage: m.UserMessage, BotResponse: m.BotResponse})
		}
	}

	reply := &ChatReply{}
	response, cached := s.Cache.GetResponse(ctx, subject, text)
	reply.Cached = cached
	if !cached {
		response, err = s.Tutor.TutorReply(ctx, subject, history, text)
		if err != nil {
			logger.Log.Warn("tutor reply failed, using fallback", zap.String("studentId", studentID), zap.Error(err))
			response = chatFallbackReply
		} else if err := s.Cache.SetResponse(ctx, subject, text, response); err != nil {
			logger.Log.Warn("cache chat response failed", zap.Error(err))
		}
	}

	msg := &model.ChatMessage{
		SessionID:   req.SessionID,
		StudentID:   studentID,
		Subject:     subject,
		UserMessage: text,
		BotResponse: response,
		BotType:     chatBotTutor,
		Topic:       req.Topic,
		Timestamp:   time.Now(),
	}
	if err := s.ChatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	reply.Message = msg

	if req.SessionID != "" {
		if turn, err := s.Cache.NextTurn(ctx, req.SessionID); err == nil {
			reply.Turn = turn
		}
	}

	award, err := s.XP.AwardXP(ctx, studentID, XPChatMessage, "chat_message")
	if err != nil {
		logger.Log.Error("award chat xp failed", zap.String("studentId", studentID), zap.Error(err))
		return reply, nil
	}
	reply.XPEarned = award.Awarded
	reply.XPEvents = award.Events
	return reply, nil
}

// History 最新的在前
func (s *ChatService) History(ctx context.Context, studentID, subject string, limit int) ([]model.ChatMessage, error) {
	subj, err := parseOptionalSubject(subject)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxHistoryPage {
		limit = 50
	}
	return s.ChatRepo.History(ctx, studentID, subj, limit)
}
