package service

import (
	"context"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"projectk_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// XPEventSink 接收升级与里程碑事件
type XPEventSink interface {
	OnXPEvent(ctx context.Context, studentID string, event XPEvent)
}

type AwardResult struct {
	XPState
	Awarded int       `json:"xp_earned"`
	Events  []XPEvent `json:"events,omitempty"`
	Applied bool      `json:"-"`
}

type XPService struct {
	Profiles ProfileStore
	Sink     XPEventSink
}

func NewXPService(profiles ProfileStore) *XPService {
	return &XPService{Profiles: profiles}
}

// AwardXP 读取档案、计算新状态并写回一次。
// 档案不存在时静默跳过；amount 为 0 时不写库也不产生事件。
func (s *XPService) AwardXP(ctx context.Context, studentID string, amount int, reason string) (*AwardResult, error) {
	if amount < 0 {
		return nil, util.InvalidInput("xp amount must not be negative: %d", amount)
	}

	profile, err := s.Profiles.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		logger.Log.Debug("xp award skipped, no profile", zap.String("studentId", studentID), zap.String("reason", reason))
		return &AwardResult{XPState: XPState{Level: LevelForXP(0)}}, nil
	}

	old := XPState{TotalXP: profile.TotalXP, Level: profile.Level}
	next, events := ApplyXPDelta(old, amount)
	if amount == 0 {
		return &AwardResult{XPState: XPState{TotalXP: old.TotalXP, Level: LevelForXP(old.TotalXP)}}, nil
	}

	if err := s.Profiles.UpdateXP(ctx, studentID, next.TotalXP, next.Level); err != nil {
		return nil, err
	}

	monitoring.XPAwarded.WithLabelValues(reason).Add(float64(amount))
	for _, ev := range events {
		if ev.Type == XPEventLevelUp {
			monitoring.LevelUps.Inc()
		}
		if s.Sink != nil {
			s.Sink.OnXPEvent(ctx, studentID, ev)
		}
	}

	return &AwardResult{XPState: next, Awarded: amount, Events: events, Applied: true}, nil
}
