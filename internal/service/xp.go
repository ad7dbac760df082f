package service

import "math"

// 各类行为奖励的经验值
const (
	XPChatMessage    = 5
	XPMindfulness    = 10
	XPNotesGenerated = 3
	XPStudyPlan      = 10
	XPAssistantQuery = 3

	xpPerLevel = 100
)

// XPMilestones 里程碑阈值，按升序排列
var XPMilestones = []int{50, 100, 250, 500, 1000}

// PracticeTestXP 练习得分对应的经验：先按 10 分取整再乘 5，67 分得 30
func PracticeTestXP(score float64) int {
	if score <= 0 {
		return 0
	}
	return int(math.Floor(score/10)) * 5
}

// LevelForXP 等级 = floor(xp/100) + 1
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

type XPState struct {
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
}

type XPEventType string

const (
	XPEventLevelUp   XPEventType = "level_up"
	XPEventMilestone XPEventType = "milestone"
)

type XPEvent struct {
	Type      XPEventType `json:"type"`
	FromLevel int         `json:"from_level,omitempty"`
	ToLevel   int         `json:"to_level,omitempty"`
	Milestone int         `json:"milestone,omitempty"`
}

// ApplyXPDelta 纯状态转换：返回加上 delta 后的新状态与触发的事件。
// 升级事件在前，随后按升序列出本次跨过的每个里程碑（old < m <= new）。
// delta <= 0 时状态不变且不产生事件。
func ApplyXPDelta(old XPState, delta int) (XPState, []XPEvent) {
	if delta <= 0 {
		return old, nil
	}

	oldXP := old.TotalXP
	if oldXP < 0 {
		oldXP = 0
	}
	current := XPState{TotalXP: oldXP, Level: LevelForXP(oldXP)}

	next := XPState{TotalXP: oldXP + delta}
	next.Level = LevelForXP(next.TotalXP)

	var events []XPEvent
	if next.Level > current.Level {
		events = append(events, XPEvent{
			Type:      XPEventLevelUp,
			FromLevel: current.Level,
			ToLevel:   next.Level,
		})
	}
	for _, m := range XPMilestones {
		if oldXP < m && m <= next.TotalXP {
			events = append(events, XPEvent{Type: XPEventMilestone, Milestone: m})
		}
	}
	return next, events
}
