package service

import (
	"fmt"
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"sort"
	"time"
)

// 本文件中的聚合函数都是纯函数：只读入参快照，不访问存储，也不修改任何实体。

// AnalyticsPolicy 分析阈值
type AnalyticsPolicy struct {
	StrugglingThreshold float64 // 知识点平均分低于此值视为薄弱
	NeedsHelpThreshold  float64 // 学生平均分低于此值需要关注
	TopPerformerLimit   int
	TrendPoints         int
	ActivityWindowDays  int
	ClassActivityDays   int
}

func DefaultAnalyticsPolicy() AnalyticsPolicy {
	return AnalyticsPolicy{
		StrugglingThreshold: 70,
		NeedsHelpThreshold:  60,
		TopPerformerLimit:   5,
		TrendPoints:         10,
		ActivityWindowDays:  30,
		ClassActivityDays:   7,
	}
}

// PolicyFromConfig 未配置（零值）的项使用默认值
func PolicyFromConfig(cfg config.AnalyticsConfig) AnalyticsPolicy {
	p := DefaultAnalyticsPolicy()
	if cfg.StrugglingThreshold > 0 {
		p.StrugglingThreshold = cfg.StrugglingThreshold
	}
	if cfg.NeedsHelpThreshold > 0 {
		p.NeedsHelpThreshold = cfg.NeedsHelpThreshold
	}
	if cfg.TopPerformerLimit > 0 {
		p.TopPerformerLimit = cfg.TopPerformerLimit
	}
	if cfg.TrendPoints > 0 {
		p.TrendPoints = cfg.TrendPoints
	}
	if cfg.ActivityWindowDays > 0 {
		p.ActivityWindowDays = cfg.ActivityWindowDays
	}
	if cfg.ClassActivityDays > 0 {
		p.ClassActivityDays = cfg.ClassActivityDays
	}
	return p
}

func averageScore(attempts []model.PracticeAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	var sum float64
	for _, a := range attempts {
		sum += a.Score
	}
	return sum / float64(len(attempts))
}

func summarize(attempts []model.PracticeAttempt) model.PerformanceSummary {
	s := model.PerformanceSummary{TotalTests: len(attempts)}
	if len(attempts) == 0 {
		return s
	}
	s.AverageScore = averageScore(attempts)
	s.HighestScore = attempts[0].Score
	s.LowestScore = attempts[0].Score
	for _, a := range attempts[1:] {
		if a.Score > s.HighestScore {
			s.HighestScore = a.Score
		}
		if a.Score < s.LowestScore {
			s.LowestScore = a.Score
		}
	}
	return s
}

// progressTrend 最近 n 次成绩，按时间升序
func progressTrend(attempts []model.PracticeAttempt, n int) []model.TrendPoint {
	sorted := make([]model.PracticeAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	trend := make([]model.TrendPoint, 0, len(sorted))
	for _, a := range sorted {
		trend = append(trend, model.TrendPoint{Date: a.CompletedAt, Score: a.Score})
	}
	return trend
}

// BuildSubjectAnalytics 为每个学科生成汇总，没有数据的学科也会给出全零结果
func BuildSubjectAnalytics(attempts []model.PracticeAttempt, messages []model.ChatMessage, trendPoints int) map[model.Subject]model.SubjectAnalytics {
	attemptsBySubject := make(map[model.Subject][]model.PracticeAttempt)
	for _, a := range attempts {
		attemptsBySubject[a.Subject] = append(attemptsBySubject[a.Subject], a)
	}
	messagesBySubject := make(map[model.Subject][]model.ChatMessage)
	for _, m := range messages {
		messagesBySubject[m.Subject] = append(messagesBySubject[m.Subject], m)
	}

	result := make(map[model.Subject]model.SubjectAnalytics, len(model.AllSubjects))
	for _, subj := range model.AllSubjects {
		subjAttempts := attemptsBySubject[subj]
		subjMessages := messagesBySubject[subj]

		var last *time.Time
		for _, m := range subjMessages {
			last = later(last, m.Timestamp)
		}
		for _, a := range subjAttempts {
			last = later(last, a.CompletedAt)
		}

		result[subj] = model.SubjectAnalytics{
			TotalMessages: len(subjMessages),
			TotalTests:    len(subjAttempts),
			AverageScore:  averageScore(subjAttempts),
			LastActivity:  last,
			ProgressTrend: progressTrend(subjAttempts, trendPoints),
		}
	}
	return result
}

func later(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.After(*cur) {
		v := t
		return &v
	}
	return cur
}

// dedupe 保持首次出现顺序的集合去重
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func attemptsByStudent(attempts []model.PracticeAttempt) map[string][]model.PracticeAttempt {
	m := make(map[string][]model.PracticeAttempt)
	for _, a := range attempts {
		m[a.StudentID] = append(m[a.StudentID], a)
	}
	return m
}

func messagesByStudent(messages []model.ChatMessage) map[string][]model.ChatMessage {
	m := make(map[string][]model.ChatMessage)
	for _, msg := range messages {
		m[msg.StudentID] = append(m[msg.StudentID], msg)
	}
	return m
}

// strugglingTopics 平均分低于阈值的知识点，按平均分升序，分数相同时按名称排序
func strugglingTopics(attempts []model.PracticeAttempt, threshold float64) []model.TopicPerformance {
	type acc struct {
		sum   float64
		count int
	}
	byTopic := make(map[string]*acc)
	for _, a := range attempts {
		for _, t := range dedupe(a.Topics) {
			if byTopic[t] == nil {
				byTopic[t] = &acc{}
			}
			byTopic[t].sum += a.Score
			byTopic[t].count++
		}
	}

	topics := make([]model.TopicPerformance, 0)
	for t, v := range byTopic {
		avg := v.sum / float64(v.count)
		if avg < threshold {
			topics = append(topics, model.TopicPerformance{Topic: t, AverageScore: avg, Attempts: v.count})
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].AverageScore != topics[j].AverageScore {
			return topics[i].AverageScore < topics[j].AverageScore
		}
		return topics[i].Topic < topics[j].Topic
	})
	return topics
}

// rankStudents 只排名有练习记录的学生，按平均分降序，分数相同时按学生 ID 排序
func rankStudents(studentIDs []string, byStudent map[string][]model.PracticeAttempt, names map[string]string) []model.StudentPerformance {
	ranked := make([]model.StudentPerformance, 0, len(studentIDs))
	for _, id := range studentIDs {
		attempts := byStudent[id]
		if len(attempts) == 0 {
			continue
		}
		ranked = append(ranked, model.StudentPerformance{
			StudentID:    id,
			Name:         names[id],
			AverageScore: averageScore(attempts),
			TotalTests:   len(attempts),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AverageScore != ranked[j].AverageScore {
			return ranked[i].AverageScore > ranked[j].AverageScore
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})
	return ranked
}

// BuildClassPerformance 班级成绩分析；空班级是合法输入，返回全零结果
func BuildClassPerformance(info model.ClassInfo, studentIDs []string, names map[string]string,
	attempts []model.PracticeAttempt, messages []model.ChatMessage, policy AnalyticsPolicy) model.ClassPerformanceReport {

	students := dedupe(studentIDs)
	set := toSet(students)

	classAttempts := make([]model.PracticeAttempt, 0, len(attempts))
	for _, a := range attempts {
		if _, ok := set[a.StudentID]; ok {
			classAttempts = append(classAttempts, a)
		}
	}
	classMessages := make([]model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if _, ok := set[m.StudentID]; ok {
			classMessages = append(classMessages, m)
		}
	}

	ranked := rankStudents(students, attemptsByStudent(classAttempts), names)

	top := ranked
	if policy.TopPerformerLimit >= 0 && len(top) > policy.TopPerformerLimit {
		top = top[:policy.TopPerformerLimit]
	}

	needsHelp := make([]model.StudentPerformance, 0)
	for _, sp := range ranked {
		if sp.AverageScore < policy.NeedsHelpThreshold {
			needsHelp = append(needsHelp, sp)
		}
	}
	sort.Slice(needsHelp, func(i, j int) bool {
		if needsHelp[i].AverageScore != needsHelp[j].AverageScore {
			return needsHelp[i].AverageScore < needsHelp[j].AverageScore
		}
		return needsHelp[i].StudentID < needsHelp[j].StudentID
	})

	return model.ClassPerformanceReport{
		ClassInfo:           info,
		StudentCount:        len(students),
		PerformanceSummary:  summarize(classAttempts),
		SubjectAnalysis:     BuildSubjectAnalytics(classAttempts, classMessages, policy.TrendPoints),
		StrugglingTopics:    strugglingTopics(classAttempts, policy.StrugglingThreshold),
		TopPerformers:       append([]model.StudentPerformance{}, top...),
		StudentsNeedingHelp: needsHelp,
	}
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// weeklyActivityTrend 统计 [now-windowDays, now] 内的对话数，按 ISO 周分桶，无数据的周补零
func weeklyActivityTrend(messages []model.ChatMessage, now time.Time, windowDays int) []model.WeeklyActivity {
	start := now.AddDate(0, 0, -windowDays)

	var trend []model.WeeklyActivity
	index := make(map[string]int)
	for d := start; !d.After(now); d = d.AddDate(0, 0, 1) {
		key := isoWeekKey(d)
		if _, ok := index[key]; !ok {
			index[key] = len(trend)
			trend = append(trend, model.WeeklyActivity{Week: key})
		}
	}

	for _, m := range messages {
		if m.Timestamp.Before(start) || m.Timestamp.After(now) {
			continue
		}
		if i, ok := index[isoWeekKey(m.Timestamp)]; ok {
			trend[i].Messages++
		}
	}
	return trend
}

func averageXP(studentIDs []string, profiles map[string]model.StudentProfile) (avgXP, avgLevel float64) {
	var sumXP, sumLevel, n int
	for _, id := range studentIDs {
		p, ok := profiles[id]
		if !ok {
			continue
		}
		sumXP += p.TotalXP
		sumLevel += LevelForXP(p.TotalXP)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sumXP) / float64(n), float64(sumLevel) / float64(n)
}

// recentActivityCount 统计 since 之后的对话与练习次数
func recentActivityCount(attempts []model.PracticeAttempt, messages []model.ChatMessage, since time.Time) int {
	count := 0
	for _, a := range attempts {
		if !a.CompletedAt.Before(since) {
			count++
		}
	}
	for _, m := range messages {
		if !m.Timestamp.Before(since) {
			count++
		}
	}
	return count
}

// BuildTeacherOverview 教师总览：学生按集合去重后计入总数，班级行内则各自计数
func BuildTeacherOverview(rosters []model.ClassRoster, profiles map[string]model.StudentProfile,
	attempts []model.PracticeAttempt, messages []model.ChatMessage, now time.Time, policy AnalyticsPolicy) model.TeacherOverview {

	var all []string
	for _, r := range rosters {
		all = append(all, r.StudentIDs...)
	}
	students := dedupe(all)
	set := toSet(students)

	var scopedAttempts []model.PracticeAttempt
	for _, a := range attempts {
		if _, ok := set[a.StudentID]; ok {
			scopedAttempts = append(scopedAttempts, a)
		}
	}
	var scopedMessages []model.ChatMessage
	for _, m := range messages {
		if _, ok := set[m.StudentID]; ok {
			scopedMessages = append(scopedMessages, m)
		}
	}

	distribution := make(map[model.Subject]int, len(model.AllSubjects))
	for _, s := range model.AllSubjects {
		distribution[s] = 0
	}
	for _, m := range scopedMessages {
		if _, ok := distribution[m.Subject]; ok {
			distribution[m.Subject]++
		}
	}
	for _, a := range scopedAttempts {
		if _, ok := distribution[a.Subject]; ok {
			distribution[a.Subject]++
		}
	}

	byStudentAttempts := attemptsByStudent(scopedAttempts)
	byStudentMessages := messagesByStudent(scopedMessages)
	since := now.AddDate(0, 0, -policy.ClassActivityDays)

	summaries := make([]model.ClassSummary, 0, len(rosters))
	for _, r := range rosters {
		classStudents := dedupe(r.StudentIDs)
		var classAttempts []model.PracticeAttempt
		var classMessages []model.ChatMessage
		for _, id := range classStudents {
			classAttempts = append(classAttempts, byStudentAttempts[id]...)
			classMessages = append(classMessages, byStudentMessages[id]...)
		}
		avgXP, _ := averageXP(classStudents, profiles)
		summaries = append(summaries, model.ClassSummary{
			ClassInfo:      r.Class.Info(),
			StudentCount:   len(classStudents),
			AverageXP:      avgXP,
			AverageScore:   averageScore(classAttempts),
			WeeklyActivity: recentActivityCount(classAttempts, classMessages, since),
		})
	}

	return model.TeacherOverview{
		OverviewMetrics: model.OverviewMetrics{
			TotalClasses:  len(rosters),
			TotalStudents: len(students),
			TotalMessages: len(scopedMessages),
			TotalTests:    len(scopedAttempts),
			AverageScore:  averageScore(scopedAttempts),
		},
		ClassSummary:        summaries,
		SubjectDistribution: distribution,
		WeeklyActivityTrend: weeklyActivityTrend(scopedMessages, now, policy.ActivityWindowDays),
	}
}

// BuildClassAnalytics 班级详细指标与每个学生的统计
func BuildClassAnalytics(info model.ClassInfo, studentIDs []string, profiles map[string]model.StudentProfile,
	attempts []model.PracticeAttempt, messages []model.ChatMessage, now time.Time, policy AnalyticsPolicy) model.ClassAnalytics {

	students := dedupe(studentIDs)
	byStudentAttempts := attemptsByStudent(attempts)
	byStudentMessages := messagesByStudent(messages)
	since := now.AddDate(0, 0, -policy.ClassActivityDays)

	metrics := model.ClassMetrics{}
	metrics.AverageXP, metrics.AverageLevel = averageXP(students, profiles)

	var classAttempts []model.PracticeAttempt
	perStudent := make(map[string]model.StudentClassStats, len(students))
	for _, id := range students {
		sa := byStudentAttempts[id]
		sm := byStudentMessages[id]
		classAttempts = append(classAttempts, sa...)
		metrics.TotalMessages += len(sm)

		if recentActivityCount(sa, sm, since) > 0 {
			metrics.ActiveStudents++
		}

		stats := model.StudentClassStats{
			Level:         1,
			TotalMessages: len(sm),
			TotalTests:    len(sa),
			AverageScore:  averageScore(sa),
		}
		if p, ok := profiles[id]; ok {
			stats.Name = p.Name
			stats.TotalXP = p.TotalXP
			stats.Level = LevelForXP(p.TotalXP)
			stats.LastActive = p.LastActive
		}
		if stats.LastActive == nil {
			for _, m := range sm {
				stats.LastActive = later(stats.LastActive, m.Timestamp)
			}
			for _, a := range sa {
				stats.LastActive = later(stats.LastActive, a.CompletedAt)
			}
		}
		perStudent[id] = stats
	}
	metrics.TotalTests = len(classAttempts)
	metrics.AverageScore = averageScore(classAttempts)

	return model.ClassAnalytics{
		ClassInfo:        info,
		StudentCount:     len(students),
		ClassMetrics:     metrics,
		StudentAnalytics: perStudent,
	}
}

const recentActivityLimit = 10

// BuildStudentReport 学生个人报告；档案缺失时按空档案处理
func BuildStudentReport(profile *model.StudentProfile, attempts []model.PracticeAttempt, messages []model.ChatMessage,
	sessions []model.MindfulnessSession, events []model.CalendarEvent, now time.Time, policy AnalyticsPolicy) model.StudentReport {

	stats := model.OverallStats{
		TotalMessages:            len(messages),
		TotalTests:               len(attempts),
		TotalMindfulnessSessions: len(sessions),
		TotalEvents:              len(events),
		AverageTestScore:         averageScore(attempts),
		CurrentLevel:             1,
	}
	if profile != nil {
		stats.StudyStreak = profile.StreakDays
		stats.TotalXP = profile.TotalXP
		stats.CurrentLevel = LevelForXP(profile.TotalXP)
	}

	return model.StudentReport{
		StudentProfile:   profile,
		OverallStats:     stats,
		SubjectAnalytics: BuildSubjectAnalytics(attempts, messages, policy.TrendPoints),
		ActivityTimeline: model.ActivityTimeline{
			DailyActivity:    dailyActivity(attempts, messages, now, policy.ActivityWindowDays),
			PerformanceTrend: progressTrend(attempts, policy.TrendPoints),
			RecentActivity:   recentActivity(attempts, messages, sessions, recentActivityLimit),
		},
		WellnessData: wellness(sessions, policy.TrendPoints),
	}
}

// dailyActivity 最近 days 天（含今天）每天的对话与练习次数
func dailyActivity(attempts []model.PracticeAttempt, messages []model.ChatMessage, now time.Time, days int) []model.DailyActivity {
	if days <= 0 {
		days = 1
	}
	out := make([]model.DailyActivity, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := now.AddDate(0, 0, i-days+1).Format(util.DateFormat)
		out[i] = model.DailyActivity{Date: key}
		index[key] = i
	}
	for _, m := range messages {
		if i, ok := index[m.Timestamp.In(now.Location()).Format(util.DateFormat)]; ok {
			out[i].Messages++
		}
	}
	for _, a := range attempts {
		if i, ok := index[a.CompletedAt.In(now.Location()).Format(util.DateFormat)]; ok {
			out[i].Tests++
		}
	}
	return out
}

func recentActivity(attempts []model.PracticeAttempt, messages []model.ChatMessage, sessions []model.MindfulnessSession, limit int) []model.ActivityItem {
	items := make([]model.ActivityItem, 0, len(attempts)+len(messages)+len(sessions))
	for _, a := range attempts {
		items = append(items, model.ActivityItem{
			Type:      "practice_test",
			Subject:   a.Subject,
			Summary:   fmt.Sprintf("Scored %.1f%% on %d questions", a.Score, a.TotalQuestions),
			Timestamp: a.CompletedAt,
		})
	}
	for _, m := range messages {
		items = append(items, model.ActivityItem{
			Type:      "chat",
			Subject:   m.Subject,
			Summary:   m.Topic,
			Timestamp: m.Timestamp,
		})
	}
	for _, s := range sessions {
		items = append(items, model.ActivityItem{
			Type:      "mindfulness",
			Summary:   fmt.Sprintf("%s for %d minutes", s.ActivityType, s.DurationMinutes),
			Timestamp: s.CompletedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func wellness(sessions []model.MindfulnessSession, trendPoints int) model.WellnessData {
	w := model.WellnessData{
		MindfulnessSessions: len(sessions),
		MoodTrends:          make([]model.MoodPoint, 0),
	}
	for _, s := range sessions {
		w.TotalMindfulnessMinutes += s.DurationMinutes
		if s.MoodBefore > 0 || s.MoodAfter > 0 {
			w.MoodTrends = append(w.MoodTrends, model.MoodPoint{
				Date:       s.CompletedAt,
				MoodBefore: s.MoodBefore,
				MoodAfter:  s.MoodAfter,
			})
		}
	}
	sort.SliceStable(w.MoodTrends, func(i, j int) bool {
		return w.MoodTrends[i].Date.Before(w.MoodTrends[j].Date)
	})
	if len(w.MoodTrends) > trendPoints {
		w.MoodTrends = w.MoodTrends[len(w.MoodTrends)-trendPoints:]
	}
	return w
}
