package service

import (
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestBuildClassPerformance_EmptyClass(t *testing.T) {
	info := model.ClassInfo{ClassID: "c1", ClassName: "Algebra"}

	report := BuildClassPerformance(info, nil, nil, nil, nil, DefaultAnalyticsPolicy())

	assert.Equal(t, info, report.ClassInfo)
	assert.Equal(t, 0, report.StudentCount)
	assert.Equal(t, model.PerformanceSummary{}, report.PerformanceSummary)
	assert.Empty(t, report.StrugglingTopics)
	assert.Empty(t, report.TopPerformers)
	assert.Empty(t, report.StudentsNeedingHelp)
	assert.Len(t, report.SubjectAnalysis, len(model.AllSubjects))
	for _, sa := range report.SubjectAnalysis {
		assert.Equal(t, 0, sa.TotalTests)
		assert.Nil(t, sa.LastActivity)
	}
}

func TestBuildClassPerformance_RankingAndThresholds(t *testing.T) {
	students := []string{"s1", "s2", "s3", "s4", "s2"}
	names := map[string]string{"s1": "Ana", "s2": "Ben", "s3": "Cy"}
	attempts := []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 90, baseTime, "algebra"),
		attemptAt("s1", model.SubjectMath, 80, baseTime.Add(time.Hour), "geometry"),
		attemptAt("s2", model.SubjectMath, 50, baseTime, "algebra", "fractions"),
		attemptAt("s3", model.SubjectPhysics, 40, baseTime, "fractions"),
		attemptAt("outsider", model.SubjectMath, 0, baseTime, "algebra"),
	}

	report := BuildClassPerformance(model.ClassInfo{ClassID: "c1"}, students, names, attempts, nil, DefaultAnalyticsPolicy())

	assert.Equal(t, 4, report.StudentCount)
	assert.Equal(t, 4, report.PerformanceSummary.TotalTests)
	assert.InDelta(t, 65.0, report.PerformanceSummary.AverageScore, 1e-9)
	assert.Equal(t, 90.0, report.PerformanceSummary.HighestScore)
	assert.Equal(t, 40.0, report.PerformanceSummary.LowestScore)

	// s4 没有练习记录，不参与排名
	require.Len(t, report.TopPerformers, 3)
	assert.Equal(t, "s1", report.TopPerformers[0].StudentID)
	assert.Equal(t, "Ana", report.TopPerformers[0].Name)
	assert.InDelta(t, 85.0, report.TopPerformers[0].AverageScore, 1e-9)
	assert.Equal(t, "s2", report.TopPerformers[1].StudentID)
	assert.Equal(t, "s3", report.TopPerformers[2].StudentID)

	require.Len(t, report.StudentsNeedingHelp, 2)
	assert.Equal(t, "s3", report.StudentsNeedingHelp[0].StudentID)
	assert.Equal(t, "s2", report.StudentsNeedingHelp[1].StudentID)

	// algebra 平均恰好 70，不低于阈值
	require.Len(t, report.StrugglingTopics, 1)
	assert.Equal(t, "fractions", report.StrugglingTopics[0].Topic)
	assert.InDelta(t, 45.0, report.StrugglingTopics[0].AverageScore, 1e-9)
	assert.Equal(t, 2, report.StrugglingTopics[0].Attempts)

	assert.Equal(t, 3, report.SubjectAnalysis[model.SubjectMath].TotalTests)
	assert.Equal(t, 1, report.SubjectAnalysis[model.SubjectPhysics].TotalTests)
}

func TestBuildClassPerformance_TopPerformerLimit(t *testing.T) {
	var students []string
	var attempts []model.PracticeAttempt
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		students = append(students, id)
		attempts = append(attempts, attemptAt(id, model.SubjectMath, float64(30+i*10), baseTime))
	}

	report := BuildClassPerformance(model.ClassInfo{}, students, nil, attempts, nil, DefaultAnalyticsPolicy())

	require.Len(t, report.TopPerformers, 5)
	assert.Equal(t, "g", report.TopPerformers[0].StudentID)
	assert.Equal(t, "c", report.TopPerformers[4].StudentID)
}

func TestBuildSubjectAnalytics_TrendAndLastActivity(t *testing.T) {
	var attempts []model.PracticeAttempt
	for i := 0; i < 12; i++ {
		attempts = append(attempts, attemptAt("s1", model.SubjectMath, float64(i*5), baseTime.Add(time.Duration(i)*time.Hour)))
	}
	lastMsg := baseTime.Add(48 * time.Hour)
	messages := []model.ChatMessage{messageAt("s1", model.SubjectMath, lastMsg)}

	result := BuildSubjectAnalytics(attempts, messages, 10)

	math := result[model.SubjectMath]
	assert.Equal(t, 12, math.TotalTests)
	assert.Equal(t, 1, math.TotalMessages)
	require.NotNil(t, math.LastActivity)
	assert.True(t, lastMsg.Equal(*math.LastActivity))
	require.Len(t, math.ProgressTrend, 10)
	assert.Equal(t, 10.0, math.ProgressTrend[0].Score)
	assert.Equal(t, 55.0, math.ProgressTrend[9].Score)

	assert.Equal(t, 0, result[model.SubjectHistory].TotalTests)
	assert.Empty(t, result[model.SubjectHistory].ProgressTrend)
}

func TestBuildTeacherOverview_DedupesStudentsAcrossClasses(t *testing.T) {
	c1 := model.ClassRoom{ClassName: "A"}
	c1.ID = "c1"
	c2 := model.ClassRoom{ClassName: "B"}
	c2.ID = "c2"
	rosters := []model.ClassRoster{
		{Class: c1, StudentIDs: []string{"s1", "s2"}},
		{Class: c2, StudentIDs: []string{"s2", "s3"}},
	}
	profiles := map[string]model.StudentProfile{
		"s1": studentProfile("s1", 100),
		"s2": studentProfile("s2", 300),
		"s3": studentProfile("s3", 50),
	}
	now := baseTime
	attempts := []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 80, now.AddDate(0, 0, -1)),
		attemptAt("s2", model.SubjectPhysics, 60, now.AddDate(0, 0, -20)),
	}
	messages := []model.ChatMessage{
		messageAt("s2", model.SubjectMath, now.AddDate(0, 0, -2)),
		messageAt("s3", model.SubjectBiology, now.AddDate(0, 0, -10)),
		messageAt("stranger", model.SubjectMath, now),
	}

	overview := BuildTeacherOverview(rosters, profiles, attempts, messages, now, DefaultAnalyticsPolicy())

	assert.Equal(t, 2, overview.OverviewMetrics.TotalClasses)
	assert.Equal(t, 3, overview.OverviewMetrics.TotalStudents)
	assert.Equal(t, 2, overview.OverviewMetrics.TotalMessages)
	assert.Equal(t, 2, overview.OverviewMetrics.TotalTests)
	assert.InDelta(t, 70.0, overview.OverviewMetrics.AverageScore, 1e-9)

	require.Len(t, overview.ClassSummary, 2)
	assert.Equal(t, 2, overview.ClassSummary[0].StudentCount)
	assert.InDelta(t, 200.0, overview.ClassSummary[0].AverageXP, 1e-9)
	// c1: s1 昨天的练习 + s2 两天前的对话；s2 二十天前的练习不在窗口内
	assert.Equal(t, 2, overview.ClassSummary[0].WeeklyActivity)
	assert.Equal(t, 1, overview.ClassSummary[1].WeeklyActivity)

	assert.Equal(t, 2, overview.SubjectDistribution[model.SubjectMath])
	assert.Equal(t, 1, overview.SubjectDistribution[model.SubjectPhysics])
	assert.Equal(t, 1, overview.SubjectDistribution[model.SubjectBiology])
	assert.Equal(t, 0, overview.SubjectDistribution[model.SubjectHistory])
}

func TestBuildTeacherOverview_SameStudentsInEveryClass(t *testing.T) {
	a := model.ClassRoom{ClassName: "A"}
	a.ID = "a"
	b := model.ClassRoom{ClassName: "B"}
	b.ID = "b"
	students := []string{"s1", "s2", "s3"}
	rosters := []model.ClassRoster{
		{Class: a, StudentIDs: students},
		{Class: b, StudentIDs: students},
	}
	profiles := map[string]model.StudentProfile{
		"s1": studentProfile("s1", 10),
		"s2": studentProfile("s2", 20),
		"s3": studentProfile("s3", 30),
	}
	attempts := []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 70, baseTime),
		attemptAt("s3", model.SubjectMath, 90, baseTime),
	}

	overview := BuildTeacherOverview(rosters, profiles, attempts, nil, baseTime, DefaultAnalyticsPolicy())

	assert.Equal(t, 2, overview.OverviewMetrics.TotalClasses)
	assert.Equal(t, 3, overview.OverviewMetrics.TotalStudents)
	assert.Equal(t, 2, overview.OverviewMetrics.TotalTests)
}

func TestWeeklyActivityTrend_ZeroFilled(t *testing.T) {
	now := baseTime
	messages := []model.ChatMessage{
		messageAt("s1", model.SubjectMath, now.AddDate(0, 0, -1)),
		messageAt("s1", model.SubjectMath, now.AddDate(0, 0, -1)),
		messageAt("s1", model.SubjectMath, now.AddDate(0, 0, -40)),
	}

	trend := weeklyActivityTrend(messages, now, 30)

	require.NotEmpty(t, trend)
	seen := make(map[string]bool)
	total := 0
	for _, w := range trend {
		assert.False(t, seen[w.Week], "duplicate week %s", w.Week)
		seen[w.Week] = true
		total += w.Messages
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, isoWeekKey(now), trend[len(trend)-1].Week)
	assert.Equal(t, 2, trend[len(trend)-1].Messages)
	assert.Equal(t, 0, trend[0].Messages)
}

func TestISOWeekKey_YearBoundary(t *testing.T) {
	// 2021-01-03 属于 2020 年第 53 周
	assert.Equal(t, "2020-W53", isoWeekKey(time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-W11", isoWeekKey(baseTime))
}

func TestBuildClassAnalytics(t *testing.T) {
	now := baseTime
	profiles := map[string]model.StudentProfile{
		"s1": studentProfile("s1", 250),
	}
	attempts := []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 70, now.AddDate(0, 0, -3)),
		attemptAt("s2", model.SubjectMath, 50, now.AddDate(0, 0, -30)),
	}

	result := BuildClassAnalytics(model.ClassInfo{ClassID: "c1"}, []string{"s1", "s2"}, profiles, attempts, nil, now, DefaultAnalyticsPolicy())

	assert.Equal(t, 2, result.StudentCount)
	assert.Equal(t, 1, result.ClassMetrics.ActiveStudents)
	assert.Equal(t, 2, result.ClassMetrics.TotalTests)
	assert.InDelta(t, 60.0, result.ClassMetrics.AverageScore, 1e-9)
	assert.InDelta(t, 250.0, result.ClassMetrics.AverageXP, 1e-9)
	assert.InDelta(t, 3.0, result.ClassMetrics.AverageLevel, 1e-9)

	s1 := result.StudentAnalytics["s1"]
	assert.Equal(t, 3, s1.Level)
	assert.Equal(t, "Student s1", s1.Name)

	s2 := result.StudentAnalytics["s2"]
	assert.Equal(t, 1, s2.Level)
	require.NotNil(t, s2.LastActive)
	assert.True(t, now.AddDate(0, 0, -30).Equal(*s2.LastActive))
}

func TestBuildStudentReport(t *testing.T) {
	now := baseTime
	profile := studentProfile("s1", 120)
	profile.StreakDays = 4
	attempts := []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 80, now.Add(-2*time.Hour)),
		attemptAt("s1", model.SubjectMath, 60, now.AddDate(0, 0, -2)),
	}
	messages := []model.ChatMessage{messageAt("s1", model.SubjectEnglish, now.Add(-time.Hour))}
	sessions := []model.MindfulnessSession{
		{StudentID: "s1", ActivityType: "breathing", DurationMinutes: 10, MoodBefore: 4, MoodAfter: 7, CompletedAt: now.AddDate(0, 0, -1)},
		{StudentID: "s1", ActivityType: "walk", DurationMinutes: 15, CompletedAt: now.AddDate(0, 0, -3)},
	}

	report := BuildStudentReport(&profile, attempts, messages, sessions, nil, now, DefaultAnalyticsPolicy())

	assert.Equal(t, 2, report.OverallStats.TotalTests)
	assert.Equal(t, 1, report.OverallStats.TotalMessages)
	assert.Equal(t, 2, report.OverallStats.TotalMindfulnessSessions)
	assert.InDelta(t, 70.0, report.OverallStats.AverageTestScore, 1e-9)
	assert.Equal(t, 4, report.OverallStats.StudyStreak)
	assert.Equal(t, 2, report.OverallStats.CurrentLevel)

	daily := report.ActivityTimeline.DailyActivity
	require.Len(t, daily, 30)
	assert.Equal(t, "2024-03-15", daily[29].Date)
	assert.Equal(t, 1, daily[29].Tests)
	assert.Equal(t, 1, daily[29].Messages)
	assert.Equal(t, 1, daily[27].Tests)

	recent := report.ActivityTimeline.RecentActivity
	require.Len(t, recent, 5)
	assert.Equal(t, "chat", recent[0].Type)
	assert.Equal(t, "practice_test", recent[1].Type)

	assert.Equal(t, 25, report.WellnessData.TotalMindfulnessMinutes)
	require.Len(t, report.WellnessData.MoodTrends, 1)
	assert.Equal(t, 7, report.WellnessData.MoodTrends[0].MoodAfter)
}

func TestBuildStudentReport_NilProfile(t *testing.T) {
	report := BuildStudentReport(nil, nil, nil, nil, nil, baseTime, DefaultAnalyticsPolicy())
	assert.Nil(t, report.StudentProfile)
	assert.Equal(t, 1, report.OverallStats.CurrentLevel)
	assert.Empty(t, report.ActivityTimeline.RecentActivity)
}

func TestPolicyFromConfigDefaults(t *testing.T) {
	p := PolicyFromConfig(config.AnalyticsConfig{NeedsHelpThreshold: 55, TopPerformerLimit: 3})
	assert.Equal(t, 70.0, p.StrugglingThreshold)
	assert.Equal(t, 55.0, p.NeedsHelpThreshold)
	assert.Equal(t, 3, p.TopPerformerLimit)
	assert.Equal(t, 10, p.TrendPoints)
}
