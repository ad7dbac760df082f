package model

import "time"

// TrendPoint 成绩趋势中的一个数据点
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// SubjectAnalytics 单个学科的学习汇总
type SubjectAnalytics struct {
	TotalMessages int          `json:"total_messages"`
	TotalTests    int          `json:"total_tests"`
	AverageScore  float64      `json:"average_score"`
	LastActivity  *time.Time   `json:"last_activity"`
	ProgressTrend []TrendPoint `json:"progress_trend"`
}

// ClassInfo 班级基本信息
type ClassInfo struct {
	ClassID    string     `json:"class_id"`
	ClassName  string     `json:"class_name"`
	Subject    Subject    `json:"subject"`
	GradeLevel GradeLevel `json:"grade_level"`
	JoinCode   string     `json:"join_code"`
}

// PerformanceSummary 成绩汇总，无记录时全部为 0
type PerformanceSummary struct {
	TotalTests   int     `json:"total_tests"`
	AverageScore float64 `json:"average_score"`
	HighestScore float64 `json:"highest_score"`
	LowestScore  float64 `json:"lowest_score"`
}

// TopicPerformance 知识点成绩
type TopicPerformance struct {
	Topic        string  `json:"topic"`
	AverageScore float64 `json:"average_score"`
	Attempts     int     `json:"attempts"`
}

// StudentPerformance 学生排名条目
type StudentPerformance struct {
	StudentID    string  `json:"student_id"`
	Name         string  `json:"name"`
	AverageScore float64 `json:"average_score"`
	TotalTests   int     `json:"total_tests"`
}

// ClassPerformanceReport 班级成绩分析
type ClassPerformanceReport struct {
	ClassInfo           ClassInfo                    `json:"class_info"`
	StudentCount        int                          `json:"student_count"`
	PerformanceSummary  PerformanceSummary           `json:"performance_summary"`
	SubjectAnalysis     map[Subject]SubjectAnalytics `json:"subject_analysis"`
	StrugglingTopics    []TopicPerformance           `json:"struggling_topics"`
	TopPerformers       []StudentPerformance         `json:"top_performers"`
	StudentsNeedingHelp []StudentPerformance         `json:"students_needing_help"`
}

// OverviewMetrics 教师总览指标
type OverviewMetrics struct {
	TotalClasses  int     `json:"total_classes"`
	TotalStudents int     `json:"total_students"`
	TotalMessages int     `json:"total_messages"`
	TotalTests    int     `json:"total_tests"`
	AverageScore  float64 `json:"average_score"`
}

// ClassSummary 总览中的班级行
type ClassSummary struct {
	ClassInfo      ClassInfo `json:"class_info"`
	StudentCount   int       `json:"student_count"`
	AverageXP      float64   `json:"average_xp"`
	AverageScore   float64   `json:"average_score"`
	WeeklyActivity int       `json:"weekly_activity"`
}

// WeeklyActivity 按 ISO 周统计的对话数量
type WeeklyActivity struct {
	Week     string `json:"week"`
	Messages int    `json:"messages"`
}

// TeacherOverview 教师维度的总览
type TeacherOverview struct {
	OverviewMetrics     OverviewMetrics  `json:"overview_metrics"`
	ClassSummary        []ClassSummary   `json:"class_summary"`
	SubjectDistribution map[Subject]int  `json:"subject_distribution"`
	WeeklyActivityTrend []WeeklyActivity `json:"weekly_activity_trend"`
}

// ClassMetrics 班级整体指标
type ClassMetrics struct {
	AverageXP      float64 `json:"average_xp"`
	AverageLevel   float64 `json:"average_level"`
	TotalMessages  int     `json:"total_messages"`
	TotalTests     int     `json:"total_tests"`
	AverageScore   float64 `json:"average_score"`
	ActiveStudents int     `json:"active_students"`
}

// StudentClassStats 班级分析中的学生条目
type StudentClassStats struct {
	Name          string     `json:"name"`
	TotalXP       int        `json:"total_xp"`
	Level         int        `json:"level"`
	TotalMessages int        `json:"total_messages"`
	TotalTests    int        `json:"total_tests"`
	AverageScore  float64    `json:"average_score"`
	LastActive    *time.Time `json:"last_active"`
}

// ClassAnalytics 班级详细分析
type ClassAnalytics struct {
	ClassInfo        ClassInfo                    `json:"class_info"`
	StudentCount     int                          `json:"student_count"`
	ClassMetrics     ClassMetrics                 `json:"class_metrics"`
	StudentAnalytics map[string]StudentClassStats `json:"student_analytics"`
}

// OverallStats 学生个人总体统计
type OverallStats struct {
	TotalMessages            int     `json:"total_messages"`
	TotalTests               int     `json:"total_tests"`
	TotalMindfulnessSessions int     `json:"total_mindfulness_sessions"`
	TotalEvents              int     `json:"total_events"`
	AverageTestScore         float64 `json:"average_test_score"`
	StudyStreak              int     `json:"study_streak"`
	TotalXP                  int     `json:"total_xp"`
	CurrentLevel             int     `json:"current_level"`
}

// DailyActivity 每日活动量
type DailyActivity struct {
	Date     string `json:"date"`
	Messages int    `json:"messages"`
	Tests    int    `json:"tests"`
}

// ActivityItem 最近活动
type ActivityItem struct {
	Type      string    `json:"type"`
	Subject   Subject   `json:"subject,omitempty"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityTimeline 学生活动时间线
type ActivityTimeline struct {
	DailyActivity    []DailyActivity `json:"daily_activity"`
	PerformanceTrend []TrendPoint    `json:"performance_trend"`
	RecentActivity   []ActivityItem  `json:"recent_activity"`
}

// MoodPoint 正念前后的情绪记录
type MoodPoint struct {
	Date       time.Time `json:"date"`
	MoodBefore int       `json:"mood_before"`
	MoodAfter  int       `json:"mood_after"`
}

// WellnessData 身心健康数据
type WellnessData struct {
	MindfulnessSessions     int         `json:"mindfulness_sessions"`
	TotalMindfulnessMinutes int         `json:"total_mindfulness_minutes"`
	MoodTrends              []MoodPoint `json:"mood_trends"`
}

// StudentReport 教师查看的学生详细报告
type StudentReport struct {
	StudentProfile   *StudentProfile              `json:"student_profile"`
	OverallStats     OverallStats                 `json:"overall_stats"`
	SubjectAnalytics map[Subject]SubjectAnalytics `json:"subject_analytics"`
	ActivityTimeline ActivityTimeline             `json:"activity_timeline"`
	WellnessData     WellnessData                 `json:"wellness_data"`
}

// TestResultFilter 测试结果筛选条件
type TestResultFilter struct {
	ClassID   string  `json:"class_id,omitempty"`
	StudentID string  `json:"student_id,omitempty"`
	Subject   Subject `json:"subject,omitempty"`
}

// StudentTestResult 教师视角的测试结果
type StudentTestResult struct {
	PracticeResultView
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
}

// TestResultsReport 测试结果列表
type TestResultsReport struct {
	Results        []StudentTestResult `json:"test_results"`
	TotalResults   int                 `json:"total_results"`
	FiltersApplied TestResultFilter    `json:"filters_applied"`
}
