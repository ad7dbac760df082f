package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"projectk_backend/pkg/tracing"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AnalyticsService 读取一次快照后交给纯函数聚合，不修改任何数据
type AnalyticsService struct {
	Attempts    AttemptStore
	Messages    MessageStore
	Profiles    ProfileStore
	Rosters     RosterProvider
	Questions   QuestionStore
	Mindfulness MindfulnessStore
	Calendar    CalendarStore

	mu     sync.RWMutex
	policy AnalyticsPolicy
	now    func() time.Time
}

func NewAnalyticsService(attempts AttemptStore, messages MessageStore, profiles ProfileStore, rosters RosterProvider,
	questions QuestionStore, mindfulness MindfulnessStore, calendar CalendarStore, policy AnalyticsPolicy) *AnalyticsService {
	return &AnalyticsService{
		Attempts:    attempts,
		Messages:    messages,
		Profiles:    profiles,
		Rosters:     rosters,
		Questions:   questions,
		Mindfulness: mindfulness,
		Calendar:    calendar,
		policy:      policy,
		now:         time.Now,
	}
}

// SetPolicy 配置热更新时替换阈值
func (s *AnalyticsService) SetPolicy(p AnalyticsPolicy) {
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
	logger.Log.Info("analytics policy updated",
		zap.Float64("strugglingThreshold", p.StrugglingThreshold),
		zap.Float64("needsHelpThreshold", p.NeedsHelpThreshold),
		zap.Int("topPerformerLimit", p.TopPerformerLimit))
}

func (s *AnalyticsService) Policy() AnalyticsPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

func (s *AnalyticsService) profileMap(ctx context.Context, ids []string) (map[string]model.StudentProfile, error) {
	profiles, err := s.Profiles.FindStudentProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[string]model.StudentProfile, len(profiles))
	for _, p := range profiles {
		m[p.UserID] = p
	}
	return m, nil
}

// ownedClass 班级不存在或不属于该教师时一律拒绝访问
func (s *AnalyticsService) ownedClass(ctx context.Context, teacherID, classID string) (*model.ClassRoom, error) {
	class, err := s.Rosters.FindClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil || class.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return class, nil
}

// StudentSubjectAnalytics 学生各学科汇总
func (s *AnalyticsService) StudentSubjectAnalytics(ctx context.Context, studentID string) (map[model.Subject]model.SubjectAnalytics, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.StudentSubjectAnalytics")
	defer span.End()

	attempts, err := s.Attempts.FindByStudent(ctx, studentID, "")
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.FindByStudents(ctx, []string{studentID})
	if err != nil {
		return nil, err
	}
	return BuildSubjectAnalytics(attempts, messages, s.Policy().TrendPoints), nil
}

// ClassPerformance 班级成绩分析
func (s *AnalyticsService) ClassPerformance(ctx context.Context, teacherID, classID string) (*model.ClassPerformanceReport, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.ClassPerformance")
	defer span.End()
	span.SetAttributes(attribute.String("class.id", classID))

	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return nil, err
	}
	studentIDs, err := s.Rosters.GetStudentIDsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.Attempts.FindByStudents(ctx, studentIDs, "")
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.FindByStudents(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileMap(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(profiles))
	for id, p := range profiles {
		names[id] = p.Name
	}

	report := BuildClassPerformance(class.Info(), studentIDs, names, attempts, messages, s.Policy())
	return &report, nil
}

// TeacherOverview 教师所有班级的总览
func (s *AnalyticsService) TeacherOverview(ctx context.Context, teacherID string) (*model.TeacherOverview, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.TeacherOverview")
	defer span.End()

	rosters, err := s.Rosters.GetClassesForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	var all []string
	for _, r := range rosters {
		all = append(all, r.StudentIDs...)
	}
	students := dedupe(all)

	attempts, err := s.Attempts.FindByStudents(ctx, students, "")
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.FindByStudents(ctx, students)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileMap(ctx, students)
	if err != nil {
		return nil, err
	}

	overview := BuildTeacherOverview(rosters, profiles, attempts, messages, s.now(), s.Policy())
	return &overview, nil
}

// ClassAnalytics 班级详细指标
func (s *AnalyticsService) ClassAnalytics(ctx context.Context, teacherID, classID string) (*model.ClassAnalytics, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.ClassAnalytics")
	defer span.End()

	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return nil, err
	}
	studentIDs, err := s.Rosters.GetStudentIDsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.Attempts.FindByStudents(ctx, studentIDs, "")
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.FindByStudents(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileMap(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	result := BuildClassAnalytics(class.Info(), studentIDs, profiles, attempts, messages, s.now(), s.Policy())
	return &result, nil
}

// teacherStudents 教师名下所有学生的集合
func (s *AnalyticsService) teacherStudents(ctx context.Context, teacherID string) ([]model.ClassRoster, map[string]struct{}, error) {
	rosters, err := s.Rosters.GetClassesForTeacher(ctx, teacherID)
	if err != nil {
		return nil, nil, err
	}
	set := make(map[string]struct{})
	for _, r := range rosters {
		for _, id := range r.StudentIDs {
			set[id] = struct{}{}
		}
	}
	return rosters, set, nil
}

// StudentReport 学生必须属于该教师的某个班级
func (s *AnalyticsService) StudentReport(ctx context.Context, teacherID, studentID string) (*model.StudentReport, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.StudentReport")
	defer span.End()

	_, set, err := s.teacherStudents(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if _, ok := set[studentID]; !ok {
		return nil, util.ErrPermissionDenied
	}

	profile, err := s.Profiles.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.Attempts.FindByStudent(ctx, studentID, "")
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.FindByStudents(ctx, []string{studentID})
	if err != nil {
		return nil, err
	}
	sessions, err := s.Mindfulness.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	events, err := s.Calendar.ListByStudent(ctx, studentID, nil, nil)
	if err != nil {
		return nil, err
	}

	report := BuildStudentReport(profile, attempts, messages, sessions, events, s.now(), s.Policy())
	return &report, nil
}

// TestResults 按班级、学生、学科筛选教师名下学生的练习记录，按完成时间倒序
func (s *AnalyticsService) TestResults(ctx context.Context, teacherID string, filter model.TestResultFilter) (*model.TestResultsReport, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.TestResults")
	defer span.End()

	rosters, set, err := s.teacherStudents(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	var studentIDs []string
	if filter.ClassID != "" {
		found := false
		for _, r := range rosters {
			if r.Class.ID == filter.ClassID {
				studentIDs = dedupe(r.StudentIDs)
				found = true
				break
			}
		}
		if !found {
			return nil, util.ErrPermissionDenied
		}
	} else {
		for id := range set {
			studentIDs = append(studentIDs, id)
		}
		sort.Strings(studentIDs)
	}

	if filter.StudentID != "" {
		if _, ok := set[filter.StudentID]; !ok {
			return nil, util.ErrPermissionDenied
		}
		scoped := studentIDs[:0:0]
		for _, id := range studentIDs {
			if id == filter.StudentID {
				scoped = append(scoped, id)
			}
		}
		studentIDs = scoped
	}

	attempts, err := s.Attempts.FindByStudents(ctx, studentIDs, filter.Subject)
	if err != nil {
		return nil, err
	}

	var questionIDs []string
	for _, a := range attempts {
		questionIDs = append(questionIDs, a.QuestionIDs...)
	}
	questions, err := s.Questions.FindByIDs(ctx, dedupe(questionIDs))
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileMap(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	idx := questionIndex(questions)
	results := make([]model.StudentTestResult, 0, len(attempts))
	for i := range attempts {
		results = append(results, model.StudentTestResult{
			PracticeResultView: buildResultView(&attempts[i], idx),
			StudentID:          attempts[i].StudentID,
			StudentName:        profiles[attempts[i].StudentID].Name,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	})

	return &model.TestResultsReport{
		Results:        results,
		TotalResults:   len(results),
		FiltersApplied: filter,
	}, nil
}
