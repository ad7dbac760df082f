package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	svc      *AnalyticsService
	roster   *fakeRoster
	attempts *fakeAttempts
	messages *fakeMessages
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		roster:   newFakeRoster(),
		attempts: &fakeAttempts{},
		messages: &fakeMessages{},
	}
	profiles := newFakeProfiles(studentProfile("s1", 120), studentProfile("s2", 40), studentProfile("s3", 510))
	f.svc = NewAnalyticsService(f.attempts, f.messages, profiles, f.roster, newFakeQuestions(),
		&fakeMindfulness{}, &fakeCalendar{}, DefaultAnalyticsPolicy())
	f.svc.now = func() time.Time { return baseTime }

	f.roster.addClass("c1", "t1", model.SubjectMath, "s1", "s2")
	f.roster.addClass("c2", "t1", model.SubjectPhysics, "s2", "s3")
	f.roster.addClass("c3", "t2", model.SubjectMath, "s1")
	return f
}

func TestAnalyticsService_ClassPerformanceOwnership(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()

	_, err := f.svc.ClassPerformance(ctx, "t2", "c1")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.svc.ClassPerformance(ctx, "t1", "missing")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.svc.ClassAnalytics(ctx, "t2", "c2")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAnalyticsService_ClassPerformanceUsesProfileNames(t *testing.T) {
	f := newAnalyticsFixture()
	f.attempts.attempts = []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 90, baseTime),
		attemptAt("s3", model.SubjectMath, 10, baseTime),
	}

	report, err := f.svc.ClassPerformance(context.Background(), "t1", "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", report.ClassInfo.ClassID)
	assert.Equal(t, 2, report.StudentCount)
	assert.Equal(t, 1, report.PerformanceSummary.TotalTests)
	require.Len(t, report.TopPerformers, 1)
	assert.Equal(t, "Student s1", report.TopPerformers[0].Name)
}

func TestAnalyticsService_TeacherOverviewCountsStudentsOnce(t *testing.T) {
	f := newAnalyticsFixture()

	overview, err := f.svc.TeacherOverview(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, 2, overview.OverviewMetrics.TotalClasses)
	assert.Equal(t, 3, overview.OverviewMetrics.TotalStudents)
	require.Len(t, overview.ClassSummary, 2)
	assert.Equal(t, 2, overview.ClassSummary[0].StudentCount)
	assert.Equal(t, 2, overview.ClassSummary[1].StudentCount)
}

func TestAnalyticsService_StudentReportRequiresMembership(t *testing.T) {
	f := newAnalyticsFixture()

	_, err := f.svc.StudentReport(context.Background(), "t2", "s3")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	report, err := f.svc.StudentReport(context.Background(), "t1", "s3")
	require.NoError(t, err)
	require.NotNil(t, report.StudentProfile)
	assert.Equal(t, 510, report.OverallStats.TotalXP)
	assert.Equal(t, 6, report.OverallStats.CurrentLevel)
}

func TestAnalyticsService_TestResultsFilters(t *testing.T) {
	f := newAnalyticsFixture()
	f.attempts.attempts = []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 80, baseTime.Add(-time.Hour)),
		attemptAt("s2", model.SubjectPhysics, 60, baseTime),
		attemptAt("s3", model.SubjectMath, 70, baseTime.Add(-2*time.Hour)),
	}
	ctx := context.Background()

	all, err := f.svc.TestResults(ctx, "t1", model.TestResultFilter{})
	require.NoError(t, err)
	require.Equal(t, 3, all.TotalResults)
	assert.Equal(t, "s2", all.Results[0].StudentID)
	assert.Equal(t, "s3", all.Results[2].StudentID)

	byClass, err := f.svc.TestResults(ctx, "t1", model.TestResultFilter{ClassID: "c1", Subject: model.SubjectMath})
	require.NoError(t, err)
	require.Equal(t, 1, byClass.TotalResults)
	assert.Equal(t, "s1", byClass.Results[0].StudentID)
	assert.Equal(t, "Student s1", byClass.Results[0].StudentName)

	_, err = f.svc.TestResults(ctx, "t1", model.TestResultFilter{ClassID: "c3"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.svc.TestResults(ctx, "t2", model.TestResultFilter{StudentID: "s3"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAnalyticsService_SetPolicy(t *testing.T) {
	f := newAnalyticsFixture()
	p := DefaultAnalyticsPolicy()
	p.TopPerformerLimit = 1
	f.svc.SetPolicy(p)

	assert.Equal(t, 1, f.svc.Policy().TopPerformerLimit)
}

func TestAnalyticsService_TeacherOverviewFullyOverlappingClasses(t *testing.T) {
	f := newAnalyticsFixture()
	f.roster.addClass("c4", "t3", model.SubjectMath, "s1", "s2", "s3")
	f.roster.addClass("c5", "t3", model.SubjectPhysics, "s1", "s2", "s3")

	overview, err := f.svc.TeacherOverview(context.Background(), "t3")
	require.NoError(t, err)

	assert.Equal(t, 2, overview.OverviewMetrics.TotalClasses)
	assert.Equal(t, 3, overview.OverviewMetrics.TotalStudents)
	require.Len(t, overview.ClassSummary, 2)
	for _, c := range overview.ClassSummary {
		assert.Equal(t, 3, c.StudentCount)
	}
}
