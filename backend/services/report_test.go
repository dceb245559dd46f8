package services

import (
	"errors"
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

var reportNow = time.Date(2025, 9, 10, 13, 0, 0, 0, time.UTC) // среда

type fakeReportLedger struct {
	logs []models.DailyLog
	err  error
}

func (f *fakeReportLedger) Range(userID uint, start, end time.Time) ([]models.DailyLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var logs []models.DailyLog
	for _, log := range f.logs {
		if !log.Date.Before(start) && log.Date.Before(end) {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

type fakeSessionReader struct {
	sessions []models.StudySession // завершенные
	started  []models.StudySession // включая незавершенные
	err      error
}

func (f *fakeSessionReader) FindInRange(userID uint, start, end time.Time) ([]models.StudySession, error) {
	return f.sessions, f.err
}

func (f *fakeSessionReader) FindStartedInRange(userID uint, start, end time.Time) ([]models.StudySession, error) {
	if f.started != nil {
		return f.started, f.err
	}
	return f.sessions, f.err
}

type fakeTaskReader struct {
	total     int64
	completed int64
	tasks     []models.Task
	err       error
}

func (f *fakeTaskReader) CountAll(userID uint) (int64, int64, error) {
	return f.total, f.completed, f.err
}

func (f *fakeTaskReader) FindCompletedInRange(userID uint, start, end time.Time) ([]models.Task, error) {
	return f.tasks, f.err
}

type fakeProjectReader struct {
	active   int64
	projects []models.Project
	err      error
}

func (f *fakeProjectReader) CountActive(userID uint) (int64, error) {
	return f.active, f.err
}

func (f *fakeProjectReader) ListWithTasks(userID uint, start, end time.Time) ([]models.Project, error) {
	return f.projects, f.err
}

func newTestReportEngine() (*ReportEngine, *fakeReportLedger, *fakeSessionReader, *fakeTaskReader, *fakeProjectReader) {
	ledger := &fakeReportLedger{}
	sessions := &fakeSessionReader{}
	tasks := &fakeTaskReader{}
	projects := &fakeProjectReader{}

	engine := NewReportEngine(ledger, sessions, tasks, projects)
	engine.Now = func() time.Time { return reportNow }

	return engine, ledger, sessions, tasks, projects
}

func intPtr(v int) *int { return &v }

func TestGetOverviewEmptyHistory(t *testing.T) {
	engine, _, _, _, _ := newTestReportEngine()

	report, err := engine.GetOverview(1, PeriodMonth)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, report.TotalFocusHours)
	assert.Equal(t, 0, report.TasksCompleted)
	assert.EqualValues(t, 0, report.ActiveProjects)
	assert.Empty(t, report.FocusTimePerInterval)
	assert.Empty(t, report.ProjectDistribution)
}

func TestGetOverviewMonthBucketsByLedgerDay(t *testing.T) {
	engine, ledger, _, _, _ := newTestReportEngine()
	ledger.logs = []models.DailyLog{
		{Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), TotalFocusMinutes: 60, TasksCompleted: 2},
		{Date: time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), TotalFocusMinutes: 90, TasksCompleted: 1},
	}

	report, err := engine.GetOverview(1, PeriodMonth)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, report.TotalFocusHours)
	assert.Equal(t, 3, report.TasksCompleted)
	assert.Len(t, report.FocusTimePerInterval, 2)
	assert.Equal(t, "01/09", report.FocusTimePerInterval[0].Date)
	assert.Equal(t, 1.5, report.FocusTimePerInterval[1].Hours)
}

func TestGetOverviewDayBucketsBySessionHour(t *testing.T) {
	engine, _, sessions, _, _ := newTestReportEngine()
	today := StartOfDay(reportNow)
	sessions.sessions = []models.StudySession{
		{TypeSession: models.SessionFocus, StartedAt: today.Add(9 * time.Hour), DurationMinutes: 25},
		{TypeSession: models.SessionFocus, StartedAt: today.Add(9*time.Hour + 30*time.Minute), DurationMinutes: 25},
		{TypeSession: models.SessionFocus, StartedAt: today.Add(14 * time.Hour), DurationMinutes: 50},
		// Перерывы в почасовую разбивку не попадают
		{TypeSession: models.SessionShortBreak, StartedAt: today.Add(9 * time.Hour), DurationMinutes: 5},
	}

	report, err := engine.GetOverview(1, PeriodDay)
	assert.NoError(t, err)
	assert.Len(t, report.FocusTimePerInterval, 2)
	assert.Equal(t, "9h", report.FocusTimePerInterval[0].Date)
	assert.Equal(t, 50, report.FocusTimePerInterval[0].Minutes)
	assert.Equal(t, "14h", report.FocusTimePerInterval[1].Date)
}

func TestGetOverviewDayCountsRunningSessions(t *testing.T) {
	engine, _, sessions, _, _ := newTestReportEngine()
	today := StartOfDay(reportNow)
	ended := today.Add(10 * time.Hour)

	sessions.sessions = []models.StudySession{
		{TypeSession: models.SessionFocus, StartedAt: today.Add(9 * time.Hour), EndedAt: &ended, DurationMinutes: 25},
	}
	// Идущая прямо сейчас сессия тоже видна в почасовой разбивке
	sessions.started = append(sessions.sessions, models.StudySession{
		TypeSession: models.SessionFocus, StartedAt: today.Add(12 * time.Hour), DurationMinutes: 25,
	})

	report, err := engine.GetOverview(1, PeriodDay)
	assert.NoError(t, err)
	assert.Len(t, report.FocusTimePerInterval, 2)
	assert.Equal(t, "12h", report.FocusTimePerInterval[1].Date)
}

func TestGetOverviewProjectDistribution(t *testing.T) {
	engine, _, _, _, projects := newTestReportEngine()
	projects.active = 3
	projects.projects = []models.Project{
		{Name: "Thesis", Tasks: []models.Task{
			{IsCompleted: true}, {IsCompleted: true}, {IsCompleted: false},
		}},
		{Name: "Side Project", Tasks: []models.Task{{IsCompleted: true}}},
		{Name: "Empty", Tasks: nil},
	}

	report, err := engine.GetOverview(1, PeriodMonth)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, report.ActiveProjects)
	assert.Len(t, report.ProjectDistribution, 2)
	assert.Equal(t, 75, report.ProjectDistribution[0].Percentage)
	assert.Equal(t, 2, report.ProjectDistribution[0].CompletedTasks)
	assert.Equal(t, 25, report.ProjectDistribution[1].Percentage)
}

func TestGetOverviewFailsClosed(t *testing.T) {
	engine, ledger, _, _, _ := newTestReportEngine()
	ledger.err = errors.New("ledger unavailable")

	_, err := engine.GetOverview(1, PeriodMonth)
	assert.Error(t, err)
}

func TestGetAdvancedRatesAndTrend(t *testing.T) {
	engine, ledger, sessions, tasks, _ := newTestReportEngine()
	tasks.total = 4
	tasks.completed = 2
	sessions.sessions = []models.StudySession{
		{TypeSession: models.SessionFocus, StartedAt: reportNow.Add(-2 * time.Hour), DurationMinutes: 20},
		{TypeSession: models.SessionFocus, StartedAt: reportNow.Add(-time.Hour), DurationMinutes: 30},
	}
	for i := 0; i < 14; i++ {
		ledger.logs = append(ledger.logs, models.DailyLog{
			Date:              StartOfDay(reportNow).AddDate(0, 0, -i),
			TotalFocusMinutes: 30,
			CompletedSessions: 1,
		})
	}

	report, err := engine.GetAdvanced(1)
	assert.NoError(t, err)
	assert.Equal(t, 50, report.TaskCompletionRate)
	assert.Equal(t, 25, report.AverageSessionDuration)
	assert.NotEmpty(t, report.WeeklyTrend)
	assert.NotEmpty(t, report.Insights)
}

func TestWeeklyTrendKeepsLastEightWeeks(t *testing.T) {
	var logs []models.DailyLog
	for week := 0; week < 10; week++ {
		logs = append(logs, models.DailyLog{
			Date:              time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, week*7),
			TotalFocusMinutes: 30,
		})
	}

	trend := weeklyTrend(logs)
	assert.Len(t, trend, 8)
}

func TestWeeklyTrendAverages(t *testing.T) {
	// Два дня одной недели: 30 и 60 минут
	logs := []models.DailyLog{
		{Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), TotalFocusMinutes: 30},
		{Date: time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), TotalFocusMinutes: 60},
	}

	trend := weeklyTrend(logs)
	assert.Len(t, trend, 1)
	assert.Equal(t, 90, trend[0].TotalMinutes)
	assert.Equal(t, 45, trend[0].AveragePerDay)
}

func TestProductivityTrendNeedsPriorWindow(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 7; i++ {
		logs = append(logs, models.DailyLog{TotalFocusMinutes: 30})
	}

	// Предыдущее окно пустое — правило молчит, деления на ноль нет
	_, ok := productivityTrendInsight(reportWindow{logs: logs})
	assert.False(t, ok)
}

func TestProductivityTrendIncrease(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 7; i++ {
		logs = append(logs, models.DailyLog{TotalFocusMinutes: 20})
	}
	for i := 0; i < 7; i++ {
		logs = append(logs, models.DailyLog{TotalFocusMinutes: 30})
	}

	insight, ok := productivityTrendInsight(reportWindow{logs: logs})
	assert.True(t, ok)
	assert.Equal(t, "PRODUCTIVITY_TREND", insight.Type)
	assert.Equal(t, "50%", insight.Value)
	assert.Contains(t, insight.Description, "went up")
}

func TestBestDayInsight(t *testing.T) {
	logs := []models.DailyLog{
		{Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), TotalFocusMinutes: 120}, // понедельник
		{Date: time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), TotalFocusMinutes: 30},
	}

	insight, ok := bestDayInsight(reportWindow{logs: logs})
	assert.True(t, ok)
	assert.Equal(t, "Monday", insight.Value)
}

func TestBestTimeInsightNeedsSessions(t *testing.T) {
	_, ok := bestTimeInsight(reportWindow{})
	assert.False(t, ok)

	sessions := []models.StudySession{
		{StartedAt: time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC), DurationMinutes: 50},
		{StartedAt: time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC), DurationMinutes: 20},
	}
	insight, ok := bestTimeInsight(reportWindow{sessions: sessions})
	assert.True(t, ok)
	assert.Equal(t, "15h", insight.Value)
}

func TestGetInsightsEfficiencyScenario(t *testing.T) {
	engine, _, _, tasks, projects := newTestReportEngine()
	task := models.Task{
		IsCompleted:              true,
		EstimatedDurationMinutes: intPtr(60),
		ActualDurationMinutes:    45,
	}
	tasks.tasks = []models.Task{task}
	projects.projects = []models.Project{{Name: "Thesis", Tasks: []models.Task{task}}}

	report, err := engine.GetInsights(1, PeriodWeek)
	assert.NoError(t, err)
	assert.Equal(t, 15, report.Efficiency.SavedMinutes)
	assert.Equal(t, 25, report.Efficiency.EfficiencyRate)
	assert.Contains(t, report.Efficiency.Message, "saved")

	assert.Len(t, report.ProjectVelocity, 1)
	assert.Equal(t, 1, report.ProjectVelocity[0].TasksCompleted)
	assert.Equal(t, 45, report.ProjectVelocity[0].AverageTimePerTask)
}

func TestGetInsightsNoQualifyingTasks(t *testing.T) {
	engine, _, _, _, _ := newTestReportEngine()

	report, err := engine.GetInsights(1, PeriodWeek)
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Efficiency.EfficiencyRate)
	assert.Equal(t, 0, report.Efficiency.SavedMinutes)
	assert.NotEmpty(t, report.Efficiency.Message)
}

func TestGetInsightsSessionBreakdown(t *testing.T) {
	engine, _, sessions, _, _ := newTestReportEngine()
	sessions.sessions = []models.StudySession{
		{TypeSession: models.SessionFocus, StartedAt: reportNow},
		{TypeSession: models.SessionFocus, StartedAt: reportNow},
		{TypeSession: models.SessionShortBreak, StartedAt: reportNow},
		{TypeSession: models.SessionLongBreak, StartedAt: reportNow},
	}

	report, err := engine.GetInsights(1, PeriodWeek)
	assert.NoError(t, err)
	assert.Equal(t, 2, report.SessionBreakdown.FocusSessions)
	assert.Equal(t, 1, report.SessionBreakdown.ShortBreakSessions)
	assert.Equal(t, 1, report.SessionBreakdown.LongBreakSessions)
}

func TestMorningPersonRecommendation(t *testing.T) {
	morning := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 9, 1, 20, 0, 0, 0, time.UTC)

	ctx := recommendationContext{sessions: []models.StudySession{
		{StartedAt: morning}, {StartedAt: morning}, {StartedAt: morning}, {StartedAt: evening},
	}}
	_, ok := morningPersonRecommendation(ctx)
	assert.True(t, ok)

	ctx.sessions = []models.StudySession{{StartedAt: morning}, {StartedAt: evening}}
	_, ok = morningPersonRecommendation(ctx)
	assert.False(t, ok)
}

func TestBreakRatioRecommendation(t *testing.T) {
	focus := models.StudySession{TypeSession: models.SessionFocus}
	shortBreak := models.StudySession{TypeSession: models.SessionShortBreak}

	// 1 перерыв на 4 фокус-сессии — предупреждение о выгорании
	ctx := recommendationContext{sessions: []models.StudySession{focus, focus, focus, focus, shortBreak}}
	recommendation, ok := breakRatioRecommendation(ctx)
	assert.True(t, ok)
	assert.Equal(t, "BREAK_RATIO", recommendation.Type)

	// 2 перерыва на 4 сессии — норм
	ctx.sessions = append(ctx.sessions, shortBreak)
	_, ok = breakRatioRecommendation(ctx)
	assert.False(t, ok)
}

func TestEfficiencyRecommendationFraming(t *testing.T) {
	positive, ok := efficiencyRecommendation(recommendationContext{efficiency: Efficiency{EfficiencyRate: 25, Message: "You saved 15min!"}})
	assert.True(t, ok)
	assert.Equal(t, "Excellent efficiency!", positive.Title)

	negative, ok := efficiencyRecommendation(recommendationContext{efficiency: Efficiency{EfficiencyRate: -20}})
	assert.True(t, ok)
	assert.Contains(t, negative.Description, "smaller pieces")

	_, ok = efficiencyRecommendation(recommendationContext{efficiency: Efficiency{EfficiencyRate: 5}})
	assert.False(t, ok)
}

func TestBestDayRecommendationNeedsSevenDays(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 6; i++ {
		logs = append(logs, models.DailyLog{Date: reportNow.AddDate(0, 0, -i), TotalFocusMinutes: 60})
	}
	_, ok := bestDayRecommendation(recommendationContext{logs: logs})
	assert.False(t, ok)

	logs = append(logs, models.DailyLog{Date: reportNow.AddDate(0, 0, -6), TotalFocusMinutes: 60})
	recommendation, ok := bestDayRecommendation(recommendationContext{logs: logs})
	assert.True(t, ok)
	assert.Equal(t, "BEST_DAY", recommendation.Type)
}

func TestBestDayRecommendationSkipsEmptyDays(t *testing.T) {
	// Фокус был только по понедельникам, остальные дни пустые
	monday := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	logs := []models.DailyLog{
		{Date: monday, TotalFocusMinutes: 90},
	}
	for i := 1; i < 7; i++ {
		logs = append(logs, models.DailyLog{Date: monday.AddDate(0, 0, i)})
	}

	recommendation, ok := bestDayRecommendation(recommendationContext{logs: logs})
	assert.True(t, ok)
	assert.Contains(t, recommendation.Description, "Monday")
	assert.NotContains(t, recommendation.Description, " and ")
}

func TestBestDayRecommendationNamesTopTwoDays(t *testing.T) {
	monday := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	logs := []models.DailyLog{
		{Date: monday, TotalFocusMinutes: 30},
		{Date: monday.AddDate(0, 0, 1), TotalFocusMinutes: 90}, // вторник — лучший
	}
	for i := 2; i < 7; i++ {
		logs = append(logs, models.DailyLog{Date: monday.AddDate(0, 0, i)})
	}

	recommendation, ok := bestDayRecommendation(recommendationContext{logs: logs})
	assert.True(t, ok)
	assert.Contains(t, recommendation.Description, "Tuesday and Monday")
}
