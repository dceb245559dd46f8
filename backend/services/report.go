package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"project/backend/models"
)

// Коллабораторы отчетов: сырые сессии, задачи и проекты живут вне леджера.
type SessionReader interface {
	// FindInRange возвращает завершенные сессии со стартом в [start, end).
	FindInRange(userID uint, start, end time.Time) ([]models.StudySession, error)
	// FindStartedInRange возвращает все сессии со стартом в [start, end),
	// включая еще не завершенные.
	FindStartedInRange(userID uint, start, end time.Time) ([]models.StudySession, error)
}

type TaskReader interface {
	// CountAll возвращает общее и завершенное число задач пользователя.
	CountAll(userID uint) (total int64, completed int64, err error)
	// FindCompletedInRange возвращает задачи, завершенные в [start, end),
	// у которых заполнена оценка и фактическое время больше нуля.
	FindCompletedInRange(userID uint, start, end time.Time) ([]models.Task, error)
}

type ProjectReader interface {
	CountActive(userID uint) (int64, error)
	// ListWithTasks возвращает проекты пользователя; в Tasks подгружены
	// только задачи, завершенные в [start, end).
	ListWithTasks(userID uint, start, end time.Time) ([]models.Project, error)
}

type LedgerRange interface {
	Range(userID uint, start, end time.Time) ([]models.DailyLog, error)
}

type FocusTimeInterval struct {
	Date    string  `json:"date"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

type ProjectShare struct {
	ProjectName    string `json:"projectName"`
	TaskCount      int    `json:"taskCount"`
	CompletedTasks int    `json:"completedTasks"`
	Percentage     int    `json:"percentage"`
}

type OverviewReport struct {
	TotalFocusHours      float64             `json:"totalFocusHours"`
	TasksCompleted       int                 `json:"tasksCompleted"`
	ActiveProjects       int64               `json:"activeProjects"`
	FocusTimePerInterval []FocusTimeInterval `json:"focusTimePerInterval"`
	ProjectDistribution  []ProjectShare      `json:"projectDistribution"`
}

type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

type WeeklyTrendEntry struct {
	Week          string `json:"week"`
	TotalMinutes  int    `json:"totalMinutes"`
	AveragePerDay int    `json:"averagePerDay"`
}

type AdvancedReport struct {
	OverviewReport
	Insights               []Insight          `json:"insights"`
	WeeklyTrend            []WeeklyTrendEntry `json:"weeklyTrend"`
	TaskCompletionRate     int                `json:"taskCompletionRate"`
	AverageSessionDuration int                `json:"averageSessionDuration"`
}

type Efficiency struct {
	SavedMinutes   int    `json:"savedMinutes"`
	EfficiencyRate int    `json:"efficiencyRate"`
	Message        string `json:"message"`
}

type SessionBreakdown struct {
	FocusSessions      int `json:"focusSessions"`
	ShortBreakSessions int `json:"shortBreakSessions"`
	LongBreakSessions  int `json:"longBreakSessions"`
}

type ProjectVelocity struct {
	ProjectName        string `json:"projectName"`
	TasksCompleted     int    `json:"tasksCompleted"`
	AverageTimePerTask int    `json:"averageTimePerTask"`
}

type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type InsightsReport struct {
	OverviewReport
	Efficiency       Efficiency        `json:"efficiency"`
	SessionBreakdown SessionBreakdown  `json:"sessionBreakdown"`
	ProjectVelocity  []ProjectVelocity `json:"projectVelocity"`
	Recommendations  []Recommendation  `json:"recommendations"`
}

// ReportEngine собирает отчеты из леджера и данных коллабораторов. Все методы
// только читают; любая неудачная выборка обрывает отчет целиком, чтобы не
// показывать пользователю неполные данные.
type ReportEngine struct {
	Ledger   LedgerRange
	Sessions SessionReader
	Tasks    TaskReader
	Projects ProjectReader
	Now      func() time.Time
}

func NewReportEngine(ledger LedgerRange, sessions SessionReader, tasks TaskReader, projects ProjectReader) *ReportEngine {
	return &ReportEngine{
		Ledger:   ledger,
		Sessions: sessions,
		Tasks:    tasks,
		Projects: projects,
		Now:      time.Now,
	}
}

// GetOverview возвращает базовый отчет за период. Для периода DAY интервалы
// группируются по часу старта сырых сессий, для остальных — по дням леджера.
func (e *ReportEngine) GetOverview(userID uint, period Period) (*OverviewReport, error) {
	start, end := DateRange(period, e.Now())
	return e.overviewForRange(userID, start, end, period == PeriodDay)
}

func (e *ReportEngine) overviewForRange(userID uint, start, end time.Time, byHour bool) (*OverviewReport, error) {
	logs, err := e.Ledger.Range(userID, start, end)
	if err != nil {
		return nil, err
	}

	totalFocusMinutes := 0
	tasksCompleted := 0
	for _, log := range logs {
		totalFocusMinutes += log.TotalFocusMinutes
		tasksCompleted += log.TasksCompleted
	}

	activeProjects, err := e.Projects.CountActive(userID)
	if err != nil {
		return nil, err
	}

	report := &OverviewReport{
		TotalFocusHours:      roundTenth(float64(totalFocusMinutes) / 60),
		TasksCompleted:       tasksCompleted,
		ActiveProjects:       activeProjects,
		FocusTimePerInterval: []FocusTimeInterval{},
		ProjectDistribution:  []ProjectShare{},
	}

	if byHour {
		// Для дневной разбивки берем и незавершенные сессии
		sessions, err := e.Sessions.FindStartedInRange(userID, start, end)
		if err != nil {
			return nil, err
		}
		report.FocusTimePerInterval = focusTimeByHour(sessions)
	} else {
		for _, log := range logs {
			report.FocusTimePerInterval = append(report.FocusTimePerInterval, FocusTimeInterval{
				Date:    log.Date.Format("02/01"),
				Minutes: log.TotalFocusMinutes,
				Hours:   roundTenth(float64(log.TotalFocusMinutes) / 60),
			})
		}
	}

	projects, err := e.Projects.ListWithTasks(userID, start, end)
	if err != nil {
		return nil, err
	}

	totalTasks := 0
	for _, project := range projects {
		totalTasks += len(project.Tasks)
	}

	for _, project := range projects {
		if len(project.Tasks) == 0 {
			continue
		}

		completed := 0
		for _, task := range project.Tasks {
			if task.IsCompleted {
				completed++
			}
		}

		report.ProjectDistribution = append(report.ProjectDistribution, ProjectShare{
			ProjectName:    project.Name,
			TaskCount:      len(project.Tasks),
			CompletedTasks: completed,
			Percentage:     roundPercent(float64(len(project.Tasks)) / float64(totalTasks)),
		})
	}

	return report, nil
}

// GetAdvanced возвращает расширенный отчет за фиксированное скользящее окно
// в 90 дней; параметр периода других отчетов на него не влияет.
func (e *ReportEngine) GetAdvanced(userID uint) (*AdvancedReport, error) {
	now := e.Now()
	end := StartOfDay(now).AddDate(0, 0, 1)
	start := StartOfDay(now).AddDate(0, 0, -90)

	overview, err := e.overviewForRange(userID, start, end, false)
	if err != nil {
		return nil, err
	}

	logs, err := e.Ledger.Range(userID, start, end)
	if err != nil {
		return nil, err
	}

	sessions, err := e.Sessions.FindInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	total, completed, err := e.Tasks.CountAll(userID)
	if err != nil {
		return nil, err
	}

	taskCompletionRate := 0
	if total > 0 {
		taskCompletionRate = roundPercent(float64(completed) / float64(total))
	}

	durationSum := 0
	durationCount := 0
	for _, session := range sessions {
		if session.DurationMinutes > 0 {
			durationSum += session.DurationMinutes
			durationCount++
		}
	}
	averageSessionDuration := 0
	if durationCount > 0 {
		averageSessionDuration = int(math.Round(float64(durationSum) / float64(durationCount)))
	}

	return &AdvancedReport{
		OverviewReport:         *overview,
		Insights:               buildInsights(logs, sessions),
		WeeklyTrend:            weeklyTrend(logs),
		TaskCompletionRate:     taskCompletionRate,
		AverageSessionDuration: averageSessionDuration,
	}, nil
}

// GetInsights возвращает самый эвристический отчет: эффективность, разбивку
// сессий, скорость по проектам и рекомендации. Гейт на премиум-тариф живет
// в middleware, не здесь.
func (e *ReportEngine) GetInsights(userID uint, period Period) (*InsightsReport, error) {
	overview, err := e.GetOverview(userID, period)
	if err != nil {
		return nil, err
	}

	start, end := DateRange(period, e.Now())

	efficiency, err := e.calculateEfficiency(userID, start, end)
	if err != nil {
		return nil, err
	}

	sessions, err := e.Sessions.FindInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	breakdown := SessionBreakdown{}
	for _, session := range sessions {
		switch session.TypeSession {
		case models.SessionFocus:
			breakdown.FocusSessions++
		case models.SessionShortBreak:
			breakdown.ShortBreakSessions++
		case models.SessionLongBreak:
			breakdown.LongBreakSessions++
		}
	}

	projects, err := e.Projects.ListWithTasks(userID, start, end)
	if err != nil {
		return nil, err
	}

	velocity := []ProjectVelocity{}
	for _, project := range projects {
		totalTime := 0
		counted := 0
		for _, task := range project.Tasks {
			if task.IsCompleted && task.ActualDurationMinutes > 0 {
				totalTime += task.ActualDurationMinutes
				counted++
			}
		}
		if counted == 0 {
			continue
		}
		velocity = append(velocity, ProjectVelocity{
			ProjectName:        project.Name,
			TasksCompleted:     counted,
			AverageTimePerTask: int(math.Round(float64(totalTime) / float64(counted))),
		})
	}

	logs, err := e.Ledger.Range(userID, start, end)
	if err != nil {
		return nil, err
	}

	return &InsightsReport{
		OverviewReport:   *overview,
		Efficiency:       *efficiency,
		SessionBreakdown: breakdown,
		ProjectVelocity:  velocity,
		Recommendations:  buildRecommendations(logs, sessions, *efficiency),
	}, nil
}

// calculateEfficiency сравнивает оценки задач с фактическим временем.
// Отсутствие подходящих задач — не ошибка, а нулевой результат с подсказкой.
func (e *ReportEngine) calculateEfficiency(userID uint, start, end time.Time) (*Efficiency, error) {
	tasks, err := e.Tasks.FindCompletedInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return &Efficiency{
			SavedMinutes:   0,
			EfficiencyRate: 0,
			Message:        "Complete tasks with estimates to see your efficiency",
		}, nil
	}

	totalEstimated := 0
	totalActual := 0
	for _, task := range tasks {
		if task.EstimatedDurationMinutes != nil {
			totalEstimated += *task.EstimatedDurationMinutes
		}
		totalActual += task.ActualDurationMinutes
	}

	saved := totalEstimated - totalActual
	rate := 0
	if totalEstimated > 0 {
		rate = roundPercent(float64(saved) / float64(totalEstimated))
	}

	var message string
	switch {
	case saved > 0:
		message = "You saved " + formatMinutes(saved) + "!"
	case saved < 0:
		message = "Tasks took " + formatMinutes(-saved) + " longer than estimated"
	default:
		message = "You are right on your estimates!"
	}

	return &Efficiency{SavedMinutes: saved, EfficiencyRate: rate, Message: message}, nil
}

// Инсайты и рекомендации устроены как упорядоченные списки независимых
// правил (предикат + построитель), чтобы каждое правило тестировалось
// отдельно, а новые добавлялись без правки существующих.
type reportWindow struct {
	logs     []models.DailyLog
	sessions []models.StudySession
}

type insightRule func(reportWindow) (Insight, bool)

var insightRules = []insightRule{
	bestDayInsight,
	bestTimeInsight,
	productivityTrendInsight,
	sessionCompletionInsight,
}

func buildInsights(logs []models.DailyLog, sessions []models.StudySession) []Insight {
	window := reportWindow{logs: logs, sessions: sessions}
	insights := []Insight{}
	for _, rule := range insightRules {
		if insight, ok := rule(window); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

func bestDayInsight(w reportWindow) (Insight, bool) {
	var dayStats [7]int
	for _, log := range w.logs {
		dayStats[int(log.Date.Weekday())] += log.TotalFocusMinutes
	}

	best := 0
	for day := 1; day < 7; day++ {
		if dayStats[day] > dayStats[best] {
			best = day
		}
	}

	if dayStats[best] == 0 {
		return Insight{}, false
	}

	name := weekdayNames[best]
	return Insight{
		Type:        "BEST_DAY",
		Title:       "Best day of the week",
		Description: "You focus best on " + name + "s",
		Value:       name,
	}, true
}

func bestTimeInsight(w reportWindow) (Insight, bool) {
	hourStats := map[int]int{}
	for _, session := range w.sessions {
		if session.StartedAt.IsZero() {
			continue
		}
		hourStats[session.StartedAt.Hour()] += session.DurationMinutes
	}

	if len(hourStats) == 0 {
		return Insight{}, false
	}

	best := -1
	for hour, minutes := range hourStats {
		if best == -1 || minutes > hourStats[best] {
			best = hour
		}
	}

	label := fmt.Sprintf("%dh", best)
	return Insight{
		Type:        "BEST_TIME",
		Title:       "Most productive hour",
		Description: "Your most productive time is around " + label,
		Value:       label,
	}, true
}

// productivityTrendInsight сравнивает последние 7 дней леджера с предыдущими
// семью. Если предыдущее окно пустое, правило молчит — делить не на что.
func productivityTrendInsight(w reportWindow) (Insight, bool) {
	if len(w.logs) < 7 {
		return Insight{}, false
	}

	lastWeek := w.logs[len(w.logs)-7:]
	previousWeek := []models.DailyLog{}
	if len(w.logs) >= 8 {
		from := len(w.logs) - 14
		if from < 0 {
			from = 0
		}
		previousWeek = w.logs[from : len(w.logs)-7]
	}

	lastTotal := 0
	for _, log := range lastWeek {
		lastTotal += log.TotalFocusMinutes
	}
	previousTotal := 0
	for _, log := range previousWeek {
		previousTotal += log.TotalFocusMinutes
	}

	if previousTotal == 0 {
		return Insight{}, false
	}

	trend := roundPercent(float64(lastTotal-previousTotal) / float64(previousTotal))
	if trend == 0 {
		return Insight{}, false
	}

	description := fmt.Sprintf("Your productivity went up %d%% over the last week", trend)
	if trend < 0 {
		description = fmt.Sprintf("Your productivity went down %d%% over the last week", -trend)
	}

	return Insight{
		Type:        "PRODUCTIVITY_TREND",
		Title:       "Productivity trend",
		Description: description,
		Value:       fmt.Sprintf("%d%%", trend),
	}, true
}

func sessionCompletionInsight(w reportWindow) (Insight, bool) {
	completedSessions := 0
	for _, log := range w.logs {
		completedSessions += log.CompletedSessions
	}

	if completedSessions == 0 {
		return Insight{}, false
	}

	return Insight{
		Type:        "TASK_COMPLETION",
		Title:       "Completed sessions",
		Description: fmt.Sprintf("You completed %d focus sessions recently", completedSessions),
		Value:       strconv.Itoa(completedSessions),
	}, true
}

// weeklyTrend группирует дни леджера по неделям (начало недели — дата минус
// номер дня недели) и оставляет восемь последних.
func weeklyTrend(logs []models.DailyLog) []WeeklyTrendEntry {
	weekly := map[string][]int{}
	for _, log := range logs {
		weekStart := StartOfDay(log.Date).AddDate(0, 0, -int(log.Date.Weekday()))
		key := weekStart.Format("2006-01-02")
		weekly[key] = append(weekly[key], log.TotalFocusMinutes)
	}

	keys := make([]string, 0, len(weekly))
	for key := range weekly {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if len(keys) > 8 {
		keys = keys[len(keys)-8:]
	}

	trend := []WeeklyTrendEntry{}
	for _, key := range keys {
		minutes := weekly[key]
		total := 0
		for _, m := range minutes {
			total += m
		}
		trend = append(trend, WeeklyTrendEntry{
			Week:          key,
			TotalMinutes:  total,
			AveragePerDay: int(math.Round(float64(total) / float64(len(minutes)))),
		})
	}
	return trend
}

type recommendationContext struct {
	logs       []models.DailyLog
	sessions   []models.StudySession
	efficiency Efficiency
}

type recommendationRule func(recommendationContext) (Recommendation, bool)

var recommendationRules = []recommendationRule{
	morningPersonRecommendation,
	breakRatioRecommendation,
	efficiencyRecommendation,
	bestDayRecommendation,
}

func buildRecommendations(logs []models.DailyLog, sessions []models.StudySession, efficiency Efficiency) []Recommendation {
	ctx := recommendationContext{logs: logs, sessions: sessions, efficiency: efficiency}
	recommendations := []Recommendation{}
	for _, rule := range recommendationRules {
		if recommendation, ok := rule(ctx); ok {
			recommendations = append(recommendations, recommendation)
		}
	}
	return recommendations
}

// morningPersonRecommendation срабатывает, когда больше половины сессий
// периода стартует между 06:00 и 12:00.
func morningPersonRecommendation(ctx recommendationContext) (Recommendation, bool) {
	if len(ctx.sessions) == 0 {
		return Recommendation{}, false
	}

	morning := 0
	for _, session := range ctx.sessions {
		if session.StartedAt.IsZero() {
			continue
		}
		hour := session.StartedAt.Hour()
		if hour >= 6 && hour < 12 {
			morning++
		}
	}

	if float64(morning)/float64(len(ctx.sessions)) <= 0.5 {
		return Recommendation{}, false
	}

	return Recommendation{
		Type:        "MORNING_PERSON",
		Title:       "You are a morning person",
		Description: "Schedule your hardest tasks before noon to get the most out of your focus.",
		Icon:        "🌅",
	}, true
}

// breakRatioRecommendation предупреждает о риске выгорания, когда перерывов
// меньше трети от числа фокус-сессий.
func breakRatioRecommendation(ctx recommendationContext) (Recommendation, bool) {
	focus := 0
	breaks := 0
	for _, session := range ctx.sessions {
		switch session.TypeSession {
		case models.SessionFocus:
			focus++
		case models.SessionShortBreak, models.SessionLongBreak:
			breaks++
		}
	}

	if focus == 0 || float64(breaks)/float64(focus) >= 0.3 {
		return Recommendation{}, false
	}

	return Recommendation{
		Type:        "BREAK_RATIO",
		Title:       "You are skipping breaks",
		Description: "Burnout risk detected. Try taking more breaks between focus sessions.",
		Icon:        "⚠️",
	}, true
}

func efficiencyRecommendation(ctx recommendationContext) (Recommendation, bool) {
	if ctx.efficiency.EfficiencyRate > 10 {
		return Recommendation{
			Type:        "EFFICIENCY",
			Title:       "Excellent efficiency!",
			Description: ctx.efficiency.Message,
			Icon:        "⚡",
		}, true
	}

	if ctx.efficiency.EfficiencyRate < -10 {
		return Recommendation{
			Type:        "EFFICIENCY",
			Title:       "Tasks are taking longer than planned",
			Description: "Try breaking tasks into smaller pieces to improve your estimates.",
			Icon:        "📊",
		}, true
	}

	return Recommendation{}, false
}

// bestDayRecommendation требует минимум семи дней леджера в периоде и
// показывает до двух дней недели с наибольшим фокусом. Дни без фокуса
// в ответ не попадают.
func bestDayRecommendation(ctx recommendationContext) (Recommendation, bool) {
	if len(ctx.logs) < 7 {
		return Recommendation{}, false
	}

	var dayStats [7]int
	for _, log := range ctx.logs {
		dayStats[int(log.Date.Weekday())] += log.TotalFocusMinutes
	}

	best := []int{}
	for day := 0; day < 7; day++ {
		if dayStats[day] > 0 {
			best = append(best, day)
		}
	}
	sort.SliceStable(best, func(i, j int) bool {
		return dayStats[best[i]] > dayStats[best[j]]
	})
	if len(best) > 2 {
		best = best[:2]
	}

	if len(best) == 0 {
		return Recommendation{}, false
	}

	description := fmt.Sprintf("Your best day is %s. Schedule important tasks on it.",
		weekdayNames[best[0]])
	if len(best) == 2 {
		description = fmt.Sprintf("Your best days are %s and %s. Schedule important tasks on them.",
			weekdayNames[best[0]], weekdayNames[best[1]])
	}

	return Recommendation{
		Type:        "BEST_DAY",
		Title:       "Productivity peak",
		Description: description,
		Icon:        "📈",
	}, true
}

func focusTimeByHour(sessions []models.StudySession) []FocusTimeInterval {
	hourStats := map[int]int{}
	for _, session := range sessions {
		if session.TypeSession != models.SessionFocus || session.StartedAt.IsZero() {
			continue
		}
		hourStats[session.StartedAt.Hour()] += session.DurationMinutes
	}

	hours := make([]int, 0, len(hourStats))
	for hour := range hourStats {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	intervals := []FocusTimeInterval{}
	for _, hour := range hours {
		minutes := hourStats[hour]
		intervals = append(intervals, FocusTimeInterval{
			Date:    fmt.Sprintf("%dh", hour),
			Minutes: minutes,
			Hours:   roundTenth(float64(minutes) / 60),
		})
	}
	return intervals
}

func roundTenth(hours float64) float64 {
	return math.Round(hours*10) / 10
}

func roundPercent(share float64) int {
	return int(math.Round(share * 100))
}

func formatMinutes(minutes int) string {
	hours := minutes / 60
	rest := minutes % 60
	if hours > 0 && rest > 0 {
		return fmt.Sprintf("%dh %dmin", hours, rest)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dmin", rest)
}
