package services

import (
	"time"

	"project/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Коллабораторы движка достижений: накопительные метрики живут вне леджера.
type TaskStats interface {
	CountCompleted(userID uint) (int64, error)
}

type ProjectStats interface {
	CountCompleted(userID uint) (int64, error)
}

type FocusStats interface {
	TotalFocusMinutes(userID uint) (int64, error)
}

type LedgerHistory interface {
	HistoryDesc(userID uint) ([]models.DailyLog, error)
}

// AuditLog — fire-and-forget журнал событий; ошибки записи глотает реализация.
type AuditLog interface {
	Record(userID uint, action, details string)
}

// AchievementEngine проверяет таблицу правил по текущим метрикам пользователя
// и выдает достижения ровно один раз. Выдача идемпотентна: последним арбитром
// служит уникальный индекс на (user_id, achievement_id).
type AchievementEngine struct {
	DB       *gorm.DB
	Ledger   LedgerHistory
	Tasks    TaskStats
	Projects ProjectStats
	Focus    FocusStats
	Audit    AuditLog
	Now      func() time.Time
}

func NewAchievementEngine(db *gorm.DB, ledger LedgerHistory, tasks TaskStats, projects ProjectStats, focus FocusStats, audit AuditLog) *AchievementEngine {
	return &AchievementEngine{
		DB:       db,
		Ledger:   ledger,
		Tasks:    tasks,
		Projects: projects,
		Focus:    focus,
		Audit:    audit,
		Now:      time.Now,
	}
}

// metricValue лениво считает метрику одного вида и запоминает результат.
type metricValue struct {
	loaded bool
	failed bool
	value  int
}

func (m *metricValue) get(load func() (int, error)) (int, bool) {
	if !m.loaded {
		m.loaded = true
		v, err := load()
		if err != nil {
			m.failed = true
		} else {
			m.value = v
		}
	}
	return m.value, !m.failed
}

// Evaluate сверяет невыданные достижения с текущими метриками. Ошибок наружу
// не отдает: недоступная метрика лишь пропускает свои проверки, остальные
// продолжаются.
func (e *AchievementEngine) Evaluate(userID uint) {
	var definitions []models.Achievement
	if err := e.DB.Find(&definitions).Error; err != nil {
		return
	}

	earned, err := e.earnedIDs(userID)
	if err != nil {
		return
	}

	var streak, tasks, projects, focusHours metricValue

	for _, def := range definitions {
		if earned[def.ID] {
			continue
		}

		var value int
		var ok bool

		switch def.ThresholdKind {
		case models.ThresholdStreakDays:
			value, ok = streak.get(func() (int, error) {
				logs, err := e.Ledger.HistoryDesc(userID)
				if err != nil {
					return 0, err
				}
				return CalculateStreak(logs, e.Now()), nil
			})
		case models.ThresholdTasksCompleted:
			value, ok = tasks.get(func() (int, error) {
				n, err := e.Tasks.CountCompleted(userID)
				return int(n), err
			})
		case models.ThresholdProjectsCompleted:
			value, ok = projects.get(func() (int, error) {
				n, err := e.Projects.CountCompleted(userID)
				return int(n), err
			})
		case models.ThresholdFocusHours:
			value, ok = focusHours.get(func() (int, error) {
				minutes, err := e.Focus.TotalFocusMinutes(userID)
				return int(minutes / 60), err
			})
		default:
			continue
		}

		if ok && value >= def.Threshold {
			e.grant(userID, def)
		}
	}
}

// grant вставляет запись о выдаче под уникальным индексом. Конфликт означает,
// что достижение уже выдано (в том числе конкурентным вызовом) — это успех
// без повторного события в журнале.
func (e *AchievementEngine) grant(userID uint, def models.Achievement) {
	row := models.UserAchievement{
		UserID:        userID,
		AchievementID: def.ID,
		EarnedAt:      e.Now(),
	}

	result := e.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil || result.RowsAffected == 0 {
		return
	}

	e.Audit.Record(userID, "ACHIEVEMENT_EARNED", "Achievement earned: "+def.Name)
}

func (e *AchievementEngine) earnedIDs(userID uint) (map[uint]bool, error) {
	var grants []models.UserAchievement
	if err := e.DB.Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		return nil, err
	}

	earned := make(map[uint]bool, len(grants))
	for _, g := range grants {
		earned[g.AchievementID] = true
	}
	return earned, nil
}
