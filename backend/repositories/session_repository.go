package repositories

import (
	"time"

	"project/backend/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// FindInRange возвращает завершенные сессии со стартом в [start, end).
func (r *SessionRepository) FindInRange(userID uint, start, end time.Time) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.DB.
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, start, end).
		Where("ended_at IS NOT NULL").
		Find(&sessions).Error
	return sessions, err
}

// FindStartedInRange возвращает все сессии со стартом в [start, end),
// в том числе еще идущие.
func (r *SessionRepository) FindStartedInRange(userID uint, start, end time.Time) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.DB.
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, start, end).
		Find(&sessions).Error
	return sessions, err
}

// TotalFocusMinutes возвращает накопленные фокус-минуты за все время.
func (r *SessionRepository) TotalFocusMinutes(userID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&models.StudySession{}).
		Where("user_id = ? AND type_session = ?", userID, models.SessionFocus).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error
	return total, err
}
