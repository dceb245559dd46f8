package repositories

import (
	"log"

	"project/backend/models"

	"gorm.io/gorm"
)

// AuditLogger пишет события в журнал активности. Запись — fire-and-forget:
// ошибка журнала не должна откатывать действие, которое он описывает.
type AuditLogger struct {
	DB *gorm.DB
}

func NewAuditLogger(db *gorm.DB) *AuditLogger {
	return &AuditLogger{DB: db}
}

func (a *AuditLogger) Record(userID uint, action, details string) {
	entry := models.ActivityLog{UserID: &userID, Action: action, Details: details}
	if err := a.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write activity log: %v", err)
	}
}
