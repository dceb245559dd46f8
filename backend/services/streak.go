package services

import (
	"time"

	"project/backend/models"
)

// CalculateStreak считает текущую серию дней с активностью, заканчивающуюся
// сегодня. На вход подается история дневных агрегатов, отсортированная по
// дате по убыванию (самый свежий день первым). День засчитывается, если в
// нем есть хотя бы одна завершенная задача или минута фокуса. Первый же
// пропуск или пустой день обрывает серию.
func CalculateStreak(logsDesc []models.DailyLog, today time.Time) int {
	streak := 0
	start := StartOfDay(today)

	for i := range logsDesc {
		expected := start.AddDate(0, 0, -i)
		logDay := StartOfDay(logsDesc[i].Date)

		if logDay.Equal(expected) &&
			(logsDesc[i].TasksCompleted > 0 || logsDesc[i].TotalFocusMinutes > 0) {
			streak++
			continue
		}

		break
	}

	return streak
}
