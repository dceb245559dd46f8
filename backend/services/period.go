package services

import "time"

// Периоды отчетов
type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodYear  Period = "YEAR"
)

// ParsePeriod разбирает период из query-параметра.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", ErrInvalidArgument
}

// StartOfDay нормализует момент времени к полуночи того же дня.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateRange возвращает полуинтервал [start, end) для периода.
// Неделя начинается с понедельника.
func DateRange(period Period, now time.Time) (time.Time, time.Time) {
	today := StartOfDay(now)

	switch period {
	case PeriodDay:
		return today, today.AddDate(0, 0, 1)
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(1, 0, 0)
	default: // месяц по умолчанию
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(0, 1, 0)
	}
}
