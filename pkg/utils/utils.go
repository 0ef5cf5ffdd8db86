package utils

import (
	"math"
	"time"
)

// DateLayout формат календарной даты во входных и выходных данных
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// DateOf отбрасывает время суток и возвращает календарную дату в UTC.
// Год, месяц и день берутся в исходной зоне t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date строит календарную дату
func Date(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DaysBetween возвращает число целых календарных дней от from до to.
// Результат отрицательный, если to раньше from. Считается через Unix секунды,
// поэтому не ограничен диапазоном time.Duration (~292 года).
func DaysBetween(from, to time.Time) int64 {
	return (DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay
}
