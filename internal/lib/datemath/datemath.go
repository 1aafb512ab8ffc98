// Package datemath содержит календарную арифметику по месяцам и дням,
// которая не зависит от переполнения дат и сдвигов часовых поясов.
package datemath

import (
	"fmt"
	"time"
)

// Layout — единственный формат дат на границе сервиса.
const Layout = "2006-01-02"

// Midnight возвращает начало календарного дня t в его же локации.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysInMonth возвращает количество дней в месяце с учётом високосных лет.
func DaysInMonth(year int, month time.Month) int {
	// нулевой день следующего месяца равен последнему дню текущего
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntil считает количество календарных дней от today до target.
// Отрицательное значение означает просрочку, 0 означает сегодняшний день.
// Для target == nil возвращается 0: это «дата не указана», а не «срок сегодня».
func DaysUntil(target *time.Time, today time.Time) int {
	days, _ := DaysUntilDue(target, today)
	return days
}

// DaysUntilDue работает как DaysUntil, но явно сообщает об отсутствии даты через ok.
// Обе даты сравниваются как календарные дни, каждая в своей локации: сохранённая
// дата (полночь UTC) не переводится в пояс today.
func DaysUntilDue(target *time.Time, today time.Time) (int, bool) {
	if target == nil || target.IsZero() {
		return 0, false
	}
	return civilDay(*target) - civilDay(today), true
}

// AddMonthsClamped сдвигает base на monthDelta месяцев и ставит день targetDay,
// ограниченный последним днём получившегося месяца (31 января + 1 месяц = 28/29 февраля).
func AddMonthsClamped(base time.Time, monthDelta, targetDay int) time.Time {
	total := base.Year()*12 + int(base.Month()) - 1 + monthDelta
	year := floorDiv(total, 12)
	month := time.Month(total - year*12 + 1)

	day := min(max(targetDay, 1), 31)
	day = min(day, DaysInMonth(year, month))

	return time.Date(year, month, day, 0, 0, 0, 0, base.Location())
}

// Format собирает строку YYYY-MM-DD из компонент даты.
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse разбирает строку YYYY-MM-DD в полночь UTC.
func Parse(s string) (time.Time, error) {
	const op = "datemath.Parse"
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// civilDay переводит календарную дату в порядковый номер дня,
// чтобы разница не зависела от длины суток при переходе на летнее время.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
