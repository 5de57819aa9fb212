// Package period определяет месячную расчётную сетку абонентской платы:
// канонические ключи периодов вида YYYY-MM и календарную арифметику между
// датой подключения абонента и расчётной датой. Все функции чистые и не
// зависят от текущего времени — расчётная дата всегда передаётся явно.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Term — фиксированная длительность абонемента в расчётных периодах (месяцах).
// Абонент, оплативший Term периодов, считается завершившим абонемент
// независимо от того, сколько времени прошло с даты подключения.
const Term = 24

// KeyLayout — формат канонического ключа периода.
const KeyLayout = "2006-01"

var (
	// ErrInvalidKey возвращается при разборе ключа периода, не соответствующего формату YYYY-MM.
	ErrInvalidKey = errors.New("invalid period key")
	// ErrInvalidDate возвращается, когда дата подключения абонента отсутствует или не задана.
	ErrInvalidDate = errors.New("invalid date")
)

// Key возвращает канонический ключ периода для даты t.
// Две даты дают одинаковый ключ тогда и только тогда,
// когда они попадают в один календарный месяц одного года.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey разбирает ключ периода и возвращает первый день этого периода.
func ParseKey(s string) (time.Time, error) {
	const op = "period.ParseKey"
	t, err := time.Parse(KeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidKey, s)
	}
	return t, nil
}

// Elapsed считает количество целых периодов между датой подключения и расчётной датой.
// День месяца не учитывается: период истекает на границе календарного месяца,
// а не в годовщину подключения. Результат ограничен диапазоном [0, Term] —
// абонент никогда не должен больше, чем за полный абонемент.
func Elapsed(start, asOf time.Time) (int, error) {
	const op = "period.Elapsed"
	if start.IsZero() {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidDate)
	}
	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	if months < 0 {
		return 0, nil
	}
	if months > Term {
		return Term, nil
	}
	return months, nil
}

// NextDueDate возвращает дату, с которой становится к оплате первый
// неоплаченный период: дата подключения, сдвинутая на paidPeriods целых
// месяцев. Используется календарная арифметика time.AddDate — сдвиг
// 31 января на месяц даёт последний допустимый день по правилам переноса.
func NextDueDate(start time.Time, paidPeriods int) time.Time {
	return start.AddDate(0, paidPeriods, 0)
}

// FormatDue форматирует дату платежа для текста напоминания, формат DD-Mon-YY.
func FormatDue(t time.Time) string {
	return t.Format("02-Jan-06")
}
