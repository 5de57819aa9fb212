// Package billing реализует расчётное ядро абонентской платы: свёртку платежей
// и скидок абонента в итоговые суммы, определение статуса задолженности,
// составление текста напоминания и сводный отчёт по всем абонентам.
//
// Все функции чистые: не выполняют ввод-вывод, не изменяют входные записи
// и зависят только от аргументов и явно переданной расчётной даты.
package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/period"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// BaseFee — базовая абонентская плата за один период без учёта скидки.
const BaseFee = 30.0

// Fee возвращает плату абонента за период: базовая плата минус скидка периода.
// Отсутствующая скидка считается нулевой. Результат намеренно не ограничен
// нулём снизу: скидка больше базовой платы даёт отрицательную плату,
// которую вызывающая сторона показывает как есть.
func Fee(sub models.Subscriber, periodKey string) float64 {
	return BaseFee - sub.Discounts[periodKey]
}

// TotalPaid возвращает сумму всех платежей абонента по всем периодам.
func TotalPaid(sub models.Subscriber) float64 {
	var total float64
	for _, amount := range sub.Payments {
		total += amount
	}
	return total
}

// TotalDiscount возвращает сумму всех скидок абонента по всем периодам.
func TotalDiscount(sub models.Subscriber) float64 {
	var total float64
	for _, amount := range sub.Discounts {
		total += amount
	}
	return total
}

// PaidPeriods возвращает количество полностью оплаченных периодов.
//
// Авторитетный источник — карта Payments: период считается оплаченным, когда
// платёж за него не меньше платы этого периода с учётом скидки. Устаревший
// счётчик PaidMonths сохранён для старых записей, у которых карта платежей
// ещё не велась: если он больше производного значения, используется он.
// Результат ограничен сверху длительностью абонемента.
func PaidPeriods(sub models.Subscriber) int {
	var counted int
	for key, amount := range sub.Payments {
		if amount >= Fee(sub, key) {
			counted++
		}
	}
	if sub.PaidMonths > counted {
		counted = sub.PaidMonths
	}
	if counted > period.Term {
		return period.Term
	}
	return counted
}

// ExpectedRevenue возвращает сумму, которая была бы начислена абоненту
// с даты подключения по расчётную дату без учёта скидок. Используется
// только как оценка задолженности, не как сумма к оплате.
func ExpectedRevenue(sub models.Subscriber, asOf time.Time) (float64, error) {
	const op = "billing.ExpectedRevenue"
	elapsed, err := period.Elapsed(sub.StartDate, asOf)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return float64(elapsed) * BaseFee, nil
}

// Outstanding возвращает задолженность абонента на расчётную дату: ожидаемое
// начисление минус фактические платежи. Отрицательное значение означает,
// что абонент платит с опережением, и показывается как есть.
func Outstanding(sub models.Subscriber, asOf time.Time) (float64, error) {
	const op = "billing.Outstanding"
	expected, err := ExpectedRevenue(sub, asOf)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return expected - TotalPaid(sub), nil
}

// Statement — свёртка лицевого счёта одного абонента на расчётную дату.
type Statement struct {
	Elapsed          int       `json:"elapsed_periods"`     // Прошедшие периоды с даты подключения, [0, Term]
	PaidPeriods      int       `json:"paid_periods"`        // Полностью оплаченные периоды
	RemainingPeriods int       `json:"remaining_periods"`   // Оставшиеся периоды абонемента
	TotalPaid        float64   `json:"total_paid"`          // Сумма всех платежей
	TotalDiscount    float64   `json:"total_discount"`      // Сумма всех скидок
	ExpectedRevenue  float64   `json:"expected_revenue"`    // Ожидаемое начисление без скидок
	Outstanding      float64   `json:"outstanding_balance"` // Задолженность, может быть отрицательной
	CurrentFee       float64   `json:"current_fee"`         // Плата за текущий период с учётом скидки
	NextDueDate      time.Time `json:"next_due_date"`       // Дата, с которой к оплате первый неоплаченный период
	Due              bool      `json:"due"`                 // Есть ли просроченные периоды в пределах абонемента
}

// BuildStatement собирает лицевой счёт абонента на расчётную дату.
// Прошедшие и оплаченные периоды — независимые величины: абонент может
// платить как с опережением, так и с отставанием от графика.
func BuildStatement(sub models.Subscriber, asOf time.Time) (Statement, error) {
	const op = "billing.BuildStatement"

	elapsed, err := period.Elapsed(sub.StartDate, asOf)
	if err != nil {
		return Statement{}, fmt.Errorf("%s: %w", op, err)
	}
	paid := PaidPeriods(sub)
	expected := float64(elapsed) * BaseFee
	totalPaid := TotalPaid(sub)

	return Statement{
		Elapsed:          elapsed,
		PaidPeriods:      paid,
		RemainingPeriods: period.Term - paid,
		TotalPaid:        totalPaid,
		TotalDiscount:    TotalDiscount(sub),
		ExpectedRevenue:  expected,
		Outstanding:      expected - totalPaid,
		CurrentFee:       Fee(sub, period.Key(asOf)),
		NextDueDate:      period.NextDueDate(sub.StartDate, paid),
		Due:              elapsed > paid && paid < period.Term,
	}, nil
}

// sortedKeys возвращает ключи карты периодов в возрастающем порядке.
// Карты в Go обходятся в случайном порядке, а отчётам нужен детерминизм.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
