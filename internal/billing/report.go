package billing

import (
	"sort"
	"strings"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/period"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// RevenuePoint — сумма за один период в помесячном ряду.
type RevenuePoint struct {
	Period string  `json:"period"` // Ключ периода YYYY-MM
	Amount float64 `json:"amount"` // Сумма за период
}

// DiscountEntry — одна предоставленная скидка в сводной истории скидок.
type DiscountEntry struct {
	Name   string  `json:"name"`   // Имя абонента
	Period string  `json:"period"` // Ключ периода YYYY-MM
	Amount float64 `json:"amount"` // Размер скидки
}

// BreakdownRow — итоги по одному абоненту в разбивке выручки.
type BreakdownRow struct {
	Name          string  `json:"name"`                // Имя абонента
	TotalPaid     float64 `json:"total_paid"`          // Сумма всех платежей
	TotalDiscount float64 `json:"total_discount"`      // Сумма всех скидок
	Outstanding   float64 `json:"outstanding_balance"` // Задолженность на расчётную дату
}

// Report — сводный отчёт панели по всем абонентам и расходам на расчётную дату.
type Report struct {
	TotalSubscribers    int             `json:"total_subscribers"`    // Всего абонентов
	DueSubscribers      int             `json:"due_subscribers"`      // Абоненты с задолженностью
	CompleteSubscribers int             `json:"complete_subscribers"` // Абоненты без просроченных периодов
	TotalRevenue        float64         `json:"total_revenue"`        // Сумма всех платежей
	TotalExpenses       float64         `json:"total_expenses"`       // Сумма всех расходов
	NetProfit           float64         `json:"net_profit"`           // Выручка минус расходы
	MonthlyRevenue      []RevenuePoint  `json:"monthly_revenue"`      // Выручка по периодам, хронологически
	MonthlyExpenses     []RevenuePoint  `json:"monthly_expenses"`     // Расходы по периодам, хронологически
	Breakdown           []BreakdownRow  `json:"breakdown"`            // Итоги по абонентам, по убыванию выручки
	Discounts           []DiscountEntry `json:"discounts"`            // История скидок по возрастанию периода
	Skipped             int             `json:"skipped_records"`      // Записи, исключённые из-за некорректных дат
}

// BuildReport сворачивает все записи абонентов и расходов в сводный отчёт.
//
// Отказ одной записи не прерывает свёртку остальных: абоненты без даты
// подключения и записи с нечитаемыми ключами периодов исключаются из итогов
// и учитываются счётчиком Skipped. Помесячные ряды упорядочены хронологически
// по разобранному ключу периода, история скидок — по возрастанию периода,
// при равенстве сохраняется порядок обхода.
func BuildReport(subs []*models.Subscriber, expenses []*models.Expense, asOf time.Time) Report {
	var r Report
	r.TotalSubscribers = len(subs)

	revenueByPeriod := make(map[string]float64)
	for _, sub := range subs {
		if sub == nil {
			continue
		}
		due, err := IsDue(*sub, asOf)
		if err != nil {
			r.Skipped++
			continue
		}
		if due {
			r.DueSubscribers++
		} else {
			r.CompleteSubscribers++
		}

		var subPaid float64
		for _, key := range sortedKeys(sub.Payments) {
			amount := sub.Payments[key]
			if _, err := period.ParseKey(key); err != nil {
				r.Skipped++
				continue
			}
			revenueByPeriod[key] += amount
			subPaid += amount
			r.TotalRevenue += amount
		}

		for _, key := range sortedKeys(sub.Discounts) {
			if amount := sub.Discounts[key]; amount != 0 {
				r.Discounts = append(r.Discounts, DiscountEntry{
					Name:   sub.Name,
					Period: key,
					Amount: amount,
				})
			}
		}

		outstanding, _ := Outstanding(*sub, asOf)
		r.Breakdown = append(r.Breakdown, BreakdownRow{
			Name:          sub.Name,
			TotalPaid:     subPaid,
			TotalDiscount: TotalDiscount(*sub),
			Outstanding:   outstanding,
		})
	}

	expensesByPeriod := make(map[string]float64)
	for _, exp := range expenses {
		if exp == nil {
			continue
		}
		if exp.Date.IsZero() {
			r.Skipped++
			continue
		}
		expensesByPeriod[period.Key(exp.Date)] += exp.Amount
		r.TotalExpenses += exp.Amount
	}
	r.NetProfit = r.TotalRevenue - r.TotalExpenses

	r.MonthlyRevenue = chronological(revenueByPeriod)
	r.MonthlyExpenses = chronological(expensesByPeriod)
	sort.SliceStable(r.Breakdown, func(i, j int) bool {
		return r.Breakdown[i].TotalPaid > r.Breakdown[j].TotalPaid
	})
	sort.SliceStable(r.Discounts, func(i, j int) bool {
		return r.Discounts[i].Period < r.Discounts[j].Period
	})

	return r
}

// Years возвращает список годов, встречающихся в помесячной выручке,
// в хронологическом порядке без повторов. Используется для фильтра на панели.
func (r Report) Years() []string {
	var years []string
	seen := make(map[string]bool)
	for _, point := range r.MonthlyRevenue {
		year, _, ok := strings.Cut(point.Period, "-")
		if !ok || seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, year)
	}
	return years
}

// FilterYear возвращает копию отчёта, в которой помесячные ряды ограничены
// одним годом. Пустой год и значение "All" возвращают отчёт без изменений;
// итоговые суммы всегда остаются по всем годам.
func (r Report) FilterYear(year string) Report {
	if year == "" || year == "All" {
		return r
	}
	prefix := year + "-"
	filter := func(points []RevenuePoint) []RevenuePoint {
		var out []RevenuePoint
		for _, p := range points {
			if strings.HasPrefix(p.Period, prefix) {
				out = append(out, p)
			}
		}
		return out
	}
	r.MonthlyRevenue = filter(r.MonthlyRevenue)
	r.MonthlyExpenses = filter(r.MonthlyExpenses)
	return r
}

// chronological разворачивает карту период→сумма в ряд, упорядоченный по
// разобранной дате периода, а не лексикографически: порядок сортировки —
// часть контракта отчёта, совпадение с лексикографическим — случайность
// формата YYYY-MM.
func chronological(byPeriod map[string]float64) []RevenuePoint {
	type parsed struct {
		point RevenuePoint
		at    time.Time
	}
	items := make([]parsed, 0, len(byPeriod))
	for key, amount := range byPeriod {
		at, err := period.ParseKey(key)
		if err != nil {
			continue
		}
		items = append(items, parsed{point: RevenuePoint{Period: key, Amount: amount}, at: at})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].at.Before(items[j].at) })

	points := make([]RevenuePoint, len(items))
	for i, item := range items {
		points[i] = item.point
	}
	return points
}
