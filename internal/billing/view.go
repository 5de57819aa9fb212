package billing

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// SubscriberView — запись абонента, обогащённая расчётными полями для списка
// на панели: лицевой счёт и готовое напоминание на расчётную дату.
type SubscriberView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Phone      string             `json:"phone"`
	StartDate  time.Time          `json:"start_date"`
	PaidMonths int                `json:"paid_months"` // Устаревший счётчик, отдаётся как есть
	Payments   map[string]float64 `json:"payments"`
	Discounts  map[string]float64 `json:"discounts"`
	Statement
	Notice
}

// BuildView собирает представление абонента для списка на панели.
func BuildView(sub models.Subscriber, asOf time.Time) (SubscriberView, error) {
	const op = "billing.BuildView"

	statement, err := BuildStatement(sub, asOf)
	if err != nil {
		return SubscriberView{}, fmt.Errorf("%s: %w", op, err)
	}
	notice, err := ComposeNotice(sub, asOf)
	if err != nil {
		return SubscriberView{}, fmt.Errorf("%s: %w", op, err)
	}

	return SubscriberView{
		ID:         sub.ID,
		Name:       sub.Name,
		Phone:      sub.Phone,
		StartDate:  sub.StartDate,
		PaidMonths: sub.PaidMonths,
		Payments:   sub.Payments,
		Discounts:  sub.Discounts,
		Statement:  statement,
		Notice:     notice,
	}, nil
}
