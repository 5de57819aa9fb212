package billing

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/period"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// IsDue сообщает, есть ли у абонента просроченные периоды на расчётную дату.
// Абонент должен, когда прошедших периодов больше, чем оплаченных, и абонемент
// ещё не закрыт. Абонент за пределами абонемента всегда считается завершившим,
// независимо от истории задолженности: абонемент фиксированный, не бессрочный.
func IsDue(sub models.Subscriber, asOf time.Time) (bool, error) {
	const op = "billing.IsDue"
	elapsed, err := period.Elapsed(sub.StartDate, asOf)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	paid := PaidPeriods(sub)
	return elapsed > paid && paid < period.Term, nil
}

// Notice — готовое напоминание об оплате для одного абонента.
type Notice struct {
	Message      string    `json:"message"`       // Текст напоминания
	WhatsAppLink string    `json:"whatsapp_link"` // Ссылка wa.me с зашитым текстом
	TotalDue     float64   `json:"total_due"`     // Сумма к оплате по тексту напоминания
	DueDate      time.Time `json:"due_date"`      // Дата платежа, упомянутая в напоминании
}

// ComposeNotice составляет текст напоминания и ссылку WhatsApp на расчётную дату.
//
// Выбор текста двухвариантный: при просрочке больше одного периода сообщение
// называет платы двух последних периодов и их сумму, иначе — плату текущего
// периода и дату платежа в формате DD-Mon-YY.
func ComposeNotice(sub models.Subscriber, asOf time.Time) (Notice, error) {
	const op = "billing.ComposeNotice"

	elapsed, err := period.Elapsed(sub.StartDate, asOf)
	if err != nil {
		return Notice{}, fmt.Errorf("%s: %w", op, err)
	}
	paid := PaidPeriods(sub)
	dueDate := period.NextDueDate(sub.StartDate, paid)
	currentFee := Fee(sub, period.Key(asOf))

	var message string
	var totalDue float64
	if elapsed-paid > 1 && paid < period.Term {
		previousFee := Fee(sub, period.Key(asOf.AddDate(0, -1, 0)))
		totalDue = previousFee + currentFee
		message = fmt.Sprintf(
			"Your WiFi bill previous month %s and current month %s total %s riyal. Please pay as soon as possible.",
			formatAmount(previousFee), formatAmount(currentFee), formatAmount(totalDue))
	} else {
		totalDue = currentFee
		message = fmt.Sprintf(
			"Your WiFi bill expired in %s. Please pay %s riyal as soon as possible.",
			period.FormatDue(dueDate), formatAmount(currentFee))
	}

	return Notice{
		Message:      message,
		WhatsAppLink: WhatsAppLink(sub.Phone, message),
		TotalDue:     totalDue,
		DueDate:      dueDate,
	}, nil
}

// WhatsAppLink собирает ссылку wa.me из телефона и текста сообщения.
// Телефон передаётся как есть, без дополнительной валидации.
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}

// formatAmount печатает сумму без хвостовых нулей: 30, а не 30.000000.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
