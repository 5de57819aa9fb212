// Package models содержит доменные структуры абонентского учёта,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Subscriber представляет абонента в бизнес-логике и хранилище.
// Карты Payments и Discounts ключуются каноническим ключом периода YYYY-MM.
// PaidMonths — устаревший счётчик оплаченных месяцев, сохранён для совместимости
// со старыми записями; авторитетным источником считается карта Payments.
type Subscriber struct {
	ID         string             `json:"id"`          // Уникальный идентификатор записи
	Name       string             `json:"name"`        // Имя абонента
	Phone      string             `json:"phone"`       // Телефон для ссылки WhatsApp, только цифры
	StartDate  time.Time          `json:"start_date"`  // Дата подключения
	PaidMonths int                `json:"paid_months"` // Устаревший счётчик оплаченных периодов
	Payments   map[string]float64 `json:"payments"`    // Платежи по периодам
	Discounts  map[string]float64 `json:"discounts"`   // Скидки по периодам
}

// DummySubscriber используется для приёма данных абонента из JSON-запроса,
// прежде чем конвертировать их в Subscriber.
// Дата приходит строкой в формате 2006-01-02, чтобы её можно было валидировать и парсить вручную.
type DummySubscriber struct {
	Name      string             `json:"name" validate:"required"`         // Имя абонента
	Phone     string             `json:"phone" validate:"required,numeric"` // Телефон, только цифры
	StartDate string             `json:"start_date" validate:"required"`   // Дата подключения в формате 2006-01-02
	Payments  map[string]float64 `json:"payments,omitempty"`               // Начальные платежи (опционально)
	Discounts map[string]float64 `json:"discounts,omitempty"`              // Начальные скидки (опционально)
}

// DummyLedgerEntry используется для приёма платежа или скидки за период.
// Пустой Period означает текущий период на момент запроса.
type DummyLedgerEntry struct {
	Period string  `json:"period,omitempty"`              // Ключ периода YYYY-MM (опционально)
	Amount float64 `json:"amount" validate:"omitempty,gte=0"` // Сумма, неотрицательная
}

// ReminderNotice — сообщение напоминания об оплате, публикуемое в очередь
// планировщиком и доставляемое оператору отправителем.
type ReminderNotice struct {
	SubscriberID string    `json:"subscriber_id"` // Идентификатор абонента
	Name         string    `json:"name"`          // Имя абонента
	Phone        string    `json:"phone"`         // Телефон абонента
	Message      string    `json:"message"`       // Готовый текст напоминания
	WhatsAppLink string    `json:"whatsapp_link"` // Ссылка wa.me с зашитым текстом
	TotalDue     float64   `json:"total_due"`     // Сумма к оплате
	DueDate      time.Time `json:"due_date"`      // Дата платежа, упомянутая в напоминании
}
