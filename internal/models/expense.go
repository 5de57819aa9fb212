package models

import "time"

// Expense представляет запись о расходе.
type Expense struct {
	ID     string    `json:"id"`             // Уникальный идентификатор записи
	Amount float64   `json:"amount"`         // Сумма расхода, неотрицательная
	Date   time.Time `json:"date"`           // Дата расхода
	Note   string    `json:"note,omitempty"` // Произвольное примечание (опционально)
}

// DummyExpense используется для приёма данных расхода из JSON-запроса.
// Дата приходит строкой в формате 2006-01-02; пустая дата означает сегодняшний день.
type DummyExpense struct {
	Amount float64 `json:"amount" validate:"required,gte=0"` // Сумма расхода
	Date   string  `json:"date,omitempty"`                   // Дата расхода в формате 2006-01-02 (опционально)
	Note   string  `json:"note,omitempty"`                   // Примечание (опционально)
}
