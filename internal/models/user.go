// Package models содержит доменную модель пользователя панели,
// включающую данные учётной записи и хэш пароля.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

// User представляет зарегистрированного пользователя панели.
type User struct {
	UID          string // Уникальный идентификатор пользователя
	Email        string // Электронная почта
	Username     string // Имя пользователя (уникальное)
	PasswordHash string // Хэш пароля пользователя
	Role         string // Роль пользователя, admin или user
}
