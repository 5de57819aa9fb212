// Package auth содержит бизнес-логику регистрации и входа пользователей.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// Repo описывает операции хранилища пользователей.
type Repo interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service реализует регистрацию и аутентификацию.
type Service struct {
	repo  Repo
	maker jwt.Maker
	log   *slog.Logger
}

// New создает сервис аутентификации.
func New(repo Repo, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{repo: repo, maker: maker, log: log}
}

// Register регистрирует нового пользователя с ролью user.
func (s *Service) Register(ctx context.Context, email, username, pass string) (string, error) {
	const op = "services.auth.Register"
	hash, err := password.GetHash(pass)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.repo.RegisterUser(ctx, models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         "user",
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль и возвращает JWT-токен.
func (s *Service) Login(ctx context.Context, username, pass string) (string, error) {
	const op = "services.auth.Login"
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, pass); err != nil {
		return "", fmt.Errorf("%s: invalid credentials: %w", op, err)
	}
	token, err := s.maker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}
