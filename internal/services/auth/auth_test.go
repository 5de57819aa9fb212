package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// MockRepo реализует интерфейс Repo
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(repo *MockRepo) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return New(repo, maker, logger)
}

func TestService_Register(t *testing.T) {
	t.Run("пароль хэшируется и роль user", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
			return user.Username == "operator" &&
				user.Role == "user" &&
				password.CompareHash(user.PasswordHash, "secret123") == nil
		})).Return("uid-1", nil)

		svc := newTestService(repo)
		uid, err := svc.Register(context.Background(), "op@example.com", "operator", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "uid-1", uid)
		repo.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("RegisterUser", mock.Anything, mock.Anything).Return("", errors.New("duplicate username"))

		svc := newTestService(repo)
		_, err := svc.Register(context.Background(), "op@example.com", "operator", "secret123")

		require.Error(t, err)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	t.Run("успешный вход возвращает токен", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("GetUserByUsername", mock.Anything, "operator").Return(&models.User{
			Username:     "operator",
			PasswordHash: hash,
			Role:         "admin",
		}, nil)

		svc := newTestService(repo)
		token, err := svc.Login(context.Background(), "operator", "secret123")

		require.NoError(t, err)
		require.NotEmpty(t, token)

		maker := jwt.NewJWTMaker("test-secret", time.Hour)
		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "operator", claims.Username)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("GetUserByUsername", mock.Anything, "operator").Return(&models.User{
			Username:     "operator",
			PasswordHash: hash,
		}, nil)

		svc := newTestService(repo)
		_, err := svc.Login(context.Background(), "operator", "wrongpass")

		require.Error(t, err)
	})

	t.Run("неизвестный пользователь", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("not found"))

		svc := newTestService(repo)
		_, err := svc.Login(context.Background(), "ghost", "secret123")

		require.Error(t, err)
	})
}
