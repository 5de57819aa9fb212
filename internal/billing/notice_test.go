package billing

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

func TestIsDue(t *testing.T) {
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  models.Subscriber
		want bool
	}{
		{
			name: "прошедших больше оплаченных",
			sub: models.Subscriber{
				StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			},
			want: true,
		},
		{
			name: "оплата по графику",
			sub: models.Subscriber{
				StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
				Payments:  map[string]float64{"2025-01": 30, "2025-02": 30},
			},
			want: false,
		},
		{
			name: "завершенный абонемент никогда не должник",
			sub: models.Subscriber{
				StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				PaidMonths: 24,
			},
			want: false,
		},
		{
			name: "новый абонент в первом месяце",
			sub: models.Subscriber{
				StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsDue(tt.sub, asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("нулевая дата подключения", func(t *testing.T) {
		_, err := IsDue(models.Subscriber{}, asOf)
		require.Error(t, err)
	})
}

func TestComposeNotice(t *testing.T) {
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("просрочка одного периода", func(t *testing.T) {
		sub := models.Subscriber{
			Phone:     "966501234567",
			StartDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		}
		got, err := ComposeNotice(sub, asOf)
		require.NoError(t, err)

		assert.Equal(t,
			"Your WiFi bill expired in 10-Feb-25. Please pay 30 riyal as soon as possible.",
			got.Message)
		assert.Equal(t, 30.0, got.TotalDue)
		assert.Equal(t, sub.StartDate, got.DueDate)
	})

	t.Run("просрочка больше одного периода", func(t *testing.T) {
		sub := models.Subscriber{
			Phone:     "966501234567",
			StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}
		got, err := ComposeNotice(sub, asOf)
		require.NoError(t, err)

		assert.Equal(t,
			"Your WiFi bill previous month 30 and current month 30 total 60 riyal. Please pay as soon as possible.",
			got.Message)
		assert.Equal(t, 60.0, got.TotalDue)
	})

	t.Run("скидка текущего периода попадает в текст", func(t *testing.T) {
		sub := models.Subscriber{
			Phone:     "966501234567",
			StartDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			Discounts: map[string]float64{"2025-03": 5},
		}
		got, err := ComposeNotice(sub, asOf)
		require.NoError(t, err)

		assert.Contains(t, got.Message, "Please pay 25 riyal")
		assert.Equal(t, 25.0, got.TotalDue)
	})

	t.Run("скидки обоих периодов в двухмесячном тексте", func(t *testing.T) {
		sub := models.Subscriber{
			Phone:     "966501234567",
			StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Discounts: map[string]float64{"2025-02": 10, "2025-03": 5},
		}
		got, err := ComposeNotice(sub, asOf)
		require.NoError(t, err)

		assert.Equal(t,
			"Your WiFi bill previous month 20 and current month 25 total 45 riyal. Please pay as soon as possible.",
			got.Message)
		assert.Equal(t, 45.0, got.TotalDue)
	})

	t.Run("ссылка содержит телефон и закодированный текст", func(t *testing.T) {
		sub := models.Subscriber{
			Phone:     "966501234567",
			StartDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		}
		got, err := ComposeNotice(sub, asOf)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(got.WhatsAppLink, "https://wa.me/966501234567?text="))

		parsed, err := url.Parse(got.WhatsAppLink)
		require.NoError(t, err)
		assert.Equal(t, got.Message, parsed.Query().Get("text"))
	})

	t.Run("нулевая дата подключения", func(t *testing.T) {
		_, err := ComposeNotice(models.Subscriber{Phone: "123"}, asOf)
		require.Error(t, err)
	})
}

func TestWhatsAppLink(t *testing.T) {
	got := WhatsAppLink("966501234567", "Hello world")
	assert.Equal(t, "https://wa.me/966501234567?text=Hello+world", got)
}
