package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// CreateSubscriber вставляет новую запись абонента и возвращает её ID.
func (s *Storage) CreateSubscriber(ctx context.Context, sub models.Subscriber) (string, error) {
	const op = "storage.CreateSubscriber"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	payments, err := json.Marshal(sub.Payments)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	discounts, err := json.Marshal(sub.Discounts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO subscribers (name, phone, start_date, paid_months, payments, discounts)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID string
	err = s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.Phone, sub.StartDate, sub.PaidMonths, payments, discounts).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscriber возвращает запись абонента по её ID.
func (s *Storage) ReadSubscriber(ctx context.Context, id string) (*models.Subscriber, error) {
	const op = "storage.ReadSubscriber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, phone, start_date, paid_months, payments, discounts
			  FROM subscribers WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	result, err := scanSubscriber(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscriber обновляет данные абонента по ID и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscriber(ctx context.Context, sub models.Subscriber, id string) (int, error) {
	const op = "storage.UpdateSubscriber"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	payments, err := json.Marshal(sub.Payments)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	discounts, err := json.Marshal(sub.Discounts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscribers
			  SET name = $1, phone = $2, start_date = $3, paid_months = $4,
			      payments = $5, discounts = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.Phone, sub.StartDate, sub.PaidMonths, payments, discounts, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscriber удаляет запись абонента по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscriber(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveSubscriber"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscribers WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscribers возвращает полный снимок коллекции абонентов.
// Панель всегда читает коллекцию целиком, фильтрация выполняется расчётным ядром.
func (s *Storage) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	const op = "storage.ListSubscribers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, phone, start_date, paid_months, payments, discounts
			  FROM subscribers
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscriber
	for rows.Next() {
		item, err := scanSubscriber(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertPayment записывает платёж абонента за период, перезаписывая прежнее
// значение этого периода. Возвращает количество изменённых строк.
func (s *Storage) UpsertPayment(ctx context.Context, id, periodKey string, amount float64) (int, error) {
	const op = "storage.UpsertPayment"
	return s.upsertLedgerEntry(ctx, op, "payments", id, periodKey, amount)
}

// UpsertDiscount записывает скидку абонента за период, перезаписывая прежнее
// значение этого периода. Возвращает количество изменённых строк.
func (s *Storage) UpsertDiscount(ctx context.Context, id, periodKey string, amount float64) (int, error) {
	const op = "storage.UpsertDiscount"
	return s.upsertLedgerEntry(ctx, op, "discounts", id, periodKey, amount)
}

func (s *Storage) upsertLedgerEntry(ctx context.Context, op, column, id, periodKey string, amount float64) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`UPDATE subscribers
			  SET %s = jsonb_set(%s, ARRAY[$2], to_jsonb($3::numeric), true)
			  WHERE id = $1`, column, column)
	result, err := s.DB.ExecContext(ctx, query, id, periodKey, amount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// scanSubscriber разворачивает строку выборки в модель, распаковывая JSONB-карты.
func scanSubscriber(scan func(dest ...any) error) (*models.Subscriber, error) {
	var item models.Subscriber
	var payments, discounts []byte
	if err := scan(&item.ID, &item.Name, &item.Phone, &item.StartDate,
		&item.PaidMonths, &payments, &discounts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payments, &item.Payments); err != nil {
		return nil, fmt.Errorf("unmarshal payments: %w", err)
	}
	if err := json.Unmarshal(discounts, &item.Discounts); err != nil {
		return nil, fmt.Errorf("unmarshal discounts: %w", err)
	}
	return &item, nil
}
