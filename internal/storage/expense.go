package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// CreateExpense вставляет новую запись расхода и возвращает её ID.
func (s *Storage) CreateExpense(ctx context.Context, exp models.Expense) (string, error) {
	const op = "storage.CreateExpense"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expenses (amount, spent_at, note)
			  VALUES ($1, $2, NULLIF($3, ''))
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, exp.Amount, exp.Date, exp.Note).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListExpenses возвращает полный снимок коллекции расходов.
func (s *Storage) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	const op = "storage.ListExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, amount, spent_at, note
			  FROM expenses
			  ORDER BY spent_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Expense
	for rows.Next() {
		var item models.Expense
		var note sql.NullString
		if err := rows.Scan(&item.ID, &item.Amount, &item.Date, &note); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Note = note.String
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveExpense удаляет запись расхода по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveExpense(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM expenses WHERE id = $1`
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
