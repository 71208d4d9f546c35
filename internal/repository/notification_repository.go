package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// NotificationRepository stores backend-sourced customer notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context) ([]domain.Notification, error)
	Delete(ctx context.Context, id string) error
}

type notificationRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(exec transactor.PgxWithinTransactionExecutor) NotificationRepository {
	return &notificationRepository{exec: exec}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO customer_notifications (customer_id, message)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.exec.Executor(ctx).QueryRow(ctx, query, n.CustomerID, n.Message).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	const query = `
        SELECT id, customer_id, message, created_at
        FROM customer_notifications ORDER BY created_at DESC`
	rows, err := r.exec.Executor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.exec.Executor(ctx).Exec(ctx, `DELETE FROM customer_notifications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
