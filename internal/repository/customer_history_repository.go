package repository

import (
	"context"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// CustomerHistoryRepository stores the append-only status audit log.
// There is deliberately no update or delete surface.
type CustomerHistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.StatusHistoryEntry, error)
}

type customerHistoryRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewCustomerHistoryRepository builds repository.
func NewCustomerHistoryRepository(exec transactor.PgxWithinTransactionExecutor) CustomerHistoryRepository {
	return &customerHistoryRepository{exec: exec}
}

func (r *customerHistoryRepository) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	const query = `
        INSERT INTO customer_status_history (customer_id, status, changed_by, changed_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.exec.Executor(ctx).QueryRow(ctx, query,
		entry.CustomerID,
		entry.Status,
		entry.ChangedBy,
		entry.ChangedAt,
	).Scan(&entry.ID)
}

func (r *customerHistoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.StatusHistoryEntry, error) {
	const query = `
        SELECT id, customer_id, status, changed_by, changed_at
        FROM customer_status_history WHERE customer_id=$1 ORDER BY changed_at ASC, id ASC`
	rows, err := r.exec.Executor(ctx).Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.CustomerID,
			&entry.Status,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
