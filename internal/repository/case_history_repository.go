package repository

import (
	"context"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// CaseHistoryRepository stores the append-only case transition log.
type CaseHistoryRepository interface {
	Append(ctx context.Context, entry *domain.CaseHistoryEntry) error
	ListByCase(ctx context.Context, caseID string) ([]domain.CaseHistoryEntry, error)
}

type caseHistoryRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewCaseHistoryRepository builds repository.
func NewCaseHistoryRepository(exec transactor.PgxWithinTransactionExecutor) CaseHistoryRepository {
	return &caseHistoryRepository{exec: exec}
}

func (r *caseHistoryRepository) Append(ctx context.Context, entry *domain.CaseHistoryEntry) error {
	const query = `
        INSERT INTO case_history (case_id, from_state, to_state, changed_by, changed_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.exec.Executor(ctx).QueryRow(ctx, query,
		entry.CaseID,
		entry.FromState,
		entry.ToState,
		entry.ChangedBy,
		entry.ChangedAt,
	).Scan(&entry.ID)
}

func (r *caseHistoryRepository) ListByCase(ctx context.Context, caseID string) ([]domain.CaseHistoryEntry, error) {
	const query = `
        SELECT id, case_id, from_state, to_state, changed_by, changed_at
        FROM case_history WHERE case_id=$1 ORDER BY changed_at ASC, id ASC`
	rows, err := r.exec.Executor(ctx).Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CaseHistoryEntry
	for rows.Next() {
		var entry domain.CaseHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.CaseID,
			&entry.FromState,
			&entry.ToState,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
