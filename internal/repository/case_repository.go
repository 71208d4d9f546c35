package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// CaseFilter captures listing parameters.
type CaseFilter struct {
	CustomerID *string
	States     []domain.CaseState
	CaseType   *string
	AssignedTo *string
	Limit      int
	Offset     int
}

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	Update(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
}

type caseRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(exec transactor.PgxWithinTransactionExecutor) CaseRepository {
	return &caseRepository{exec: exec}
}

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (customer_id, title, case_type, state, last_state_change, deadline, ready_for_work, priority, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.exec.Executor(ctx).QueryRow(ctx, query,
		c.CustomerID,
		c.Title,
		c.CaseType,
		c.State,
		c.LastStateChange,
		c.Deadline,
		c.ReadyForWork,
		c.Priority,
		c.AssignedTo,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	const query = `
        UPDATE cases SET title=$1, case_type=$2, state=$3, last_state_change=$4, deadline=$5,
            ready_for_work=$6, priority=$7, assigned_to=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.exec.Executor(ctx).Exec(ctx, query,
		c.Title,
		c.CaseType,
		c.State,
		c.LastStateChange,
		c.Deadline,
		c.ReadyForWork,
		c.Priority,
		c.AssignedTo,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	const query = `
        SELECT id, customer_id, title, case_type, state, last_state_change, deadline,
               ready_for_work, priority, assigned_to, created_at, updated_at
        FROM cases WHERE id=$1`
	var c domain.Case
	if err := r.exec.Executor(ctx).QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.CustomerID,
		&c.Title,
		&c.CaseType,
		&c.State,
		&c.LastStateChange,
		&c.Deadline,
		&c.ReadyForWork,
		&c.Priority,
		&c.AssignedTo,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	base := `SELECT id, customer_id, title, case_type, state, last_state_change, deadline,
                    ready_for_work, priority, assigned_to, created_at, updated_at
             FROM cases`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CaseType != nil {
		args = append(args, *filter.CaseType)
		clauses = append(clauses, fmt.Sprintf("case_type=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.exec.Executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(
			&c.ID,
			&c.CustomerID,
			&c.Title,
			&c.CaseType,
			&c.State,
			&c.LastStateChange,
			&c.Deadline,
			&c.ReadyForWork,
			&c.Priority,
			&c.AssignedTo,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
