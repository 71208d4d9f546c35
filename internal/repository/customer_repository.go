package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// ErrVersionConflict signals that the caller's expected version is
// stale. No write happened; the caller must reload before retrying.
var ErrVersionConflict = errors.New("customer version conflict")

// CustomerFilter captures listing parameters.
type CustomerFilter struct {
	Statuses   []domain.CustomerStatus
	AssignedTo *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	UpdateVersioned(ctx context.Context, customer *domain.Customer, expectedVersion int64) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
}

type customerRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(exec transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &customerRepository{exec: exec}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (name, email, phone, services, status, assigned_to, follow_up_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, version, created_at, updated_at`
	return r.exec.Executor(ctx).QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Services,
		customer.Status,
		customer.AssignedTo,
		customer.FollowUpDate,
	).Scan(&customer.ID, &customer.Version, &customer.CreatedAt, &customer.UpdatedAt)
}

// UpdateVersioned applies the mutation only when the stored version
// still equals expectedVersion, bumping it by exactly one. A stale
// expectation yields ErrVersionConflict and no write.
func (r *customerRepository) UpdateVersioned(ctx context.Context, customer *domain.Customer, expectedVersion int64) error {
	const query = `
        UPDATE customers SET name=$1, email=$2, phone=$3, services=$4, status=$5,
            assigned_to=$6, follow_up_date=$7, version=version+1, updated_at=NOW()
        WHERE id=$8 AND version=$9
        RETURNING version, updated_at`
	err := r.exec.Executor(ctx).QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Services,
		customer.Status,
		customer.AssignedTo,
		customer.FollowUpDate,
		customer.ID,
		expectedVersion,
	).Scan(&customer.Version, &customer.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// Zero rows either means the entity is gone or the version is stale.
	var liveVersion int64
	probe := r.exec.Executor(ctx).QueryRow(ctx, `SELECT version FROM customers WHERE id=$1`, customer.ID)
	if probeErr := probe.Scan(&liveVersion); probeErr != nil {
		return probeErr
	}
	return ErrVersionConflict
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, name, email, phone, services, status, assigned_to, follow_up_date,
               version,
               COALESCE((SELECT MAX(h.changed_at) FROM customer_status_history h WHERE h.customer_id=customers.id), created_at),
               created_at, updated_at
        FROM customers WHERE id=$1`
	var customer domain.Customer
	if err := r.exec.Executor(ctx).QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Services,
		&customer.Status,
		&customer.AssignedTo,
		&customer.FollowUpDate,
		&customer.Version,
		&customer.LastStatusChange,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error) {
	base := `SELECT id, name, email, phone, services, status, assigned_to, follow_up_date,
                    version,
                    COALESCE((SELECT MAX(h.changed_at) FROM customer_status_history h WHERE h.customer_id=customers.id), created_at),
                    created_at, updated_at
             FROM customers`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(email) LIKE %s)", placeholder, placeholder))
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
	return scanCustomers(rows)
}

func scanCustomers(rows pgx.Rows) ([]domain.Customer, error) {
	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.Services,
			&customer.Status,
			&customer.AssignedTo,
			&customer.FollowUpDate,
			&customer.Version,
			&customer.LastStatusChange,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}
