package repository

import (
	"context"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// ConsultantRepository handles persistence for firm consultants.
type ConsultantRepository interface {
	Create(ctx context.Context, consultant *domain.Consultant) error
	GetByID(ctx context.Context, id string) (*domain.Consultant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Consultant, error)
	// ListClosers returns the restricted roster of consultants eligible
	// to be assigned when a lead becomes a client.
	ListClosers(ctx context.Context) ([]domain.Consultant, error)
}

type consultantRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewConsultantRepository instantiates the repository.
func NewConsultantRepository(exec transactor.PgxWithinTransactionExecutor) ConsultantRepository {
	return &consultantRepository{exec: exec}
}

func (r *consultantRepository) Create(ctx context.Context, consultant *domain.Consultant) error {
	const query = `
        INSERT INTO consultants (name, email, password_hash, role, active_flag)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.exec.Executor(ctx).QueryRow(ctx, query,
		consultant.Name,
		consultant.Email,
		consultant.PasswordHash,
		consultant.Role,
		consultant.Active,
	).Scan(&consultant.ID, &consultant.CreatedAt, &consultant.UpdatedAt)
}

func (r *consultantRepository) GetByID(ctx context.Context, id string) (*domain.Consultant, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM consultants WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *consultantRepository) GetByEmail(ctx context.Context, email string) (*domain.Consultant, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM consultants WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *consultantRepository) ListClosers(ctx context.Context) ([]domain.Consultant, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM consultants WHERE active_flag AND role IN ('CLOSER','ADMIN') ORDER BY name ASC`
	rows, err := r.exec.Executor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Consultant
	for rows.Next() {
		var consultant domain.Consultant
		if err := rows.Scan(
			&consultant.ID,
			&consultant.Name,
			&consultant.Email,
			&consultant.PasswordHash,
			&consultant.Role,
			&consultant.Active,
			&consultant.CreatedAt,
			&consultant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, consultant)
	}
	return result, rows.Err()
}

func (r *consultantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Consultant, error) {
	var consultant domain.Consultant
	if err := r.exec.Executor(ctx).QueryRow(ctx, query, arg).Scan(
		&consultant.ID,
		&consultant.Name,
		&consultant.Email,
		&consultant.PasswordHash,
		&consultant.Role,
		&consultant.Active,
		&consultant.CreatedAt,
		&consultant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &consultant, nil
}
