package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/pkg/db/transactor"
)

// MeetingFilter captures listing parameters.
type MeetingFilter struct {
	CustomerID *string
	Statuses   []domain.MeetingStatus
	AssignedTo *string
	Limit      int
	Offset     int
}

// MeetingRepository encapsulates meeting persistence.
type MeetingRepository interface {
	Create(ctx context.Context, m *domain.Meeting) error
	Update(ctx context.Context, m *domain.Meeting) error
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	List(ctx context.Context, filter MeetingFilter) ([]domain.Meeting, error)
}

type meetingRepository struct {
	exec transactor.PgxWithinTransactionExecutor
}

// NewMeetingRepository instantiates repository.
func NewMeetingRepository(exec transactor.PgxWithinTransactionExecutor) MeetingRepository {
	return &meetingRepository{exec: exec}
}

func (r *meetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	const query = `
        INSERT INTO meetings (customer_id, title, scheduled_at, status, assigned_to)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.exec.Executor(ctx).QueryRow(ctx, query,
		m.CustomerID,
		m.Title,
		m.ScheduledAt,
		m.Status,
		m.AssignedTo,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *meetingRepository) Update(ctx context.Context, m *domain.Meeting) error {
	const query = `
        UPDATE meetings SET title=$1, scheduled_at=$2, status=$3, assigned_to=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.exec.Executor(ctx).Exec(ctx, query,
		m.Title,
		m.ScheduledAt,
		m.Status,
		m.AssignedTo,
		m.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	const query = `
        SELECT id, customer_id, title, scheduled_at, status, assigned_to, created_at, updated_at
        FROM meetings WHERE id=$1`
	var m domain.Meeting
	if err := r.exec.Executor(ctx).QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.CustomerID,
		&m.Title,
		&m.ScheduledAt,
		&m.Status,
		&m.AssignedTo,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *meetingRepository) List(ctx context.Context, filter MeetingFilter) ([]domain.Meeting, error) {
	base := `SELECT id, customer_id, title, scheduled_at, status, assigned_to, created_at, updated_at
             FROM meetings`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
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

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY scheduled_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.exec.Executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(
			&m.ID,
			&m.CustomerID,
			&m.Title,
			&m.ScheduledAt,
			&m.Status,
			&m.AssignedTo,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
