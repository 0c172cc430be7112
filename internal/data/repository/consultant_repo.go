package repository

import (
	"context"
	"fmt"

	"consult-booking/internal/data/entity"
	"consult-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ConsultantRepository interface {
	Create(ctx context.Context, consultant *entity.Consultant) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Consultant, error)
	FindAll(ctx context.Context) ([]*entity.Consultant, error)
}

type consultantRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConsultantRepository(db database.PgxIface, log *zap.Logger) ConsultantRepository {
	return &consultantRepository{
		db:  db,
		log: log.With(zap.String("repository", "consultant")),
	}
}

func (r *consultantRepository) Create(ctx context.Context, consultant *entity.Consultant) error {
	query := `
		INSERT INTO consultants (id, name, specialization, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		consultant.ID,
		consultant.Name,
		consultant.Specialization,
		consultant.CreatedAt,
		consultant.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create consultant",
			zap.Error(err),
			zap.String("name", consultant.Name),
		)
		return fmt.Errorf("create consultant %s: %w", consultant.Name, err)
	}

	return nil
}

func (r *consultantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Consultant, error) {
	query := `
		SELECT id, name, specialization, created_at, updated_at
		FROM consultants
		WHERE id = $1
	`

	var consultant entity.Consultant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&consultant.ID,
		&consultant.Name,
		&consultant.Specialization,
		&consultant.CreatedAt,
		&consultant.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find consultant by ID",
			zap.Error(err),
			zap.String("consultant_id", id.String()),
		)
		return nil, fmt.Errorf("find consultant by ID %s: %w", id.String(), err)
	}

	return &consultant, nil
}

func (r *consultantRepository) FindAll(ctx context.Context) ([]*entity.Consultant, error) {
	query := `
		SELECT id, name, specialization, created_at, updated_at
		FROM consultants
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list consultants", zap.Error(err))
		return nil, fmt.Errorf("list consultants: %w", err)
	}
	defer rows.Close()

	var consultants []*entity.Consultant
	for rows.Next() {
		var consultant entity.Consultant
		if err := rows.Scan(
			&consultant.ID,
			&consultant.Name,
			&consultant.Specialization,
			&consultant.CreatedAt,
			&consultant.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan consultant: %w", err)
		}
		consultants = append(consultants, &consultant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultants: %w", err)
	}

	return consultants, nil
}
