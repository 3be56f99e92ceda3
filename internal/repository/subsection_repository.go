package repository

import (
	"context"
	"database/sql"
	"errors"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type SubsectionRepository struct {
	db *sqlx.DB
}

func NewSubsectionRepository(db *sqlx.DB) *SubsectionRepository {
	return &SubsectionRepository{db: db}
}

// FindByNameIgnoreCase matches the subsection name regardless of case.
func (r *SubsectionRepository) FindByNameIgnoreCase(ctx context.Context, nome string) (*models.Subsection, error) {
	var s models.Subsection
	query := `SELECT id, nome, COALESCE(user_id, 0) AS user_id, status
	          FROM subseccional WHERE LOWER(nome) = LOWER(?) LIMIT 1`
	if err := r.db.GetContext(ctx, &s, query, nome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubsectionRepository) SaveAll(ctx context.Context, subsections []models.Subsection) error {
	query := `INSERT INTO subseccional (nome, user_id, status) VALUES (:nome, :user_id, :status)`
	return insertAll(ctx, r.db, query, subsections)
}
