package repository

import (
	"context"
	"database/sql"
	"errors"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type InstitutionRepository struct {
	db *sqlx.DB
}

func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

func (r *InstitutionRepository) FindActiveByName(ctx context.Context, nome string) (*models.Institution, error) {
	var inst models.Institution
	query := `SELECT id, nome, COALESCE(user_id, 0) AS user_id, status
	          FROM instituicao WHERE status = TRUE AND nome = ? LIMIT 1`
	if err := r.db.GetContext(ctx, &inst, query, nome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inst, nil
}

func (r *InstitutionRepository) SaveAll(ctx context.Context, institutions []models.Institution) error {
	query := `INSERT INTO instituicao (nome, user_id, status) VALUES (:nome, :user_id, :status)`
	return insertAll(ctx, r.db, query, institutions)
}
