package repository

import (
	"context"
	"database/sql"
	"errors"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type DiscountTypeRepository struct {
	db *sqlx.DB
}

func NewDiscountTypeRepository(db *sqlx.DB) *DiscountTypeRepository {
	return &DiscountTypeRepository{db: db}
}

func (r *DiscountTypeRepository) FindActiveByName(ctx context.Context, nome string) (*models.DiscountType, error) {
	var dt models.DiscountType
	query := `SELECT id, nome, COALESCE(user_id, 0) AS user_id, status
	          FROM tipo_desconto WHERE status = TRUE AND nome = ? LIMIT 1`
	if err := r.db.GetContext(ctx, &dt, query, nome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dt, nil
}

func (r *DiscountTypeRepository) SaveAll(ctx context.Context, types []models.DiscountType) error {
	query := `INSERT INTO tipo_desconto (nome, user_id, status) VALUES (:nome, :user_id, :status)`
	return insertAll(ctx, r.db, query, types)
}
