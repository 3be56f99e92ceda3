package repository

import (
	"context"
	"database/sql"
	"errors"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type DemonstrativoRepository struct {
	db *sqlx.DB
}

func NewDemonstrativoRepository(db *sqlx.DB) *DemonstrativoRepository {
	return &DemonstrativoRepository{db: db}
}

// FindActiveByName returns the active statement type with exactly this name.
func (r *DemonstrativoRepository) FindActiveByName(ctx context.Context, nome string) (*models.Demonstrativo, error) {
	var d models.Demonstrativo
	query := `SELECT id, nome, status FROM demonstrativo WHERE status = TRUE AND nome = ? LIMIT 1`
	if err := r.db.GetContext(ctx, &d, query, nome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
