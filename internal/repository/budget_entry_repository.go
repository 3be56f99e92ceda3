package repository

import (
	"context"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type BudgetEntryRepository struct {
	db *sqlx.DB
}

func NewBudgetEntryRepository(db *sqlx.DB) *BudgetEntryRepository {
	return &BudgetEntryRepository{db: db}
}

func (r *BudgetEntryRepository) SaveAll(ctx context.Context, entries []models.BudgetEntry) error {
	query := `INSERT INTO base_orcamentaria (lancamento, dt_lancamento, valor, ano, user_id, status)
	          VALUES (:lancamento, :dt_lancamento, :valor, :ano, :user_id, :status)`
	return insertAll(ctx, r.db, query, entries)
}
