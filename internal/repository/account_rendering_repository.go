package repository

import (
	"context"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type AccountRenderingRepository struct {
	db *sqlx.DB
}

func NewAccountRenderingRepository(db *sqlx.DB) *AccountRenderingRepository {
	return &AccountRenderingRepository{db: db}
}

func (r *AccountRenderingRepository) SaveAll(ctx context.Context, renderings []models.AccountRendering) error {
	query := `INSERT INTO prestacao_contas_subseccional (subseccional_id, mes_referencia, ano,
	          dt_prev_entr, dt_entrega, dt_pagamento, valor_pago, observacao, user_id, status)
	          VALUES (:subseccional_id, :mes_referencia, :ano,
	          :dt_prev_entr, :dt_entrega, :dt_pagamento, :valor_pago, :observacao, :user_id, :status)`
	return insertAll(ctx, r.db, query, renderings)
}
