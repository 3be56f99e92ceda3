package repository

import (
	"context"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type QuotaPaymentRepository struct {
	db *sqlx.DB
}

func NewQuotaPaymentRepository(db *sqlx.DB) *QuotaPaymentRepository {
	return &QuotaPaymentRepository{db: db}
}

func (r *QuotaPaymentRepository) SaveAll(ctx context.Context, payments []models.QuotaPayment) error {
	query := `INSERT INTO pagamento_cotas (instituicao_id, mes_referencia, ano, dt_prev_entr,
	          valor_duodecimo, valor_desconto, tipo_desconto_id, valor_pago, dt_pagamento,
	          observacao, user_id, status)
	          VALUES (:instituicao_id, :mes_referencia, :ano, :dt_prev_entr,
	          :valor_duodecimo, :valor_desconto, :tipo_desconto_id, :valor_pago, :dt_pagamento,
	          :observacao, :user_id, :status)`
	return insertAll(ctx, r.db, query, payments)
}
