package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotaPayment is the monthly duodécimo owed and paid by an institution.
type QuotaPayment struct {
	ID             int64               `db:"id" json:"id"`
	InstitutionID  int64               `db:"instituicao_id" json:"instituicao_id"`
	MesReferencia  string              `db:"mes_referencia" json:"mes_referencia"`
	Ano            string              `db:"ano" json:"ano"`
	DtPrevEntr     time.Time           `db:"dt_prev_entr" json:"dt_prev_entr"`
	ValorDuodecimo decimal.Decimal     `db:"valor_duodecimo" json:"valor_duodecimo"`
	ValorDesconto  decimal.Decimal     `db:"valor_desconto" json:"valor_desconto"`
	DiscountTypeID *int64              `db:"tipo_desconto_id" json:"tipo_desconto_id"`
	ValorPago      decimal.NullDecimal `db:"valor_pago" json:"valor_pago"`
	DtPagamento    *time.Time          `db:"dt_pagamento" json:"dt_pagamento"`
	Observacao     string              `db:"observacao" json:"observacao"`
	UserID         int                 `db:"user_id" json:"user_id"`
	Status         bool                `db:"status" json:"status"`
}

func (q QuotaPayment) OwnerID() int {
	return q.UserID
}
