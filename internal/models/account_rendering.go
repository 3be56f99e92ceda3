package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRendering is a subsection's prestação de contas for one month.
type AccountRendering struct {
	ID            int64               `db:"id" json:"id"`
	SubsectionID  int64               `db:"subseccional_id" json:"subseccional_id"`
	MesReferencia string              `db:"mes_referencia" json:"mes_referencia"`
	Ano           string              `db:"ano" json:"ano"`
	DtPrevEntr    time.Time           `db:"dt_prev_entr" json:"dt_prev_entr"`
	DtEntrega     *time.Time          `db:"dt_entrega" json:"dt_entrega"`
	DtPagamento   *time.Time          `db:"dt_pagamento" json:"dt_pagamento"`
	ValorPago     decimal.NullDecimal `db:"valor_pago" json:"valor_pago"`
	Observacao    string              `db:"observacao" json:"observacao"`
	UserID        int                 `db:"user_id" json:"user_id"`
	Status        bool                `db:"status" json:"status"`
}

func (a AccountRendering) OwnerID() int {
	return a.UserID
}
