package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetEntry is a line of the base orçamentária.
type BudgetEntry struct {
	ID           int64           `db:"id" json:"id"`
	Lancamento   string          `db:"lancamento" json:"lancamento"`
	DtLancamento time.Time       `db:"dt_lancamento" json:"dt_lancamento"`
	Valor        decimal.Decimal `db:"valor" json:"valor"`
	Ano          string          `db:"ano" json:"ano"`
	UserID       int             `db:"user_id" json:"user_id"`
	Status       bool            `db:"status" json:"status"`
}

func (b BudgetEntry) OwnerID() int {
	return b.UserID
}
