package models

import "time"

type StatementKind string

const (
	StatementBalancete     StatementKind = "balancete"
	StatementTransparencia StatementKind = "transparencia"
)

// Demonstrativo is the statement type a balancete or transparency record
// refers to by name.
type Demonstrativo struct {
	ID     int64  `db:"id" json:"id"`
	Nome   string `db:"nome" json:"nome"`
	Status bool   `db:"status" json:"status"`
}

// Statement is a balancete (CFOAB) or transparency delivery record. Both
// kinds share the same shape and live in separate tables.
type Statement struct {
	ID              int64         `db:"id" json:"id"`
	Kind            StatementKind `db:"-" json:"kind"`
	DemonstrativoID int64         `db:"demonstrativo_id" json:"demonstrativo_id"`
	Referencia      string        `db:"referencia" json:"referencia"`
	Ano             string        `db:"ano" json:"ano"`
	Periodicidade   string        `db:"periodicidade" json:"periodicidade"`
	DtPrevEntr      time.Time     `db:"dt_prev_entr" json:"dt_prev_entr"`
	DtEntrega       *time.Time    `db:"dt_entrega" json:"dt_entrega"`
	Eficiencia      *int64        `db:"eficiencia" json:"eficiencia"`
	UserID          int           `db:"user_id" json:"user_id"`
	Status          bool          `db:"status" json:"status"`
}

func (s Statement) OwnerID() int {
	return s.UserID
}

// Eficiencia returns how many days after the expected date a statement was
// delivered, zero when on time and nil when either date is unknown.
func Eficiencia(expected time.Time, delivered *time.Time) *int64 {
	if delivered == nil || expected.IsZero() {
		return nil
	}
	days := int64(delivered.Sub(expected) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return &days
}
