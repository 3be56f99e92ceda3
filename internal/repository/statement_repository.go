package repository

import (
	"context"
	"fmt"

	"oabpe-web/internal/models"

	"github.com/jmoiron/sqlx"
)

var statementTables = map[models.StatementKind]string{
	models.StatementBalancete:     "balancete_cfoab",
	models.StatementTransparencia: "transparencia",
}

// StatementRepository persists balancete or transparency records, depending
// on the kind it was created for.
type StatementRepository struct {
	db    *sqlx.DB
	kind  models.StatementKind
	table string
}

func NewStatementRepository(db *sqlx.DB, kind models.StatementKind) (*StatementRepository, error) {
	table, ok := statementTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}
	return &StatementRepository{db: db, kind: kind, table: table}, nil
}

func (r *StatementRepository) SaveAll(ctx context.Context, statements []models.Statement) error {
	for _, s := range statements {
		if s.Kind != "" && s.Kind != r.kind {
			return fmt.Errorf("cannot save %s statement into %s", s.Kind, r.table)
		}
	}

	query := fmt.Sprintf(`INSERT INTO %s (demonstrativo_id, referencia, ano, periodicidade,
	          dt_prev_entr, dt_entrega, eficiencia, user_id, status)
	          VALUES (:demonstrativo_id, :referencia, :ano, :periodicidade,
	          :dt_prev_entr, :dt_entrega, :eficiencia, :user_id, :status)`, r.table)
	return insertAll(ctx, r.db, query, statements)
}
