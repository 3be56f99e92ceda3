package processor

import (
	"context"
	"time"

	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"
)

const (
	HeaderDemonstrativo   = "Demonstrativo"
	HeaderReferencia      = "Referencia"
	HeaderAno             = "Ano"
	HeaderPeriodicidade   = "Periodicidade"
	HeaderPrevisaoEntrega = "PrevisaoEntrega"
	HeaderDataEntrega     = "DataEntrega"
)

type StatementDraft struct {
	DemonstrativoNome string
	Referencia        string
	Ano               string
	Periodicidade     string
	DtPrevEntr        *time.Time
	DtEntrega         *time.Time
}

// StatementProcessor imports balancete and transparency rows. The statement
// type is resolved by its active name.
type StatementProcessor struct {
	dateLayout
	kind           models.StatementKind
	demonstrativos DemonstrativoLookup
}

func NewStatementProcessor(kind models.StatementKind, demonstrativos DemonstrativoLookup, layout string) *StatementProcessor {
	return &StatementProcessor{
		dateLayout:     newDateLayout(layout),
		kind:           kind,
		demonstrativos: demonstrativos,
	}
}

func (p *StatementProcessor) RequiredHeaders() []string {
	return []string{HeaderDemonstrativo, HeaderReferencia, HeaderAno, HeaderPeriodicidade, HeaderPrevisaoEntrega}
}

func (p *StatementProcessor) OptionalHeaders() []string {
	return []string{HeaderDataEntrega}
}

func (p *StatementProcessor) Parse(row importer.Row) (StatementDraft, error) {
	prev, err := p.parseDate(row, HeaderPrevisaoEntrega)
	if err != nil {
		return StatementDraft{}, err
	}
	entrega, err := p.parseDate(row, HeaderDataEntrega)
	if err != nil {
		return StatementDraft{}, err
	}

	return StatementDraft{
		DemonstrativoNome: clean(row, HeaderDemonstrativo),
		Referencia:        clean(row, HeaderReferencia),
		Ano:               clean(row, HeaderAno),
		Periodicidade:     clean(row, HeaderPeriodicidade),
		DtPrevEntr:        prev,
		DtEntrega:         entrega,
	}, nil
}

func (p *StatementProcessor) Validate(d StatementDraft) error {
	var v importer.Violations
	v.Require(d.DemonstrativoNome, required(HeaderDemonstrativo))
	v.Require(d.Referencia, required(HeaderReferencia))
	v.Require(d.Ano, required(HeaderAno))
	v.Require(d.Periodicidade, required(HeaderPeriodicidade))
	v.Check(d.DtPrevEntr != nil, required(HeaderPrevisaoEntrega))
	return v.Err()
}

func (p *StatementProcessor) Convert(ctx context.Context, d StatementDraft, identity importer.Identity) (models.Statement, error) {
	demonstrativo, err := p.demonstrativos.FindActiveByName(ctx, d.DemonstrativoNome)
	if err != nil {
		return models.Statement{}, lookupError("demonstrativo", d.DemonstrativoNome, err)
	}

	return models.Statement{
		Kind:            p.kind,
		DemonstrativoID: demonstrativo.ID,
		Referencia:      d.Referencia,
		Ano:             d.Ano,
		Periodicidade:   d.Periodicidade,
		DtPrevEntr:      *d.DtPrevEntr,
		DtEntrega:       d.DtEntrega,
		Eficiencia:      models.Eficiencia(*d.DtPrevEntr, d.DtEntrega),
		UserID:          identity.UserID,
		Status:          true,
	}, nil
}
