package processor

import (
	"context"
	"time"

	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"

	"github.com/shopspring/decimal"
)

const (
	HeaderLancamento     = "Lançamento"
	HeaderDataLancamento = "Data Lançamento"
	HeaderValor          = "Valor"
)

type BudgetEntryDraft struct {
	Lancamento   string
	DtLancamento *time.Time
	Valor        decimal.NullDecimal
	Ano          string
}

type BudgetEntryProcessor struct {
	dateLayout
}

func NewBudgetEntryProcessor(layout string) *BudgetEntryProcessor {
	return &BudgetEntryProcessor{dateLayout: newDateLayout(layout)}
}

func (p *BudgetEntryProcessor) RequiredHeaders() []string {
	return []string{HeaderLancamento, HeaderDataLancamento, HeaderValor, HeaderAno}
}

func (p *BudgetEntryProcessor) Parse(row importer.Row) (BudgetEntryDraft, error) {
	dt, err := p.parseDate(row, HeaderDataLancamento)
	if err != nil {
		return BudgetEntryDraft{}, err
	}
	valor, err := importer.ParseOptionalDecimal(row.Get(HeaderValor), importer.DecimalPoint)
	if err != nil {
		return BudgetEntryDraft{}, fieldError(HeaderValor, err)
	}

	return BudgetEntryDraft{
		Lancamento:   clean(row, HeaderLancamento),
		DtLancamento: dt,
		Valor:        valor,
		Ano:          clean(row, HeaderAno),
	}, nil
}

func (p *BudgetEntryProcessor) Validate(d BudgetEntryDraft) error {
	var v importer.Violations
	v.Require(d.Lancamento, required(HeaderLancamento))
	v.Check(d.DtLancamento != nil, required(HeaderDataLancamento))
	v.Check(d.Valor.Valid, required(HeaderValor))
	v.Require(d.Ano, required(HeaderAno))
	return v.Err()
}

func (p *BudgetEntryProcessor) Convert(_ context.Context, d BudgetEntryDraft, identity importer.Identity) (models.BudgetEntry, error) {
	return models.BudgetEntry{
		Lancamento:   d.Lancamento,
		DtLancamento: *d.DtLancamento,
		Valor:        d.Valor.Decimal,
		Ano:          d.Ano,
		UserID:       identity.UserID,
		Status:       true,
	}, nil
}
