package processor

import (
	"context"
	"time"

	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"

	"github.com/shopspring/decimal"
)

const (
	HeaderSubseccional       = "SUBSECCIONAL"
	HeaderAnoUpper           = "ANO"
	HeaderPrazoEntrega       = "PRAZO DE ENTREGA"
	HeaderDataEntregaUpper   = "DATA DE ENTREGA"
	HeaderDataPagamentoUpper = "DATA DE PAGAMENTO"
	HeaderValorPagoUpper     = "VALOR PAGO"
	HeaderObservacaoUpper    = "OBSERVAÇÃO"
)

type AccountRenderingDraft struct {
	Subseccional  string
	MesReferencia string
	Ano           string
	DtPrevEntr    *time.Time
	DtEntrega     *time.Time
	DtPagamento   *time.Time
	ValorPago     decimal.NullDecimal
	Observacao    string
}

// AccountRenderingProcessor imports subsection prestação de contas rows. The
// subsection is matched by name ignoring case and amounts accept a comma as
// decimal separator.
type AccountRenderingProcessor struct {
	dateLayout
	subsections SubsectionLookup
}

func NewAccountRenderingProcessor(subsections SubsectionLookup, layout string) *AccountRenderingProcessor {
	return &AccountRenderingProcessor{dateLayout: newDateLayout(layout), subsections: subsections}
}

func (p *AccountRenderingProcessor) RequiredHeaders() []string {
	return []string{
		HeaderSubseccional, HeaderReferencia, HeaderAnoUpper,
		HeaderPrazoEntrega, HeaderDataEntregaUpper,
		HeaderDataPagamentoUpper, HeaderValorPagoUpper, HeaderObservacaoUpper,
	}
}

func (p *AccountRenderingProcessor) Parse(row importer.Row) (AccountRenderingDraft, error) {
	d := AccountRenderingDraft{
		Subseccional:  clean(row, HeaderSubseccional),
		MesReferencia: clean(row, HeaderReferencia),
		Ano:           clean(row, HeaderAnoUpper),
		Observacao:    clean(row, HeaderObservacaoUpper),
	}

	dates := []struct {
		header string
		dest   **time.Time
	}{
		{HeaderPrazoEntrega, &d.DtPrevEntr},
		{HeaderDataEntregaUpper, &d.DtEntrega},
		{HeaderDataPagamentoUpper, &d.DtPagamento},
	}
	for _, dt := range dates {
		t, err := p.parseDate(row, dt.header)
		if err != nil {
			return AccountRenderingDraft{}, err
		}
		*dt.dest = t
	}

	valor, err := importer.ParseOptionalDecimal(row.Get(HeaderValorPagoUpper), importer.DecimalComma)
	if err != nil {
		return AccountRenderingDraft{}, fieldError(HeaderValorPagoUpper, err)
	}
	d.ValorPago = valor

	return d, nil
}

func (p *AccountRenderingProcessor) Validate(d AccountRenderingDraft) error {
	var v importer.Violations
	v.Require(d.Subseccional, required(HeaderSubseccional))
	v.Require(d.MesReferencia, required(HeaderReferencia))
	v.Require(d.Ano, required(HeaderAnoUpper))
	v.Check(d.DtPrevEntr != nil, required(HeaderPrazoEntrega))
	v.Check(!d.ValorPago.Valid || !d.ValorPago.Decimal.IsNegative(), HeaderValorPagoUpper+" must not be negative")
	return v.Err()
}

func (p *AccountRenderingProcessor) Convert(ctx context.Context, d AccountRenderingDraft, identity importer.Identity) (models.AccountRendering, error) {
	subsection, err := p.subsections.FindByNameIgnoreCase(ctx, d.Subseccional)
	if err != nil {
		return models.AccountRendering{}, lookupError("subseccional", d.Subseccional, err)
	}

	return models.AccountRendering{
		SubsectionID:  subsection.ID,
		MesReferencia: d.MesReferencia,
		Ano:           d.Ano,
		DtPrevEntr:    *d.DtPrevEntr,
		DtEntrega:     d.DtEntrega,
		DtPagamento:   d.DtPagamento,
		ValorPago:     d.ValorPago,
		Observacao:    d.Observacao,
		UserID:        identity.UserID,
		Status:        true,
	}, nil
}
