package processor

import (
	"context"
	"time"

	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"

	"github.com/shopspring/decimal"
)

const (
	HeaderInstituicaoAcentuada = "Instituição"
	HeaderPrazo                = "Prazo"
	HeaderValorDuodecimo       = "Valor Duodecimo"
	HeaderValorDesconto        = "Valor Desconto"
	HeaderTipoDesconto         = "Tipo Desconto"
	HeaderValorPago            = "Valor Pago"
	HeaderDataPagamento        = "Data de pagamento"
	HeaderObservacao           = "Observação"
)

type QuotaPaymentDraft struct {
	Instituicao    string
	MesReferencia  string
	Ano            string
	DtPrevEntr     *time.Time
	ValorDuodecimo decimal.NullDecimal
	ValorDesconto  decimal.NullDecimal
	TipoDesconto   string
	ValorPago      decimal.NullDecimal
	DtPagamento    *time.Time
	Observacao     string
}

// QuotaPaymentProcessor imports duodécimo payments. Amounts accept a comma
// as decimal separator. The institution is resolved by name and the discount
// type, when given, by its active name.
type QuotaPaymentProcessor struct {
	dateLayout
	institutions  InstitutionLookup
	discountTypes DiscountTypeLookup
}

func NewQuotaPaymentProcessor(institutions InstitutionLookup, discountTypes DiscountTypeLookup, layout string) *QuotaPaymentProcessor {
	return &QuotaPaymentProcessor{
		dateLayout:    newDateLayout(layout),
		institutions:  institutions,
		discountTypes: discountTypes,
	}
}

func (p *QuotaPaymentProcessor) RequiredHeaders() []string {
	return []string{
		HeaderInstituicaoAcentuada, HeaderReferencia, HeaderAno, HeaderPrazo,
		HeaderValorDuodecimo, HeaderValorDesconto,
	}
}

func (p *QuotaPaymentProcessor) OptionalHeaders() []string {
	return []string{HeaderTipoDesconto, HeaderValorPago, HeaderDataPagamento, HeaderObservacao}
}

func (p *QuotaPaymentProcessor) Parse(row importer.Row) (QuotaPaymentDraft, error) {
	d := QuotaPaymentDraft{
		Instituicao:   clean(row, HeaderInstituicaoAcentuada),
		MesReferencia: clean(row, HeaderReferencia),
		Ano:           clean(row, HeaderAno),
		TipoDesconto:  clean(row, HeaderTipoDesconto),
		Observacao:    clean(row, HeaderObservacao),
	}

	var err error
	if d.DtPrevEntr, err = p.parseDate(row, HeaderPrazo); err != nil {
		return QuotaPaymentDraft{}, err
	}
	if d.DtPagamento, err = p.parseDate(row, HeaderDataPagamento); err != nil {
		return QuotaPaymentDraft{}, err
	}

	amounts := []struct {
		header string
		dest   *decimal.NullDecimal
	}{
		{HeaderValorDuodecimo, &d.ValorDuodecimo},
		{HeaderValorDesconto, &d.ValorDesconto},
		{HeaderValorPago, &d.ValorPago},
	}
	for _, a := range amounts {
		if *a.dest, err = importer.ParseOptionalDecimal(row.Get(a.header), importer.DecimalComma); err != nil {
			return QuotaPaymentDraft{}, fieldError(a.header, err)
		}
	}

	return d, nil
}

func (p *QuotaPaymentProcessor) Validate(d QuotaPaymentDraft) error {
	var v importer.Violations
	v.Require(d.Instituicao, required(HeaderInstituicaoAcentuada))
	v.Require(d.MesReferencia, required(HeaderReferencia))
	v.Require(d.Ano, required(HeaderAno))
	v.Check(d.DtPrevEntr != nil, required(HeaderPrazo))
	v.Check(d.ValorDuodecimo.Valid, required(HeaderValorDuodecimo))
	v.Check(!d.ValorDuodecimo.Valid || !d.ValorDuodecimo.Decimal.IsNegative(), HeaderValorDuodecimo+" must not be negative")
	v.Check(!d.ValorDesconto.Valid || !d.ValorDesconto.Decimal.IsNegative(), HeaderValorDesconto+" must not be negative")
	v.Check(!d.ValorDesconto.Valid || !d.ValorDesconto.Decimal.IsPositive() || d.TipoDesconto != "",
		HeaderTipoDesconto+" is required when "+HeaderValorDesconto+" is set")
	return v.Err()
}

func (p *QuotaPaymentProcessor) Convert(ctx context.Context, d QuotaPaymentDraft, identity importer.Identity) (models.QuotaPayment, error) {
	institution, err := p.institutions.FindActiveByName(ctx, d.Instituicao)
	if err != nil {
		return models.QuotaPayment{}, lookupError("instituição", d.Instituicao, err)
	}

	var discountTypeID *int64
	if d.TipoDesconto != "" {
		discountType, err := p.discountTypes.FindActiveByName(ctx, d.TipoDesconto)
		if err != nil {
			return models.QuotaPayment{}, lookupError("tipo de desconto", d.TipoDesconto, err)
		}
		discountTypeID = &discountType.ID
	}

	return models.QuotaPayment{
		InstitutionID:  institution.ID,
		MesReferencia:  d.MesReferencia,
		Ano:            d.Ano,
		DtPrevEntr:     *d.DtPrevEntr,
		ValorDuodecimo: d.ValorDuodecimo.Decimal,
		ValorDesconto:  d.ValorDesconto.Decimal,
		DiscountTypeID: discountTypeID,
		ValorPago:      d.ValorPago,
		DtPagamento:    d.DtPagamento,
		Observacao:     d.Observacao,
		UserID:         identity.UserID,
		Status:         true,
	}, nil
}
