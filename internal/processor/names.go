package processor

import (
	"context"

	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"
)

const (
	HeaderInstituicao = "Instituicao"
	HeaderNome        = "Nome"
	HeaderSeccional   = "Seccional"
)

// NameDraft is the draft of the single-column reference tables.
type NameDraft struct {
	Nome string
}

// nameProcessor reads one name column; the embedding processor only builds
// the record.
type nameProcessor struct {
	header string
}

func (p nameProcessor) RequiredHeaders() []string {
	return []string{p.header}
}

func (p nameProcessor) Parse(row importer.Row) (NameDraft, error) {
	return NameDraft{Nome: clean(row, p.header)}, nil
}

func (p nameProcessor) Validate(d NameDraft) error {
	var v importer.Violations
	v.Require(d.Nome, required(p.header))
	return v.Err()
}

type InstitutionProcessor struct {
	nameProcessor
}

func NewInstitutionProcessor() *InstitutionProcessor {
	return &InstitutionProcessor{nameProcessor{header: HeaderInstituicao}}
}

func (p *InstitutionProcessor) Convert(_ context.Context, d NameDraft, identity importer.Identity) (models.Institution, error) {
	return models.Institution{Nome: d.Nome, UserID: identity.UserID, Status: true}, nil
}

type DiscountTypeProcessor struct {
	nameProcessor
}

func NewDiscountTypeProcessor() *DiscountTypeProcessor {
	return &DiscountTypeProcessor{nameProcessor{header: HeaderNome}}
}

func (p *DiscountTypeProcessor) Convert(_ context.Context, d NameDraft, identity importer.Identity) (models.DiscountType, error) {
	return models.DiscountType{Nome: d.Nome, UserID: identity.UserID, Status: true}, nil
}

type SubsectionProcessor struct {
	nameProcessor
}

func NewSubsectionProcessor() *SubsectionProcessor {
	return &SubsectionProcessor{nameProcessor{header: HeaderSeccional}}
}

func (p *SubsectionProcessor) Convert(_ context.Context, d NameDraft, identity importer.Identity) (models.Subsection, error) {
	return models.Subsection{Nome: d.Nome, UserID: identity.UserID, Status: true}, nil
}
