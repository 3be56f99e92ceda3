// Package processor holds one importer.Processor per record domain.
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oabpe-web/internal/config"
	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"
	"oabpe-web/internal/repository"
)

type DemonstrativoLookup interface {
	FindActiveByName(ctx context.Context, nome string) (*models.Demonstrativo, error)
}

type InstitutionLookup interface {
	FindActiveByName(ctx context.Context, nome string) (*models.Institution, error)
}

type DiscountTypeLookup interface {
	FindActiveByName(ctx context.Context, nome string) (*models.DiscountType, error)
}

type SubsectionLookup interface {
	FindByNameIgnoreCase(ctx context.Context, nome string) (*models.Subsection, error)
}

// dateLayout keeps the per-domain date layout and satisfies
// importer.DateLayouter for the embedding processor.
type dateLayout struct {
	layout string
}

func newDateLayout(layout string) dateLayout {
	if layout == "" {
		layout = config.DefaultDateLayout
	}
	return dateLayout{layout: layout}
}

func (d dateLayout) DateLayout() string {
	return d.layout
}

func (d dateLayout) parseDate(row importer.Row, header string) (*time.Time, error) {
	t, err := importer.ParseOptionalDate(row.Get(header), d.layout)
	if err != nil {
		return nil, fieldError(header, err)
	}
	return t, nil
}

func fieldError(header string, err error) error {
	return fmt.Errorf("%s: %w", header, err)
}

// lookupError turns a repository miss into importer.ErrReferenceNotFound so
// the row is reported as a broken reference.
func lookupError(entity, name string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %q", importer.ErrReferenceNotFound, entity, name)
	}
	return fmt.Errorf("lookup %s %q: %w", entity, name, err)
}

func required(header string) string {
	return header + " is required"
}

func clean(row importer.Row, header string) string {
	return strings.TrimSpace(row.Get(header))
}
