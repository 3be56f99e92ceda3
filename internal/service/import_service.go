package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"oabpe-web/internal/config"
	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"
	"oabpe-web/internal/processor"
	"oabpe-web/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	DomainBalancetes         = "balancetes"
	DomainTransparencias     = "transparencias"
	DomainBasesOrcamentarias = "bases-orcamentarias"
	DomainInstituicoes       = "instituicoes"
	DomainPagamentosCotas    = "pagamentos-cotas"
	DomainTiposDesconto      = "tipos-desconto"
	DomainSubseccionais      = "subseccionais"
	DomainPrestacoesContas   = "prestacoes-contas"
)

var (
	ErrUnknownDomain     = errors.New("unknown import domain")
	ErrPersistence       = errors.New("failed to save imported records")
	ErrStatusUnavailable = errors.New("import status store is not configured")
)

// DomainInfo describes an import domain and the headers its files carry.
type DomainInfo struct {
	Key             string   `json:"key"`
	RequiredHeaders []string `json:"required_headers"`
	OptionalHeaders []string `json:"optional_headers"`
}

// pipeline hides the draft and record types of a domain from the service.
// Records come back as models.Owned once persisted.
type pipeline interface {
	info(key string) DomainInfo
	run(ctx context.Context, log logrus.FieldLogger, filename string, src io.Reader, identity importer.Identity) (*importer.Result[models.Owned], error)
}

type domainPipeline[D any, R models.Owned] struct {
	proc importer.Processor[D, R]
	sink func(ctx context.Context, records []R) error
}

func (p *domainPipeline[D, R]) info(key string) DomainInfo {
	info := DomainInfo{Key: key, RequiredHeaders: p.proc.RequiredHeaders(), OptionalHeaders: []string{}}
	if o, ok := p.proc.(interface{ OptionalHeaders() []string }); ok {
		info.OptionalHeaders = o.OptionalHeaders()
	}
	return info
}

func (p *domainPipeline[D, R]) run(ctx context.Context, log logrus.FieldLogger, filename string, src io.Reader, identity importer.Identity) (*importer.Result[models.Owned], error) {
	result, err := importer.Run[D, R](ctx, log, filename, src, identity, p.proc)
	if err != nil {
		return nil, err
	}

	if err := p.sink(ctx, result.Records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	owned := &importer.Result[models.Owned]{
		Records:   make([]models.Owned, len(result.Records)),
		Failures:  result.Failures,
		TotalRows: result.TotalRows,
		BlankRows: result.BlankRows,
	}
	for i, r := range result.Records {
		owned.Records[i] = r
	}
	return owned, nil
}

// ImportService routes an uploaded file to the pipeline of its domain,
// persists the accepted records and keeps the summary of every import.
type ImportService struct {
	pipelines    map[string]pipeline
	statusRepo   *repository.ImportStatusRepository
	excelService *ExcelService
	reportPath   string
	log          *logrus.Logger
}

func NewImportService(
	db *sqlx.DB,
	statusRepo *repository.ImportStatusRepository,
	excelService *ExcelService,
	cfg *config.Config,
	log *logrus.Logger,
) (*ImportService, error) {
	pipelines, err := newPipelines(db, cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &ImportService{
		pipelines:    pipelines,
		statusRepo:   statusRepo,
		excelService: excelService,
		reportPath:   cfg.ReportPath,
		log:          log,
	}, nil
}

func newPipelines(db *sqlx.DB, cfg *config.Config) (map[string]pipeline, error) {
	balanceteRepo, err := repository.NewStatementRepository(db, models.StatementBalancete)
	if err != nil {
		return nil, err
	}
	transparenciaRepo, err := repository.NewStatementRepository(db, models.StatementTransparencia)
	if err != nil {
		return nil, err
	}
	demonstrativoRepo := repository.NewDemonstrativoRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	discountTypeRepo := repository.NewDiscountTypeRepository(db)
	subsectionRepo := repository.NewSubsectionRepository(db)

	return map[string]pipeline{
		DomainBalancetes: &domainPipeline[processor.StatementDraft, models.Statement]{
			proc: processor.NewStatementProcessor(models.StatementBalancete, demonstrativoRepo, cfg.DateLayoutFor(DomainBalancetes)),
			sink: balanceteRepo.SaveAll,
		},
		DomainTransparencias: &domainPipeline[processor.StatementDraft, models.Statement]{
			proc: processor.NewStatementProcessor(models.StatementTransparencia, demonstrativoRepo, cfg.DateLayoutFor(DomainTransparencias)),
			sink: transparenciaRepo.SaveAll,
		},
		DomainBasesOrcamentarias: &domainPipeline[processor.BudgetEntryDraft, models.BudgetEntry]{
			proc: processor.NewBudgetEntryProcessor(cfg.DateLayoutFor(DomainBasesOrcamentarias)),
			sink: repository.NewBudgetEntryRepository(db).SaveAll,
		},
		DomainInstituicoes: &domainPipeline[processor.NameDraft, models.Institution]{
			proc: processor.NewInstitutionProcessor(),
			sink: institutionRepo.SaveAll,
		},
		DomainPagamentosCotas: &domainPipeline[processor.QuotaPaymentDraft, models.QuotaPayment]{
			proc: processor.NewQuotaPaymentProcessor(institutionRepo, discountTypeRepo, cfg.DateLayoutFor(DomainPagamentosCotas)),
			sink: repository.NewQuotaPaymentRepository(db).SaveAll,
		},
		DomainTiposDesconto: &domainPipeline[processor.NameDraft, models.DiscountType]{
			proc: processor.NewDiscountTypeProcessor(),
			sink: discountTypeRepo.SaveAll,
		},
		DomainSubseccionais: &domainPipeline[processor.NameDraft, models.Subsection]{
			proc: processor.NewSubsectionProcessor(),
			sink: subsectionRepo.SaveAll,
		},
		DomainPrestacoesContas: &domainPipeline[processor.AccountRenderingDraft, models.AccountRendering]{
			proc: processor.NewAccountRenderingProcessor(subsectionRepo, cfg.DateLayoutFor(DomainPrestacoesContas)),
			sink: repository.NewAccountRenderingRepository(db).SaveAll,
		},
	}, nil
}

// Import runs the whole pipeline for one file. Row problems end up in the
// summary; only file-level failures (format, headers, persistence) return an
// error.
func (s *ImportService) Import(ctx context.Context, domain, filename string, src io.Reader, identity importer.Identity) (*models.ImportSummary, error) {
	p, ok := s.pipelines[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}

	importID := uuid.New().String()
	log := s.log.WithFields(logrus.Fields{
		"import_id": importID,
		"domain":    domain,
		"user_id":   identity.UserID,
	})

	result, err := p.run(ctx, log, filename, src, identity)
	if err != nil {
		log.WithError(err).Error("import rejected")
		return nil, err
	}

	summary := &models.ImportSummary{
		ImportID:      importID,
		Domain:        domain,
		Filename:      filename,
		UserID:        identity.UserID,
		TotalRows:     result.TotalRows,
		ImportedCount: result.ImportedCount(),
		BlankCount:    result.BlankRows,
		ErrorCount:    result.ErrorCount(),
		Errors:        make([]models.ImportRowError, 0, len(result.Failures)),
		ImportTime:    time.Now(),
	}
	for _, f := range result.Failures {
		summary.Errors = append(summary.Errors, models.ImportRowError{
			Line:   f.Line,
			Stage:  string(f.Stage),
			Error:  f.Reason,
			Values: f.Values,
		})
	}

	for ownerID, count := range countByOwner(result.Records) {
		log.WithFields(logrus.Fields{
			"owner_id": ownerID,
			"records":  count,
		}).Info("records saved")
	}

	if summary.ErrorCount > 0 && s.excelService != nil {
		reportName := fmt.Sprintf("import_errors_%s.xlsx", importID)
		if err := s.writeErrorReport(summary, reportName); err != nil {
			log.WithError(err).Warn("failed to generate error report")
		} else {
			summary.ErrorReportPath = reportName
		}
	}

	if s.statusRepo != nil {
		if err := s.statusRepo.SaveSummary(ctx, summary); err != nil {
			log.WithError(err).Warn("failed to store import summary")
		}
	}

	return summary, nil
}

func (s *ImportService) writeErrorReport(summary *models.ImportSummary, reportName string) error {
	if err := os.MkdirAll(s.reportPath, 0o755); err != nil {
		return err
	}
	return s.excelService.GenerateImportErrorReport(summary, filepath.Join(s.reportPath, reportName))
}

// Domains lists every supported domain in key order.
func (s *ImportService) Domains() []DomainInfo {
	domains := make([]DomainInfo, 0, len(s.pipelines))
	for key, p := range s.pipelines {
		domains = append(domains, p.info(key))
	}
	sort.Slice(domains, func(i, j int) bool {
		return domains[i].Key < domains[j].Key
	})
	return domains
}

func (s *ImportService) Domain(domain string) (DomainInfo, error) {
	p, ok := s.pipelines[domain]
	if !ok {
		return DomainInfo{}, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}
	return p.info(domain), nil
}

// GenerateTemplate writes the xlsx template of domain under the report path
// and returns its location.
func (s *ImportService) GenerateTemplate(domain string) (string, error) {
	info, err := s.Domain(domain)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.reportPath, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.reportPath, fmt.Sprintf("%s_import_template.xlsx", domain))
	if err := s.excelService.GenerateTemplate(domain, info.RequiredHeaders, info.OptionalHeaders, path); err != nil {
		return "", err
	}
	return path, nil
}

// ReportFile returns the location of a generated error report.
func (s *ImportService) ReportFile(filename string) string {
	return filepath.Join(s.reportPath, filename)
}

func (s *ImportService) Summary(ctx context.Context, importID string) (*models.ImportSummary, error) {
	if s.statusRepo == nil {
		return nil, ErrStatusUnavailable
	}
	return s.statusRepo.GetSummary(ctx, importID)
}

// CreateJob records a pending background import.
func (s *ImportService) CreateJob(ctx context.Context, domain, filename, filePath string, identity importer.Identity) (*models.ImportJob, error) {
	if s.statusRepo == nil {
		return nil, ErrStatusUnavailable
	}
	if _, ok := s.pipelines[domain]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}

	job := &models.ImportJob{
		ID:       uuid.New().String(),
		Domain:   domain,
		Filename: filename,
		FilePath: filePath,
		UserID:   identity.UserID,
		Status:   models.JobStatusPending,
	}
	if err := s.statusRepo.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	return job, nil
}

func (s *ImportService) Job(ctx context.Context, jobID string) (*models.ImportJob, error) {
	if s.statusRepo == nil {
		return nil, ErrStatusUnavailable
	}
	return s.statusRepo.GetJob(ctx, jobID)
}

func (s *ImportService) UpdateJob(ctx context.Context, jobID, status, importID, errMsg string) error {
	if s.statusRepo == nil {
		return ErrStatusUnavailable
	}
	return s.statusRepo.UpdateJobStatus(ctx, jobID, status, importID, errMsg)
}

func countByOwner(records []models.Owned) map[int]int {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.OwnerID()]++
	}
	return counts
}
