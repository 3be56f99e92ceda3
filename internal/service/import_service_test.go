package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oabpe-web/internal/config"
	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"
	"oabpe-web/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	svc        *ImportService
	mock       sqlmock.Sqlmock
	redis      *miniredis.Miniredis
	reportPath string
}

func newFixture(t *testing.T, withStatus bool) *fixture {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{mock: mock, reportPath: t.TempDir()}

	var statusRepo *repository.ImportStatusRepository
	if withStatus {
		f.redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
		t.Cleanup(func() { client.Close() })
		statusRepo = repository.NewImportStatusRepository(client, time.Hour)
	}

	cfg := &config.Config{ReportPath: f.reportPath}
	f.svc, err = NewImportService(sqlx.NewDb(sqlDB, "mysql"), statusRepo, NewExcelService(), cfg, log)
	if err != nil {
		t.Fatalf("NewImportService() error = %v", err)
	}
	return f
}

var admin = importer.Identity{UserID: 9, Username: "admin", Role: "admin"}

func TestImportPersistsAcceptedRowsAndReportsFailures(t *testing.T) {
	f := newFixture(t, true)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO instituicao").WillReturnResult(sqlmock.NewResult(1, 2))
	f.mock.ExpectCommit()

	csv := "Instituicao,Sigla\nCAAPE,C\n,X\n,\nESA,E\n"
	summary, err := f.svc.Import(context.Background(), DomainInstituicoes, "instituicoes.csv", strings.NewReader(csv), admin)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.TotalRows != 4 || summary.ImportedCount != 2 || summary.ErrorCount != 1 || summary.BlankCount != 1 {
		t.Errorf("summary counts = total %d imported %d errors %d blank %d",
			summary.TotalRows, summary.ImportedCount, summary.ErrorCount, summary.BlankCount)
	}
	if summary.ImportID == "" || summary.Domain != DomainInstituicoes || summary.UserID != 9 {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Line != 3 || summary.Errors[0].Stage != "validate" {
		t.Fatalf("Errors = %+v", summary.Errors)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	if summary.ErrorReportPath != "import_errors_"+summary.ImportID+".xlsx" {
		t.Fatalf("ErrorReportPath = %q", summary.ErrorReportPath)
	}
	report, err := excelize.OpenFile(f.svc.ReportFile(summary.ErrorReportPath))
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer report.Close()
	rows, err := report.GetRows(ErrorReportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	wantHeader := []string{"Row Number", "Stage", "Error Message", "Instituicao", "Sigla"}
	if strings.Join(rows[0], "|") != strings.Join(wantHeader, "|") {
		t.Errorf("report header = %q, want %q", rows[0], wantHeader)
	}
	if rows[1][0] != "3" || rows[1][1] != "validate" || rows[1][4] != "X" {
		t.Errorf("report row = %q", rows[1])
	}

	stored, err := f.svc.Summary(context.Background(), summary.ImportID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if stored.ImportedCount != 2 || len(stored.Errors) != 1 {
		t.Errorf("stored summary = %+v", stored)
	}
}

func TestImportWithoutFailuresSkipsReport(t *testing.T) {
	f := newFixture(t, false)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO tipo_desconto").WillReturnResult(sqlmock.NewResult(1, 1))
	f.mock.ExpectCommit()

	summary, err := f.svc.Import(context.Background(), DomainTiposDesconto, "tipos.csv", strings.NewReader("Nome\nRepasse\n"), admin)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if summary.ImportedCount != 1 || summary.ErrorReportPath != "" || summary.Errors == nil {
		t.Errorf("summary = %+v", summary)
	}

	entries, _ := os.ReadDir(f.reportPath)
	if len(entries) != 0 {
		t.Errorf("report dir has %d entries, want 0", len(entries))
	}
	if _, err := f.svc.Summary(context.Background(), summary.ImportID); !errors.Is(err, ErrStatusUnavailable) {
		t.Errorf("Summary() error = %v, want ErrStatusUnavailable", err)
	}
}

func TestImportFileLevelErrors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name     string
		domain   string
		filename string
		body     string
		want     error
	}{
		{"unknown domain", "contas", "x.csv", "a\n1\n", ErrUnknownDomain},
		{"unsupported format", DomainInstituicoes, "x.txt", "Instituicao\nCAAPE\n", importer.ErrUnsupportedFormat},
		{"missing headers", DomainSubseccionais, "x.csv", "Nome\nCaruaru\n", importer.ErrMissingHeaders},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Import(ctx, tt.domain, tt.filename, strings.NewReader(tt.body), admin)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Import() error = %v, want %v", err, tt.want)
			}
		})
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestImportPersistenceFailure(t *testing.T) {
	f := newFixture(t, false)
	boom := errors.New("deadlock found")
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO subseccional").WillReturnError(boom)
	f.mock.ExpectRollback()

	_, err := f.svc.Import(context.Background(), DomainSubseccionais, "s.csv", strings.NewReader("Seccional\nCaruaru\n"), admin)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, boom) {
		t.Fatalf("Import() error = %v, want ErrPersistence wrapping %v", err, boom)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestImportResolvesReferencesThroughRepositories(t *testing.T) {
	f := newFixture(t, false)
	f.mock.ExpectQuery("FROM subseccional").
		WithArgs("Caruaru").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "user_id", "status"}).AddRow(5, "Caruaru", 1, true))
	f.mock.ExpectQuery("FROM subseccional").
		WithArgs("Atlantida").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "user_id", "status"}))
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO prestacao_contas_subseccional").WillReturnResult(sqlmock.NewResult(1, 1))
	f.mock.ExpectCommit()

	csv := "SUBSECCIONAL,Referencia,ANO,PRAZO DE ENTREGA,DATA DE ENTREGA,DATA DE PAGAMENTO,VALOR PAGO,OBSERVAÇÃO\n" +
		"Caruaru,Janeiro,2024,2/10/2024,,,,\n" +
		"Atlantida,Janeiro,2024,2/10/2024,,,,\n"

	summary, err := f.svc.Import(context.Background(), DomainPrestacoesContas, "pc.csv", strings.NewReader(csv), admin)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if summary.ImportedCount != 1 || summary.ErrorCount != 1 || summary.Errors[0].Stage != "convert" {
		t.Errorf("summary = %+v", summary)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDomains(t *testing.T) {
	f := newFixture(t, false)

	domains := f.svc.Domains()
	if len(domains) != 8 {
		t.Fatalf("len(Domains()) = %d, want 8", len(domains))
	}
	for i := 1; i < len(domains); i++ {
		if domains[i-1].Key >= domains[i].Key {
			t.Errorf("Domains() not sorted at %d: %q >= %q", i, domains[i-1].Key, domains[i].Key)
		}
	}

	info, err := f.svc.Domain(DomainPagamentosCotas)
	if err != nil {
		t.Fatalf("Domain() error = %v", err)
	}
	if len(info.RequiredHeaders) != 6 || len(info.OptionalHeaders) != 4 {
		t.Errorf("Domain(%s) = %+v", DomainPagamentosCotas, info)
	}

	info, _ = f.svc.Domain(DomainInstituicoes)
	if info.OptionalHeaders == nil || len(info.OptionalHeaders) != 0 {
		t.Errorf("OptionalHeaders = %#v, want empty slice", info.OptionalHeaders)
	}

	if _, err := f.svc.Domain("nope"); !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("Domain(nope) error = %v, want ErrUnknownDomain", err)
	}
}

func TestGeneratedTemplateImportsCleanly(t *testing.T) {
	f := newFixture(t, false)

	path, err := f.svc.GenerateTemplate(DomainBalancetes)
	if err != nil {
		t.Fatalf("GenerateTemplate() error = %v", err)
	}
	if filepath.Base(path) != "balancetes_import_template.xlsx" {
		t.Errorf("template path = %q", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	summary, err := f.svc.Import(context.Background(), DomainBalancetes, filepath.Base(path), file, admin)
	if err != nil {
		t.Fatalf("Import(template) error = %v", err)
	}
	if summary.TotalRows != 0 || summary.ErrorCount != 0 {
		t.Errorf("summary = %+v, want an empty import", summary)
	}
}

func TestJobLifecycle(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, DomainBalancetes, "b.xlsx", "/tmp/b.xlsx", admin)
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if job.ID == "" || job.Status != models.JobStatusPending || job.UserID != 9 {
		t.Errorf("job = %+v", job)
	}

	if err := f.svc.UpdateJob(ctx, job.ID, models.JobStatusCompleted, "imp-1", ""); err != nil {
		t.Fatalf("UpdateJob() error = %v", err)
	}
	got, err := f.svc.Job(ctx, job.ID)
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if got.Status != models.JobStatusCompleted || got.ImportID != "imp-1" {
		t.Errorf("job = %+v", got)
	}

	if _, err := f.svc.CreateJob(ctx, "nope", "b.xlsx", "/tmp/b.xlsx", admin); !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("CreateJob(nope) error = %v, want ErrUnknownDomain", err)
	}
	if _, err := f.svc.Job(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Job(missing) error = %v, want ErrNotFound", err)
	}
}
