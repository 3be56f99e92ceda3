package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"oabpe-web/internal/config"
	"oabpe-web/internal/processor"
	"oabpe-web/internal/service"
	"oabpe-web/internal/utils"

	"github.com/xuri/excelize/v2"
)

type sample struct {
	domain  string
	headers []string
	rows    [][]interface{}
}

func samples() []sample {
	statementHeaders := []string{
		processor.HeaderDemonstrativo, processor.HeaderReferencia, processor.HeaderAno,
		processor.HeaderPeriodicidade, processor.HeaderPrevisaoEntrega, processor.HeaderDataEntrega,
	}

	return []sample{
		{service.DomainBalancetes, statementHeaders, [][]interface{}{
			{"Balancete Mensal", "Janeiro", "2024", "Mensal", date(2024, 2, 10), date(2024, 2, 8)},
			{"Balancete Mensal", "Fevereiro", "2024", "Mensal", date(2024, 3, 10), date(2024, 3, 15)},
			{"Balancete Mensal", "Março", "2024", "Mensal", date(2024, 4, 10), ""},
			// Unknown demonstrativo, reported as a row error
			{"Balancete Anual", "2023", "2024", "Anual", date(2024, 3, 31), ""},
		}},
		{service.DomainTransparencias, statementHeaders, [][]interface{}{
			{"Portal da Transparência", "1º Trimestre", "2024", "Trimestral", date(2024, 4, 30), date(2024, 4, 29)},
			{"Portal da Transparência", "2º Trimestre", "2024", "Trimestral", date(2024, 7, 31), ""},
		}},
		{service.DomainBasesOrcamentarias, []string{
			processor.HeaderLancamento, processor.HeaderDataLancamento, processor.HeaderValor, processor.HeaderAno,
		}, [][]interface{}{
			{"Receita de anuidades", date(2024, 1, 15), "1,250,000.00", "2024"},
			{"Despesas administrativas", date(2024, 1, 20), "(320,500.75)", "2024"},
			{"Custas processuais", date(2024, 2, 1), "abc", "2024"},
		}},
		{service.DomainInstituicoes, []string{processor.HeaderInstituicao}, [][]interface{}{
			{"CAAPE"}, {"ESA-PE"}, {"FIDA"},
		}},
		{service.DomainPagamentosCotas, []string{
			processor.HeaderInstituicaoAcentuada, processor.HeaderReferencia, processor.HeaderAno, processor.HeaderPrazo,
			processor.HeaderValorDuodecimo, processor.HeaderValorDesconto, processor.HeaderTipoDesconto,
			processor.HeaderValorPago, processor.HeaderDataPagamento, processor.HeaderObservacao,
		}, [][]interface{}{
			{"CAAPE", "Janeiro", "2024", date(2024, 1, 10), "R$ 45.000,00", "1.500,00", "Repasse", "43.500,00", date(2024, 1, 9), ""},
			{"ESA-PE", "Janeiro", "2024", date(2024, 1, 10), "12.000,00", "0", "", "", "", "Aguardando"},
			{"FIDA", "Janeiro", "2024", date(2024, 1, 10), "8.000,00", "200,00", "", "", "", "Sem tipo de desconto"},
		}},
		{service.DomainTiposDesconto, []string{processor.HeaderNome}, [][]interface{}{
			{"Repasse"}, {"Compensação"},
		}},
		{service.DomainSubseccionais, []string{processor.HeaderSeccional}, [][]interface{}{
			{"Caruaru"}, {"Petrolina"}, {"Garanhuns"},
		}},
		{service.DomainPrestacoesContas, []string{
			processor.HeaderSubseccional, processor.HeaderReferencia, processor.HeaderAnoUpper,
			processor.HeaderPrazoEntrega, processor.HeaderDataEntregaUpper, processor.HeaderDataPagamentoUpper,
			processor.HeaderValorPagoUpper, processor.HeaderObservacaoUpper,
		}, [][]interface{}{
			{"CARUARU", "Janeiro", "2024", date(2024, 2, 10), date(2024, 2, 9), date(2024, 2, 20), "3.500,25", ""},
			{"Petrolina", "Janeiro", "2024", date(2024, 2, 10), "", "", "", "Pendente"},
		}},
	}
}

func main() {
	outDir := flag.String("out", "./storage/samples", "output directory")
	tokenUser := flag.Int("token-user", 0, "also print a bearer token for this user id")
	flag.Parse()

	log := utils.GetLogger()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}

	for _, s := range samples() {
		xlsxPath := filepath.Join(*outDir, s.domain+".xlsx")
		if err := writeXLSX(s, xlsxPath); err != nil {
			log.Fatalf("Failed to write %s: %v", xlsxPath, err)
		}
		csvPath := filepath.Join(*outDir, s.domain+".csv")
		if err := writeCSV(s, csvPath); err != nil {
			log.Fatalf("Failed to write %s: %v", csvPath, err)
		}
		fmt.Printf("%-22s %s, %s (%d rows)\n", s.domain, xlsxPath, csvPath, len(s.rows))
	}

	if *tokenUser > 0 {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		token, err := utils.GenerateAccessToken(*tokenUser, "samples", "admin", cfg.JWTSecret, cfg.JWTAccessExpire)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Printf("\ncurl -H 'Authorization: Bearer %s' -F file=@%s http://localhost:%s/api/v1/imports/%s\n",
			token, filepath.Join(*outDir, service.DomainInstituicoes+".csv"), cfg.AppPort, service.DomainInstituicoes)
	}
}

// writeXLSX stores dates as real date cells so the reader's date handling is exercised.
func writeXLSX(s sample, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := s.domain
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, header := range s.headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(s.headers)-1)), headerStyle)

	dateStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 14})
	for rowIdx, rowData := range s.rows {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
			if _, ok := value.(time.Time); ok {
				f.SetCellStyle(sheetName, cell, cell, dateStyle)
			}
		}
	}

	return f.SaveAs(path)
}

func writeCSV(s sample, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(s.headers); err != nil {
		return err
	}
	for _, rowData := range s.rows {
		record := make([]string, len(rowData))
		for i, value := range rowData {
			switch v := value.(type) {
			case time.Time:
				record[i] = v.Format(config.DefaultDateLayout)
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
