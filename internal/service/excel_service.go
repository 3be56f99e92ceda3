package service

import (
	"fmt"
	"sort"

	"oabpe-web/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	ErrorReportSheet  = "Import Errors"
	InstructionsSheet = "Instructions"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// GenerateImportErrorReport creates an Excel report with the rejected rows of an import
func (s *ExcelService) GenerateImportErrorReport(summary *models.ImportSummary, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := ErrorReportSheet
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Raw columns follow the fixed ones, in name order
	valueColumns := reportValueColumns(summary.Errors)
	headers := append([]string{"Row Number", "Stage", "Error Message"}, valueColumns...)

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	lastColumn := getColumnName(len(headers) - 1)
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", lastColumn), headerStyle)

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFFFCC"}, Pattern: 1},
	})

	for rowIdx, rowErr := range summary.Errors {
		row := rowIdx + 2
		values := []interface{}{rowErr.Line, rowErr.Stage, rowErr.Error}
		for _, column := range valueColumns {
			values = append(values, rowErr.Values[column])
		}

		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastColumn, row), errorStyle)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 60)
	if len(valueColumns) > 0 {
		f.SetColWidth(sheetName, "D", lastColumn, 20)
	}

	// Add summary section
	summaryStartRow := len(summary.Errors) + 4
	summaryRows := [][]interface{}{
		{"Import Summary"},
		{"Import ID", summary.ImportID},
		{"Domain", summary.Domain},
		{"File", summary.Filename},
		{"Total Rows", summary.TotalRows},
		{"Imported", summary.ImportedCount},
		{"Blank Rows", summary.BlankCount},
		{"Errors", summary.ErrorCount},
		{"Import Time", summary.ImportTime.Format("2006-01-02 15:04:05")},
	}
	for i, values := range summaryRows {
		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), summaryStartRow+i)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryStartRow), fmt.Sprintf("A%d", summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateTemplate creates an import template for a domain. The header row is
// the only row of the first sheet so the template imports cleanly once
// filled; instructions live on a second sheet.
func (s *ExcelService) GenerateTemplate(domain string, required, optional []string, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := domain
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headers := append(append([]string{}, required...), optional...)
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
		f.SetColWidth(sheetName, getColumnName(i), getColumnName(i), 20)
	}

	if len(headers) > 0 {
		requiredStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		})
		optionalStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Italic: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
		})
		if len(required) > 0 {
			f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(required)-1)), requiredStyle)
		}
		if len(optional) > 0 {
			f.SetCellStyle(sheetName, fmt.Sprintf("%s1", getColumnName(len(required))),
				fmt.Sprintf("%s1", getColumnName(len(headers)-1)), optionalStyle)
		}
	}

	if _, err := f.NewSheet(InstructionsSheet); err != nil {
		return err
	}
	instructions := []string{
		"Instructions:",
		"1. Fill data starting from row 2 of the first sheet.",
		"2. Do not rename or remove the header row. Columns may be reordered.",
		"3. Dates use the M/D/YYYY format (e.g. 1/31/2024) unless configured otherwise.",
		"4. Amounts may carry an R$ prefix and thousands separators.",
		"5. Bold columns are required; italic columns are optional.",
		"",
		"Required: " + joinHeaders(required),
		"Optional: " + joinHeaders(optional),
	}
	for i, instruction := range instructions {
		f.SetCellValue(InstructionsSheet, fmt.Sprintf("A%d", i+1), instruction)
	}
	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(InstructionsSheet, "A1", "A1", instructionStyle)
	f.SetColWidth(InstructionsSheet, "A", "A", 90)

	f.SetActiveSheet(0)

	return f.SaveAs(outputPath)
}

func reportValueColumns(errors []models.ImportRowError) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, e := range errors {
		for column := range e.Values {
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

func joinHeaders(headers []string) string {
	if len(headers) == 0 {
		return "-"
	}
	out := headers[0]
	for _, h := range headers[1:] {
		out += ", " + h
	}
	return out
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
