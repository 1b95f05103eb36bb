package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"okr-dashboard/internal/models"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ParseImportFile reads the first sheet of an Excel workbook into a raw
// cell grid for the import validator. Cell typing and coercion are the
// validator's job; this only does workbook I/O.
func (s *ExcelService) ParseImportFile(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// ExportInitiatives writes a tenant's initiatives to an Excel file.
func (s *ExcelService) ExportInitiatives(initiatives []models.Initiative, areaNames map[int]string, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Iniciativas"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		"Área", "Objetivo", "Iniciativa", "Progreso", "Estado", "Prioridad",
		"Fecha_Inicio", "Fecha_Fin", "Descripcion", "Responsable", "Estratégica", "Peso",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	dateOrEmpty := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for rowIdx, initiative := range initiatives {
		row := rowIdx + 2

		areaName := ""
		if initiative.AreaID != nil {
			areaName = areaNames[*initiative.AreaID]
		}

		strategicStr := "No"
		if initiative.IsStrategic {
			strategicStr = "Sí"
		}

		values := []interface{}{
			areaName,
			initiative.ObjectiveTitle,
			initiative.Title,
			fmt.Sprintf("%d%%", initiative.Progress),
			initiative.Status,
			initiative.Priority,
			dateOrEmpty(initiative.StartDate),
			dateOrEmpty(initiative.TargetDate),
			initiative.Description,
			initiative.Owner,
			strategicStr,
			initiative.WeightFactor,
		}

		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	columnWidths := []float64{20, 35, 35, 12, 15, 12, 15, 15, 40, 20, 12, 10}
	for i, width := range columnWidths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateImportTemplate creates the workbook users fill in for bulk
// import, with sample rows and instructions.
func (s *ExcelService) GenerateImportTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Iniciativas"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		"Área", "Objetivo", "Iniciativa", "Progreso", "Estado", "Prioridad",
		"Fecha_Inicio", "Fecha_Fin", "Descripcion", "Responsable",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	sampleData := [][]interface{}{
		{"Ventas", "Aumentar ingresos recurrentes", "Lanzar campaña Q3", "75%", "en progreso", "alta", "01/07/2025", "30/09/2025", "Campaña digital multicanal", "María López"},
		{"RRHH", "Reducir rotación de personal", "Programa de mentoría", "0.4", "en proceso", "media", "15/02/2025", "15/12/2025", "", "Carlos Ruiz"},
		{"TI", "Modernizar plataforma interna", "Migrar a la nube", "20", "planificación", "alta", "2025-03-01", "2025-11-30", "Fase 1: servicios core", "Ana Torres"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	columnWidths := []float64{15, 35, 35, 12, 15, 12, 15, 15, 40, 20}
	for i, width := range columnWidths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instrucciones:",
		"1. Área: nombre del área (debe existir en la organización)",
		"2. Objetivo: objetivo al que pertenece la iniciativa (obligatorio)",
		"3. Iniciativa: nombre de la iniciativa (obligatorio)",
		"4. Progreso: porcentaje 0-100, acepta '75%' o decimales como 0.75 (obligatorio)",
		"5. Estado: planificación / en progreso / completado / en pausa",
		"6. Prioridad: alta / media / baja",
		"7. Fecha_Inicio y Fecha_Fin: dd/mm/aaaa o aaaa-mm-dd",
		"8. Descripcion y Responsable: texto libre (opcional)",
		"",
		"Nota: no modifique la fila de encabezados. Complete los datos desde la fila 2.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", instructionsStartRow), fmt.Sprintf("A%d", instructionsStartRow), instructionStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateImportErrorReport creates an Excel report listing the errors and
// warnings from a validation run, plus a summary block.
func (s *ExcelService) GenerateImportErrorReport(result models.ValidationResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Errores de Importación"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"Fila", "Columna", "Severidad", "Mensaje", "Valor"}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	row := 2
	writeRow := func(rowNum int, column, severity, message, value string) {
		values := []interface{}{rowNum, column, severity, message, value}
		for colIdx, v := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	for _, e := range result.Errors {
		writeRow(e.Row, e.Column, "error", e.Message, e.Value)
	}
	for _, w := range result.Warnings {
		writeRow(w.Row, w.Column, "advertencia", w.Message, w.Suggestion)
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 50)
	f.SetColWidth(sheetName, "E", "E", 25)

	summaryStartRow := row + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow), "Resumen de Importación")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+1), "Filas válidas:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+1), len(result.ProcessedData))
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+2), "Errores:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+2), len(result.Errors))
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+3), "Advertencias:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+3), len(result.Warnings))

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryStartRow), fmt.Sprintf("A%d", summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
