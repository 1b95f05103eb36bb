package main

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Generates sample import workbooks: one clean file, one with messy but
// recoverable values, and one that fails validation. Useful for manual
// testing of the import flow.
func main() {
	headers := []string{
		"Área", "Objetivo", "Iniciativa", "Progreso", "Estado",
		"Prioridad", "Fecha_Inicio", "Fecha_Fin", "Descripcion", "Responsable", "Estratégica",
	}

	cleanData := [][]interface{}{
		{"Ventas", "Aumentar ingresos 20%", "Lanzar campaña digital", 75, "en progreso", "alta", "01/01/2026", "30/06/2026", "Campaña en redes sociales", "Laura Gómez", "si"},
		{"Ventas", "Aumentar ingresos 20%", "Abrir canal mayorista", 30, "en progreso", "media", "15/02/2026", "31/12/2026", "", "Carlos Ruiz", "no"},
		{"Marketing", "Mejorar posicionamiento", "Rediseñar sitio web", 100, "completado", "alta", "01/01/2026", "15/03/2026", "Nuevo sitio corporativo", "Ana Torres", ""},
		{"Recursos Humanos", "Reducir rotación", "Programa de mentoría", 45, "en progreso", "media", "01/03/2026", "30/11/2026", "", "Pedro Díaz", "no"},
		{"Tecnología", "Modernizar plataforma", "Migrar a la nube", 60, "en progreso", "alta", "01/01/2026", "31/08/2026", "Migración por fases", "María León", "sí"},
	}

	// Messy values the validator should still recover: fractions, percent
	// signs, synonyms, serial dates and area abbreviations.
	messyData := [][]interface{}{
		{"RRHH", "Reducir rotación", "Encuesta de clima", "0.5", "activo", "urgente", 46023, 46203, "", "Pedro Díaz", "x"},
		{"ventas", "Aumentar ingresos 20%", "Programa de referidos", "85%", "ongoing", "1", "2026-01-15", "2026-09-30", "", "", ""},
		{"IT", "Modernizar plataforma", "Automatizar despliegues", "1", "done", "baja", "", "", "CI/CD", "María León", "no"},
		{"Marketing", "Mejorar posicionamiento", "Podcast corporativo", 20, "quién sabe", "", "15/04/2026", "15/12/2026", "", "Ana Torres", "tal vez"},
	}

	// Broken rows: bad progress, inverted dates, missing required fields.
	invalidData := [][]interface{}{
		{"Ventas", "Aumentar ingresos 20%", "Iniciativa válida", 50, "en progreso", "alta", "01/01/2026", "30/06/2026", "", "", ""},
		{"Finanzas", "", "Sin objetivo", 150, "en progreso", "alta", "", "", "", "", ""},
		{"Área Fantasma", "Objetivo X", "Iniciativa X", "no es número", "planificación", "media", "30/06/2026", "01/01/2026", "", "", ""},
	}

	files := []struct {
		name string
		data [][]interface{}
	}{
		{"import_valido.xlsx", cleanData},
		{"import_desordenado.xlsx", messyData},
		{"import_con_errores.xlsx", invalidData},
	}

	for _, file := range files {
		if err := writeWorkbook(file.name, headers, file.data); err != nil {
			fmt.Printf("Error creating %s: %v\n", file.name, err)
			return
		}
	}

	fmt.Println("\nDone. Upload the files through POST /api/v1/imports to exercise the pipeline.")
}

func writeWorkbook(name string, headers []string, data [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Iniciativas"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
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

	for rowIdx, rowData := range data {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "C", 30)
	f.SetColWidth(sheetName, "D", "F", 12)
	f.SetColWidth(sheetName, "G", "H", 14)
	f.SetColWidth(sheetName, "I", "I", 30)
	f.SetColWidth(sheetName, "J", "J", 20)
	f.SetColWidth(sheetName, "K", "K", 12)

	f.DeleteSheet("Sheet1")

	outputPath := filepath.Join("storage", "uploads", name)
	if err := f.SaveAs(outputPath); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s (%d rows)\n", outputPath, len(data))
	return nil
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}
