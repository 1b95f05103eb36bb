package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okr-dashboard/internal/models"
)

func TestValidateFileHappyPath(t *testing.T) {
	rows := [][]string{
		{"Objetivo", "Iniciativa", "Progreso", "Estado"},
		{"Grow revenue", "Launch campaign", "75%", "en progreso"},
		{"", "", "", ""},
	}

	result := ValidateFile(rows, ImportOptions{})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.ProcessedData, 1)
	assert.Equal(t, "Grow revenue", result.ProcessedData[0].Objetivo)
	assert.Equal(t, "Launch campaign", result.ProcessedData[0].Iniciativa)
	assert.Equal(t, 75, result.ProcessedData[0].Progreso)
	assert.Equal(t, models.StatusInProgress, result.ProcessedData[0].Estado)
}

func TestValidateFileTooFewRows(t *testing.T) {
	result := ValidateFile(nil, ImportOptions{})
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "header row and at least one data row")

	headerOnly := [][]string{{"Objetivo", "Iniciativa", "Progreso"}}
	result = ValidateFile(headerOnly, ImportOptions{})
	assert.False(t, result.IsValid)
	assert.Empty(t, result.ProcessedData)
}

func TestValidateFileTooManyRows(t *testing.T) {
	rows := [][]string{{"Objetivo", "Iniciativa", "Progreso"}}
	for i := 0; i < 6; i++ {
		rows = append(rows, []string{fmt.Sprintf("Obj %d", i), "Init", "50"})
	}

	result := ValidateFile(rows, ImportOptions{MaxRows: 5})
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "maximum of 5 rows")
	assert.Empty(t, result.ProcessedData)
}

func TestValidateFileMissingRequiredColumns(t *testing.T) {
	rows := [][]string{
		{"Objetivo", "Estado"},
		{"Grow revenue", "en progreso"},
	}

	result := ValidateFile(rows, ImportOptions{})
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)

	columns := []string{result.Errors[0].Column, result.Errors[1].Column}
	assert.Contains(t, columns, "iniciativa")
	assert.Contains(t, columns, "progreso")
	assert.Empty(t, result.ProcessedData)
}

func TestValidateFileRequireArea(t *testing.T) {
	rows := [][]string{
		{"Objetivo", "Iniciativa", "Progreso"},
		{"Grow revenue", "Launch campaign", "75"},
	}

	result := ValidateFile(rows, ImportOptions{RequireArea: true})
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "area", result.Errors[0].Column)
}

func TestValidateFilePartialSuccessDropsBrokenRows(t *testing.T) {
	rows := [][]string{
		{"Objetivo", "Iniciativa", "Progreso"},
		{"Grow revenue", "Launch campaign", "75"},
		{"Grow revenue", "", "50"}, // missing iniciativa, dropped
		{"Expand market", "Open new branch", "200"}, // out of range, clamped but kept
	}

	result := ValidateFile(rows, ImportOptions{})

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)

	// Row 3 is dropped; row 4 survives with its clamped value.
	require.Len(t, result.ProcessedData, 2)
	assert.Equal(t, "Launch campaign", result.ProcessedData[0].Iniciativa)
	assert.Equal(t, "Open new branch", result.ProcessedData[1].Iniciativa)
	assert.Equal(t, 100, result.ProcessedData[1].Progreso)
}

func TestValidateFileNoValidData(t *testing.T) {
	rows := [][]string{
		{"Objetivo", "Iniciativa", "Progreso"},
		{"", "", "75"},
		{"Grow revenue", "", "50"},
	}

	result := ValidateFile(rows, ImportOptions{})
	assert.False(t, result.IsValid)
	assert.Empty(t, result.ProcessedData)

	found := false
	for _, err := range result.Errors {
		if err.Message == "no valid data found in file" {
			found = true
		}
	}
	assert.True(t, found, "expected synthesized no-valid-data error")
}

func TestValidateFileWarningsDoNotAffectValidity(t *testing.T) {
	rows := [][]string{
		{"Objetivo", "Iniciativa", "Progreso", "Estado", "Prioridad"},
		{"Grow revenue", "Launch campaign", "75", "whatever", "sometime"},
	}

	result := ValidateFile(rows, ImportOptions{})
	assert.True(t, result.IsValid)
	assert.Len(t, result.Warnings, 2)
	require.Len(t, result.ProcessedData, 1)
	assert.Equal(t, models.StatusPlanning, result.ProcessedData[0].Estado)
	assert.Equal(t, models.PriorityMedium, result.ProcessedData[0].Prioridad)
}

func TestValidateFileIsIdempotent(t *testing.T) {
	rows := [][]string{
		{"Área", "Objetivo", "Iniciativa", "Progreso", "Estado"},
		{"RRHH", "Reducir rotación", "Mentoría", "0.4", "activo"},
		{"Ventas", "Crecer ingresos", "", "not-a-number", "done"},
	}
	opts := ImportOptions{ValidAreas: []string{"Recursos Humanos", "Ventas"}}

	first := ValidateFile(rows, opts)
	second := ValidateFile(rows, opts)
	assert.Equal(t, first, second)
}
