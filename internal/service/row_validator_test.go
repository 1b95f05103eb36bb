package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okr-dashboard/internal/models"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Área":           "area",
		"AREA":           "area",
		"  Objetivo  ":   "objetivo",
		"Fecha_Inicio":   "fecha_inicio",
		"Fecha Inicio":   "fecha_inicio",
		"FECHA-FIN":      "fechafin",
		"Estratégica":    "estrategica",
		"Es_Estratégica": "es_estrategica",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, NormalizeHeader(input), "input %q", input)
	}
}

func TestValidateProgress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{"percent sign", "50%", 50, false},
		{"plain integer", "75", 75, false},
		{"fraction scales to percent", "0.5", 50, false},
		{"one means one hundred", "1", 100, false},
		{"comma decimal", "75,5", 76, false},
		{"zero stays zero", "0", 0, false},
		{"over range clamps to 100", "150", 100, true},
		{"negative clamps to 0", "-10", 0, true},
		{"not a number", "mucho", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProgress(tt.input)
			assert.Equal(t, tt.expected, got)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, "progreso", err.Column)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestValidateStatus(t *testing.T) {
	status, warning := ValidateStatus("completado")
	assert.Equal(t, models.StatusCompleted, status)
	assert.Nil(t, warning)

	status, warning = ValidateStatus("EN PROGRESO")
	assert.Equal(t, models.StatusInProgress, status)
	assert.Nil(t, warning)

	status, warning = ValidateStatus("xyz")
	assert.Equal(t, models.StatusPlanning, status)
	require.NotNil(t, warning)
	assert.Contains(t, warning.Message, "xyz")

	status, warning = ValidateStatus("")
	assert.Equal(t, models.StatusPlanning, status)
	assert.Nil(t, warning)
}

func TestValidatePriority(t *testing.T) {
	priority, warning := ValidatePriority("urgente")
	assert.Equal(t, models.PriorityHigh, priority)
	assert.Nil(t, warning)

	priority, warning = ValidatePriority("2")
	assert.Equal(t, models.PriorityMedium, priority)
	assert.Nil(t, warning)

	priority, warning = ValidatePriority("desconocida")
	assert.Equal(t, models.PriorityMedium, priority)
	require.NotNil(t, warning)

	priority, warning = ValidatePriority("")
	assert.Equal(t, models.PriorityMedium, priority)
	assert.Nil(t, warning)
}

func TestValidateDate(t *testing.T) {
	date, err := ValidateDate("15/03/2025", colFechaInicio)
	assert.Nil(t, err)
	assert.Equal(t, "2025-03-15", date)

	date, err = ValidateDate("2025-03-15", colFechaInicio)
	assert.Nil(t, err)
	assert.Equal(t, "2025-03-15", date)

	// Excel serial: 45000 days past 1899-12-30.
	date, err = ValidateDate("45000", colFechaInicio)
	assert.Nil(t, err)
	assert.Equal(t, "2023-03-15", date)

	date, err = ValidateDate("", colFechaInicio)
	assert.Nil(t, err)
	assert.Equal(t, "", date)

	date, err = ValidateDate("not-a-date", colFechaFin)
	require.NotNil(t, err)
	assert.Equal(t, "", date)
	assert.Equal(t, "fecha_fin", err.Column)
}

func TestValidateDateRange(t *testing.T) {
	assert.Nil(t, ValidateDateRange("2025-01-01", "2025-06-30"))
	assert.Nil(t, ValidateDateRange("2025-01-01", "2025-01-01"))
	assert.Nil(t, ValidateDateRange("", "2025-06-30"))
	assert.Nil(t, ValidateDateRange("2025-01-01", ""))

	err := ValidateDateRange("2025-06-30", "2025-01-01")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "start date is after end date")
}

func TestValidateBoolean(t *testing.T) {
	truthy := []string{"true", "sí", "si", "yes", "1", "x", "VERDADERO"}
	for _, token := range truthy {
		value, warning := ValidateBoolean(token)
		assert.True(t, value, "token %q", token)
		assert.Nil(t, warning)
	}

	falsy := []string{"false", "no", "0", "-", "FALSO"}
	for _, token := range falsy {
		value, warning := ValidateBoolean(token)
		assert.False(t, value, "token %q", token)
		assert.Nil(t, warning)
	}

	value, warning := ValidateBoolean("quizás")
	assert.False(t, value)
	require.NotNil(t, warning)

	value, warning = ValidateBoolean("")
	assert.False(t, value)
	assert.Nil(t, warning)
}

func TestValidateArea(t *testing.T) {
	validAreas := []string{"Recursos Humanos", "Ventas", "Tecnología"}

	area, err := ValidateArea("Ventas", validAreas)
	assert.Nil(t, err)
	assert.Equal(t, "Ventas", area)

	area, err = ValidateArea("ventas", validAreas)
	assert.Nil(t, err)
	assert.Equal(t, "Ventas", area)

	// Synonym group resolution.
	area, err = ValidateArea("RRHH", validAreas)
	assert.Nil(t, err)
	assert.Equal(t, "Recursos Humanos", area)

	area, err = ValidateArea("IT", validAreas)
	assert.Nil(t, err)
	assert.Equal(t, "Tecnología", area)

	area, err = ValidateArea("Logística", validAreas)
	require.NotNil(t, err)
	assert.Equal(t, "Logística", area)

	_, err = ValidateArea("", validAreas)
	require.NotNil(t, err)

	// No configured areas accepts anything.
	area, err = ValidateArea("Lo Que Sea", nil)
	assert.Nil(t, err)
	assert.Equal(t, "Lo Que Sea", area)
}

func TestValidateRow(t *testing.T) {
	headers := []string{"Área", "Objetivo", "Iniciativa", "Progreso", "Estado", "Prioridad", "Fecha_Inicio", "Fecha_Fin", "Estratégica"}
	row := []string{"ventas", "Crecer ingresos", "Campaña digital", "0.75", "activo", "alta", "01/01/2026", "30/06/2026", "sí"}

	result := ValidateRow(row, headers, 2, ImportOptions{ValidAreas: []string{"Ventas"}})
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "Ventas", result.Data.Area)
	assert.Equal(t, 75, result.Data.Progreso)
	assert.Equal(t, models.StatusInProgress, result.Data.Estado)
	assert.Equal(t, models.PriorityHigh, result.Data.Prioridad)
	assert.Equal(t, "2026-01-01", result.Data.FechaInicio)
	assert.Equal(t, "2026-06-30", result.Data.FechaFin)
	assert.True(t, result.Data.Estrategica)
}

func TestValidateRowStampsRowNumber(t *testing.T) {
	headers := []string{"Objetivo", "Iniciativa", "Progreso"}
	row := []string{"", "Algo", "cincuenta"}

	result := ValidateRow(row, headers, 7, ImportOptions{})
	require.Len(t, result.Errors, 2)
	for _, err := range result.Errors {
		assert.Equal(t, 7, err.Row)
	}
}

func TestValidateRowDefaultsMissingColumns(t *testing.T) {
	headers := []string{"Objetivo", "Iniciativa", "Progreso"}
	row := []string{"Crecer ingresos", "Campaña digital", "40"}

	result := ValidateRow(row, headers, 2, ImportOptions{})
	assert.Empty(t, result.Errors)
	assert.Equal(t, models.StatusPlanning, result.Data.Estado)
	assert.Equal(t, models.PriorityMedium, result.Data.Prioridad)
	assert.False(t, result.Data.Estrategica)
}
