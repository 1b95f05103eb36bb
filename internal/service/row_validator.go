package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"okr-dashboard/internal/models"
)

// Known import columns, keyed by normalized header name.
const (
	colArea        = "area"
	colObjetivo    = "objetivo"
	colIniciativa  = "iniciativa"
	colProgreso    = "progreso"
	colEstado      = "estado"
	colPrioridad   = "prioridad"
	colFechaInicio = "fecha_inicio"
	colFechaFin    = "fecha_fin"
	colDescripcion = "descripcion"
	colResponsable = "responsable"
	colEstrategica = "estrategica"
)

// accentReplacer strips the accented characters that show up in the Spanish
// header vocabulary. The recognized set is small and closed, so a fixed
// table beats pulling in a normalization library.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "ä", "a", "â", "a",
	"é", "e", "è", "e", "ë", "e", "ê", "e",
	"í", "i", "ì", "i", "ï", "i", "î", "i",
	"ó", "o", "ò", "o", "ö", "o", "ô", "o",
	"ú", "u", "ù", "u", "ü", "u", "û", "u",
	"ñ", "n",
)

// statusSynonyms maps each canonical status to the spellings accepted on
// import. Matching is case-insensitive; accented variants are listed
// explicitly.
var statusSynonyms = map[string][]string{
	models.StatusPlanning: {
		"planning", "planificacion", "planificación", "planeacion", "planeación",
		"plan", "por iniciar", "not started", "pendiente", "nuevo",
	},
	models.StatusInProgress: {
		"in_progress", "in progress", "en progreso", "en proceso", "en curso",
		"activo", "activa", "active", "ongoing", "avanzando",
	},
	models.StatusCompleted: {
		"completed", "completado", "completada", "complete", "finalizado",
		"finalizada", "terminado", "terminada", "done", "hecho", "cerrado",
	},
	models.StatusOnHold: {
		"on_hold", "on hold", "en pausa", "pausado", "pausada", "detenido",
		"detenida", "suspendido", "suspendida", "bloqueado", "blocked",
	},
}

var prioritySynonyms = map[string][]string{
	models.PriorityHigh:   {"high", "alta", "alto", "urgente", "critica", "crítica", "critical", "1"},
	models.PriorityMedium: {"medium", "media", "medio", "normal", "moderada", "2"},
	models.PriorityLow:    {"low", "baja", "bajo", "menor", "3"},
}

var (
	trueTokens  = []string{"true", "verdadero", "yes", "si", "sí", "y", "s", "1", "x", "✓"}
	falseTokens = []string{"false", "falso", "no", "n", "0", "✗", "-"}
)

// areaSynonyms groups spellings commonly seen in exported spreadsheets.
// Both the cell value and the tenant's configured area names are resolved
// through the same groups, so "RRHH" matches an area named "Recursos Humanos".
var areaSynonyms = [][]string{
	{"rrhh", "rr.hh.", "rr hh", "recursos humanos", "hr", "human resources", "people", "talento humano"},
	{"ti", "it", "tecnologia", "sistemas", "technology", "tech"},
	{"finanzas", "finance", "financiero", "contabilidad", "accounting"},
	{"ventas", "sales", "comercial"},
	{"marketing", "mercadeo", "mkt"},
	{"operaciones", "operations", "ops"},
}

// dateFormats is tried in order; the first successful parse wins.
var dateFormats = []string{
	"02/01/2006", // dd/MM/yyyy
	"02-01-2006", // dd-MM-yyyy
	"2006-01-02", // yyyy-MM-dd
	"02/01/06",   // dd/MM/yy
	"01/02/2006", // MM/dd/yyyy
	"2006/01/02", // yyyy/MM/dd
}

// fallbackDateFormats catches stragglers after the fixed list fails.
var fallbackDateFormats = []string{
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// RowResult is the outcome of validating a single spreadsheet row.
type RowResult struct {
	Data     models.CanonicalRow
	Errors   []models.ValidationError
	Warnings []models.ValidationWarning
}

// NormalizeHeader reduces a header cell to its canonical lookup key:
// lowercased, accents stripped, whitespace collapsed to underscores, and
// any remaining non-alphanumerics removed. "Área", "area" and "ÁREA " all
// map to "area".
func NormalizeHeader(header string) string {
	h := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(header)))

	var b strings.Builder
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ValidateProgress coerces a progress cell into an integer in [0,100].
// Values in (0,1] are treated as spreadsheet fractions and scaled to
// percentages. Out-of-range values produce an error but the returned value
// is still clamped so downstream processing can proceed.
func ValidateProgress(value string) (int, *models.ValidationError) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, &models.ValidationError{Column: colProgreso, Message: "missing progress value"}
	}

	cleaned := strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &models.ValidationError{
			Column:  colProgreso,
			Message: "progress is not a number",
			Value:   raw,
		}
	}

	// Spreadsheets often export percentages as decimals (0.75 for 75%).
	if v > 0 && v <= 1 {
		v *= 100
	}

	rounded := int(math.Round(v))
	if rounded < 0 {
		return 0, &models.ValidationError{
			Column:  colProgreso,
			Message: "progress out of range (0-100)",
			Value:   raw,
		}
	}
	if rounded > 100 {
		return 100, &models.ValidationError{
			Column:  colProgreso,
			Message: "progress out of range (0-100)",
			Value:   raw,
		}
	}
	return rounded, nil
}

// ValidateStatus resolves a status cell to one of the four canonical
// statuses. Unrecognized values default to planning with a warning; this
// never produces an error.
func ValidateStatus(value string) (string, *models.ValidationWarning) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return models.StatusPlanning, nil
	}

	for _, status := range []string{models.StatusPlanning, models.StatusInProgress, models.StatusCompleted, models.StatusOnHold} {
		for _, synonym := range statusSynonyms[status] {
			if raw == synonym {
				return status, nil
			}
		}
	}

	return models.StatusPlanning, &models.ValidationWarning{
		Column:     colEstado,
		Message:    fmt.Sprintf("unrecognized status %q", strings.TrimSpace(value)),
		Suggestion: "defaulted to planning",
	}
}

// ValidatePriority resolves a priority cell to high, medium or low,
// defaulting to medium with a warning when unrecognized.
func ValidatePriority(value string) (string, *models.ValidationWarning) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return models.PriorityMedium, nil
	}

	for _, priority := range []string{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if raw == priority {
			return priority, nil
		}
		for _, synonym := range prioritySynonyms[priority] {
			if raw == synonym {
				return priority, nil
			}
		}
	}

	return models.PriorityMedium, &models.ValidationWarning{
		Column:     colPrioridad,
		Message:    fmt.Sprintf("unrecognized priority %q", strings.TrimSpace(value)),
		Suggestion: "defaulted to medium",
	}
}

// ValidateDate parses a date cell into yyyy-MM-dd. Excel serial numbers are
// accepted alongside the fixed format list. Empty cells are valid (dates
// are optional); unparseable non-empty cells produce an error.
func ValidateDate(value, column string) (string, *models.ValidationError) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", nil
	}

	if t, ok := parseExcelSerial(raw); ok {
		return t.Format("2006-01-02"), nil
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	for _, format := range fallbackDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	return "", &models.ValidationError{
		Column:  column,
		Message: "invalid date format",
		Value:   raw,
	}
}

// parseExcelSerial interprets a bare number as an Excel serial date.
// Excel's day 1 is 1900-01-01 but the epoch sits at 1899-12-30 to absorb
// the phantom 1900 leap day, hence the two-day offset.
func parseExcelSerial(raw string) (time.Time, bool) {
	if strings.ContainsAny(raw, "/-: ") {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false
	}
	// Plausible serial range: 1900 through the year 9999.
	if serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, int(serial)), true
}

// ValidateDateRange errors when both dates are present and the start falls
// after the end. The violation is reported, never silently corrected.
func ValidateDateRange(start, end string) *models.ValidationError {
	if start == "" || end == "" {
		return nil
	}
	if start > end { // yyyy-MM-dd compares lexicographically
		return &models.ValidationError{
			Column:  colFechaFin,
			Message: "start date is after end date",
			Value:   fmt.Sprintf("%s > %s", start, end),
		}
	}
	return nil
}

// ValidateBoolean matches a cell against multilingual true/false token
// lists. Unrecognized non-empty tokens default to false with a warning so
// an unknown value is distinguishable from an explicit "no". Empty cells
// default to false silently.
func ValidateBoolean(value string) (bool, *models.ValidationWarning) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return false, nil
	}
	for _, token := range trueTokens {
		if raw == token {
			return true, nil
		}
	}
	for _, token := range falseTokens {
		if raw == token {
			return false, nil
		}
	}
	return false, &models.ValidationWarning{
		Message:    fmt.Sprintf("unrecognized boolean %q", strings.TrimSpace(value)),
		Suggestion: "defaulted to false",
	}
}

// ValidateArea resolves an area cell against the tenant's configured
// areas: exact match first, then case-insensitive, then the shared synonym
// groups. When nothing matches the trimmed input is returned alongside an
// error so callers can still see what was supplied.
func ValidateArea(value string, validAreas []string) (string, *models.ValidationError) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &models.ValidationError{Column: colArea, Message: "missing area value"}
	}
	if len(validAreas) == 0 {
		return trimmed, nil
	}

	for _, area := range validAreas {
		if trimmed == area {
			return area, nil
		}
	}
	for _, area := range validAreas {
		if strings.EqualFold(trimmed, area) {
			return area, nil
		}
	}

	if group := areaGroup(trimmed); group >= 0 {
		for _, area := range validAreas {
			if areaGroup(area) == group {
				return area, nil
			}
		}
	}

	return trimmed, &models.ValidationError{
		Column:  colArea,
		Message: fmt.Sprintf("area %q does not match any configured area", trimmed),
		Value:   trimmed,
	}
}

func areaGroup(name string) int {
	key := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	for i, group := range areaSynonyms {
		for _, synonym := range group {
			if key == synonym {
				return i
			}
		}
	}
	return -1
}

// ValidateRequired trims the cell and errors when nothing remains.
func ValidateRequired(value, column string) (string, *models.ValidationError) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &models.ValidationError{
			Column:  column,
			Message: fmt.Sprintf("%s is required", column),
		}
	}
	return trimmed, nil
}

// ValidateRow converts one raw spreadsheet row into a CanonicalRow plus its
// errors and warnings. Columns absent from the header row are skipped, so
// sparse exports validate cleanly. rowNumber is 1-based and is stamped onto
// every error and warning produced.
func ValidateRow(row []string, headers []string, rowNumber int, opts ImportOptions) RowResult {
	index := make(map[string]int, len(headers))
	for i, header := range headers {
		key := NormalizeHeader(header)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	cell := func(column string) (string, bool) {
		i, ok := index[column]
		if !ok {
			return "", false
		}
		if i >= len(row) {
			return "", true
		}
		return row[i], true
	}

	result := RowResult{}
	addError := func(e *models.ValidationError) {
		if e != nil {
			e.Row = rowNumber
			result.Errors = append(result.Errors, *e)
		}
	}
	addWarning := func(w *models.ValidationWarning) {
		if w != nil {
			w.Row = rowNumber
			result.Warnings = append(result.Warnings, *w)
		}
	}

	if value, ok := cell(colArea); ok {
		area, err := ValidateArea(value, opts.ValidAreas)
		result.Data.Area = area
		addError(err)
	}

	if value, ok := cell(colObjetivo); ok {
		objetivo, err := ValidateRequired(value, colObjetivo)
		result.Data.Objetivo = objetivo
		addError(err)
	}

	if value, ok := cell(colIniciativa); ok {
		iniciativa, err := ValidateRequired(value, colIniciativa)
		result.Data.Iniciativa = iniciativa
		addError(err)
	}

	if value, ok := cell(colProgreso); ok {
		progreso, err := ValidateProgress(value)
		result.Data.Progreso = progreso
		addError(err)
	}

	if value, ok := cell(colEstado); ok {
		estado, warning := ValidateStatus(value)
		result.Data.Estado = estado
		addWarning(warning)
	} else {
		result.Data.Estado = models.StatusPlanning
	}

	if value, ok := cell(colPrioridad); ok {
		prioridad, warning := ValidatePriority(value)
		result.Data.Prioridad = prioridad
		addWarning(warning)
	} else {
		result.Data.Prioridad = models.PriorityMedium
	}

	if value, ok := cell(colFechaInicio); ok {
		fecha, err := ValidateDate(value, colFechaInicio)
		result.Data.FechaInicio = fecha
		addError(err)
	}

	if value, ok := cell(colFechaFin); ok {
		fecha, err := ValidateDate(value, colFechaFin)
		result.Data.FechaFin = fecha
		addError(err)
	}

	addError(ValidateDateRange(result.Data.FechaInicio, result.Data.FechaFin))

	if value, ok := cell(colDescripcion); ok {
		result.Data.Descripcion = strings.TrimSpace(value)
	}
	if value, ok := cell(colResponsable); ok {
		result.Data.Responsable = strings.TrimSpace(value)
	}

	// The strategic flag is exported under both "Estratégica" and
	// "Es_Estratégica" depending on the template version.
	value, ok := cell(colEstrategica)
	if !ok {
		value, ok = cell("es_" + colEstrategica)
	}
	if ok {
		estrategica, warning := ValidateBoolean(value)
		result.Data.Estrategica = estrategica
		if warning != nil {
			warning.Column = colEstrategica
		}
		addWarning(warning)
	}

	return result
}
