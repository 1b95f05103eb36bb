package service

import (
	"fmt"
	"strings"

	"okr-dashboard/internal/models"
)

// DefaultMaxRows caps how many rows a single import may carry.
const DefaultMaxRows = 10000

// ImportOptions configures a validation run.
type ImportOptions struct {
	// ValidAreas lists the tenant's configured area names. Empty means
	// area values are accepted as-is.
	ValidAreas []string
	// RequireArea makes the Área column mandatory (multi-area bulk import).
	RequireArea bool
	// MaxRows overrides DefaultMaxRows when positive.
	MaxRows int
}

// ValidateFile validates and normalizes an entire parsed spreadsheet.
// rows[0] is the header row. Structural problems (too few rows, too many
// rows, missing required columns) abort before any row-level validation;
// per-row problems never stop processing of the remaining rows.
func ValidateFile(rows [][]string, opts ImportOptions) models.ValidationResult {
	result := models.ValidationResult{
		Errors:   []models.ValidationError{},
		Warnings: []models.ValidationWarning{},
	}

	if len(rows) < 2 {
		result.Errors = append(result.Errors, models.ValidationError{
			Message: "file must contain a header row and at least one data row",
		})
		return result
	}

	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if len(rows)-1 > maxRows {
		result.Errors = append(result.Errors, models.ValidationError{
			Message: fmt.Sprintf("file exceeds the maximum of %d rows", maxRows),
			Value:   fmt.Sprintf("%d", len(rows)-1),
		})
		return result
	}

	headers := rows[0]
	if missing := missingColumns(headers, opts.RequireArea); len(missing) > 0 {
		for _, column := range missing {
			result.Errors = append(result.Errors, models.ValidationError{
				Column:  column,
				Message: fmt.Sprintf("required column %q not found", column),
			})
		}
		return result
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue // trailing blank rows are common in exports
		}

		rowResult := ValidateRow(row, headers, i+1, opts)
		result.Errors = append(result.Errors, rowResult.Errors...)
		result.Warnings = append(result.Warnings, rowResult.Warnings...)

		// Partial success: rows missing their required fields are dropped
		// from the importable set, but their errors are still surfaced.
		if rowResult.Data.Objetivo != "" && rowResult.Data.Iniciativa != "" {
			result.ProcessedData = append(result.ProcessedData, rowResult.Data)
		}
	}

	if len(result.ProcessedData) == 0 {
		result.Errors = append(result.Errors, models.ValidationError{
			Message: "no valid data found in file",
		})
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// missingColumns returns the required columns absent from the header row,
// after normalization. Área joins the required set in multi-area mode.
func missingColumns(headers []string, requireArea bool) []string {
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		present[NormalizeHeader(header)] = true
	}

	required := []string{colObjetivo, colIniciativa, colProgreso}
	if requireArea {
		required = append([]string{colArea}, required...)
	}

	var missing []string
	for _, column := range required {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	return missing
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
