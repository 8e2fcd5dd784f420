package flatql

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nao1215/flatql/domain/model"
)

// maxBatchRows caps the rows in one multi-row INSERT
const maxBatchRows = 500

// batchRows returns how many rows of width columns fit in one INSERT without
// exceeding the engine's bound parameter limit.
func batchRows(columns, maxVariables int) int {
	if columns <= 0 {
		return maxBatchRows
	}
	n := maxVariables / columns
	if n < 1 {
		n = 1
	}
	if n > maxBatchRows {
		n = maxBatchRows
	}
	return n
}

// buildCreateTableQuery returns the CREATE TABLE statement for a header
func buildCreateTableQuery(tableName string, columns []model.Column) string {
	definitions := make([]string, 0, len(columns))
	for _, col := range columns {
		definitions = append(definitions, col.Definition())
	}
	return fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (%s)`,
		model.QuoteIdentifier(tableName),
		strings.Join(definitions, ", "),
	)
}

// buildInsertQuery returns a multi-row INSERT for rows records of the given columns
func buildInsertQuery(tableName string, columns []model.Column, rows int) string {
	names := model.ColumnNames(columns)
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = model.QuoteIdentifier(name)
	}

	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = row
	}

	return fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES %s`,
		model.QuoteIdentifier(tableName),
		strings.Join(quoted, ", "),
		strings.Join(values, ", "),
	)
}

// buildSelectAllQuery returns the query used to dump a table
func buildSelectAllQuery(tableName string, columns []model.Column) string {
	names := model.ColumnNames(columns)
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = model.QuoteIdentifier(name)
	}
	return fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(quoted, ", "), model.QuoteIdentifier(tableName))
}

// validateTableFileName checks that a table name can become a file name
// inside the dataset directory.
func validateTableFileName(tableName string) error {
	switch {
	case tableName == "", tableName == ".", tableName == "..":
		return fmt.Errorf("%w: %q", ErrInvalidTableFileName, tableName)
	case strings.ContainsAny(tableName, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidTableFileName, tableName)
	case filepath.Base(tableName) != tableName:
		return fmt.Errorf("%w: %q", ErrInvalidTableFileName, tableName)
	}
	return nil
}
