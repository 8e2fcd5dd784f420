package flatql

import (
	"testing"

	"github.com/nao1215/flatql/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		columns      int
		maxVariables int
		want         int
	}{
		{name: "narrow table is capped", columns: 2, maxVariables: 32766, want: maxBatchRows},
		{name: "wide table is limited by variables", columns: 2000, maxVariables: 32766, want: 16},
		{name: "small limit", columns: 10, maxVariables: 999, want: 99},
		{name: "wider than limit", columns: 50, maxVariables: 10, want: 1},
		{name: "no columns", columns: 0, maxVariables: 10, want: maxBatchRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, batchRows(tt.columns, tt.maxVariables))
		})
	}
}

func TestBuildQueries(t *testing.T) {
	t.Parallel()

	columns := []model.Column{
		{Name: "id", Type: "INTEGER"},
		{Name: `say "hi"`},
	}

	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "my table" ("id" INTEGER, "say ""hi""" VARCHAR)`,
		buildCreateTableQuery("my table", columns))
	assert.Equal(t,
		`INSERT INTO "t" ("id", "say ""hi""") VALUES (?, ?), (?, ?), (?, ?)`,
		buildInsertQuery("t", columns, 3))
	assert.Equal(t,
		`SELECT "id", "say ""hi""" FROM "t"`,
		buildSelectAllQuery("t", columns))
}

func TestValidateTableFileName(t *testing.T) {
	t.Parallel()

	valid := []string{"people", "my table", "a.b", "データ", "-x"}
	for _, name := range valid {
		require.NoError(t, validateTableFileName(name), name)
	}

	invalid := []string{"", ".", "..", "a/b", `a\b`, "/abs", "nul\x00byte"}
	for _, name := range invalid {
		require.ErrorIs(t, validateTableFileName(name), ErrInvalidTableFileName, name)
	}
}

func TestFileProcessor_CollectTableFiles(t *testing.T) {
	t.Parallel()

	dir := writeDataset(t, map[string]string{
		"b.csv":      "x\n",
		"a.csv":      "x\n",
		".csv":       "x\n",
		"c.tsv":      "x\n",
		"d.CSV":      "x\n",
		"e.csv.gz":   "x\n",
		"f.data.csv": "x\n",
	})

	suffix, err := model.NewSuffix("csv")
	require.NoError(t, err)

	files, err := newFileProcessor(suffix).collectTableFiles(dir)
	require.NoError(t, err)

	tables := make([]string, len(files))
	for i, f := range files {
		tables[i] = f.table
	}
	assert.Equal(t, []string{"a", "b", "f.data"}, tables)

	_, err = newFileProcessor(suffix).collectTableFiles(dir + "/missing")
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read directory", ioErr.Op)
}
