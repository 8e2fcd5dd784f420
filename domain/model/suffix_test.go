package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "csv", want: "csv"},
		{input: ".tsv", want: "tsv"},
		{input: "csv.gz", want: "csv.gz"},
		{input: "", wantErr: true},
		{input: ".", wantErr: true},
		{input: "a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := NewSuffix(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSuffix)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, "."+tt.want, got.Extension())
		})
	}
}

func TestSuffix_Matching(t *testing.T) {
	t.Parallel()

	csv, err := NewSuffix("csv")
	require.NoError(t, err)

	assert.True(t, csv.Matches("people.csv"))
	assert.True(t, csv.Matches("/data/people.csv"))
	assert.False(t, csv.Matches(".csv"))
	assert.False(t, csv.Matches("people.CSV"))
	assert.False(t, csv.Matches("people.csv.gz"))
	assert.False(t, csv.Matches("people.tsv"))

	assert.Equal(t, "people", csv.TableName("/data/people.csv"))
	assert.Equal(t, "my.data", csv.TableName("my.data.csv"))
	assert.Equal(t, "people.csv", csv.FileName("people"))
}

func TestSuffix_Compression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		suffix string
		want   CompressionType
	}{
		{suffix: "csv", want: CompressionNone},
		{suffix: "csv.gz", want: CompressionGZ},
		{suffix: "tsv.bz2", want: CompressionBZ2},
		{suffix: "csv.xz", want: CompressionXZ},
		{suffix: "csv.zst", want: CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			t.Parallel()

			s, err := NewSuffix(tt.suffix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Compression())
			assert.Equal(t, tt.want.Extension() != "", tt.want != CompressionNone)
		})
	}
}
