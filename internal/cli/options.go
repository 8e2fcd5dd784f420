package cli

import (
	"fmt"

	"github.com/nao1215/flatql"
	"github.com/nao1215/flatql/domain/model"
	"github.com/spf13/pflag"
)

// options holds the resolved command line settings
type options struct {
	path            string
	query           string
	file            string
	delimiter       string
	quoteChar       string
	quoting         string
	doubleQuote     bool
	escapeChar      string
	encoding        string
	suffix          string
	crlf            bool
	mergeDuplicates bool
	configFile      string
	verbose         bool
}

// defaultOptions returns the flag defaults
func defaultOptions() *options {
	return &options{
		path:        "./",
		delimiter:   string(model.DefaultDelimiter),
		quoteChar:   string(model.DefaultQuoteChar),
		quoting:     model.QuoteMinimal.String(),
		doubleQuote: true,
		encoding:    model.DefaultEncoding,
		suffix:      model.DefaultSuffix,
	}
}

// bindFlags registers the flags on fs
func (o *options) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.path, "path", "p", o.path, "Directory containing the dataset files")
	fs.StringVarP(&o.query, "query", "q", o.query, "Statements to execute instead of starting the interactive loop")
	fs.StringVarP(&o.file, "file", "f", o.file, "File of statements to execute instead of starting the interactive loop")
	fs.StringVar(&o.delimiter, "delimiter", o.delimiter, `Field delimiter (a single character, "tab" for a tab)`)
	fs.StringVar(&o.quoteChar, "quotechar", o.quoteChar, "Quote character, empty for none")
	fs.StringVar(&o.quoting, "quoting", o.quoting, "Quoting mode (minimal, all, non-numeric, none)")
	fs.BoolVar(&o.doubleQuote, "doublequote", o.doubleQuote, "Write quote characters inside quoted fields doubled")
	fs.StringVar(&o.escapeChar, "escapechar", o.escapeChar, "Escape character, empty for none")
	fs.StringVar(&o.encoding, "encoding", o.encoding, "Character encoding of the files (IANA name)")
	fs.StringVar(&o.suffix, "suffix", o.suffix, `Suffix of the dataset files, such as "tsv" or "csv.gz"`)
	fs.BoolVar(&o.crlf, "crlf", o.crlf, `Write "\r\n" line endings`)
	fs.BoolVar(&o.mergeDuplicates, "merge-duplicates", o.mergeDuplicates, "Append rows of files that map to the same table instead of failing")
	fs.StringVar(&o.configFile, "config", o.configFile, "YAML config file (default $"+configEnv+")")
	fs.BoolVarP(&o.verbose, "verbose", "v", o.verbose, "Log debug output to stderr")
}

// applyConfig copies config values for every flag the user did not set.
// Precedence: flag > config file > default.
func (o *options) applyConfig(fs *pflag.FlagSet, cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(name string, dst *string, v string) {
		if !fs.Changed(name) && v != "" {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if !fs.Changed(name) && v != nil {
			*dst = *v
		}
	}

	setString("path", &o.path, cfg.Path)
	setString("delimiter", &o.delimiter, cfg.Delimiter)
	if cfg.QuoteChar != nil && !fs.Changed("quotechar") {
		o.quoteChar = *cfg.QuoteChar
	}
	setString("quoting", &o.quoting, cfg.Quoting)
	setBool("doublequote", &o.doubleQuote, cfg.DoubleQuote)
	setString("escapechar", &o.escapeChar, cfg.EscapeChar)
	setString("encoding", &o.encoding, cfg.Encoding)
	setString("suffix", &o.suffix, cfg.Suffix)
	setBool("crlf", &o.crlf, cfg.CRLF)
	setBool("merge-duplicates", &o.mergeDuplicates, cfg.MergeDuplicates)
}

// dialect builds the dialect from the resolved options
func (o *options) dialect() (model.Dialect, error) {
	delimiter, err := model.ParseDialectChar(o.delimiter)
	if err != nil {
		return model.Dialect{}, fmt.Errorf("--delimiter: %w", err)
	}
	quoteChar, err := model.ParseDialectChar(o.quoteChar)
	if err != nil {
		return model.Dialect{}, fmt.Errorf("--quotechar: %w", err)
	}
	escapeChar, err := model.ParseDialectChar(o.escapeChar)
	if err != nil {
		return model.Dialect{}, fmt.Errorf("--escapechar: %w", err)
	}
	quoting, err := model.ParseQuoteMode(o.quoting)
	if err != nil {
		return model.Dialect{}, fmt.Errorf("--quoting: %w", err)
	}

	d := model.NewDialect().
		WithDelimiter(delimiter).
		WithQuoteChar(quoteChar).
		WithQuoting(quoting).
		WithDoubleQuote(o.doubleQuote).
		WithEscapeChar(escapeChar).
		WithEncoding(o.encoding)
	if o.crlf {
		d = d.WithLineTerminator("\r\n")
	}
	if err := d.Validate(); err != nil {
		return model.Dialect{}, err
	}
	return d, nil
}

// duplicatePolicy returns the policy selected by --merge-duplicates
func (o *options) duplicatePolicy() flatql.DuplicatePolicy {
	if o.mergeDuplicates {
		return flatql.DuplicateMerge
	}
	return flatql.DuplicateReject
}
