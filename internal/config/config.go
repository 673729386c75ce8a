// Package config holds the settings of a scan run. Values come from
// built-in defaults, an optional YAML file and command line flags, with
// flags the user set winning over the file.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v2"

	"clexer/internal/context"
	"clexer/internal/frontend/lexer"
)

const (
	FormatText  = "text"
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatDump  = "dump"
)

type Config struct {
	Format          string   `yaml:"format" validate:"oneof=text table yaml json dump"`
	Encoding        string   `yaml:"encoding" validate:"encoding"`
	IncludePaths    []string `yaml:"include_paths" validate:"dive,required"`
	FollowIncludes  bool     `yaml:"follow_includes"`
	TrailingDot     string   `yaml:"trailing_dot" validate:"oneof=keep split"`
	AmpPipe         string   `yaml:"amp_pipe" validate:"oneof=operator delimiter"`
	CrossCheck      bool     `yaml:"cross_check"`
	Color           string   `yaml:"color" validate:"oneof=auto always never"`
	DiagnosticStyle string   `yaml:"diagnostic_style" validate:"oneof=rich plain"`
	Workers         int      `yaml:"workers" validate:"gte=0,lte=256"`
	Debug           bool     `yaml:"debug"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("encoding", validateEncoding); err != nil {
		panic(err)
	}
}

// validateEncoding accepts an empty name or any WHATWG encoding label
func validateEncoding(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	_, err := htmlindex.Get(name)
	return err == nil
}

func Default() *Config {
	return &Config{
		Format:          FormatText,
		TrailingDot:     "keep",
		AmpPipe:         "operator",
		Color:           "auto",
		DiagnosticStyle: "rich",
	}
}

// Load reads a YAML config file over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file %q", path)
	}

	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %q", path)
	}
	return c, nil
}

func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Format, "format", "f", c.Format, "Token output format (text | table | yaml | json | dump)")
	fs.StringVar(&c.Encoding, "encoding", c.Encoding, "Source file encoding, UTF-8 when empty")
	fs.StringSliceVarP(&c.IncludePaths, "include-path", "I", c.IncludePaths, "Directory searched for quoted headers, may be repeated")
	fs.BoolVar(&c.FollowIncludes, "follow-includes", c.FollowIncludes, "Also scan quoted headers reachable from the given files")
	fs.StringVar(&c.TrailingDot, "trailing-dot", c.TrailingDot, "Number ending in a dot: keep the dot in the number, or split it off (keep | split)")
	fs.StringVar(&c.AmpPipe, "amp-pipe", c.AmpPipe, "Token kind for & and | (operator | delimiter)")
	fs.BoolVar(&c.CrossCheck, "cross-check", c.CrossCheck, "Compare identifiers and numbers with the tree-sitter C grammar")
	fs.StringVar(&c.Color, "color", c.Color, "Colored diagnostics (auto | always | never)")
	fs.StringVar(&c.DiagnosticStyle, "diagnostic-style", c.DiagnosticStyle, "Diagnostic layout (rich | plain)")
	fs.IntVarP(&c.Workers, "workers", "j", c.Workers, "Files scanned in parallel, 0 for one goroutine per file")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Log every token as it is produced")
}

// ReadFile loads path and takes every value from it whose flag was not set
// on the command line.
func (c *Config) ReadFile(path string, fs *pflag.FlagSet) error {
	fromFile, err := Load(path)
	if err != nil {
		return err
	}

	changed := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})

	if !changed["format"] {
		c.Format = fromFile.Format
	}
	if !changed["encoding"] {
		c.Encoding = fromFile.Encoding
	}
	if !changed["include-path"] {
		c.IncludePaths = fromFile.IncludePaths
	}
	if !changed["follow-includes"] {
		c.FollowIncludes = fromFile.FollowIncludes
	}
	if !changed["trailing-dot"] {
		c.TrailingDot = fromFile.TrailingDot
	}
	if !changed["amp-pipe"] {
		c.AmpPipe = fromFile.AmpPipe
	}
	if !changed["cross-check"] {
		c.CrossCheck = fromFile.CrossCheck
	}
	if !changed["color"] {
		c.Color = fromFile.Color
	}
	if !changed["diagnostic-style"] {
		c.DiagnosticStyle = fromFile.DiagnosticStyle
	}
	if !changed["workers"] {
		c.Workers = fromFile.Workers
	}
	if !changed["debug"] {
		c.Debug = fromFile.Debug
	}
	return nil
}

func (c *Config) Validate() error {
	c.Format = strings.ToLower(c.Format)
	if err := validate.Struct(c); err != nil {
		return errors.Errorf("invalid configuration: %v", err)
	}
	return nil
}

// Dialect maps the two open lexing choices onto a scanner dialect.
func (c *Config) Dialect() lexer.Dialect {
	return lexer.Dialect{
		KeepTrailingDot:     c.TrailingDot != "split",
		AmpPipeAsDelimiters: c.AmpPipe == "delimiter",
	}
}

func (c *Config) ScanOptions() *context.ScanOptions {
	return &context.ScanOptions{
		Debug:          c.Debug,
		Encoding:       c.Encoding,
		IncludePaths:   c.IncludePaths,
		FollowIncludes: c.FollowIncludes,
		Dialect:        c.Dialect(),
	}
}
