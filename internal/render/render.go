// Package render writes token streams in the output formats the CLI offers.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"clexer/internal/frontend/lexer"
)

// File is the token stream of one scanned file.
type File struct {
	Path   string
	Tokens []lexer.Token
}

// record is the serialised shape of a token in the yaml and json formats.
type record struct {
	Kind   string `yaml:"kind" json:"kind"`
	Lexeme string `yaml:"lexeme" json:"lexeme"`
	Line   int    `yaml:"line" json:"line"`
	Column int    `yaml:"column" json:"column"`
}

type fileRecord struct {
	Path   string   `yaml:"path" json:"path"`
	Tokens []record `yaml:"tokens" json:"tokens"`
}

// Write renders files to w in format. text and table separate files with a
// "==> path <==" header when there is more than one.
func Write(w io.Writer, format string, files []File) error {
	switch format {
	case "text", "":
		writeSections(w, files, writeText)
		return nil
	case "table":
		writeSections(w, files, writeTable)
		return nil
	case "yaml":
		return writeYAML(w, files)
	case "json":
		return writeJSON(w, files)
	case "dump":
		return writeDump(w, files)
	}
	return errors.Errorf("unknown output format %q", format)
}

func writeSections(w io.Writer, files []File, body func(io.Writer, []lexer.Token)) {
	for i, f := range files {
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", f.Path)
		}
		body(w, f.Tokens)
	}
}

func writeText(w io.Writer, tokens []lexer.Token) {
	for _, tok := range tokens {
		fmt.Fprintln(w, tok.String())
	}
}

func writeTable(w io.Writer, tokens []lexer.Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Lexeme", "Line", "Col"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	for _, tok := range tokens {
		table.Append([]string{
			tok.Kind.String(),
			tok.Value,
			strconv.Itoa(tok.Line()),
			strconv.Itoa(tok.Column()),
		})
	}
	table.Render()
}

func records(files []File) []fileRecord {
	out := make([]fileRecord, 0, len(files))
	for _, f := range files {
		recs := make([]record, 0, len(f.Tokens))
		for _, tok := range f.Tokens {
			recs = append(recs, record{
				Kind:   tok.Kind.String(),
				Lexeme: tok.Value,
				Line:   tok.Line(),
				Column: tok.Column(),
			})
		}
		out = append(out, fileRecord{Path: f.Path, Tokens: recs})
	}
	return out
}

func writeYAML(w io.Writer, files []File) error {
	data, err := yaml.Marshal(records(files))
	if err != nil {
		return errors.Wrap(err, "yaml encode")
	}
	_, err = w.Write(data)
	return err
}

func writeJSON(w io.Writer, files []File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(records(files)), "json encode")
}

func writeDump(w io.Writer, files []File) error {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(w, files)
	return nil
}
