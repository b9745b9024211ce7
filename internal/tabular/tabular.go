// Package tabular serializes ordered rows to delimited text or spreadsheet
// files. Column order always follows the header handed to Create.
package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned by Lookup for unknown format names
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Row yields the value stored under a column name; nil means null
type Row interface {
	Value(column string) any
}

// Sink receives the rows of one output file. Nothing is visible at the
// destination until Close succeeds; Abort discards everything written.
type Sink interface {
	WriteRow(row Row) error
	Close() error
	Abort()
}

// Format creates sinks for one file type
type Format interface {
	Name() string
	Ext() string
	Create(path string, header []string) (Sink, error)
}

var formats = map[string]Format{
	"csv":  CSV{},
	"xlsx": XLSX{},
}

// Lookup returns the format registered under name
func Lookup(name string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (choose one of %s)", ErrUnsupportedFormat, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the registered format names
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write creates path in the given format and writes header and rows to it
func Write(format Format, path string, header []string, rows []Row) error {
	sink, err := format.Create(path, header)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := sink.WriteRow(row); err != nil {
			sink.Abort()
			return err
		}
	}
	return sink.Close()
}

// values projects row onto header
func values(header []string, row Row) []any {
	out := make([]any, len(header))
	for i, column := range header {
		out[i] = row.Value(column)
	}
	return out
}

// formatValue renders a cell as delimited text
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// pendingFile is a temp file next to its target that replaces the target
// on commit
type pendingFile struct {
	*os.File
	target string
}

func createPending(target string) (*pendingFile, error) {
	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", target, err)
	}
	return &pendingFile{File: f, target: target}, nil
}

func (p *pendingFile) commit() error {
	if err := p.File.Chmod(0o644); err != nil {
		p.abort()
		return fmt.Errorf("chmod %s: %w", p.target, err)
	}
	if err := p.File.Close(); err != nil {
		_ = os.Remove(p.Name())
		return fmt.Errorf("close %s: %w", p.target, err)
	}
	if err := os.Rename(p.Name(), p.target); err != nil {
		_ = os.Remove(p.Name())
		return fmt.Errorf("replace %s: %w", p.target, err)
	}
	return nil
}

func (p *pendingFile) abort() {
	_ = p.File.Close()
	_ = os.Remove(p.Name())
}
