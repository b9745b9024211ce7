package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet    = "Sheet1"
	maxSheetNameLen = 31
)

// XLSX writes a single-worksheet Office Open XML workbook. The worksheet is
// named after the file stem.
type XLSX struct{}

func (XLSX) Name() string { return "xlsx" }
func (XLSX) Ext() string  { return "xlsx" }

func (XLSX) Create(path string, header []string) (Sink, error) {
	book := excelize.NewFile()
	sheet := sheetName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if sheet != defaultSheet {
		if err := book.SetSheetName(defaultSheet, sheet); err != nil {
			_ = book.Close()
			return nil, fmt.Errorf("name worksheet for %s: %w", path, err)
		}
	}
	sw, err := book.NewStreamWriter(sheet)
	if err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("open worksheet for %s: %w", path, err)
	}
	s := &xlsxSink{
		path:   path,
		book:   book,
		sw:     sw,
		header: append([]string(nil), header...),
	}
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := s.appendRow(cells); err != nil {
		_ = book.Close()
		return nil, err
	}
	return s, nil
}

type xlsxSink struct {
	path   string
	book   *excelize.File
	sw     *excelize.StreamWriter
	header []string
	rows   int
}

func (s *xlsxSink) appendRow(cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.rows+1)
	if err != nil {
		return fmt.Errorf("write row to %s: %w", s.path, err)
	}
	if err := s.sw.SetRow(cell, cells); err != nil {
		return fmt.Errorf("write row to %s: %w", s.path, err)
	}
	s.rows++
	return nil
}

func (s *xlsxSink) WriteRow(row Row) error {
	return s.appendRow(values(s.header, row))
}

func (s *xlsxSink) Close() error {
	defer s.book.Close()
	if err := s.sw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	file, err := createPending(s.path)
	if err != nil {
		return err
	}
	if _, err := s.book.WriteTo(file); err != nil {
		file.abort()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return file.commit()
}

func (s *xlsxSink) Abort() {
	_ = s.book.Close()
}

// sheetName makes name acceptable as a worksheet name
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "' ")
	if runes := []rune(name); len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	if name == "" {
		return defaultSheet
	}
	return name
}
