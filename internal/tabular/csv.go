package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
)

// CSV writes UTF-8 comma separated values with standard quoting
type CSV struct{}

func (CSV) Name() string { return "csv" }
func (CSV) Ext() string  { return "csv" }

// Create writes the header line immediately
func (CSV) Create(path string, header []string) (Sink, error) {
	file, err := createPending(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(file)
	s := &csvSink{
		file:   file,
		buf:    buf,
		w:      csv.NewWriter(buf),
		header: append([]string(nil), header...),
	}
	if err := s.w.Write(s.header); err != nil {
		file.abort()
		return nil, fmt.Errorf("write header to %s: %w", path, err)
	}
	return s, nil
}

type csvSink struct {
	file   *pendingFile
	buf    *bufio.Writer
	w      *csv.Writer
	header []string
	record []string
}

func (s *csvSink) WriteRow(row Row) error {
	if s.record == nil {
		s.record = make([]string, len(s.header))
	}
	for i, v := range values(s.header, row) {
		s.record[i] = formatValue(v)
	}
	if err := s.w.Write(s.record); err != nil {
		return fmt.Errorf("write row to %s: %w", s.file.target, err)
	}
	return nil
}

func (s *csvSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.abort()
		return fmt.Errorf("flush %s: %w", s.file.target, err)
	}
	if err := s.buf.Flush(); err != nil {
		s.file.abort()
		return fmt.Errorf("flush %s: %w", s.file.target, err)
	}
	return s.file.commit()
}

func (s *csvSink) Abort() {
	s.file.abort()
}
