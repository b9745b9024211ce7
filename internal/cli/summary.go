package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pterm/pterm"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jacobfholland/plexport/internal/export"
	"github.com/jacobfholland/plexport/internal/media"
)

var titleCase = cases.Title(language.English)

// TypeLabel renders a media type for people, e.g. "artist" → "Artist"
func TypeLabel(kind media.Type) string {
	if h, ok := export.HandlerFor(kind); ok {
		return h.Label
	}
	return titleCase.String(strings.ReplaceAll(string(kind), "_", " "))
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// SummaryTable renders one line per library section of a finished run
func SummaryTable(rep *export.Report) string {
	rows := make([][]string, 0, len(rep.Sections))
	for _, s := range rep.Sections {
		size, written := "", ""
		if s.Status == export.StatusExported {
			size = humanize.IBytes(uint64(max(s.Bytes, 0)))
			written = humanize.Comma(int64(s.Rows))
		}
		rows = append(rows, []string{
			s.Title,
			TypeLabel(s.Type),
			string(s.Status),
			written,
			fmt.Sprintf("%d", s.Skipped),
			size,
		})
	}
	return renderTable(
		[]string{"Section", "Type", "Status", "Rows", "Skipped", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

// SectionInfo is one row of the sections listing
type SectionInfo struct {
	Title     string
	Type      media.Type
	Supported bool
}

// SectionsTable renders the library sections and whether they can be
// exported
func SectionsTable(sections []SectionInfo) string {
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		supported := "no"
		if s.Supported {
			supported = "yes"
		}
		rows = append(rows, []string{s.Title, TypeLabel(s.Type), supported})
	}
	return renderTable([]string{"Section", "Type", "Exportable"}, rows, nil)
}

// PrintReport prints the section table, the results box and any allow-list
// entries that matched nothing
func PrintReport(rep *export.Report) {
	if len(rep.Sections) > 0 {
		fmt.Println()
		fmt.Println(SummaryTable(rep))
	}
	for _, m := range rep.MissingSections {
		if len(m.Suggestions) > 0 {
			pterm.Warning.Printfln("Section %q not found, did you mean %s?", m.Name, strings.Join(m.Suggestions, ", "))
		} else {
			pterm.Warning.Printfln("Section %q not found", m.Name)
		}
	}
	fmt.Println()
	PrintResultsBox(rep)
}
