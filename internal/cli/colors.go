package cli

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/jacobfholland/plexport/internal/export"
	"github.com/jacobfholland/plexport/internal/media"
)

var (
	groupStyle = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	dimStyle   = pterm.NewStyle(pterm.FgGray)
	pathStyle  = pterm.NewStyle(pterm.FgCyan)
)

var sectionHeader = pterm.DefaultHeader.
	WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
	WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold))

// Dim renders secondary text
func Dim(text string) string { return dimStyle.Sprint(text) }

// Path renders a file or directory name
func Path(text string) string { return pathStyle.Sprint(text) }

// PrintGroup introduces a group of prompts or settings
func PrintGroup(name string) {
	groupStyle.Println(name)
}

// PrintLabel prints a label: value pair
func PrintLabel(label, value string) {
	fmt.Printf("%s %s\n", dimStyle.Sprint(label+":"), value)
}

// PrintBanner prints the application banner
func PrintBanner(version string) {
	pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("Plex", pterm.NewStyle(pterm.FgCyan)),
		pterm.NewLettersFromStringWithStyle("port", pterm.NewStyle(pterm.FgLightMagenta)),
	).Render()
	dimStyle.Println(version + " - Export Plex libraries to CSV and Excel")
	fmt.Println()
}

// PrintSectionHeader announces a section about to be exported
func PrintSectionHeader(title string, kind media.Type, items int) {
	fmt.Println()
	sectionHeader.Println(title)
	PrintLabel("Type", TypeLabel(kind))
	PrintLabel("Items", fmt.Sprintf("%d", items))
}

// PrintSectionResult prints one line for a finished section
func PrintSectionResult(rep export.SectionReport) {
	switch rep.Status {
	case export.StatusExported:
		pterm.Success.Printfln("%s → %s (%d rows, %d skipped)", rep.Title, Path(rep.Path), rep.Rows, rep.Skipped)
	case export.StatusFailed:
		pterm.Error.Printfln("%s: %v", rep.Title, rep.Err)
	case export.StatusInterrupted:
		pterm.Warning.Printfln("%s: interrupted, previous file kept", rep.Title)
	}
}

func newProgressBar(total int, title string) (*pterm.ProgressbarPrinter, error) {
	return pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowCount(true).
		WithShowPercentage(true).
		WithShowElapsedTime(false).
		WithRemoveWhenDone(true).
		Start()
}

// PrintResultsBox prints the run totals in a box
func PrintResultsBox(rep *export.Report) {
	content := fmt.Sprintf(
		"%s %d   %s %d   %s %d\n%s %d   %s %d   %s %d",
		pterm.FgGreen.Sprint("Sections exported:"), rep.SectionsProcessed,
		pterm.FgYellow.Sprint("Skipped:"), rep.SectionsSkipped,
		pterm.FgRed.Sprint("Failed:"), rep.SectionsFailed,
		pterm.FgGreen.Sprint("Items written:"), rep.ItemsWritten,
		pterm.FgYellow.Sprint("Skipped:"), rep.ItemsSkipped,
		pterm.FgYellow.Sprint("Warnings:"), rep.Diagnostics,
	)
	title := "Results"
	if rep.Interrupted {
		title = "Results (interrupted)"
	}
	pterm.DefaultBox.WithTitle(title).Println(content)
}
