package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/jacobfholland/plexport/internal/export"
	"github.com/jacobfholland/plexport/internal/media"
)

// IsTerminal reports whether stream (stdin, stdout...) is an interactive
// terminal. Buffers and pipes are not.
func IsTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ConfigureOutput turns colours and animations off when stdout is not a
// terminal, e.g. when the output is piped into a file or run from cron
func ConfigureOutput() {
	if !IsTerminal(os.Stdout) {
		pterm.DisableStyling()
	}
}

// SectionProgress prints a header per section and drives a progress bar
// while its items are exported
type SectionProgress struct {
	bar     *pterm.ProgressbarPrinter
	animate bool
}

// NewSectionProgress returns an export.Progress; animate enables the bar
func NewSectionProgress(animate bool) *SectionProgress {
	return &SectionProgress{animate: animate}
}

func (p *SectionProgress) SectionStarted(title string, kind media.Type, items int) {
	PrintSectionHeader(title, kind, items)
	if !p.animate || items == 0 {
		return
	}
	bar, err := newProgressBar(items, "Exporting "+title)
	if err == nil {
		p.bar = bar
	}
}

func (p *SectionProgress) ItemDone(export.Result) {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *SectionProgress) SectionFinished(rep export.SectionReport) {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
	PrintSectionResult(rep)
}
