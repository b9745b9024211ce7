// Package export walks a media library and writes one tabular file per
// library section.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jacobfholland/plexport/internal/media"
	"github.com/jacobfholland/plexport/internal/tabular"
)

// ErrInterrupted is returned by Run when the context is cancelled
var ErrInterrupted = errors.New("export interrupted")

// Logger receives progress and problems as they happen
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Progress observes section and item processing
type Progress interface {
	SectionStarted(title string, kind media.Type, items int)
	ItemDone(res Result)
	SectionFinished(rep SectionReport)
}

// Options configures an Exporter
type Options struct {
	Dir      string
	Format   string
	Sections []string // allow-list, empty means every section
	Logger   Logger
	Progress Progress
}

// Exporter writes library sections to files
type Exporter struct {
	dir      string
	format   tabular.Format
	allow    map[string]bool
	log      Logger
	progress Progress
}

// New validates opts. An unsupported format is rejected here, before any
// file is touched.
func New(opts Options) (*Exporter, error) {
	format, err := tabular.Lookup(opts.Format)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New("export directory is required")
	}
	e := &Exporter{
		dir:      opts.Dir,
		format:   format,
		log:      opts.Logger,
		progress: opts.Progress,
	}
	if len(opts.Sections) > 0 {
		e.allow = make(map[string]bool, len(opts.Sections))
		for _, s := range opts.Sections {
			e.allow[s] = true
		}
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	if e.progress == nil {
		e.progress = nopProgress{}
	}
	return e, nil
}

// Run exports every allowed section of lib in the library's own order.
// Item and section failures are recorded in the report and do not stop the
// run; cancelling ctx does.
func (e *Exporter) Run(ctx context.Context, lib media.Library) (*Report, error) {
	rep := &Report{}
	if ctx.Err() != nil {
		return e.interrupted(ctx, rep)
	}

	sections, err := lib.Sections(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return e.interrupted(ctx, rep)
		}
		return rep, fmt.Errorf("list library sections: %w", err)
	}

	titles := make([]string, 0, len(sections))
	targets := targetSet{}
	for _, section := range sections {
		if ctx.Err() != nil {
			return e.interrupted(ctx, rep)
		}
		title, kind := section.Title(), section.Type()
		titles = append(titles, title)

		if e.allow != nil && !e.allow[title] {
			e.log.Debug("Skipping library section not in allow-list", "section", title)
			rep.add(SectionReport{Title: title, Type: kind, Status: StatusFiltered})
			continue
		}
		handler, ok := HandlerFor(kind)
		if !ok {
			e.log.Warn("No exporter for library section type", "section", title, "type", string(kind))
			rep.add(SectionReport{Title: title, Type: kind, Status: StatusUnsupported})
			continue
		}

		target, clash := targets.claim(e.dir, title, e.format.Ext())
		if clash != "" {
			e.log.Warn("Section file name already used, writing to a numbered file",
				"section", title, "other_section", clash, "file", target.Path)
		}
		sr := e.exportSection(ctx, section, handler, target)
		rep.add(sr)
		e.progress.SectionFinished(sr)
		if sr.Status == StatusInterrupted {
			return e.interrupted(ctx, rep)
		}
	}

	rep.MissingSections = e.missingSections(titles)
	return rep, nil
}

func (e *Exporter) exportSection(ctx context.Context, section media.Section, h Handler, target Target) (sr SectionReport) {
	title := section.Title()
	sr = SectionReport{Title: title, Type: h.Type, Path: target.Path}
	e.log.Info("Processing library section", "section", title, "type", string(h.Type))

	fail := func(err error) SectionReport {
		if ctx.Err() != nil {
			sr.Status = StatusInterrupted
			return sr
		}
		sr.Status = StatusFailed
		sr.Err = err
		e.log.Error("Failed to export library section", "section", title, "error", err)
		return sr
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fail(fmt.Errorf("create export directory: %w", err))
	}
	items, err := section.Items(ctx)
	if err != nil {
		return fail(fmt.Errorf("list items: %w", err))
	}
	e.progress.SectionStarted(title, h.Type, len(items))

	sink, err := e.format.Create(target.Path, h.Schema.Columns())
	if err != nil {
		return fail(err)
	}
	for _, item := range items {
		if ctx.Err() != nil {
			sink.Abort()
			sr.Status = StatusInterrupted
			return sr
		}

		res := Extract(ctx, h.Extract, item)
		if res.Err != nil && ctx.Err() != nil {
			sink.Abort()
			sr.Status = StatusInterrupted
			return sr
		}
		for _, d := range res.Diagnostics {
			e.log.Warn(d, "section", title)
		}
		sr.Diagnostics += len(res.Diagnostics)

		if res.Skipped() {
			sr.Skipped++
			e.log.Warn("Skipping item", "section", title, "item", res.Title, "error", res.Err)
			e.progress.ItemDone(res)
			continue
		}
		if err := sink.WriteRow(res.Record); err != nil {
			sink.Abort()
			return fail(err)
		}
		sr.Rows++
		e.log.Info(h.Label+" exported", "item", res.Title)
		e.progress.ItemDone(res)
	}

	if err := sink.Close(); err != nil {
		return fail(err)
	}
	if info, err := os.Stat(target.Path); err == nil {
		sr.Bytes = info.Size()
	}
	sr.Status = StatusExported
	e.log.Info("Library section exported", "section", title, "file", target.Path, "rows", sr.Rows, "skipped", sr.Skipped)
	return sr
}

func (e *Exporter) interrupted(ctx context.Context, rep *Report) (*Report, error) {
	rep.Interrupted = true
	e.log.Warn("User interrupt. Shutting down gracefully...")
	return rep, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
}

// missingSections lists allow-list entries that named no section, with
// close matches from the library
func (e *Exporter) missingSections(titles []string) []MissingSection {
	if e.allow == nil {
		return nil
	}
	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		seen[t] = true
	}

	var missing []MissingSection
	for name := range e.allow {
		if seen[name] {
			continue
		}
		ranks := fuzzy.RankFindNormalizedFold(name, titles)
		sort.Sort(ranks)
		m := MissingSection{Name: name}
		for _, r := range ranks {
			m.Suggestions = append(m.Suggestions, r.Target)
		}
		if len(m.Suggestions) > 0 {
			e.log.Warn("Section not found in library", "section", name, "did_you_mean", strings.Join(m.Suggestions, ", "))
		} else {
			e.log.Warn("Section not found in library", "section", name)
		}
		missing = append(missing, m)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Name < missing[j].Name })
	return missing
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type nopProgress struct{}

func (nopProgress) SectionStarted(string, media.Type, int) {}
func (nopProgress) ItemDone(Result)                        {}
func (nopProgress) SectionFinished(SectionReport)          {}
