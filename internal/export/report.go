package export

import "github.com/jacobfholland/plexport/internal/media"

// SectionStatus is the outcome of one library section
type SectionStatus string

const (
	StatusExported    SectionStatus = "exported"
	StatusFiltered    SectionStatus = "filtered"
	StatusUnsupported SectionStatus = "unsupported"
	StatusFailed      SectionStatus = "failed"
	StatusInterrupted SectionStatus = "interrupted"
)

// SectionReport describes what happened to one section
type SectionReport struct {
	Title       string
	Type        media.Type
	Status      SectionStatus
	Path        string
	Rows        int
	Skipped     int
	Diagnostics int
	Bytes       int64
	Err         error
}

// MissingSection is an allow-list entry that matched no section
type MissingSection struct {
	Name        string
	Suggestions []string
}

// Report aggregates a whole run
type Report struct {
	Sections          []SectionReport
	MissingSections   []MissingSection
	SectionsProcessed int
	SectionsSkipped   int
	SectionsFailed    int
	ItemsWritten      int
	ItemsSkipped      int
	Diagnostics       int
	Interrupted       bool
}

func (r *Report) add(sr SectionReport) {
	r.Sections = append(r.Sections, sr)
	r.Diagnostics += sr.Diagnostics
	switch sr.Status {
	case StatusExported:
		r.SectionsProcessed++
		r.ItemsWritten += sr.Rows
		r.ItemsSkipped += sr.Skipped
	case StatusFailed:
		r.SectionsFailed++
		r.ItemsSkipped += sr.Skipped
	case StatusFiltered, StatusUnsupported:
		r.SectionsSkipped++
	}
}

// Completed reports whether every section was enumerated
func (r *Report) Completed() bool {
	return !r.Interrupted
}
