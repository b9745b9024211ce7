package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Target is one section paired with the file it is exported to
type Target struct {
	Section string
	Path    string
}

// NewTarget derives the output path <dir>/<section title>.<ext>
func NewTarget(dir, section, ext string) Target {
	stem := sanitizeFilename(section)
	if stem == "" {
		stem = "section"
	}
	return Target{
		Section: section,
		Path:    filepath.Join(dir, stem+"."+ext),
	}
}

// Characters not allowed in Windows filenames: \ / : * ? " < > |
var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"*", "",
	"?", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

var spaceRegex = regexp.MustCompile(`\s+`)

// sanitizeFilename makes a section title safe to use as a file stem
func sanitizeFilename(name string) string {
	result := filenameReplacer.Replace(norm.NFC.String(name))

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	// Windows doesn't like trailing dots
	result = strings.TrimRight(result, " .")
	result = spaceRegex.ReplaceAllString(result, " ")

	return strings.TrimSpace(result)
}

// targetSet hands out the output paths of one run. Titles that only collide
// after sanitising, or that differ only in case, get a numbered suffix
// ("Kids-Family (2).csv") so no section replaces another's file.
type targetSet map[string]string // folded path → section title

// claim returns the path for section and, when it had to be renamed, the
// title of the section that already owns the plain name
func (s targetSet) claim(dir, section, ext string) (Target, string) {
	t := NewTarget(dir, section, ext)
	owner, taken := s[strings.ToLower(t.Path)]
	if !taken {
		s[strings.ToLower(t.Path)] = section
		return t, ""
	}

	stem := strings.TrimSuffix(filepath.Base(t.Path), "."+ext)
	for n := 2; ; n++ {
		t.Path = filepath.Join(dir, fmt.Sprintf("%s (%d).%s", stem, n, ext))
		if _, used := s[strings.ToLower(t.Path)]; !used {
			s[strings.ToLower(t.Path)] = section
			return t, owner
		}
	}
}
