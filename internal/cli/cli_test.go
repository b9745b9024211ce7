package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobfholland/plexport/internal/export"
	"github.com/jacobfholland/plexport/internal/media"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want pterm.LogLevel
	}{
		{"trace", pterm.LogLevelTrace},
		{"DEBUG", pterm.LogLevelDebug},
		{"", pterm.LogLevelInfo},
		{"info", pterm.LogLevelInfo},
		{"warning", pterm.LogLevelWarn},
		{" warn ", pterm.LogLevelWarn},
		{"error", pterm.LogLevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerWritesConsoleAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	l, err := NewLogger(LogOptions{Level: "info", Dir: dir, Console: &console})
	require.NoError(t, err)
	l.Debug("hidden detail")
	l.Info("Movie exported", "item", "The Matrix")
	l.Error("Failed to export library section", "section", "Movies", "error", errors.New("disk full"))
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "closing twice is harmless")

	assert.Equal(t, filepath.Join(dir, LogFileName), l.Path())
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Movie exported")
	assert.Contains(t, lines[0], "The Matrix")
	assert.Contains(t, lines[0], l.RunID())
	assert.Contains(t, lines[1], "disk full")

	assert.Contains(t, console.String(), "Movie exported")
	assert.NotContains(t, console.String(), "hidden detail")
	assert.NotContains(t, console.String(), l.RunID())
}

func TestLoggerTruncatesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LogFileName), []byte("old run\n"), 0o644))

	l, err := NewLogger(LogOptions{Level: "info", Dir: dir, Console: &bytes.Buffer{}})
	require.NoError(t, err)
	l.Info("new run")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old run")
	assert.Contains(t, string(data), "new run")
}

func TestLoggerWithoutDirectory(t *testing.T) {
	l, err := NewLogger(LogOptions{Level: "debug", Console: &bytes.Buffer{}})
	require.NoError(t, err)
	l.Warn("console only")
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(LogOptions{Level: "chatty"})
	assert.Error(t, err)
}

func TestPrompterAsk(t *testing.T) {
	in := strings.NewReader("\nhttp://plex:32400\nJSON\nxlsx\n")
	var out bytes.Buffer
	p := NewPrompterFrom(in, &out)

	answers, err := p.AskAll([]Question{
		{Key: "dir", Label: "Export directory", Default: "./exports"},
		{Key: "url", Label: "Plex URL"},
		{Key: "format", Label: "Format", Default: "csv", Options: []string{"csv", "xlsx"}},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"dir":    "./exports",
		"url":    "http://plex:32400",
		"format": "xlsx",
	}, answers)
	assert.Contains(t, out.String(), "Not one of the options")
}

func TestPrompterAskLastLineWithoutNewline(t *testing.T) {
	p := NewPrompterFrom(strings.NewReader("secret"), &bytes.Buffer{})

	v, err := p.Ask(Question{Key: "token", Label: "Plex token"})

	require.NoError(t, err)
	assert.Equal(t, "secret", v)
}

func TestPrompterAskAtEOF(t *testing.T) {
	p := NewPrompterFrom(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Ask(Question{Key: "token", Label: "Plex token"})

	assert.Error(t, err, "nothing to fall back on")
}

func TestPrompterAskAtEOFTakesDefaults(t *testing.T) {
	p := NewPrompterFrom(strings.NewReader("http://plex:32400\n"), &bytes.Buffer{})

	answers, err := p.AskAll([]Question{
		{Key: "url", Label: "Plex URL"},
		{Key: "dir", Label: "Export directory", Default: "exports"},
		{Key: "format", Label: "Format", Default: "csv", Options: []string{"csv", "xlsx"}},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"url":    "http://plex:32400",
		"dir":    "exports",
		"format": "csv",
	}, answers)
}

func TestPrompterAskYesNo(t *testing.T) {
	p := NewPrompterFrom(strings.NewReader("Y\nnope\n"), &bytes.Buffer{})

	yes, err := p.AskYesNo("Overwrite?")
	require.NoError(t, err)
	assert.True(t, yes)

	yes, err = p.AskYesNo("Overwrite?")
	require.NoError(t, err)
	assert.False(t, yes)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Movie", TypeLabel(media.TypeMovie))
	assert.Equal(t, "Music Artist", TypeLabel(media.TypeArtist))
	assert.Equal(t, "Photo", TypeLabel("photo"))
	assert.Equal(t, "Home Video", TypeLabel("home_video"))
}

func TestSummaryTable(t *testing.T) {
	rep := &export.Report{Sections: []export.SectionReport{
		{Title: "Movies", Type: media.TypeMovie, Status: export.StatusExported, Rows: 1234, Skipped: 2, Bytes: 2048},
		{Title: "Photos", Type: "photo", Status: export.StatusUnsupported},
	}}

	out := SummaryTable(rep)

	assert.Contains(t, out, "Movies")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "unsupported")
}

func TestSectionsTable(t *testing.T) {
	out := SectionsTable([]SectionInfo{
		{Title: "Movies", Type: media.TypeMovie, Supported: true},
		{Title: "Photos", Type: "photo"},
	})

	assert.Contains(t, out, "Exportable")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}
