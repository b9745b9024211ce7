package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacobfholland/plexport/internal/config"
	"github.com/jacobfholland/plexport/internal/tabular"
)

// flagKeys maps configuration flags to config keys
var flagKeys = map[string]string{
	"source":     "plex.source",
	"plex-url":   "plex.url",
	"plex-token": "plex.token",
	"database":   "plex.database",
	"timeout":    "plex.timeout_seconds",
	"export-dir": "export.dir",
	"format":     "export.format",
	"sections":   "export.sections",
	"log-dir":    "log.dir",
	"log-level":  "log.level",
}

type commandContext struct {
	configPath string
}

// loadConfig resolves the configuration with the flags the user actually
// set taking precedence
func (c *commandContext) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		Path:      strings.TrimSpace(c.configPath),
		Overrides: changedFlags(cmd),
	})
}

func changedFlags(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if !flags.Changed(name) {
			continue
		}
		if name == "sections" {
			values, err := flags.GetStringSlice(name)
			if err == nil {
				overrides[key] = values
			}
			continue
		}
		overrides[key] = flags.Lookup(name).Value.String()
	}
	return overrides
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	var noProgress bool

	rootCmd := &cobra.Command{
		Use:   "plexport",
		Short: "Export Plex library sections to CSV or Excel files",
		Long: `plexport writes one file per Plex library section, one row per movie,
show or artist, with metadata, external database links and media details.

Settings are read from ` + config.UserFile() + ` and ./` + config.LocalFile + `,
then from PLEX_URL, PLEX_TOKEN, PLEX_DB, PLEX_SOURCE, EXPORT_DIR, EXPORT_FORMAT,
SECTIONS, LOG_DIR and LOG_LEVEL, then from flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, ctx, noProgress)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path")
	pf.String("source", config.SourceAPI, "Library source: api (Plex server) or database (Plex database file)")
	pf.String("plex-url", "", "Plex server URL, e.g. http://localhost:32400")
	pf.String("plex-token", "", "Plex authentication token")
	pf.String("database", "", "Path to com.plexapp.plugins.library.db (source=database)")
	pf.Int("timeout", 10, "Plex request timeout in seconds")
	pf.String("export-dir", "exports", "Directory for export files")
	pf.String("format", "csv", "Output format: "+strings.Join(tabular.Names(), ", "))
	pf.StringSlice("sections", nil, "Library sections to export (default: all)")
	pf.String("log-dir", "logs", "Directory for the log file")
	pf.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newSectionsCommand(ctx))
	rootCmd.AddCommand(newInitCommand(ctx))

	return rootCmd
}
