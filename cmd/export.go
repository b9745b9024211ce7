package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacobfholland/plexport/internal/cli"
	"github.com/jacobfholland/plexport/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var noProgress bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every selected library section to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, ctx, noProgress)
		},
	}
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func runExport(cmd *cobra.Command, c *commandContext, noProgress bool) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cli.ConfigureOutput()
	log, err := cli.NewLogger(cli.LogOptions{
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer log.Close()

	cli.PrintBanner(version)
	cli.PrintLabel("Source", cfg.Plex.Source)
	cli.PrintLabel("Output", cli.Path(cfg.Export.Dir)+" ("+cfg.Export.Format+")")
	if len(cfg.Export.Sections) > 0 {
		cli.PrintLabel("Sections", strings.Join(cfg.Export.Sections, ", "))
	}
	if log.Path() != "" {
		cli.PrintLabel("Log", cli.Path(log.Path()))
	}
	log.Debug("Starting export", "run_id", log.RunID(), "source", cfg.Plex.Source, "format", cfg.Export.Format)

	exporter, err := export.New(export.Options{
		Dir:      cfg.Export.Dir,
		Format:   cfg.Export.Format,
		Sections: cfg.Export.Sections,
		Logger:   log,
		Progress: cli.NewSectionProgress(cli.IsTerminal(os.Stdout) && !noProgress),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	lib, release, err := openLibrary(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open library", "error", err)
		return err
	}
	defer release()

	unlock, err := export.LockDir(cfg.Export.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Warn("Failed to release export lock", "error", err)
		}
	}()

	rep, runErr := exporter.Run(ctx, lib)
	cli.PrintReport(rep)
	if runErr != nil && !errors.Is(runErr, export.ErrInterrupted) {
		log.Error("Export failed", "error", runErr)
	}
	return runErr
}
