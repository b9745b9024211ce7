package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacobfholland/plexport/internal/cli"
	"github.com/jacobfholland/plexport/internal/export"
)

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List library sections and whether they can be exported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cli.ConfigureOutput()
			log, err := cli.NewLogger(cli.LogOptions{Level: cfg.Log.Level, Console: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer log.Close()

			lib, release, err := openLibrary(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer release()

			sections, err := lib.Sections(cmd.Context())
			if err != nil {
				return fmt.Errorf("list library sections: %w", err)
			}

			infos := make([]cli.SectionInfo, 0, len(sections))
			for _, s := range sections {
				_, ok := export.HandlerFor(s.Type())
				infos = append(infos, cli.SectionInfo{Title: s.Title(), Type: s.Type(), Supported: ok})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SectionsTable(infos))

			var labels []string
			for _, kind := range export.SupportedTypes() {
				labels = append(labels, cli.TypeLabel(kind))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exportable types: "+strings.Join(labels, ", "))
			return nil
		},
	}
}
