package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jacobfholland/plexport/internal/cli"
	"github.com/jacobfholland/plexport/internal/config"
	"github.com/jacobfholland/plexport/internal/tabular"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var (
		path      string
		overwrite bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file, asking for any setting not given as a flag",
		Long: `init resolves the configuration the same way export does, asks for the
remaining settings when stdin is a terminal and writes the result as TOML.
The file is written to --path, else --config, else ` + config.UserFile() + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if cfg == nil {
				// --config names the file we are about to create
				cfg, err = config.Load(config.LoadOptions{Overrides: changedFlags(cmd)})
				if err != nil {
					return err
				}
			}

			target := strings.TrimSpace(path)
			if target == "" {
				target = strings.TrimSpace(ctx.configPath)
			}
			if target == "" {
				target = config.UserFile()
			}

			interactive := !yes && cli.IsTerminal(cmd.InOrStdin())
			prompter := cli.NewPrompterFrom(cmd.InOrStdin(), cmd.OutOrStdout())

			if _, err := os.Stat(target); err == nil && !overwrite {
				if !interactive {
					return fmt.Errorf("%s already exists (use --overwrite to replace it)", target)
				}
				ok, err := prompter.AskYesNo(fmt.Sprintf("%s already exists. Overwrite?", target))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Left", target, "unchanged")
					return nil
				}
			}

			if interactive {
				if err := promptConfig(prompter, cfg, changedFlags(cmd)); err != nil {
					return err
				}
			}

			if err := cfg.Save(target); err != nil {
				return err
			}
			pterm.Success.Println("Configuration written to " + cli.Path(target))
			if err := cfg.Validate(); err != nil {
				pterm.Warning.Println(err.Error())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not prompt; write the resolved settings as they are")
	return cmd
}

// promptConfig asks for every setting not already fixed by a flag and
// applies the answers to cfg
func promptConfig(p *cli.Prompter, cfg *config.Config, fixed map[string]any) error {
	ask := func(q cli.Question) (string, bool, error) {
		if _, ok := fixed[q.Key]; ok {
			return "", false, nil
		}
		v, err := p.Ask(q)
		return v, err == nil, err
	}

	cli.PrintGroup("Plex")
	source, ok, err := ask(cli.Question{
		Key:     "plex.source",
		Label:   "Read the library from",
		Default: cfg.Plex.Source,
		Options: []string{config.SourceAPI, config.SourceDatabase},
	})
	if err != nil {
		return err
	}
	if ok {
		cfg.Plex.Source = source
	}

	var questions []cli.Question
	if cfg.Plex.Source == config.SourceDatabase {
		questions = append(questions,
			cli.Question{Key: "plex.database", Label: "Plex database file", Default: cfg.Plex.Database},
		)
	} else {
		questions = append(questions,
			cli.Question{Key: "plex.url", Label: "Plex server URL", Default: cfg.Plex.URL},
			cli.Question{Key: "plex.token", Label: "Plex token", Default: cfg.Plex.Token},
		)
	}
	sections := strings.Join(cfg.Export.Sections, ",")
	if sections == "" {
		sections = config.AllSections
	}
	questions = append(questions,
		cli.Question{Key: "export.dir", Label: "Export directory", Default: cfg.Export.Dir},
		cli.Question{Key: "export.format", Label: "File format", Default: cfg.Export.Format, Options: tabular.Names()},
		cli.Question{Key: "export.sections", Label: "Sections (comma separated)", Default: sections},
		cli.Question{Key: "log.dir", Label: "Log directory", Default: cfg.Log.Dir},
		cli.Question{Key: "log.level", Label: "Log level", Default: cfg.Log.Level, Options: []string{"trace", "debug", "info", "warn", "error"}},
	)

	for _, q := range questions {
		if q.Key == "export.dir" {
			cli.PrintGroup("Export")
		}
		v, ok, err := ask(q)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := applyAnswer(cfg, q.Key, v); err != nil {
			return err
		}
	}
	return nil
}

func applyAnswer(cfg *config.Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "plex.source":
		cfg.Plex.Source = value
	case "plex.url":
		cfg.Plex.URL = strings.TrimRight(value, "/")
	case "plex.token":
		cfg.Plex.Token = value
	case "plex.database":
		cfg.Plex.Database = value
	case "export.dir":
		cfg.Export.Dir = value
	case "export.format":
		cfg.Export.Format = value
	case "export.sections":
		cfg.Export.Sections = config.ParseSections(value)
	case "log.dir":
		cfg.Log.Dir = value
	case "log.level":
		cfg.Log.Level = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
