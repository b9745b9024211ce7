package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jacobfholland/plexport/internal/config"
	"github.com/jacobfholland/plexport/internal/database"
	"github.com/jacobfholland/plexport/internal/export"
	"github.com/jacobfholland/plexport/internal/media"
	"github.com/jacobfholland/plexport/internal/plexapi"
)

// openLibrary connects to the configured source. The returned function
// releases it.
func openLibrary(ctx context.Context, cfg *config.Config, log export.Logger) (media.Library, func(), error) {
	switch cfg.Plex.Source {
	case config.SourceDatabase:
		if _, err := os.Stat(cfg.Plex.Database); err != nil {
			return nil, nil, fmt.Errorf("plex database: %w", err)
		}
		db, err := database.Open(cfg.Plex.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Opened Plex database", "path", cfg.Plex.Database)
		return db, func() { _ = db.Close() }, nil

	default:
		client, err := plexapi.New(plexapi.Options{
			URL:     cfg.Plex.URL,
			Token:   cfg.Plex.Token,
			Timeout: cfg.Timeout(),
		})
		if err != nil {
			return nil, nil, err
		}
		server, err := client.Ping(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Plex.URL, err)
		}
		log.Info("Connected to Plex server", "server", server.Name, "version", server.Version)
		return client, func() {}, nil
	}
}
