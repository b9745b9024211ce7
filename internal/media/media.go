// Package media defines the read-only views the exporter consumes. Library
// adapters (the Plex HTTP API, the Plex database file) implement these
// interfaces; nothing in the export pipeline depends on a concrete client.
package media

import (
	"context"
	"time"
)

// Type is the media type tag of a library section
type Type string

const (
	TypeMovie  Type = "movie"
	TypeShow   Type = "show"
	TypeArtist Type = "artist"
)

// Library enumerates the sections of one media server
type Library interface {
	Sections(ctx context.Context) ([]Section, error)
}

// Section is a named, typed collection of items
type Section interface {
	Title() string
	Type() Type
	Items(ctx context.Context) ([]Item, error)
}

// Item is the part every media item shares
type Item interface {
	Title() string
	AddedAt() *time.Time
	UpdatedAt() *time.Time
}

// Loader is implemented by items that fetch their details lazily.
// Load must be called before any other accessor is used.
type Loader interface {
	Load(ctx context.Context) error
}

// Identified exposes the opaque provider identifier ("" when absent)
type Identified interface {
	GUID() string
}

// Alternates exposes additional provider ids attached by newer agents,
// e.g. "imdb://tt0133093" or "tmdb://603".
type Alternates interface {
	AlternateGUIDs() []string
}

// Stream describes one media version of a movie
type Stream struct {
	VideoResolution string
	VideoCodec      string
	Container       string
	Bitrate         *int   // kbps
	Size            *int64 // bytes
	AudioChannels   *int
}

// MovieView is a movie as seen by the exporter
type MovieView interface {
	Item
	Identified
	Year() *int
	Rating() *float64
	Summary() string
	Duration() *int64 // milliseconds
	Genres() []string
	Directors() []string
	Writers() []string
	Actors() []string
	Streams() []Stream
}

// Season is one season of a show
type Season struct {
	Title string
	Index int
}

// Episode is one episode of a show
type Episode struct {
	Title  string
	Season int
	Index  int
}

// ShowView is a TV show as seen by the exporter
type ShowView interface {
	Item
	Identified
	Year() *int
	Rating() *float64
	Summary() string
	Genres() []string
	Seasons(ctx context.Context) ([]Season, error)
	Episodes(ctx context.Context) ([]Episode, error)
}

// Track is one track of an album
type Track struct {
	Title string
	Index int
}

// AlbumView is an album of an artist
type AlbumView interface {
	Title() string
	Tracks(ctx context.Context) ([]Track, error)
}

// ArtistView is a music artist as seen by the exporter
type ArtistView interface {
	Item
	Genres() []string
	Albums(ctx context.Context) ([]AlbumView, error)
}
