package export

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jacobfholland/plexport/internal/agent"
	"github.com/jacobfholland/plexport/internal/media"
)

// ErrIncompatibleItem is reported for items whose view does not match the
// section's media type
var ErrIncompatibleItem = errors.New("item does not match section type")

const bytesPerMB = 1024 * 1024

var (
	MovieSchema = NewSchema(
		"Name", "Year", "Link", "Rating", "Summary", "Duration (mins)",
		"Genres", "Directors", "Writers", "Actors",
		"Resolution", "Codec", "Container", "Bitrate", "Size (MB)", "Audio Channels",
		"Added At", "Updated At",
	)
	ShowSchema = NewSchema(
		"Name", "Year", "Link", "Rating", "Summary", "Genres",
		"Total Seasons", "Total Episodes", "Added At", "Updated At",
	)
	ArtistSchema = NewSchema(
		"Artist Name", "Genres", "Albums", "Tracks", "Added At", "Updated At",
	)
)

// Result is the outcome of extracting one item: a record with any
// diagnostics, or a skip reason in Err
type Result struct {
	Title       string
	Record      *Record
	Diagnostics []string
	Err         error
}

// Skipped reports whether the item produced no row
func (r Result) Skipped() bool {
	return r.Err != nil || r.Record == nil
}

func (r *Result) warn(format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

// Extractor projects one item onto a record
type Extractor func(ctx context.Context, item media.Item) Result

// Extract runs fn against item, loading lazy items first. Failures inside
// the item's accessors, including panics, skip the item.
func Extract(ctx context.Context, fn Extractor, item media.Item) (res Result) {
	title := titleOf(item)
	defer func() {
		if p := recover(); p != nil {
			res = Result{Title: title, Err: fmt.Errorf("read item attributes: %v", p)}
		}
	}()

	if loader, ok := item.(media.Loader); ok {
		if err := loader.Load(ctx); err != nil {
			return Result{Title: title, Err: fmt.Errorf("load item: %w", err)}
		}
	}
	return fn(ctx, item)
}

func titleOf(item media.Item) (title string) {
	defer func() {
		if recover() != nil {
			title = "<unknown>"
		}
	}()
	return item.Title()
}

// setLink resolves the external link and records why there is none
func setLink(res *Result, rec *Record, kind media.Type, item media.Identified) {
	link, ok := agent.ResolveLink(kind, item)
	guid := item.GUID()
	switch {
	case agent.IsUnmatched(guid):
		res.warn("unmatched %s detected: %s", kind, res.Title)
	case !ok:
		res.warn("no external link for %s %s (identifier %q)", kind, res.Title, guid)
	}
	if ok {
		rec.Set("Link", link)
	}
}

// ExtractMovie projects a movie onto MovieSchema
func ExtractMovie(_ context.Context, item media.Item) Result {
	movie, ok := item.(media.MovieView)
	if !ok {
		return Result{Title: item.Title(), Err: fmt.Errorf("%w: %T is not a movie", ErrIncompatibleItem, item)}
	}

	res := Result{Title: movie.Title()}
	rec := MovieSchema.NewRecord()
	rec.Set("Name", movie.Title())
	rec.Set("Year", optInt(movie.Year()))
	setLink(&res, rec, media.TypeMovie, movie)
	rec.Set("Rating", optFloat(movie.Rating()))
	rec.Set("Summary", movie.Summary())
	if d := movie.Duration(); d != nil {
		rec.Set("Duration (mins)", int64(math.Round(float64(*d)/60000)))
	}
	rec.Set("Genres", joinTags(movie.Genres()))
	rec.Set("Directors", joinTags(movie.Directors()))
	rec.Set("Writers", joinTags(movie.Writers()))
	rec.Set("Actors", joinTags(movie.Actors()))

	if streams := movie.Streams(); len(streams) > 0 {
		s := streams[0]
		rec.Set("Resolution", optString(s.VideoResolution))
		rec.Set("Codec", optString(s.VideoCodec))
		rec.Set("Container", optString(s.Container))
		rec.Set("Bitrate", optInt(s.Bitrate))
		if s.Size != nil {
			rec.Set("Size (MB)", float64(*s.Size)/bytesPerMB)
		}
		if s.AudioChannels != nil && *s.AudioChannels > 0 {
			rec.Set("Audio Channels", *s.AudioChannels)
		}
	} else {
		res.warn("movie %s has no media streams", res.Title)
	}

	rec.Set("Added At", timestamp(movie.AddedAt()))
	rec.Set("Updated At", timestamp(movie.UpdatedAt()))
	res.Record = rec
	return res
}

// ExtractShow projects a TV show onto ShowSchema
func ExtractShow(ctx context.Context, item media.Item) Result {
	show, ok := item.(media.ShowView)
	if !ok {
		return Result{Title: item.Title(), Err: fmt.Errorf("%w: %T is not a show", ErrIncompatibleItem, item)}
	}

	res := Result{Title: show.Title()}
	seasons, err := show.Seasons(ctx)
	if err != nil {
		res.Err = fmt.Errorf("list seasons: %w", err)
		return res
	}
	episodes, err := show.Episodes(ctx)
	if err != nil {
		res.Err = fmt.Errorf("list episodes: %w", err)
		return res
	}

	rec := ShowSchema.NewRecord()
	rec.Set("Name", show.Title())
	rec.Set("Year", optInt(show.Year()))
	setLink(&res, rec, media.TypeShow, show)
	rec.Set("Rating", optFloat(show.Rating()))
	rec.Set("Summary", show.Summary())
	rec.Set("Genres", joinTags(show.Genres()))
	rec.Set("Total Seasons", len(seasons))
	rec.Set("Total Episodes", len(episodes))
	rec.Set("Added At", timestamp(show.AddedAt()))
	rec.Set("Updated At", timestamp(show.UpdatedAt()))
	res.Record = rec
	return res
}

// ExtractArtist projects a music artist onto ArtistSchema
func ExtractArtist(ctx context.Context, item media.Item) Result {
	artist, ok := item.(media.ArtistView)
	if !ok {
		return Result{Title: item.Title(), Err: fmt.Errorf("%w: %T is not an artist", ErrIncompatibleItem, item)}
	}

	res := Result{Title: artist.Title()}
	albums, err := artist.Albums(ctx)
	if err != nil {
		res.Err = fmt.Errorf("list albums: %w", err)
		return res
	}
	tracks := 0
	for _, album := range albums {
		t, err := album.Tracks(ctx)
		if err != nil {
			res.Err = fmt.Errorf("list tracks of %s: %w", album.Title(), err)
			return res
		}
		tracks += len(t)
	}

	rec := ArtistSchema.NewRecord()
	rec.Set("Artist Name", artist.Title())
	rec.Set("Genres", joinTags(artist.Genres()))
	rec.Set("Albums", len(albums))
	rec.Set("Tracks", tracks)
	rec.Set("Added At", timestamp(artist.AddedAt()))
	rec.Set("Updated At", timestamp(artist.UpdatedAt()))
	res.Record = rec
	return res
}
