package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jacobfholland/plexport/internal/media"
)

// Sections implements media.Library over the database file
func (p *PlexDB) Sections(ctx context.Context) ([]media.Section, error) {
	sections, err := p.GetLibrarySections(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]media.Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, &section{db: p, LibrarySection: s})
	}
	return out, nil
}

// sectionTypes maps section_type to the media type tag; anything else is
// passed through as its number so the exporter reports it as unsupported
var sectionTypes = map[int]media.Type{
	SectionTypeMovie:  media.TypeMovie,
	SectionTypeShow:   media.TypeShow,
	SectionTypeArtist: media.TypeArtist,
	SectionTypePhoto:  "photo",
}

type section struct {
	db *PlexDB
	LibrarySection
}

func (s *section) Title() string { return s.Name }

func (s *section) Type() media.Type {
	if t, ok := sectionTypes[s.SectionType]; ok {
		return t
	}
	return media.Type("type-" + strconv.Itoa(s.SectionType))
}

func (s *section) Items(ctx context.Context) ([]media.Item, error) {
	var metadataType int
	switch s.SectionType {
	case SectionTypeMovie:
		metadataType = MediaTypeMovie
	case SectionTypeShow:
		metadataType = MediaTypeShow
	case SectionTypeArtist:
		metadataType = MediaTypeArtist
	default:
		return nil, fmt.Errorf("section %q: unsupported section type %d", s.Name, s.SectionType)
	}

	rows, err := s.db.GetMetadataItems(ctx, s.ID, metadataType)
	if err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(rows))
	for _, m := range rows {
		base := item{db: s.db, MetadataItem: m}
		switch metadataType {
		case MediaTypeMovie:
			items = append(items, &movie{item: base})
		case MediaTypeShow:
			items = append(items, &show{item: base})
		default:
			items = append(items, &artist{item: base})
		}
	}
	return items, nil
}

// item holds the columns every metadata row shares
type item struct {
	db *PlexDB
	MetadataItem
	genres []string
}

func (i *item) Title() string         { return i.MetadataItem.Title }
func (i *item) GUID() string          { return i.MetadataItem.GUID }
func (i *item) Year() *int            { return i.MetadataItem.Year }
func (i *item) Rating() *float64      { return i.MetadataItem.Rating }
func (i *item) Summary() string       { return i.MetadataItem.Summary }
func (i *item) Genres() []string      { return i.genres }
func (i *item) AddedAt() *time.Time   { return i.MetadataItem.AddedAt }
func (i *item) UpdatedAt() *time.Time { return i.MetadataItem.UpdatedAt }

func (i *item) loadGenres(ctx context.Context) (err error) {
	i.genres, err = i.db.GetTags(ctx, i.ID, TagGenre)
	return err
}

type movie struct {
	item
	directors, writers, actors []string
	streams                    []media.Stream
}

// Load reads the tags and media versions of the movie
func (m *movie) Load(ctx context.Context) error {
	if err := m.loadGenres(ctx); err != nil {
		return err
	}
	for _, t := range []struct {
		kind int
		dst  *[]string
	}{
		{TagDirector, &m.directors},
		{TagWriter, &m.writers},
		{TagActor, &m.actors},
	} {
		tags, err := m.db.GetTags(ctx, m.ID, t.kind)
		if err != nil {
			return err
		}
		*t.dst = tags
	}

	versions, err := m.db.GetMediaItems(ctx, m.ID)
	if err != nil {
		return err
	}
	var parts []MediaPart
	for _, v := range versions {
		if v.Size == nil && parts == nil {
			if parts, err = m.db.GetMediaParts(ctx, m.ID); err != nil {
				return err
			}
		}
		m.streams = append(m.streams, toStream(v, parts))
	}
	return nil
}

func (m *movie) Duration() *int64        { return m.MetadataItem.Duration }
func (m *movie) Directors() []string     { return m.directors }
func (m *movie) Writers() []string       { return m.writers }
func (m *movie) Actors() []string        { return m.actors }
func (m *movie) Streams() []media.Stream { return m.streams }

// toStream converts a media_items row; when the row has no size the sizes of
// its parts are summed
func toStream(v MediaItem, parts []MediaPart) media.Stream {
	s := media.Stream{
		VideoResolution: resolution(v.Width, v.Height),
		VideoCodec:      v.VideoCodec,
		Container:       v.Container,
		Size:            v.Size,
		AudioChannels:   v.AudioChannels,
	}
	if v.Bitrate != nil {
		kbps := *v.Bitrate / 1000
		s.Bitrate = &kbps
	}
	if s.Size == nil {
		var total int64
		var found bool
		for _, p := range parts {
			if p.MediaItemID == v.ID && p.Size > 0 {
				total += p.Size
				found = true
			}
		}
		if found {
			s.Size = &total
		}
	}
	return s
}

// resolution buckets frame dimensions the way the server labels them
func resolution(width, height int) string {
	switch {
	case width == 0 && height == 0:
		return ""
	case width >= 3200 || height >= 1800:
		return "4k"
	case width >= 1700 || height >= 1000:
		return "1080"
	case width >= 1100 || height >= 700:
		return "720"
	case height >= 540:
		return "576"
	case height >= 420:
		return "480"
	default:
		return "sd"
	}
}

type show struct {
	item
}

func (s *show) Load(ctx context.Context) error { return s.loadGenres(ctx) }

func (s *show) Seasons(ctx context.Context) ([]media.Season, error) {
	rows, err := s.db.GetChildMetadata(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	var seasons []media.Season
	for _, r := range rows {
		if r.MetadataType != MediaTypeSeason {
			continue
		}
		seasons = append(seasons, media.Season{Title: r.Title, Index: deref(r.Index)})
	}
	return seasons, nil
}

func (s *show) Episodes(ctx context.Context) ([]media.Episode, error) {
	rows, err := s.db.GetGrandchildMetadata(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	var episodes []media.Episode
	for _, r := range rows {
		if r.MetadataType != MediaTypeEpisode {
			continue
		}
		episodes = append(episodes, media.Episode{Title: r.Title, Index: deref(r.Index)})
	}
	return episodes, nil
}

type artist struct {
	item
}

func (a *artist) Load(ctx context.Context) error { return a.loadGenres(ctx) }

func (a *artist) Albums(ctx context.Context) ([]media.AlbumView, error) {
	rows, err := a.db.GetChildMetadata(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	var albums []media.AlbumView
	for _, r := range rows {
		if r.MetadataType != MediaTypeAlbum {
			continue
		}
		albums = append(albums, &album{db: a.db, MetadataItem: r})
	}
	return albums, nil
}

type album struct {
	db *PlexDB
	MetadataItem
}

func (a *album) Title() string { return a.MetadataItem.Title }

func (a *album) Tracks(ctx context.Context) ([]media.Track, error) {
	rows, err := a.db.GetChildMetadata(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	var tracks []media.Track
	for _, r := range rows {
		if r.MetadataType != MediaTypeTrack {
			continue
		}
		tracks = append(tracks, media.Track{Title: r.Title, Index: deref(r.Index)})
	}
	return tracks, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
