package plexapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jacobfholland/plexport/internal/media"
)

var withGuids = url.Values{"includeGuids": {"1"}}

// Sections implements media.Library
func (c *Client) Sections(ctx context.Context) ([]media.Section, error) {
	var mc mediaContainer
	if err := c.get(ctx, "/library/sections", nil, &mc); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	sections := make([]media.Section, 0, len(mc.Directories))
	for _, d := range mc.Directories {
		if d.Key == "" {
			continue
		}
		sections = append(sections, &section{client: c, key: d.Key, title: d.Title, kind: media.Type(d.Type)})
	}
	return sections, nil
}

type section struct {
	client *Client
	key    string
	title  string
	kind   media.Type
}

func (s *section) Title() string    { return s.title }
func (s *section) Type() media.Type { return s.kind }

func (s *section) Items(ctx context.Context) ([]media.Item, error) {
	var mc mediaContainer
	path := "/library/sections/" + url.PathEscape(s.key) + "/all"
	if err := s.client.get(ctx, path, withGuids, &mc); err != nil {
		return nil, err
	}

	var items []media.Item
	switch s.kind {
	case media.TypeMovie:
		for _, v := range mc.Videos {
			items = append(items, &movie{client: s.client, video: v})
		}
	case media.TypeShow:
		for _, d := range mc.Directories {
			items = append(items, &show{entry: entry{client: s.client, metadata: d.metadata}})
		}
	case media.TypeArtist:
		for _, d := range mc.Directories {
			items = append(items, &artist{entry: entry{client: s.client, metadata: d.metadata}})
		}
	default:
		return nil, fmt.Errorf("section %q: unsupported type %q", s.title, s.kind)
	}
	return items, nil
}

// fetch loads the full metadata document of one item
func (c *Client) fetch(ctx context.Context, ratingKey string) (*mediaContainer, error) {
	if ratingKey == "" {
		return nil, fmt.Errorf("item has no rating key")
	}
	var mc mediaContainer
	if err := c.get(ctx, "/library/metadata/"+url.PathEscape(ratingKey), withGuids, &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

func (c *Client) children(ctx context.Context, ratingKey string) (*mediaContainer, error) {
	var mc mediaContainer
	if err := c.get(ctx, "/library/metadata/"+url.PathEscape(ratingKey)+"/children", nil, &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

type movie struct {
	client *Client
	video
}

// Load replaces the listing entry with the full document, which carries
// every tag and the alternate guids
func (m *movie) Load(ctx context.Context) error {
	mc, err := m.client.fetch(ctx, m.RatingKey)
	if err != nil {
		return err
	}
	if len(mc.Videos) == 0 {
		return fmt.Errorf("metadata %s: empty response", m.RatingKey)
	}
	m.video = mc.Videos[0]
	return nil
}

func (m *movie) Title() string            { return m.metadata.Title }
func (m *movie) GUID() string             { return m.metadata.GUID }
func (m *movie) AlternateGUIDs() []string { return guids(m.Guids) }
func (m *movie) Year() *int               { return m.metadata.Year }
func (m *movie) Rating() *float64         { return m.metadata.Rating }
func (m *movie) Summary() string          { return m.metadata.Summary }
func (m *movie) Duration() *int64         { return m.video.Duration }
func (m *movie) Genres() []string         { return tags(m.metadata.Genres) }
func (m *movie) Directors() []string      { return tags(m.video.Directors) }
func (m *movie) Writers() []string        { return tags(m.video.Writers) }
func (m *movie) Actors() []string         { return tags(m.Roles) }
func (m *movie) AddedAt() *time.Time      { return epoch(m.metadata.AddedAt) }
func (m *movie) UpdatedAt() *time.Time    { return epoch(m.metadata.UpdatedAt) }

// Streams reports one stream per Media element; a version's size is the
// sum of its parts
func (m *movie) Streams() []media.Stream {
	streams := make([]media.Stream, 0, len(m.Media))
	for _, md := range m.Media {
		s := media.Stream{
			VideoResolution: md.VideoResolution,
			VideoCodec:      md.VideoCodec,
			Container:       md.Container,
			Bitrate:         md.Bitrate,
			AudioChannels:   md.AudioChannels,
		}
		for _, p := range md.Parts {
			if p.Size == nil {
				continue
			}
			if s.Size == nil {
				s.Size = new(int64)
			}
			*s.Size += *p.Size
		}
		streams = append(streams, s)
	}
	return streams
}

// entry is a Directory item (show, artist) with lazy full metadata
type entry struct {
	client *Client
	metadata
}

func (e *entry) load(ctx context.Context) error {
	mc, err := e.client.fetch(ctx, e.RatingKey)
	if err != nil {
		return err
	}
	if len(mc.Directories) == 0 {
		return fmt.Errorf("metadata %s: empty response", e.RatingKey)
	}
	e.metadata = mc.Directories[0].metadata
	return nil
}

func (e *entry) Title() string            { return e.metadata.Title }
func (e *entry) GUID() string             { return e.metadata.GUID }
func (e *entry) AlternateGUIDs() []string { return guids(e.Guids) }
func (e *entry) Year() *int               { return e.metadata.Year }
func (e *entry) Rating() *float64         { return e.metadata.Rating }
func (e *entry) Summary() string          { return e.metadata.Summary }
func (e *entry) Genres() []string         { return tags(e.metadata.Genres) }
func (e *entry) AddedAt() *time.Time      { return epoch(e.metadata.AddedAt) }
func (e *entry) UpdatedAt() *time.Time    { return epoch(e.metadata.UpdatedAt) }

type show struct {
	entry
}

func (s *show) Load(ctx context.Context) error { return s.load(ctx) }

// Seasons lists the season directories; the synthetic "All episodes"
// entry has no rating key and is skipped
func (s *show) Seasons(ctx context.Context) ([]media.Season, error) {
	mc, err := s.client.children(ctx, s.RatingKey)
	if err != nil {
		return nil, err
	}
	var seasons []media.Season
	for _, d := range mc.Directories {
		if d.RatingKey == "" || d.Type != "season" {
			continue
		}
		seasons = append(seasons, media.Season{Title: d.metadata.Title, Index: deref(d.Index)})
	}
	return seasons, nil
}

func (s *show) Episodes(ctx context.Context) ([]media.Episode, error) {
	var mc mediaContainer
	path := "/library/metadata/" + url.PathEscape(s.RatingKey) + "/allLeaves"
	if err := s.client.get(ctx, path, nil, &mc); err != nil {
		return nil, err
	}
	episodes := make([]media.Episode, 0, len(mc.Videos))
	for _, v := range mc.Videos {
		episodes = append(episodes, media.Episode{
			Title:  v.metadata.Title,
			Season: deref(v.ParentIndex),
			Index:  deref(v.Index),
		})
	}
	return episodes, nil
}

type artist struct {
	entry
}

func (a *artist) Load(ctx context.Context) error { return a.load(ctx) }

func (a *artist) Albums(ctx context.Context) ([]media.AlbumView, error) {
	mc, err := a.client.children(ctx, a.RatingKey)
	if err != nil {
		return nil, err
	}
	var albums []media.AlbumView
	for _, d := range mc.Directories {
		if d.RatingKey == "" {
			continue
		}
		albums = append(albums, &album{client: a.client, key: d.RatingKey, title: d.metadata.Title})
	}
	return albums, nil
}

type album struct {
	client *Client
	key    string
	title  string
}

func (a *album) Title() string { return a.title }

func (a *album) Tracks(ctx context.Context) ([]media.Track, error) {
	mc, err := a.client.children(ctx, a.key)
	if err != nil {
		return nil, err
	}
	tracks := make([]media.Track, 0, len(mc.Tracks))
	for _, t := range mc.Tracks {
		tracks = append(tracks, media.Track{Title: t.Title, Index: deref(t.Index)})
	}
	return tracks, nil
}
