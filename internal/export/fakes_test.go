package export

import (
	"context"
	"errors"
	"time"

	"github.com/jacobfholland/plexport/internal/media"
)

type fakeLibrary struct {
	sections []media.Section
	err      error
}

func (l *fakeLibrary) Sections(context.Context) ([]media.Section, error) {
	return l.sections, l.err
}

type fakeSection struct {
	title string
	kind  media.Type
	items []media.Item
	err   error
}

func (s *fakeSection) Title() string    { return s.title }
func (s *fakeSection) Type() media.Type { return s.kind }
func (s *fakeSection) Items(context.Context) ([]media.Item, error) {
	return s.items, s.err
}

type fakeMovie struct {
	title     string
	year      *int
	guid      string
	rating    *float64
	summary   string
	duration  *int64
	genres    []string
	directors []string
	writers   []string
	actors    []string
	streams   []media.Stream
	added     *time.Time
	updated   *time.Time
	loadErr   error
	loaded    bool
}

func (m *fakeMovie) Title() string           { return m.title }
func (m *fakeMovie) Year() *int              { return m.year }
func (m *fakeMovie) GUID() string            { return m.guid }
func (m *fakeMovie) Rating() *float64        { return m.rating }
func (m *fakeMovie) Summary() string         { return m.summary }
func (m *fakeMovie) Duration() *int64        { return m.duration }
func (m *fakeMovie) Genres() []string        { return m.genres }
func (m *fakeMovie) Directors() []string     { return m.directors }
func (m *fakeMovie) Writers() []string       { return m.writers }
func (m *fakeMovie) Actors() []string        { return m.actors }
func (m *fakeMovie) Streams() []media.Stream { return m.streams }
func (m *fakeMovie) AddedAt() *time.Time     { return m.added }
func (m *fakeMovie) UpdatedAt() *time.Time   { return m.updated }

// lazyMovie wraps fakeMovie with a Load step
type lazyMovie struct{ *fakeMovie }

func (m lazyMovie) Load(context.Context) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = true
	return nil
}

// brokenMovie panics when its streams are read
type brokenMovie struct{ *fakeMovie }

func (brokenMovie) Streams() []media.Stream {
	var streams *[]media.Stream
	return *streams
}

type fakeShow struct {
	title    string
	year     *int
	guid     string
	genres   []string
	seasons  []media.Season
	episodes []media.Episode
	err      error
	added    *time.Time
}

func (s *fakeShow) Title() string         { return s.title }
func (s *fakeShow) Year() *int            { return s.year }
func (s *fakeShow) GUID() string          { return s.guid }
func (s *fakeShow) Rating() *float64      { return nil }
func (s *fakeShow) Summary() string       { return "" }
func (s *fakeShow) Genres() []string      { return s.genres }
func (s *fakeShow) AddedAt() *time.Time   { return s.added }
func (s *fakeShow) UpdatedAt() *time.Time { return nil }
func (s *fakeShow) Seasons(context.Context) ([]media.Season, error) {
	return s.seasons, s.err
}
func (s *fakeShow) Episodes(context.Context) ([]media.Episode, error) {
	return s.episodes, s.err
}

type fakeAlbum struct {
	title  string
	tracks int
	err    error
}

func (a *fakeAlbum) Title() string { return a.title }
func (a *fakeAlbum) Tracks(context.Context) ([]media.Track, error) {
	if a.err != nil {
		return nil, a.err
	}
	return make([]media.Track, a.tracks), nil
}

type fakeArtist struct {
	title  string
	genres []string
	albums []media.AlbumView
	err    error
	calls  int
}

func (a *fakeArtist) Title() string         { return a.title }
func (a *fakeArtist) Genres() []string      { return a.genres }
func (a *fakeArtist) AddedAt() *time.Time   { return nil }
func (a *fakeArtist) UpdatedAt() *time.Time { return nil }
func (a *fakeArtist) Albums(context.Context) ([]media.AlbumView, error) {
	a.calls++
	return a.albums, a.err
}

// cancelOnTitle cancels a context the first time its title is read
type cancelOnTitle struct {
	*fakeMovie
	cancel context.CancelFunc
}

func (c cancelOnTitle) Title() string {
	c.cancel()
	return c.fakeMovie.Title()
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func matrix() *fakeMovie {
	added := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	return &fakeMovie{
		title:     "The Matrix",
		year:      ptr(1999),
		guid:      "com.plexapp.agents.themoviedb://603?lang=en",
		rating:    ptr(8.7),
		summary:   "Neo wakes up.",
		duration:  ptr(int64(8160000)),
		genres:    []string{"Action", "Science Fiction"},
		directors: []string{"Lana Wachowski", "Lilly Wachowski"},
		writers:   []string{"Lana Wachowski"},
		actors:    []string{"Keanu Reeves", "Carrie-Anne Moss"},
		streams: []media.Stream{
			{VideoResolution: "1080", VideoCodec: "h264", Container: "mkv", Bitrate: ptr(10240), Size: ptr(int64(2 * 1024 * 1024 * 1024)), AudioChannels: ptr(6)},
			{VideoResolution: "4k", VideoCodec: "hevc", Container: "mp4"},
		},
		added: &added,
	}
}
