package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobfholland/plexport/internal/media"
)

func TestExtractMovie(t *testing.T) {
	res := Extract(context.Background(), ExtractMovie, matrix())

	require.NoError(t, res.Err)
	require.False(t, res.Skipped())
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []any{
		"The Matrix", 1999, "https://www.themoviedb.org/movie/603", 8.7, "Neo wakes up.", int64(136),
		"Action, Science Fiction", "Lana Wachowski, Lilly Wachowski", "Lana Wachowski", "Keanu Reeves, Carrie-Anne Moss",
		"1080", "h264", "mkv", 10240, 2048.0, 6,
		"2021-03-04 05:06:07", nil,
	}, res.Record.Values())
}

func TestExtractMovieDurationRoundsHalfUp(t *testing.T) {
	m := matrix()
	m.duration = ptr(int64(7230000))

	res := ExtractMovie(context.Background(), m)
	assert.Equal(t, int64(121), res.Record.Value("Duration (mins)"))

	m.duration = nil
	res = ExtractMovie(context.Background(), m)
	assert.Nil(t, res.Record.Value("Duration (mins)"))
}

func TestExtractMovieWithoutStreams(t *testing.T) {
	m := matrix()
	m.streams = nil

	res := ExtractMovie(context.Background(), m)

	require.False(t, res.Skipped())
	assert.Len(t, res.Diagnostics, 1)
	for _, col := range []string{"Resolution", "Codec", "Container", "Bitrate", "Size (MB)", "Audio Channels"} {
		assert.Nil(t, res.Record.Value(col), col)
	}
}

func TestExtractMovieWithoutSize(t *testing.T) {
	m := matrix()
	m.streams = []media.Stream{{VideoResolution: "sd", AudioChannels: ptr(0)}}

	res := ExtractMovie(context.Background(), m)

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, "sd", res.Record.Value("Resolution"))
	assert.Nil(t, res.Record.Value("Codec"))
	assert.Nil(t, res.Record.Value("Size (MB)"))
	assert.Nil(t, res.Record.Value("Audio Channels"))
}

func TestExtractMovieUnmatched(t *testing.T) {
	for _, guid := range []string{"", "local://1234"} {
		m := matrix()
		m.guid = guid

		res := ExtractMovie(context.Background(), m)

		require.False(t, res.Skipped(), "unmatched movies are still written")
		assert.Nil(t, res.Record.Value("Link"))
		require.Len(t, res.Diagnostics, 1)
		assert.Contains(t, res.Diagnostics[0], "unmatched")
	}
}

func TestExtractMovieUnresolvableIdentifier(t *testing.T) {
	m := matrix()
	m.guid = "plex://movie/5d776825880197001ec967c6"

	res := ExtractMovie(context.Background(), m)

	assert.Nil(t, res.Record.Value("Link"))
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0], "no external link")
}

func TestExtractMovieEmptyTags(t *testing.T) {
	m := matrix()
	m.genres, m.directors, m.writers, m.actors = nil, []string{}, nil, nil

	res := ExtractMovie(context.Background(), m)

	for _, col := range []string{"Genres", "Directors", "Writers", "Actors"} {
		assert.Nil(t, res.Record.Value(col), col)
	}
}

func TestExtractTimestampKeepsSourceZone(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	added := time.Date(2020, 12, 31, 23, 30, 0, 0, zone)
	m := matrix()
	m.added = &added
	m.updated = &time.Time{}

	res := ExtractMovie(context.Background(), m)

	assert.Equal(t, "2020-12-31 23:30:00", res.Record.Value("Added At"))
	assert.Nil(t, res.Record.Value("Updated At"))
}

func TestExtractLoadsLazyItems(t *testing.T) {
	m := matrix()
	res := Extract(context.Background(), ExtractMovie, lazyMovie{m})
	require.NoError(t, res.Err)
	assert.True(t, m.loaded)

	m = matrix()
	m.loadErr = errBoom
	res = Extract(context.Background(), ExtractMovie, lazyMovie{m})
	assert.True(t, res.Skipped())
	assert.ErrorIs(t, res.Err, errBoom)
	assert.Equal(t, "The Matrix", res.Title)
}

func TestExtractRecoversFromBrokenItem(t *testing.T) {
	res := Extract(context.Background(), ExtractMovie, brokenMovie{matrix()})

	assert.True(t, res.Skipped())
	assert.Error(t, res.Err)
	assert.Nil(t, res.Record)
}

func TestExtractIncompatibleItem(t *testing.T) {
	res := Extract(context.Background(), ExtractMovie, &fakeArtist{title: "Daft Punk"})

	assert.True(t, res.Skipped())
	assert.ErrorIs(t, res.Err, ErrIncompatibleItem)
}

func TestExtractShow(t *testing.T) {
	show := &fakeShow{
		title:    "Breaking Bad",
		year:     ptr(2008),
		guid:     "com.plexapp.agents.thetvdb://81189?lang=en",
		genres:   []string{"Drama"},
		seasons:  make([]media.Season, 5),
		episodes: make([]media.Episode, 62),
	}

	res := Extract(context.Background(), ExtractShow, show)

	require.NoError(t, res.Err)
	assert.Equal(t, []any{
		"Breaking Bad", 2008, "https://www.thetvdb.com/series/81189/", nil, "", "Drama", 5, 62, nil, nil,
	}, res.Record.Values())
}

func TestExtractShowEnumerationFailure(t *testing.T) {
	res := Extract(context.Background(), ExtractShow, &fakeShow{title: "Lost", err: errBoom})

	assert.True(t, res.Skipped())
	assert.ErrorIs(t, res.Err, errBoom)
}

func TestExtractArtistSumsTracks(t *testing.T) {
	tests := []struct {
		name   string
		albums []media.AlbumView
		want   int
	}{
		{"no albums", nil, 0},
		{"one album", []media.AlbumView{&fakeAlbum{title: "Discovery", tracks: 14}}, 14},
		{"several albums", []media.AlbumView{
			&fakeAlbum{title: "Homework", tracks: 16},
			&fakeAlbum{title: "Discovery", tracks: 14},
			&fakeAlbum{title: "Alive 2007", tracks: 0},
		}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist := &fakeArtist{title: "Daft Punk", genres: []string{"Electronic", "House"}, albums: tt.albums}

			res := Extract(context.Background(), ExtractArtist, artist)

			require.NoError(t, res.Err)
			assert.Equal(t, len(tt.albums), res.Record.Value("Albums"))
			assert.Equal(t, tt.want, res.Record.Value("Tracks"))
			assert.Equal(t, "Electronic, House", res.Record.Value("Genres"))
			assert.Equal(t, 1, artist.calls, "albums are enumerated once")
		})
	}
}

func TestExtractArtistTrackFailure(t *testing.T) {
	artist := &fakeArtist{title: "Daft Punk", albums: []media.AlbumView{&fakeAlbum{title: "Homework", err: errBoom}}}

	res := Extract(context.Background(), ExtractArtist, artist)

	assert.True(t, res.Skipped())
	assert.ErrorIs(t, res.Err, errBoom)
}

func TestRecordColumnsAreFixed(t *testing.T) {
	a := MovieSchema.NewRecord()
	b := MovieSchema.NewRecord()
	a.Set("Name", "A")
	b.Set("Updated At", "2020-01-01 00:00:00")

	assert.Len(t, a.Values(), len(MovieSchema.Columns()))
	assert.Len(t, b.Values(), len(MovieSchema.Columns()))
	assert.Nil(t, a.Value("Updated At"))
	assert.Nil(t, a.Value("Not A Column"))
	assert.Panics(t, func() { a.Set("Not A Column", 1) })
}
