package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacobfholland/plexport/internal/media"
)

type guidItem struct {
	guid string
	alts []string
}

func (g guidItem) GUID() string { return g.guid }

type altItem struct{ guidItem }

func (a altItem) AlternateGUIDs() []string { return a.alts }

func TestLink(t *testing.T) {
	tests := []struct {
		name string
		kind media.Type
		guid string
		want string
		ok   bool
	}{
		{"tmdb strips query", media.TypeMovie, "com.plexapp.agents.themoviedb://603?lang=en", "https://www.themoviedb.org/movie/603", true},
		{"tmdb show", media.TypeShow, "com.plexapp.agents.themoviedb://1399?lang=en", "https://www.themoviedb.org/tv/1399", true},
		{"imdb", media.TypeMovie, "com.plexapp.agents.imdb://tt0133093?lang=en", "https://www.imdb.com/title/tt0133093/", true},
		{"imdb without query", media.TypeMovie, "com.plexapp.agents.imdb://tt0133093", "https://www.imdb.com/title/tt0133093/", true},
		{"thetvdb", media.TypeShow, "com.plexapp.agents.thetvdb://81189?lang=en", "https://www.thetvdb.com/series/81189/", true},
		{"tvdb short agent name", media.TypeShow, "com.plexapp.agents.tvdb://81189", "https://www.thetvdb.com/series/81189/", true},
		{"anidb resolves on its own", media.TypeShow, "com.plexapp.agents.anidb://4563?lang=ja", "https://anidb.net/anime/4563/", true},
		{"local media", media.TypeMovie, "local://12345", "", false},
		{"new plex agent", media.TypeMovie, "plex://movie/5d776825880197001ec967c6", "", false},
		{"empty", media.TypeMovie, "", "", false},
		{"prefix without payload", media.TypeMovie, "com.plexapp.agents.themoviedb://?lang=en", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Link(tt.kind, tt.guid)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLinkFallsBackToAlternates(t *testing.T) {
	item := altItem{guidItem{
		guid: "plex://movie/5d776825880197001ec967c6",
		alts: []string{"imdb://tt0133093", "tmdb://603", "tvdb://169"},
	}}

	link, ok := ResolveLink(media.TypeMovie, item)
	assert.True(t, ok)
	assert.Equal(t, "https://www.themoviedb.org/movie/603", link, "tmdb outranks imdb regardless of listing order")
}

func TestResolveLinkPrefersPrimaryIdentifier(t *testing.T) {
	item := altItem{guidItem{
		guid: "com.plexapp.agents.imdb://tt0133093?lang=en",
		alts: []string{"tmdb://603"},
	}}

	link, ok := ResolveLink(media.TypeMovie, item)
	assert.True(t, ok)
	assert.Equal(t, "https://www.imdb.com/title/tt0133093/", link)
}

func TestResolveLinkWithoutAlternates(t *testing.T) {
	_, ok := ResolveLink(media.TypeMovie, guidItem{guid: "local://1"})
	assert.False(t, ok)
}

func TestIsUnmatched(t *testing.T) {
	assert.True(t, IsUnmatched(""))
	assert.True(t, IsUnmatched("local://42"))
	assert.False(t, IsUnmatched("com.plexapp.agents.imdb://tt0133093"))
	assert.False(t, IsUnmatched("plex://movie/5d776825880197001ec967c6"))
}
