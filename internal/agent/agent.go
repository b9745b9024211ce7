// Package agent turns Plex metadata agent identifiers into links to the
// external database the item was matched against.
package agent

import (
	"fmt"
	"strings"

	"github.com/jacobfholland/plexport/internal/media"
)

// Provider is an external metadata database
type Provider struct {
	Name string
	// Prefixes of legacy agent identifiers, e.g. "com.plexapp.agents.imdb://"
	Prefixes []string
	// Short namespace used by the new Plex agent for alternate ids, e.g. "imdb://"
	Namespace string
	template  func(kind media.Type, id string) string
}

// Providers in resolution priority order.
//
// TMDB deliberately departs from the legacy single /movie/{id} template:
// shows link to /tv/{id}, since a TMDB TV id under /movie/ names an
// unrelated film.
var Providers = []Provider{
	{
		Name:      "tmdb",
		Prefixes:  []string{"com.plexapp.agents.themoviedb://"},
		Namespace: "tmdb://",
		template: func(kind media.Type, id string) string {
			if kind == media.TypeShow {
				return fmt.Sprintf("https://www.themoviedb.org/tv/%s", id)
			}
			return fmt.Sprintf("https://www.themoviedb.org/movie/%s", id)
		},
	},
	{
		Name:      "imdb",
		Prefixes:  []string{"com.plexapp.agents.imdb://"},
		Namespace: "imdb://",
		template: func(_ media.Type, id string) string {
			return fmt.Sprintf("https://www.imdb.com/title/%s/", id)
		},
	},
	{
		Name:      "tvdb",
		Prefixes:  []string{"com.plexapp.agents.thetvdb://", "com.plexapp.agents.tvdb://"},
		Namespace: "tvdb://",
		template: func(_ media.Type, id string) string {
			return fmt.Sprintf("https://www.thetvdb.com/series/%s/", id)
		},
	},
	{
		Name:     "anidb",
		Prefixes: []string{"com.plexapp.agents.anidb://"},
		template: func(_ media.Type, id string) string {
			return fmt.Sprintf("https://anidb.net/anime/%s/", id)
		},
	},
}

const localPrefix = "local://"

// IsUnmatched reports whether an identifier marks an item that was never
// matched against a metadata provider
func IsUnmatched(guid string) bool {
	return guid == "" || strings.HasPrefix(guid, localPrefix)
}

// ID extracts the provider id from guid if it carries one of prefixes.
// The query string, if any, is dropped.
func ID(guid string, prefixes ...string) (string, bool) {
	for _, prefix := range prefixes {
		if !strings.HasPrefix(guid, prefix) {
			continue
		}
		id := guid[len(prefix):]
		if i := strings.IndexByte(id, '?'); i >= 0 {
			id = id[:i]
		}
		if id == "" {
			return "", false
		}
		return id, true
	}
	return "", false
}

// Link builds the canonical web link for a legacy agent identifier
func Link(kind media.Type, guid string) (string, bool) {
	for _, p := range Providers {
		if id, ok := ID(guid, p.Prefixes...); ok {
			return p.template(kind, id), true
		}
	}
	return "", false
}

// alternateLink resolves the new agent's alternate ids, honouring provider
// priority rather than the order the ids were listed in
func alternateLink(kind media.Type, guids []string) (string, bool) {
	for _, p := range Providers {
		if p.Namespace == "" {
			continue
		}
		for _, guid := range guids {
			if id, ok := ID(guid, p.Namespace); ok {
				return p.template(kind, id), true
			}
		}
	}
	return "", false
}

// ResolveLink returns the external link for item, or false when the item
// carries no identifier any provider recognises
func ResolveLink(kind media.Type, item media.Identified) (string, bool) {
	if link, ok := Link(kind, item.GUID()); ok {
		return link, true
	}
	if alt, ok := item.(media.Alternates); ok {
		return alternateLink(kind, alt.AlternateGUIDs())
	}
	return "", false
}
