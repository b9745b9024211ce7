package export

import (
	"sort"

	"github.com/jacobfholland/plexport/internal/media"
)

// Handler knows how to project the items of one media type
type Handler struct {
	Type    media.Type
	Label   string
	Schema  Schema
	Extract Extractor
}

var handlers = map[media.Type]Handler{
	media.TypeMovie:  {Type: media.TypeMovie, Label: "Movie", Schema: MovieSchema, Extract: ExtractMovie},
	media.TypeShow:   {Type: media.TypeShow, Label: "TV Show", Schema: ShowSchema, Extract: ExtractShow},
	media.TypeArtist: {Type: media.TypeArtist, Label: "Music Artist", Schema: ArtistSchema, Extract: ExtractArtist},
}

// HandlerFor returns the handler registered for kind
func HandlerFor(kind media.Type) (Handler, bool) {
	h, ok := handlers[kind]
	return h, ok
}

// SupportedTypes lists the media types that can be exported
func SupportedTypes() []media.Type {
	types := make([]media.Type, 0, len(handlers))
	for t := range handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
