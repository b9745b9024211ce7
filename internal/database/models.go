package database

import "time"

// LibrarySection represents a Plex library (e.g., "Movies", "TV Shows")
type LibrarySection struct {
	ID          int64
	Name        string
	SectionType int // 1 = movie, 2 = show, 8 = artist
	Language    string
	Agent       string
}

// MetadataItem represents an item in the Plex library (movie, show, season,
// episode, artist, album, track)
type MetadataItem struct {
	ID               int64
	LibrarySectionID int64
	MetadataType     int
	ParentID         *int64
	Title            string
	TitleSort        string
	GUID             string
	Year             *int
	Index            *int // Episode/season/track number
	Rating           *float64
	Summary          string
	Duration         *int64 // milliseconds
	AddedAt          *time.Time
	UpdatedAt        *time.Time
}

// MediaItem is one version of a movie or episode
type MediaItem struct {
	ID             int64
	MetadataItemID int64
	Width          int
	Height         int
	Bitrate        *int // bits per second
	Size           *int64
	AudioChannels  *int
	Container      string
	VideoCodec     string
	AudioCodec     string
}

// MediaPart represents a physical file on disk
type MediaPart struct {
	ID          int64
	MediaItemID int64
	File        string // Full file path
	Size        int64
}

// MediaType constants
const (
	MediaTypeMovie   = 1
	MediaTypeShow    = 2
	MediaTypeSeason  = 3
	MediaTypeEpisode = 4
	MediaTypeArtist  = 8
	MediaTypeAlbum   = 9
	MediaTypeTrack   = 10
)

// SectionType constants
const (
	SectionTypeMovie  = 1
	SectionTypeShow   = 2
	SectionTypeArtist = 8
	SectionTypePhoto  = 13
)

// Tag types in the tags table
const (
	TagGenre    = 1
	TagDirector = 4
	TagWriter   = 5
	TagActor    = 6
)
