package plexapi

import "time"

type mediaContainer struct {
	Directories []directory `xml:"Directory"`
	Videos      []video     `xml:"Video"`
	Tracks      []track     `xml:"Track"`
}

// metadata holds the attributes shared by Directory and Video elements
type metadata struct {
	RatingKey string   `xml:"ratingKey,attr"`
	Key       string   `xml:"key,attr"`
	Type      string   `xml:"type,attr"`
	Title     string   `xml:"title,attr"`
	GUID      string   `xml:"guid,attr"`
	Year      *int     `xml:"year,attr"`
	Index     *int     `xml:"index,attr"`
	Rating    *float64 `xml:"rating,attr"`
	Summary   string   `xml:"summary,attr"`
	AddedAt   int64    `xml:"addedAt,attr"`
	UpdatedAt int64    `xml:"updatedAt,attr"`
	Genres    []tag    `xml:"Genre"`
	Guids     []guid   `xml:"Guid"`
}

type directory struct {
	metadata
}

type video struct {
	metadata
	ParentIndex *int     `xml:"parentIndex,attr"`
	Duration    *int64   `xml:"duration,attr"`
	Directors   []tag    `xml:"Director"`
	Writers     []tag    `xml:"Writer"`
	Roles       []tag    `xml:"Role"`
	Media       []medium `xml:"Media"`
}

type track struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Index     *int   `xml:"index,attr"`
}

type tag struct {
	Tag string `xml:"tag,attr"`
}

type guid struct {
	ID string `xml:"id,attr"`
}

type medium struct {
	VideoResolution string `xml:"videoResolution,attr"`
	VideoCodec      string `xml:"videoCodec,attr"`
	Container       string `xml:"container,attr"`
	Bitrate         *int   `xml:"bitrate,attr"`
	AudioChannels   *int   `xml:"audioChannels,attr"`
	Parts           []part `xml:"Part"`
}

type part struct {
	Size *int64 `xml:"size,attr"`
}

func tags(ts []tag) []string {
	if len(ts) == 0 {
		return nil
	}
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Tag)
	}
	return out
}

func guids(gs []guid) []string {
	if len(gs) == 0 {
		return nil
	}
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

// epoch converts a unix timestamp attribute to local time; 0 means absent
func epoch(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0)
	return &t
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
