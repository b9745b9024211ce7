package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// PlexDB provides access to the Plex Media Server database
type PlexDB struct {
	db *sql.DB
}

// Open opens a Plex database file
func Open(dbPath string) (*PlexDB, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Convert Windows paths for SQLite URI
	absPath = strings.ReplaceAll(absPath, "\\", "/")

	// immutable=1 lets us read while the server holds the WAL
	uri := fmt.Sprintf("file:%s?mode=ro&immutable=1", absPath)

	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PlexDB{db: db}, nil
}

// Close closes the database connection
func (p *PlexDB) Close() error {
	return p.db.Close()
}

// GetLibrarySections returns all library sections in creation order
func (p *PlexDB) GetLibrarySections(ctx context.Context) ([]LibrarySection, error) {
	query := `
		SELECT id, name, section_type, COALESCE(language, ''), COALESCE(agent, '')
		FROM library_sections
		ORDER BY id
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query library sections: %w", err)
	}
	defer rows.Close()

	var sections []LibrarySection
	for rows.Next() {
		var s LibrarySection
		if err := rows.Scan(&s.ID, &s.Name, &s.SectionType, &s.Language, &s.Agent); err != nil {
			return nil, fmt.Errorf("failed to scan library section: %w", err)
		}
		sections = append(sections, s)
	}

	return sections, rows.Err()
}

// metadataColumns lists the metadata_items columns scanned by queryMetadata,
// qualified with alias when one is given
func metadataColumns(alias string) string {
	if alias != "" {
		alias += "."
	}
	return fmt.Sprintf(`
		%[1]sid, %[1]slibrary_section_id, %[1]smetadata_type, %[1]sparent_id,
		COALESCE(%[1]stitle, ''), COALESCE(%[1]stitle_sort, ''), COALESCE(%[1]sguid, ''),
		%[1]syear, %[1]s"index", %[1]srating, COALESCE(%[1]ssummary, ''), %[1]sduration,
		%[1]sadded_at, %[1]supdated_at`, alias)
}

// GetMetadataItems returns metadata items for a section of a specific type
func (p *PlexDB) GetMetadataItems(ctx context.Context, sectionID int64, metadataType int) ([]MetadataItem, error) {
	query := `SELECT ` + metadataColumns("") + `
		FROM metadata_items
		WHERE library_section_id = ? AND metadata_type = ?
		ORDER BY title_sort, id
	`
	items, err := p.queryMetadata(ctx, query, sectionID, metadataType)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata items: %w", err)
	}
	return items, nil
}

// GetChildMetadata returns child metadata items (episodes for a season,
// seasons for a show, albums for an artist, tracks for an album)
func (p *PlexDB) GetChildMetadata(ctx context.Context, parentID int64) ([]MetadataItem, error) {
	query := `SELECT ` + metadataColumns("") + `
		FROM metadata_items
		WHERE parent_id = ?
		ORDER BY "index", id
	`
	items, err := p.queryMetadata(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child metadata: %w", err)
	}
	return items, nil
}

// GetGrandchildMetadata returns the episodes of a show across all seasons
func (p *PlexDB) GetGrandchildMetadata(ctx context.Context, grandparentID int64) ([]MetadataItem, error) {
	query := `SELECT ` + metadataColumns("e") + `
		FROM metadata_items e
		JOIN metadata_items s ON e.parent_id = s.id
		WHERE s.parent_id = ?
		ORDER BY s."index", e."index", e.id
	`
	items, err := p.queryMetadata(ctx, query, grandparentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grandchild metadata: %w", err)
	}
	return items, nil
}

func (p *PlexDB) queryMetadata(ctx context.Context, query string, args ...any) ([]MetadataItem, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MetadataItem
	for rows.Next() {
		var (
			m              MetadataItem
			added, updated any
		)
		if err := rows.Scan(
			&m.ID, &m.LibrarySectionID, &m.MetadataType, &m.ParentID,
			&m.Title, &m.TitleSort, &m.GUID,
			&m.Year, &m.Index, &m.Rating, &m.Summary, &m.Duration,
			&added, &updated,
		); err != nil {
			return nil, fmt.Errorf("scan metadata item: %w", err)
		}
		m.AddedAt = parseTime(added)
		m.UpdatedAt = parseTime(updated)
		items = append(items, m)
	}

	return items, rows.Err()
}

// GetTags returns the tags of one type attached to a metadata item, in the
// order the server lists them
func (p *PlexDB) GetTags(ctx context.Context, metadataItemID int64, tagType int) ([]string, error) {
	query := `
		SELECT t.tag
		FROM taggings tg
		JOIN tags t ON t.id = tg.tag_id
		WHERE tg.metadata_item_id = ? AND t.tag_type = ?
		ORDER BY tg."index", tg.id
	`

	rows, err := p.db.QueryContext(ctx, query, metadataItemID, tagType)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// GetMediaItems returns the media versions of a metadata item
func (p *PlexDB) GetMediaItems(ctx context.Context, metadataItemID int64) ([]MediaItem, error) {
	query := `
		SELECT id, metadata_item_id, COALESCE(width, 0), COALESCE(height, 0),
		       bitrate, size, audio_channels,
		       COALESCE(container, ''), COALESCE(video_codec, ''), COALESCE(audio_codec, '')
		FROM media_items
		WHERE metadata_item_id = ?
		ORDER BY id
	`

	rows, err := p.db.QueryContext(ctx, query, metadataItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media items: %w", err)
	}
	defer rows.Close()

	var items []MediaItem
	for rows.Next() {
		var mi MediaItem
		if err := rows.Scan(
			&mi.ID, &mi.MetadataItemID, &mi.Width, &mi.Height,
			&mi.Bitrate, &mi.Size, &mi.AudioChannels,
			&mi.Container, &mi.VideoCodec, &mi.AudioCodec,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, mi)
	}

	return items, rows.Err()
}

// GetMediaParts returns the files behind every media item of a metadata item,
// used when media_items carries no size
func (p *PlexDB) GetMediaParts(ctx context.Context, metadataItemID int64) ([]MediaPart, error) {
	query := `
		SELECT mp.id, mp.media_item_id, COALESCE(mp.file, ''), COALESCE(mp.size, 0)
		FROM media_parts mp
		JOIN media_items mi ON mp.media_item_id = mi.id
		WHERE mi.metadata_item_id = ?
		ORDER BY mp.id
	`

	rows, err := p.db.QueryContext(ctx, query, metadataItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media parts: %w", err)
	}
	defer rows.Close()

	var parts []MediaPart
	for rows.Next() {
		var mp MediaPart
		if err := rows.Scan(&mp.ID, &mp.MediaItemID, &mp.File, &mp.Size); err != nil {
			return nil, fmt.Errorf("failed to scan media part: %w", err)
		}
		parts = append(parts, mp)
	}

	return parts, rows.Err()
}

// parseTime accepts the forms Plex has used for timestamps over the years:
// unix seconds, or a text datetime.
func parseTime(v any) *time.Time {
	var t time.Time
	switch v := v.(type) {
	case nil:
		return nil
	case int64:
		if v == 0 {
			return nil
		}
		t = time.Unix(v, 0)
	case float64:
		t = time.Unix(int64(v), 0)
	case time.Time:
		t = v
	case []byte:
		return parseTime(string(v))
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parseTime(n)
		}
		parsed, err := time.ParseInLocation("2006-01-02 15:04:05", v, time.Local)
		if err != nil {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	if t.IsZero() {
		return nil
	}
	return &t
}
