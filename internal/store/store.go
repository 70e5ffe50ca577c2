// Package store persists series records in SQLite. The access pattern
// is deliberately coarse: a scan loads the whole catalog once at start
// and replaces it once at the end, so a failed scan never leaves a
// partially written store behind.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/mediashelf/internal/metadata"
	"github.com/vmunix/mediashelf/pkg/mediafile"
)

//go:embed schema.sql
var schemaSQL string

// Store provides access to the persisted series catalog.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog database at path and
// applies the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the full catalog, keyed by record ID.
func (s *Store) Load(ctx context.Context) (map[string]*metadata.SeriesRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, kind, overview, genres, poster_url, banner_url,
		       poster_path, banner_path, provider, provider_id, folder_path, updated_at
		FROM series`)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*metadata.SeriesRecord)
	for rows.Next() {
		var rec metadata.SeriesRecord
		var genres string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Kind, &rec.Overview, &genres,
			&rec.PosterURL, &rec.BannerURL, &rec.PosterPath, &rec.BannerPath,
			&rec.Provider, &rec.ProviderID, &rec.FolderPath, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		if err := json.Unmarshal([]byte(genres), &rec.Genres); err != nil {
			return nil, fmt.Errorf("decode genres for %s: %w", rec.ID, err)
		}
		records[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	for _, rec := range records {
		if err := s.loadEpisodes(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) loadEpisodes(ctx context.Context, rec *metadata.SeriesRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT season, number, title, air_date, thumbnail_url, thumb_path,
		       file, subtitle, subtitles
		FROM episodes WHERE series_id = ? ORDER BY position`, rec.ID)
	if err != nil {
		return fmt.Errorf("load episodes for %s: %w", rec.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ep metadata.EpisodeRecord
		var season sql.NullInt64
		var airDate sql.NullTime
		var number float64
		var subtitles string
		if err := rows.Scan(&season, &number, &ep.Title, &airDate, &ep.ThumbnailURL,
			&ep.ThumbPath, &ep.File, &ep.Subtitle, &subtitles); err != nil {
			return fmt.Errorf("scan episode row: %w", err)
		}
		ep.Number = mediafile.Number(number)
		if season.Valid {
			n := int(season.Int64)
			ep.Season = &n
		}
		if airDate.Valid {
			t := airDate.Time
			ep.AirDate = &t
		}
		if err := json.Unmarshal([]byte(subtitles), &ep.Subtitles); err != nil {
			return fmt.Errorf("decode subtitles for %s: %w", rec.ID, err)
		}
		rec.Episodes = append(rec.Episodes, ep)
	}
	return rows.Err()
}

// Replace swaps the entire catalog for the given records in one
// transaction. Records with no file-backed episodes are dropped rather
// than written.
func (s *Store) Replace(ctx context.Context, records map[string]*metadata.SeriesRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM series"); err != nil {
		return fmt.Errorf("clear series: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM episodes"); err != nil {
		return fmt.Errorf("clear episodes: %w", err)
	}

	for _, rec := range records {
		if rec.FileEpisodeCount() == 0 {
			continue
		}
		if err := insertRecord(ctx, tx, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec *metadata.SeriesRecord) error {
	genres, err := json.Marshal(orEmpty(rec.Genres))
	if err != nil {
		return fmt.Errorf("encode genres for %s: %w", rec.ID, err)
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO series (id, title, kind, overview, genres, poster_url, banner_url,
		                    poster_path, banner_path, provider, provider_id, folder_path, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Kind, rec.Overview, string(genres),
		rec.PosterURL, rec.BannerURL, rec.PosterPath, rec.BannerPath,
		rec.Provider, rec.ProviderID, rec.FolderPath, updatedAt)
	if err != nil {
		return fmt.Errorf("insert series %s: %w", rec.ID, err)
	}

	for i, ep := range rec.Episodes {
		subtitles, err := json.Marshal(orEmpty(ep.Subtitles))
		if err != nil {
			return fmt.Errorf("encode subtitles for %s: %w", rec.ID, err)
		}
		var season any
		if ep.Season != nil {
			season = *ep.Season
		}
		var airDate any
		if ep.AirDate != nil {
			airDate = *ep.AirDate
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO episodes (series_id, season, number, title, air_date,
			                      thumbnail_url, thumb_path, file, subtitle, subtitles, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, season, float64(ep.Number), ep.Title, airDate,
			ep.ThumbnailURL, ep.ThumbPath, ep.File, ep.Subtitle, string(subtitles), i)
		if err != nil {
			return fmt.Errorf("insert episode for %s: %w", rec.ID, err)
		}
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
