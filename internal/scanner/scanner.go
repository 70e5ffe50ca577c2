package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/mediashelf/pkg/mediafile"
)

// subdirWorkers bounds concurrent directory reads inside one category
// folder. Classification decisions are still made per directory after its
// children are known.
const subdirWorkers = 4

// Scanner classifies directory trees into media units.
type Scanner struct {
	log *slog.Logger
}

// New creates a scanner. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{log: log}
}

// Scan walks root one or two levels deep and returns the classified media
// units. Only a failure to read root itself is fatal; unreadable
// subdirectories are skipped with a warning.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*MediaUnit, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read scan root %s: %w", root, err)
	}

	var units []*MediaUnit
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(root, entry.Name())
		if !entry.IsDir() {
			if IsVideo(entry.Name()) {
				units = append(units, s.movieUnit(path, entry.Name()))
			}
			continue
		}

		dirUnits, err := s.classifyDir(ctx, path, entry.Name())
		if err != nil {
			s.log.Warn("skipping unreadable directory", "path", path, "error", err)
			continue
		}
		units = append(units, dirUnits...)
	}

	return units, nil
}

// classifyDir decides whether a directory is a category of series folders
// or a series itself. A directory with subdirectories and no loose videos
// is a category; anything with loose videos is a series. Category nesting
// deeper than one level is not explored.
func (s *Scanner) classifyDir(ctx context.Context, path, name string) ([]*MediaUnit, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var subdirs []os.DirEntry
	videos := 0
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e)
		} else if IsVideo(e.Name()) {
			videos++
		}
	}

	if len(subdirs) > 0 && videos == 0 {
		// Category folder: every subdirectory is its own series.
		units := make([]*MediaUnit, len(subdirs))
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(subdirWorkers)
		for i, sub := range subdirs {
			g.Go(func() error {
				units[i] = s.seriesUnit(filepath.Join(path, sub.Name()), sub.Name())
				return nil
			})
		}
		_ = g.Wait()

		out := make([]*MediaUnit, 0, len(units))
		for _, u := range units {
			if u != nil {
				out = append(out, u)
			}
		}
		return out, nil
	}

	if videos > 0 {
		if len(subdirs) > 0 {
			s.log.Debug("series folder has subdirectories, not exploring them", "path", path)
		}
		if u := s.seriesUnit(path, name); u != nil {
			return []*MediaUnit{u}, nil
		}
	}

	return nil, nil
}

// seriesUnit builds a series media unit from one folder of episode files.
// Returns nil when the folder holds no videos.
func (s *Scanner) seriesUnit(path, folderName string) *MediaUnit {
	season := mediafile.SeasonNumber(folderName)
	part := mediafile.PartNumber(folderName)

	files := s.collectVideos(path, folderName, season)
	if len(files) == 0 {
		s.log.Debug("no videos in series folder", "path", path)
		return nil
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	name := mediafile.SeriesName(names)
	if len(name) < 2 {
		// Episode names carried no title; the folder name is the title.
		name = mediafile.CleanName(folderName)
	}
	if name == "" {
		name = folderName
	}

	return &MediaUnit{
		ID:     mediafile.ID(name, folderName, season, part),
		Name:   name,
		Kind:   KindSeries,
		Path:   path,
		Files:  files,
		Season: season,
		Part:   part,
	}
}

// movieUnit wraps a single loose video file.
func (s *Scanner) movieUnit(path, filename string) *MediaUnit {
	_, episode := mediafile.Tokenize(filename)
	name := mediafile.CleanName(filename)
	if name == "" {
		name = filename
	}

	return &MediaUnit{
		ID:   mediafile.ID(name, filename, nil, nil),
		Name: name,
		Kind: KindMovie,
		Path: path,
		Files: []*VideoFile{{
			Name:    filename,
			Path:    path,
			Title:   name,
			Episode: episode,
			Folder:  filepath.Base(filepath.Dir(path)),
		}},
	}
}

// collectVideos gathers the direct video children of dir, pairs them with
// subtitles grouped by stripped basename, and sorts them by (season,
// episode). Duplicate absolute paths are dropped with a warning, keeping
// the first occurrence.
func (s *Scanner) collectVideos(dir, folderName string, fallbackSeason *int) []*VideoFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warn("skipping unreadable directory", "path", dir, "error", err)
		return nil
	}

	// Subtitles first, grouped by stripped basename in enumeration order.
	subs := make(map[string][]string)
	for _, e := range entries {
		if !e.IsDir() && IsSubtitle(e.Name()) {
			key := subtitleKey(e.Name())
			subs[key] = append(subs[key], filepath.Join(dir, e.Name()))
		}
	}

	seen := make(map[string]bool)
	var files []*VideoFile
	for _, e := range entries {
		if e.IsDir() || !IsVideo(e.Name()) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if seen[path] {
			s.log.Warn("duplicate video path dropped", "path", path)
			continue
		}
		seen[path] = true

		season, episode := mediafile.Tokenize(e.Name())
		if season == nil {
			season = fallbackSeason
		}

		matched := subs[videoKey(e.Name())]
		var primary string
		if len(matched) > 0 {
			primary = matched[0]
		}

		files = append(files, &VideoFile{
			Name:      e.Name(),
			Path:      path,
			Title:     mediafile.CleanName(e.Name()),
			Season:    season,
			Episode:   episode,
			Subtitle:  primary,
			Subtitles: matched,
			Folder:    folderName,
		})
	}

	sortFiles(files)
	return files
}
