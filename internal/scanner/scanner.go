package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"dupescan/internal/catalog"
	"dupescan/internal/logging"
	"dupescan/internal/metacache"
)

// Options adjusts scanner behavior.
type Options struct {
	// Extensions lists the file extensions treated as video files, each with
	// a leading dot. Matching is case-insensitive.
	Extensions []string
	// Workers bounds concurrent probe processes.
	Workers int
	// Cache, when set, is consulted before probing and updated afterwards.
	Cache *metacache.Store
	// ShowProgress renders a progress bar on stderr during probing.
	ShowProgress bool
	Logger       *slog.Logger
}

// Stats summarizes a scan run.
type Stats struct {
	Discovered    int
	Probed        int
	CacheHits     int
	ProbeFailures int
}

// Scanner walks directories and probes the video files it finds.
type Scanner struct {
	probe      Prober
	extensions map[string]struct{}
	workers    int
	cache      *metacache.Store
	progress   bool
	logger     *slog.Logger
}

// New constructs a Scanner. The prober is required; everything else falls
// back to sensible defaults.
func New(probe Prober, opts Options) *Scanner {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	extensions := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	if len(extensions) == 0 {
		for _, ext := range []string{".mp4", ".m4v", ".mov", ".mkv", ".avi", ".webm"} {
			extensions[ext] = struct{}{}
		}
	}
	return &Scanner{
		probe:      probe,
		extensions: extensions,
		workers:    workers,
		cache:      opts.Cache,
		progress:   opts.ShowProgress,
		logger:     logging.NewComponentLogger(opts.Logger, "scanner"),
	}
}

// Scan discovers and probes every video file under the given roots and
// returns them as a catalog in discovery order.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*catalog.Store, Stats, error) {
	paths, err := s.discover(roots)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Discovered: len(paths)}
	s.logger.Info("discovery complete", "files", len(paths), "roots", len(roots))

	records := make([]*catalog.FileRecord, len(paths))
	var mu sync.Mutex

	var bar *progressbar.ProgressBar
	if s.progress && len(paths) > 0 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("probing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, path := range paths {
		group.Go(func() error {
			record, outcome, err := s.probeFile(groupCtx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			records[i] = record
			switch outcome {
			case outcomeCacheHit:
				stats.CacheHits++
			case outcomeProbed:
				stats.Probed++
			case outcomeFailed:
				stats.ProbeFailures++
			}
			mu.Unlock()
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, stats, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	store := catalog.NewStore()
	for _, record := range records {
		if record != nil {
			store.Add(record)
		}
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			s.logger.Warn("cache flush failed", "error", err)
		}
	}

	s.logger.Info("scan complete",
		"files", store.Len(),
		"probed", stats.Probed,
		"cache_hits", stats.CacheHits,
		"probe_failures", stats.ProbeFailures)
	return store, stats, nil
}

func (s *Scanner) discover(roots []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat scan root %q: %w", root, err)
		}
		if !info.IsDir() {
			if s.matchesExtension(root) {
				if _, dup := seen[root]; !dup {
					seen[root] = struct{}{}
					paths = append(paths, root)
				}
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtrees should not abort the whole scan.
				s.logger.Warn("skipping unreadable path", "path", path, "error", err)
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.IsDir() || !s.matchesExtension(path) {
				return nil
			}
			if _, dup := seen[path]; !dup {
				seen[path] = struct{}{}
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", root, err)
		}
	}
	return paths, nil
}

func (s *Scanner) matchesExtension(path string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

type probeOutcome int

const (
	outcomeCacheHit probeOutcome = iota
	outcomeProbed
	outcomeFailed
)

func (s *Scanner) probeFile(ctx context.Context, path string) (*catalog.FileRecord, probeOutcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("file vanished during scan", "path", path, "error", err)
		return nil, outcomeFailed, nil
	}

	record := &catalog.FileRecord{
		Path: path,
		Size: info.Size(),
		// Creation time is not portably available, and detection only uses
		// embedded container timestamps anyway.
		CreatedAt:  info.ModTime(),
		ModifiedAt: info.ModTime(),
	}

	mtime := info.ModTime().Unix()
	if s.cache != nil {
		video, hit, err := s.cache.Get(ctx, path, mtime)
		if err != nil {
			s.logger.Warn("cache lookup failed", "path", path, "error", err)
		} else if hit {
			record.Video = video
			return record, outcomeCacheHit, nil
		}
	}

	video, err := s.probe(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, outcomeFailed, err
		}
		s.logger.Warn("probe failed", "path", path, "error", err)
		if s.cache != nil {
			_ = s.cache.Put(ctx, path, mtime, nil)
		}
		return record, outcomeFailed, nil
	}

	record.Video = video
	if s.cache != nil {
		_ = s.cache.Put(ctx, path, mtime, video)
	}
	if video == nil {
		return record, outcomeFailed, nil
	}
	return record, outcomeProbed, nil
}
