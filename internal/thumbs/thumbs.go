package thumbs

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"

	"dupescan/internal/catalog"
	"dupescan/internal/fileutil"
	"dupescan/internal/logging"
)

// FrameExtractor produces a single encoded frame from a video file at the
// given offset in seconds.
type FrameExtractor func(ctx context.Context, path string, offsetSeconds float64) ([]byte, error)

// FFmpegExtractor returns a FrameExtractor backed by the given ffmpeg binary.
func FFmpegExtractor(binary string) FrameExtractor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return func(ctx context.Context, path string, offsetSeconds float64) ([]byte, error) {
		cmd := exec.CommandContext(ctx, binary,
			"-v", "error",
			"-ss", fmt.Sprintf("%.3f", offsetSeconds),
			"-i", path,
			"-frames:v", "1",
			"-f", "image2",
			"-c:v", "mjpeg",
			"pipe:1",
		)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		if stdout.Len() == 0 {
			return nil, errors.New("ffmpeg extract: empty frame")
		}
		return stdout.Bytes(), nil
	}
}

// Options adjusts generator behavior.
type Options struct {
	Width  int
	Height int
	Logger *slog.Logger
}

// Generator creates and caches thumbnails under a single directory.
type Generator struct {
	extract FrameExtractor
	dir     string
	width   uint
	height  uint
	logger  *slog.Logger
}

type sidecar struct {
	Source    string    `json:"source"`
	MtimeUnix int64     `json:"mtime_unix"`
	CreatedAt time.Time `json:"created_at"`
}

// New constructs a Generator writing thumbnails into dir.
func New(extract FrameExtractor, dir string, opts Options) (*Generator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail directory: %w", err)
	}
	width := opts.Width
	if width <= 0 {
		width = 150
	}
	height := opts.Height
	if height <= 0 {
		height = 100
	}
	return &Generator{
		extract: extract,
		dir:     dir,
		width:   uint(width),
		height:  uint(height),
		logger:  logging.NewComponentLogger(opts.Logger, "thumbs"),
	}, nil
}

// Thumbnail returns the path to a cached or freshly generated thumbnail for
// the record.
func (g *Generator) Thumbnail(ctx context.Context, record *catalog.FileRecord) (string, error) {
	if record == nil {
		return "", errors.New("thumbnail: nil record")
	}

	key := cacheKey(record.Path, record.ModifiedAt.Unix())
	thumbPath := filepath.Join(g.dir, key+".jpg")
	sidecarPath := filepath.Join(g.dir, key+".json")
	if g.cached(thumbPath, sidecarPath, record) {
		return thumbPath, nil
	}

	offset := 0.0
	if record.HasVideo() && record.Video.DurationSeconds > 0 {
		offset = record.Video.DurationSeconds * 0.1
	}

	frame, err := g.extract(ctx, record.Path, offset)
	if err != nil {
		return "", err
	}

	source, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return "", fmt.Errorf("decode frame for %s: %w", record.Path, err)
	}
	scaled := resize.Thumbnail(g.width, g.height, source, resize.Lanczos3)

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode thumbnail for %s: %w", record.Path, err)
	}
	if err := fileutil.WriteAtomic(thumbPath, encoded.Bytes(), 0o644); err != nil {
		return "", err
	}

	meta, err := json.Marshal(sidecar{
		Source:    record.Path,
		MtimeUnix: record.ModifiedAt.Unix(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sidecar: %w", err)
	}
	if err := fileutil.WriteAtomic(sidecarPath, meta, 0o644); err != nil {
		return "", err
	}

	g.logger.Debug("generated thumbnail", "source", record.Path, "thumbnail", thumbPath)
	return thumbPath, nil
}

func (g *Generator) cached(thumbPath, sidecarPath string, record *catalog.FileRecord) bool {
	if _, err := os.Stat(thumbPath); err != nil {
		return false
	}
	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		return false
	}
	var meta sidecar
	if err := json.Unmarshal(data, &meta); err != nil {
		return false
	}
	return meta.Source == record.Path && meta.MtimeUnix == record.ModifiedAt.Unix()
}

// Clear removes every cached thumbnail and sidecar.
func (g *Generator) Clear() error {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return fmt.Errorf("read thumbnail directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".json") {
			if err := os.Remove(filepath.Join(g.dir, name)); err != nil {
				return fmt.Errorf("remove %s: %w", name, err)
			}
		}
	}
	return nil
}

func cacheKey(path string, mtimeUnix int64) string {
	return fmt.Sprintf("%x", md5.Sum(fmt.Appendf(nil, "%s|%d", path, mtimeUnix)))
}
