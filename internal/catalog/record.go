package catalog

import (
	"fmt"
	"path/filepath"
	"time"
)

// VideoAttributes captures the container metadata probed from a video file.
type VideoAttributes struct {
	DurationSeconds float64    `json:"duration_seconds"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Codec           string     `json:"codec"`
	BitRate         int64      `json:"bit_rate"`
	FPS             float64    `json:"fps"`
	AudioCodec      string     `json:"audio_codec,omitempty"`
	AudioSampleRate int        `json:"audio_sample_rate,omitempty"`
	// CreationTime is the recording timestamp embedded in the container
	// metadata, not a filesystem date.
	CreationTime *time.Time `json:"creation_time,omitempty"`
}

// Resolution returns the pixel count (width times height).
func (v *VideoAttributes) Resolution() int64 {
	if v == nil {
		return 0
	}
	return int64(v.Width) * int64(v.Height)
}

// AspectRatio returns width/height, or 0 when height is unknown.
func (v *VideoAttributes) AspectRatio() float64 {
	if v == nil || v.Height == 0 {
		return 0
	}
	return float64(v.Width) / float64(v.Height)
}

// ResolutionLabel renders the resolution as "1920x1080".
func (v *VideoAttributes) ResolutionLabel() string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// FileRecord describes one discovered file. Video is nil when probing failed
// or was skipped; such records still participate in filename grouping but are
// excluded from duration comparison.
type FileRecord struct {
	Path       string           `json:"path"`
	Size       int64            `json:"size"`
	CreatedAt  time.Time        `json:"created_at"`
	ModifiedAt time.Time        `json:"modified_at"`
	Video      *VideoAttributes `json:"video,omitempty"`
}

// Filename returns the base name of the record's path.
func (r *FileRecord) Filename() string {
	return filepath.Base(r.Path)
}

// Directory returns the directory component of the record's path.
func (r *FileRecord) Directory() string {
	return filepath.Dir(r.Path)
}

// HasVideo reports whether the record carries probed video metadata.
func (r *FileRecord) HasVideo() bool {
	return r != nil && r.Video != nil
}
