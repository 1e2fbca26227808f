package scanner

import (
	"context"
	"strconv"
	"strings"

	"dupescan/internal/catalog"
	"dupescan/internal/media/ffprobe"
)

// Prober extracts video attributes for a file. A nil result with a nil error
// means the file held no usable video stream.
type Prober func(ctx context.Context, path string) (*catalog.VideoAttributes, error)

// FFprobeProber returns a Prober backed by the given ffprobe binary.
func FFprobeProber(binary string) Prober {
	return func(ctx context.Context, path string) (*catalog.VideoAttributes, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return nil, err
		}
		return AttributesFromResult(result), nil
	}
}

// AttributesFromResult converts a probe result into catalog attributes, or
// nil when the container has no video stream.
func AttributesFromResult(result ffprobe.Result) *catalog.VideoAttributes {
	video := result.FirstVideoStream()
	if video == nil {
		return nil
	}

	attrs := &catalog.VideoAttributes{
		DurationSeconds: result.DurationSeconds(),
		Width:           video.Width,
		Height:          video.Height,
		Codec:           video.CodecName,
		BitRate:         result.BitRate(),
		FPS:             video.FramesPerSecond(),
		CreationTime:    result.CreationTime(),
	}
	if audio := result.FirstAudioStream(); audio != nil {
		attrs.AudioCodec = audio.CodecName
		if rate, err := strconv.Atoi(strings.TrimSpace(audio.SampleRate)); err == nil && rate > 0 {
			attrs.AudioSampleRate = rate
		}
	}
	return attrs
}
