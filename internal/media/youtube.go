// Package media wraps the external audio extraction tool. The tool is a
// collaborator: it fetches a YouTube URL, extracts the best audio
// stream, and transcodes it to a fixed-bitrate mp3.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Audio is the extraction result: transcoded bytes plus the metadata the
// tool reports for the source video.
type Audio struct {
	Content  []byte
	Title    string
	Uploader string
	Duration float64
	Filename string
}

// Extractor produces transcoded audio from a source URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Audio, error)
}

// YTDLExtractor shells out to yt-dlp.
type YTDLExtractor struct {
	binPath    string
	bitrate    string
	timeout    time.Duration
	scratchDir string
}

// NewYTDLExtractor constructs an extractor. scratchDir may be empty to
// use the system temp dir.
func NewYTDLExtractor(binPath, bitrate string, timeout time.Duration, scratchDir string) *YTDLExtractor {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if bitrate == "" {
		bitrate = "192K"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &YTDLExtractor{binPath: binPath, bitrate: bitrate, timeout: timeout, scratchDir: scratchDir}
}

// info is the subset of the tool's JSON output we care about.
type info struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
}

// Extract downloads url, transcodes to mp3 at the configured bitrate,
// and returns the bytes. The scratch file is removed on every path.
func (e *YTDLExtractor) Extract(ctx context.Context, url string) (*Audio, error) {
	if url == "" {
		return nil, fmt.Errorf("empty url")
	}

	dir, err := os.MkdirTemp(e.scratchDir, "ytdl-")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binPath,
		"--no-playlist",
		"-x", "--audio-format", "mp3",
		"--audio-quality", e.bitrate,
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--print-json",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("extraction failed: %s", ee.Stderr)
		}
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	var meta info
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("decode tool output: %w", err)
	}

	filename := meta.ID + ".mp3"
	content, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("read transcoded audio: %w", err)
	}

	return &Audio{
		Content:  content,
		Title:    meta.Title,
		Uploader: meta.Uploader,
		Duration: meta.Duration,
		Filename: filename,
	}, nil
}
