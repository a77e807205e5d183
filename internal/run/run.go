package run

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// NewID mints a run identifier. The timestamp prefix keeps run directories
// sorted by creation time; the uuid suffix disambiguates runs started within
// the same second.
func NewID() string {
	return fmt.Sprintf("vid_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// Dir is the working directory of a single run. Every intermediate artifact
// and the state snapshot live under it so a run can be resumed from the
// directory alone.
type Dir struct {
	path string
}

func NewDir(baseDir, id string) (*Dir, error) {
	path := filepath.Join(baseDir, id)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &Dir{path: path}, nil
}

// OpenDir wraps an existing run directory for resume.
func OpenDir(path string) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open run directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open run directory: %s is not a directory", path)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) Path() string          { return d.path }
func (d *Dir) ID() string            { return filepath.Base(d.path) }
func (d *Dir) StatePath() string     { return filepath.Join(d.path, "state.json") }
func (d *Dir) TempAudioPath() string { return filepath.Join(d.path, "temp_audio.wav") }
func (d *Dir) AudioPath() string     { return filepath.Join(d.path, "audio.wav") }
func (d *Dir) RenderPath() string    { return filepath.Join(d.path, "render.mp4") }
func (d *Dir) ThumbnailPath() string { return filepath.Join(d.path, "thumbnail.png") }

// FinalVideoPath builds the published file name from the video title, with a
// timestamp so repeated renders never collide.
func (d *Dir) FinalVideoPath(title string) string {
	name := sanitizeForPath(title)
	if name == "" {
		name = "untitled"
	}
	if len(name) > 50 {
		name = name[:50]
	}
	return filepath.Join(d.path, fmt.Sprintf("%s_%s.mp4", time.Now().Format("20060102_150405"), name))
}

// SidecarPath is the metadata text file written next to a final video.
func SidecarPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".txt"
}

func sanitizeForPath(s string) string {
	s = strings.ToLower(s)
	s = sanitizeRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
