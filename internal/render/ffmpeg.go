package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultFFmpegPath  = "ffmpeg"
	defaultFFprobePath = "ffprobe"

	// OutputFPS is the frame rate of every final render.
	OutputFPS = 25
)

// qualityResolutions maps quality label and orientation to output
// dimensions. Vertical is keyed true.
var qualityResolutions = map[string]map[bool][2]int{
	"SD": {true: {480, 720}, false: {720, 480}},
	"HD": {true: {1080, 1920}, false: {1920, 1080}},
	"4k": {true: {2160, 3840}, false: {3840, 2160}},
}

// Engine executes render plans. The ffmpeg implementation below is the only
// production one; tests substitute fakes.
type Engine interface {
	Render(ctx context.Context, ops []EditOperation, duration float64, vertical bool, outputPath string) error
	TransformQuality(ctx context.Context, inputPath, outputPath, quality string, vertical bool) error
	Thumbnail(ctx context.Context, videoPath, outputPath string) error
	MediaDuration(ctx context.Context, path string) (float64, error)
	AdjustAudioSpeed(ctx context.Context, inputPath, outputPath string, factor float64) error
}

type FFmpegEngine struct {
	ffmpegPath  string
	ffprobePath string
	workDir     string
}

type FFmpegOptions struct {
	FFmpegPath  string
	FFprobePath string
	WorkDir     string
}

func NewFFmpegEngine(workDir string) *FFmpegEngine {
	return NewFFmpegEngineWithOptions(FFmpegOptions{WorkDir: workDir})
}

func NewFFmpegEngineWithOptions(opts FFmpegOptions) *FFmpegEngine {
	engine := &FFmpegEngine{
		ffmpegPath:  opts.FFmpegPath,
		ffprobePath: opts.FFprobePath,
		workDir:     opts.WorkDir,
	}
	if engine.ffmpegPath == "" {
		engine.ffmpegPath = defaultFFmpegPath
	}
	if engine.ffprobePath == "" {
		engine.ffprobePath = defaultFFprobePath
	}
	if engine.workDir == "" {
		engine.workDir = os.TempDir()
	}
	return engine
}

// Render composes the plan into a single video. The canvas is a black frame
// of the working resolution; background clips, the watermark and captions
// are layered on top and the audio operations are mixed underneath.
func (e *FFmpegEngine) Render(ctx context.Context, ops []EditOperation, duration float64, vertical bool, outputPath string) error {
	parts := splitPlan(ops)
	if parts.voiceover == nil {
		return fmt.Errorf("render plan has no voiceover")
	}
	width, height := PlayRes(vertical)

	var assPath string
	if len(parts.captions) > 0 {
		assPath = filepath.Join(e.workDir, fmt.Sprintf("captions_%d.ass", time.Now().UnixNano()))
		if err := os.WriteFile(assPath, []byte(toASS(parts.captions, vertical)), 0644); err != nil {
			return fmt.Errorf("write caption file: %w", err)
		}
		defer func() { _ = os.Remove(assPath) }()
	}

	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:d=%.3f:r=%d", width, height, duration, OutputFPS),
	}

	for _, clip := range parts.background {
		args = append(args, "-i", clip.Path)
	}
	if parts.watermark != nil {
		args = append(args, "-i", parts.watermark.Path)
	}
	args = append(args, "-i", parts.voiceover.Path)
	if parts.music != nil {
		if parts.music.LoopDuration > 0 {
			args = append(args, "-stream_loop", "-1", "-t", fmt.Sprintf("%.3f", parts.music.LoopDuration))
		}
		args = append(args, "-i", parts.music.Path)
	}

	filterComplex := e.buildFilterComplex(parts, assPath, width, height)

	args = append(args,
		"-filter_complex", filterComplex,
		"-map", "[v]",
		"-map", "[a]",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-ar", "44100",
		"-preset", "fast",
		"-t", fmt.Sprintf("%.3f", duration),
		outputPath,
	)

	return e.runFFmpeg(ctx, args)
}

func (e *FFmpegEngine) buildFilterComplex(parts planParts, assPath string, width, height int) string {
	var filters []string
	lastOutput := "0:v"

	// Background clips overlay the canvas in chronological order. Each clip
	// restarts its own timeline at the segment start so playback begins at
	// the clip's first frame.
	for i, clip := range parts.background {
		inputIdx := 1 + i
		scaledName := fmt.Sprintf("bg%d", i)
		outputName := fmt.Sprintf("l%d", i)

		filters = append(filters, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setpts=PTS-STARTPTS+%.3f/TB[%s]",
			inputIdx, width, height, width, height, clip.Start, scaledName,
		))
		filters = append(filters, fmt.Sprintf(
			"[%s][%s]overlay=0:0:enable='between(t,%.3f,%.3f)'[%s]",
			lastOutput, scaledName, clip.Start, clip.End, outputName,
		))
		lastOutput = outputName
	}

	if parts.watermark != nil {
		inputIdx := 1 + len(parts.background)
		filters = append(filters, fmt.Sprintf(
			"[%d:v]scale=%d:-1,format=rgba[wm]", inputIdx, width/6,
		))
		filters = append(filters, fmt.Sprintf(
			"[%s][wm]overlay=W-w-40:40[wmout]", lastOutput,
		))
		lastOutput = "wmout"
	}

	if assPath != "" {
		filters = append(filters, fmt.Sprintf("[%s]ass=%s[v]", lastOutput, assPath))
	} else {
		filters = append(filters, fmt.Sprintf("[%s]null[v]", lastOutput))
	}

	voiceIdx := 1 + len(parts.background)
	if parts.watermark != nil {
		voiceIdx++
	}

	if parts.music != nil {
		musicIdx := voiceIdx + 1
		volume := parts.music.Volume
		if volume == 0 {
			volume = MusicVolume
		}
		filters = append(filters, fmt.Sprintf(
			"[%d:a]volume=1.0[voice];[%d:a]volume=%.2f[music];[voice][music]amix=inputs=2:duration=first:normalize=0[a]",
			voiceIdx, musicIdx, volume,
		))
	} else {
		filters = append(filters, fmt.Sprintf("[%d:a]anull[a]", voiceIdx))
	}

	return strings.Join(filters, ";")
}

// TransformQuality re-encodes a render at the requested quality, pinning the
// frame rate. Unknown labels fall back to HD.
func (e *FFmpegEngine) TransformQuality(ctx context.Context, inputPath, outputPath, quality string, vertical bool) error {
	dims, ok := qualityResolutions[quality]
	if !ok {
		slog.Warn("unknown quality, falling back to HD", "quality", quality)
		dims = qualityResolutions["HD"]
	}
	size := dims[vertical]

	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d,fps=fps=%d:round=up", size[0], size[1], OutputFPS),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		outputPath,
	}
	return e.runFFmpeg(ctx, args)
}

// Thumbnail grabs the frame one second into the video.
func (e *FFmpegEngine) Thumbnail(ctx context.Context, videoPath, outputPath string) error {
	args := []string{
		"-y",
		"-ss", "00:00:01",
		"-i", videoPath,
		"-vframes", "1",
		outputPath,
	}
	return e.runFFmpeg(ctx, args)
}

// AdjustAudioSpeed re-times an audio file with atempo. A factor of 1 copies
// the stream.
func (e *FFmpegEngine) AdjustAudioSpeed(ctx context.Context, inputPath, outputPath string, factor float64) error {
	if factor <= 0 {
		factor = 1.0
	}
	args := []string{"-y", "-i", inputPath}
	if factor == 1.0 {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-filter:a", buildAtempoFilter(factor))
	}
	args = append(args, outputPath)
	return e.runFFmpeg(ctx, args)
}

// buildAtempoFilter chains atempo stages since a single atempo only accepts
// factors between 0.5 and 2.0.
func buildAtempoFilter(factor float64) string {
	var stages []string
	for factor > 2.0 {
		stages = append(stages, "atempo=2.0")
		factor /= 2.0
	}
	for factor < 0.5 {
		stages = append(stages, "atempo=0.5")
		factor /= 0.5
	}
	stages = append(stages, fmt.Sprintf("atempo=%.4f", factor))
	return strings.Join(stages, ",")
}

func (e *FFmpegEngine) MediaDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var dur float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &dur); err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return dur, nil
}

func (e *FFmpegEngine) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, output: %s", err, string(output))
	}
	return nil
}
