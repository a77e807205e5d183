package render

// MusicVolume is the default mix level for background music relative to the
// voiceover track.
const MusicVolume = 0.08

type OpType string

const (
	OpVoiceover       OpType = "voiceover"
	OpBackgroundMusic OpType = "background_music"
	OpWatermark       OpType = "watermark"
	OpBackgroundVideo OpType = "background_video"
	OpCaption         OpType = "caption"
)

// EditOperation is one instruction in a render plan. Which fields are
// meaningful depends on Type: media operations carry Path, captions carry
// Text plus a Style, and time-windowed operations carry Start and End.
type EditOperation struct {
	Type OpType

	// Path points at a local media file for voiceover, music, watermark
	// and background video operations.
	Path string

	// Text is the caption text, already cased for display.
	Text string

	// Start and End bound the window in seconds during which a background
	// clip or caption is visible.
	Start float64
	End   float64

	// LoopDuration loops background music until it covers this many
	// seconds. Zero means play once.
	LoopDuration float64

	// Volume scales audio operations, 0 to 1. Zero on a music operation
	// means MusicVolume.
	Volume float64

	Style CaptionStyle
}

func Voiceover(path string) EditOperation {
	return EditOperation{Type: OpVoiceover, Path: path, Volume: 1.0}
}

func BackgroundMusic(path string, loopDuration, volume float64) EditOperation {
	if volume == 0 {
		volume = MusicVolume
	}
	return EditOperation{Type: OpBackgroundMusic, Path: path, LoopDuration: loopDuration, Volume: volume}
}

func Watermark(path string) EditOperation {
	return EditOperation{Type: OpWatermark, Path: path}
}

func BackgroundVideo(path string, start, end float64) EditOperation {
	return EditOperation{Type: OpBackgroundVideo, Path: path, Start: start, End: end}
}

func Caption(text string, start, end float64, style CaptionStyle) EditOperation {
	return EditOperation{Type: OpCaption, Text: text, Start: start, End: end, Style: style}
}

// Split groups a plan by operation type so the engine can lay out ffmpeg
// inputs deterministically.
type planParts struct {
	voiceover  *EditOperation
	music      *EditOperation
	watermark  *EditOperation
	background []EditOperation
	captions   []EditOperation
}

func splitPlan(ops []EditOperation) planParts {
	var parts planParts
	for i := range ops {
		op := ops[i]
		switch op.Type {
		case OpVoiceover:
			parts.voiceover = &op
		case OpBackgroundMusic:
			parts.music = &op
		case OpWatermark:
			parts.watermark = &op
		case OpBackgroundVideo:
			parts.background = append(parts.background, op)
		case OpCaption:
			parts.captions = append(parts.captions, op)
		}
	}
	return parts
}
