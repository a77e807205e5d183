package engine

import (
	"strings"

	"storyreel/internal/render"
	"storyreel/internal/run"
)

// BuildPlan translates a completed run state into the ordered edit
// operations the render engine consumes: voiceover first, then music,
// watermark, background clips in chronological order, captions last so they
// draw on top.
func BuildPlan(state *run.State, styleOpts render.StyleOptions) []render.EditOperation {
	var ops []render.EditOperation

	ops = append(ops, render.Voiceover(state.AudioPath))

	if state.MusicPath != "" {
		ops = append(ops, render.BackgroundMusic(state.MusicPath, state.VoiceDuration, render.MusicVolume))
	}

	if state.WatermarkPath != "" {
		ops = append(ops, render.Watermark(state.WatermarkPath))
	}

	for _, clip := range state.LocalClips {
		if clip.URL == "" {
			continue
		}
		ops = append(ops, render.BackgroundVideo(clip.URL, clip.Start, clip.End))
	}

	style := render.StyleFor(
		state.Vertical,
		render.TextPosition(state.TextPosition),
		render.IsRTLLanguage(state.Language),
		styleOpts,
	)
	for _, cap := range state.Captions {
		ops = append(ops, render.Caption(strings.ToUpper(cap.Text), cap.Start, cap.End, style))
	}

	return ops
}

// queryOrder returns the order in which a segment's queries are tried.
// Planners emit queries from most to least specific; trying the broadest
// first maximizes the hit rate, which is the default.
func queryOrder(queries []string, mostSpecificFirst bool) []string {
	ordered := make([]string, len(queries))
	if mostSpecificFirst {
		copy(ordered, queries)
		return ordered
	}
	for i, q := range queries {
		ordered[len(queries)-1-i] = q
	}
	return ordered
}
