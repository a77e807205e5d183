package captions

import (
	"fmt"
	"strings"

	"storyreel/internal/transcribe"
)

const (
	// Fragment length is a fixed policy tied to the output format, not a
	// user-facing knob.
	MaxFragmentVertical  = 15.0
	MaxFragmentLandscape = 30.0
)

// TimedCaption is one caption fragment aligned to the narration track.
// Sequences are chronological and never overlap.
type TimedCaption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TimedQueries carries the ranked visual search phrases for one caption
// window. Queries[0] is the most specific phrase.
type TimedQueries struct {
	Start   float64  `json:"start"`
	End     float64  `json:"end"`
	Queries []string `json:"queries"`
}

// TimedAsset is a caption window with the stock clip resolved for it. URL is
// empty when no provider had a usable match, which renders as a gap.
type TimedAsset struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	URL   string  `json:"url"`
}

func (c TimedCaption) Duration() float64 { return c.End - c.Start }

// MaxFragmentSeconds returns the caption length cap for the output format.
func MaxFragmentSeconds(vertical bool) float64 {
	if vertical {
		return MaxFragmentVertical
	}
	return MaxFragmentLandscape
}

// Time groups word-level timings into caption fragments. Words are
// accumulated greedily until adding the next word would push the fragment
// past maxSeconds; boundaries always fall between words.
func Time(words []transcribe.WordTiming, maxSeconds float64) []TimedCaption {
	if len(words) == 0 {
		return nil
	}

	var result []TimedCaption
	start := words[0].Start
	var parts []string

	flush := func(end float64) {
		if len(parts) == 0 {
			return
		}
		result = append(result, TimedCaption{
			Start: start,
			End:   end,
			Text:  strings.Join(parts, " "),
		})
		parts = nil
	}

	for i, w := range words {
		if len(parts) > 0 && w.End-start > maxSeconds {
			flush(words[i-1].End)
			start = w.Start
		}
		parts = append(parts, w.Word)
	}
	flush(words[len(words)-1].End)

	return result
}

// Validate checks the chronological non-overlap invariant. The timer upholds
// it by construction; state loaded from disk is checked before use.
func Validate(caps []TimedCaption) error {
	for i := range caps {
		if caps[i].End < caps[i].Start {
			return fmt.Errorf("caption %d ends before it starts (%.2f > %.2f)", i, caps[i].Start, caps[i].End)
		}
		if i > 0 && caps[i].Start < caps[i-1].End {
			return fmt.Errorf("caption %d overlaps previous (%.2f < %.2f)", i, caps[i].Start, caps[i-1].End)
		}
	}
	return nil
}
