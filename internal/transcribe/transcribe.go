package transcribe

import (
	"context"
	"strings"
)

const defaultWordsPerMinute = 150.0

// WordTiming is one transcribed word with its position in the audio track.
type WordTiming struct {
	Word  string
	Start float64
	End   float64
}

// Transcriber produces word-level timings for a narration audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]WordTiming, error)
}

// Estimator spreads the known script text across the audio duration when no
// speech-to-text backend is configured. Longer words get proportionally more
// time, then everything is scaled to fit the real duration.
type Estimator struct {
	script         string
	wordsPerMinute float64
}

func NewEstimator(script string, wordsPerMinute float64) *Estimator {
	if wordsPerMinute <= 0 {
		wordsPerMinute = defaultWordsPerMinute
	}
	return &Estimator{script: script, wordsPerMinute: wordsPerMinute}
}

func (e *Estimator) Transcribe(ctx context.Context, audioPath string) ([]WordTiming, error) {
	words := strings.Fields(e.script)
	if len(words) == 0 {
		return nil, nil
	}
	duration := float64(len(words)) / e.wordsPerMinute * 60.0
	return EstimateTimings(words, duration), nil
}

func EstimateTimings(words []string, duration float64) []WordTiming {
	if len(words) == 0 {
		return nil
	}

	avg := duration / float64(len(words))
	timings := make([]WordTiming, len(words))
	current := 0.0

	for i, word := range words {
		wordDuration := avg * (0.8 + 0.4*float64(len(word))/5.0)
		timings[i] = WordTiming{Word: word, Start: current, End: current + wordDuration}
		current += wordDuration
	}

	if current > 0 {
		scale := duration / current
		for i := range timings {
			timings[i].Start *= scale
			timings[i].End *= scale
		}
	}

	return timings
}
