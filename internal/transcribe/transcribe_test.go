package transcribe

import (
	"context"
	"math"
	"testing"
)

func TestEstimateTimings(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		duration float64
	}{
		{name: "even", words: []string{"one", "two", "three"}, duration: 3.0},
		{name: "single", words: []string{"hello"}, duration: 1.5},
		{name: "mixedLengths", words: []string{"a", "encyclopedia", "of", "extraordinary"}, duration: 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timings := EstimateTimings(tt.words, tt.duration)

			if len(timings) != len(tt.words) {
				t.Fatalf("EstimateTimings() returned %d timings, want %d", len(timings), len(tt.words))
			}
			if timings[0].Start != 0 {
				t.Errorf("first word starts at %v, want 0", timings[0].Start)
			}

			last := timings[len(timings)-1]
			if math.Abs(last.End-tt.duration) > 1e-9 {
				t.Errorf("last word ends at %v, want %v", last.End, tt.duration)
			}

			for i := 1; i < len(timings); i++ {
				if timings[i].Start < timings[i-1].End-1e-9 {
					t.Errorf("word %d starts before word %d ends", i, i-1)
				}
			}
		})
	}
}

func TestEstimateTimingsLongerWordsGetMoreTime(t *testing.T) {
	timings := EstimateTimings([]string{"hi", "extraordinary"}, 2.0)

	short := timings[0].End - timings[0].Start
	long := timings[1].End - timings[1].Start
	if long <= short {
		t.Errorf("long word got %.3fs, short word %.3fs; expected more time for the longer word", long, short)
	}
}

func TestEstimateTimingsEmpty(t *testing.T) {
	if got := EstimateTimings(nil, 5.0); got != nil {
		t.Errorf("EstimateTimings(nil) = %v, want nil", got)
	}
}

func TestEstimatorTranscribe(t *testing.T) {
	est := NewEstimator("three little words", 180)

	timings, err := est.Transcribe(context.Background(), "unused.wav")
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if len(timings) != 3 {
		t.Fatalf("Transcribe() returned %d words, want 3", len(timings))
	}

	// 3 words at 180 wpm is one second of speech.
	last := timings[len(timings)-1]
	if math.Abs(last.End-1.0) > 1e-9 {
		t.Errorf("estimated duration %v, want 1.0", last.End)
	}
}
