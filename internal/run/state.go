package run

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"storyreel/internal/captions"
)

// State is the snapshot of a pipeline run. Every field is written by exactly
// one step; a populated field marks its step complete, which is what makes
// resume work. Populated fields never change afterwards and the Store
// enforces that on save.
type State struct {
	ID           string `json:"id"`
	Language     string `json:"language,omitempty"`
	Vertical     bool   `json:"vertical"`
	Quality      string `json:"quality,omitempty"`
	TextPosition string `json:"text_position,omitempty"`
	Provider     string `json:"provider,omitempty"`

	Script           string `json:"script,omitempty"`
	TranslatedScript string `json:"translated_script,omitempty"`

	TempAudioPath string  `json:"temp_audio_path,omitempty"`
	AudioPath     string  `json:"audio_path,omitempty"`
	VoiceDuration float64 `json:"voice_duration,omitempty"`

	Captions []captions.TimedCaption `json:"captions,omitempty"`
	Queries  []captions.TimedQueries `json:"queries,omitempty"`
	Assets   []captions.TimedAsset   `json:"assets,omitempty"`

	LocalClips []captions.TimedAsset `json:"local_clips,omitempty"`

	MusicName     string `json:"music_name,omitempty"`
	MusicPath     string `json:"music_path,omitempty"`
	WatermarkName string `json:"watermark_name,omitempty"`
	WatermarkPath string `json:"watermark_path,omitempty"`

	RenderedPath  string `json:"rendered_path,omitempty"`
	FinalPath     string `json:"final_path,omitempty"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// NarrationScript is the text actually spoken and captioned: the translated
// script when translation ran, the original otherwise.
func (s *State) NarrationScript() string {
	if s.TranslatedScript != "" {
		return s.TranslatedScript
	}
	return s.Script
}

// Store persists run state as state.json inside the run directory. The file
// is rewritten after every step so a crashed run resumes at the first step
// whose output field is still empty.
type Store struct {
	dir *Dir
}

func NewStore(dir *Dir) *Store {
	return &Store{dir: dir}
}

func (s *Store) Save(state *State) error {
	if prev, err := s.Load(); err == nil && prev != nil {
		if violations := writeOnceViolations(prev, state); len(violations) > 0 {
			return fmt.Errorf("state fields already written: %s", strings.Join(violations, ", "))
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpPath := s.dir.StatePath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmpPath, s.dir.StatePath()); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Load returns the saved state, or nil when no snapshot exists yet.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.dir.StatePath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &state, nil
}

// writeOnceViolations lists fields that were populated in old and hold a
// different value in new.
func writeOnceViolations(old, new *State) []string {
	var violations []string

	checkString := func(name, oldVal, newVal string) {
		if oldVal != "" && oldVal != newVal {
			violations = append(violations, name)
		}
	}
	checkFloat := func(name string, oldVal, newVal float64) {
		if oldVal != 0 && oldVal != newVal {
			violations = append(violations, name)
		}
	}
	checkJSON := func(name string, oldVal, newVal any, oldLen int) {
		if oldLen == 0 {
			return
		}
		oldData, _ := json.Marshal(oldVal)
		newData, _ := json.Marshal(newVal)
		if string(oldData) != string(newData) {
			violations = append(violations, name)
		}
	}

	checkString("id", old.ID, new.ID)
	checkString("language", old.Language, new.Language)
	checkString("quality", old.Quality, new.Quality)
	checkString("text_position", old.TextPosition, new.TextPosition)
	checkString("provider", old.Provider, new.Provider)
	checkString("script", old.Script, new.Script)
	checkString("translated_script", old.TranslatedScript, new.TranslatedScript)
	checkString("temp_audio_path", old.TempAudioPath, new.TempAudioPath)
	checkString("audio_path", old.AudioPath, new.AudioPath)
	checkFloat("voice_duration", old.VoiceDuration, new.VoiceDuration)
	checkJSON("captions", old.Captions, new.Captions, len(old.Captions))
	checkJSON("queries", old.Queries, new.Queries, len(old.Queries))
	checkJSON("assets", old.Assets, new.Assets, len(old.Assets))
	checkJSON("local_clips", old.LocalClips, new.LocalClips, len(old.LocalClips))
	checkString("music_name", old.MusicName, new.MusicName)
	checkString("music_path", old.MusicPath, new.MusicPath)
	checkString("watermark_name", old.WatermarkName, new.WatermarkName)
	checkString("watermark_path", old.WatermarkPath, new.WatermarkPath)
	checkString("rendered_path", old.RenderedPath, new.RenderedPath)
	checkString("final_path", old.FinalPath, new.FinalPath)
	checkString("thumbnail_path", old.ThumbnailPath, new.ThumbnailPath)
	checkString("title", old.Title, new.Title)
	checkString("description", old.Description, new.Description)

	return violations
}
