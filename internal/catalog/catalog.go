package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record is one persisted video entry, keyed by the generated run id.
type Record struct {
	ID   string `json:"_id"`
	Data Entry  `json:"data"`
}

type Entry struct {
	GenerateVidID  string          `json:"generate_vid_id"`
	Thumbnail      string          `json:"thumbnail"`
	GeneratedVideo string          `json:"generated_video"`
	UsedScript     string          `json:"used_script"`
	Orientation    string          `json:"orientation"`
	Title          string          `json:"title,omitempty"`
	Description    string          `json:"description,omitempty"`
	UsedVideos     map[string]Clip `json:"used_videos"`
}

type Clip struct {
	Source      string  `json:"source"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Description string  `json:"description,omitempty"`
}

type fileLayout struct {
	Videos []Record `json:"videos"`
}

// Store is the shared metadata catalog. Several pipeline runs may finish
// concurrently, so every load-mutate-save cycle holds the mutex; the on-disk
// file is the source of truth and is re-read under the lock before each
// mutation.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) (*Store, error) {
	store := &Store{path: path}
	if err := store.ensureFile(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureFile() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.save(fileLayout{Videos: []Record{}})
}

func (s *Store) Insert(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range layout.Videos {
		if existing.ID == record.ID {
			return fmt.Errorf("record %s already exists", record.ID)
		}
	}
	layout.Videos = append(layout.Videos, record)
	return s.save(layout)
}

func (s *Store) Get(id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.load()
	if err != nil {
		return Record{}, false, err
	}
	for _, record := range layout.Videos {
		if record.ID == id {
			return record, true, nil
		}
	}
	return Record{}, false, nil
}

func (s *Store) Update(id string, data Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.load()
	if err != nil {
		return err
	}
	for i := range layout.Videos {
		if layout.Videos[i].ID == id {
			layout.Videos[i].Data = data
			return s.save(layout)
		}
	}
	return fmt.Errorf("record %s not found", id)
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.load()
	if err != nil {
		return err
	}
	kept := layout.Videos[:0]
	for _, record := range layout.Videos {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	layout.Videos = kept
	return s.save(layout)
}

func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.load()
	if err != nil {
		return nil, err
	}
	return layout.Videos, nil
}

func (s *Store) load() (fileLayout, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fileLayout{}, fmt.Errorf("read catalog: %w", err)
	}
	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return fileLayout{}, fmt.Errorf("parse catalog: %w", err)
	}
	return layout, nil
}

func (s *Store) save(layout fileLayout) error {
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
