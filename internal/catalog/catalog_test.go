package catalog

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return store
}

func record(id string) Record {
	return Record{
		ID: id,
		Data: Entry{
			GenerateVidID:  id,
			GeneratedVideo: "/videos/" + id + ".mp4",
			Orientation:    "vertical",
			UsedVideos:     map[string]Clip{},
		},
	}
}

func TestInsertAndGet(t *testing.T) {
	store := newTestStore(t)

	if err := store.Insert(record("vid_1")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, found, err := store.Get("vid_1")
	if err != nil || !found {
		t.Fatalf("Get() = found=%v, err=%v", found, err)
	}
	if got.Data.GeneratedVideo != "/videos/vid_1.mp4" {
		t.Errorf("Get() data = %+v", got.Data)
	}

	if err := store.Insert(record("vid_1")); err == nil {
		t.Error("Insert() should reject a duplicate id")
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if found {
		t.Error("Get() found a record that was never inserted")
	}
}

func TestUpdate(t *testing.T) {
	store := newTestStore(t)

	if err := store.Insert(record("vid_1")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	data := record("vid_1").Data
	data.Title = "Updated Title"
	if err := store.Update("vid_1", data); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	got, _, _ := store.Get("vid_1")
	if got.Data.Title != "Updated Title" {
		t.Errorf("title = %q after update", got.Data.Title)
	}

	if err := store.Update("missing", data); err == nil {
		t.Error("Update() should fail for a missing id")
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	_ = store.Insert(record("vid_1"))
	_ = store.Insert(record("vid_2"))

	if err := store.Delete("vid_1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "vid_2" {
		t.Errorf("List() after delete = %+v", records)
	}
}

func TestConcurrentInserts(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := store.Insert(record(fmt.Sprintf("vid_%d", n))); err != nil {
				t.Errorf("Insert(vid_%d) error: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 10 {
		t.Errorf("got %d records after concurrent inserts, want 10", len(records))
	}
}
