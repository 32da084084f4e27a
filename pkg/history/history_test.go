package history

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func record(url string, score int, minutes int) models.HistoryRecord {
	return models.HistoryRecord{URL: url, Score: score, Grade: "Fair", Date: epoch.Add(time.Duration(minutes) * time.Minute)}
}

func urls(records []models.HistoryRecord) string {
	var parts []string
	for _, r := range records {
		parts = append(parts, r.URL)
	}
	return strings.Join(parts, ",")
}

func TestHistory_DedupesAndMovesToFront(t *testing.T) {
	h := New(NewMemoryStore(), nil)
	h.Add(record("https://a.com", 40, 0))
	h.Add(record("https://b.com", 50, 1))
	h.Add(record("https://a.com", 90, 2))

	all := h.All()
	if got := urls(all); got != "https://a.com,https://b.com" {
		t.Fatalf("order = %s", got)
	}
	if all[0].Score != 90 || !all[0].Date.Equal(epoch.Add(2*time.Minute)) {
		t.Errorf("front record not updated: %+v", all[0])
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := New(NewMemoryStore(), nil)
	for i := 0; i < 11; i++ {
		h.Add(record(fmt.Sprintf("https://site%d.com", i), i, i))
	}

	all := h.All()
	if len(all) != 10 {
		t.Fatalf("kept %d records, want 10", len(all))
	}
	if all[0].URL != "https://site10.com" {
		t.Errorf("newest should be first, got %s", all[0].URL)
	}
	for _, r := range all {
		if r.URL == "https://site0.com" {
			t.Error("oldest record was not evicted")
		}
	}
}

func TestHistory_RemoveAndClear(t *testing.T) {
	h := New(NewMemoryStore(), nil)
	h.Add(record("https://a.com", 1, 0))
	h.Add(record("https://b.com", 2, 1))

	if !h.Remove("https://a.com") {
		t.Error("Remove should report an existing record")
	}
	if h.Remove("https://missing.com") {
		t.Error("Remove should report a missing record")
	}
	if got := urls(h.All()); got != "https://b.com" {
		t.Errorf("after remove: %s", got)
	}

	h.Clear()
	if n := len(h.All()); n != 0 {
		t.Errorf("after clear: %d records", n)
	}
}

func TestHistory_SwallowsStorageErrors(t *testing.T) {
	var buf bytes.Buffer
	store := NewMemoryStore()
	store.Err = errors.New("quota exceeded")
	h := New(store, logger.NewLoggerWithWriter(1, &buf))

	h.Add(record("https://a.com", 1, 0))
	h.Clear()
	if all := h.All(); len(all) != 0 {
		t.Errorf("expected empty history, got %d", len(all))
	}
	if !strings.Contains(buf.String(), "quota exceeded") {
		t.Errorf("storage error not logged: %q", buf.String())
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	h := New(NewFileStore(path), nil)

	if n := len(h.All()); n != 0 {
		t.Fatalf("missing file should be empty, got %d", n)
	}

	h.Add(record("https://a.com", 55, 0))
	h.Add(record("https://b.com", 77, 1))

	reopened := New(NewFileStore(path), nil).All()
	if got := urls(reopened); got != "https://b.com,https://a.com" {
		t.Fatalf("reloaded order = %s", got)
	}
	if reopened[0].Score != 77 || !reopened[0].Date.Equal(epoch.Add(time.Minute)) {
		t.Errorf("record not preserved: %+v", reopened[0])
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte(`"date": "2026-01-02T03:05:05Z"`)) {
		t.Errorf("dates should be ISO-8601: %s", raw)
	}

	h.Clear()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("clear should remove the file, stat err = %v", err)
	}
}

func TestFileStore_CorruptFileDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := New(NewFileStore(path), nil)
	if n := len(h.All()); n != 0 {
		t.Errorf("corrupt file should read as empty, got %d", n)
	}

	h.Add(record("https://a.com", 1, 0))
	if got := urls(h.All()); got != "https://a.com" {
		t.Errorf("history should recover on write, got %s", got)
	}
}
