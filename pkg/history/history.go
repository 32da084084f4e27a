// Package history keeps the most recent scans, newest first, deduplicated by URL.
package history

import (
	"sync"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// History applies the retention rules on top of a Store. Storage failures
// never reach the caller: they are logged and the operation degrades to a no-op
// (or an empty list for reads).
type History struct {
	mu     sync.Mutex
	store  Store
	limit  int
	logger *logger.Logger
}

// New wraps store with the default retention limit.
func New(store Store, log *logger.Logger) *History {
	if log == nil {
		log = logger.Discard()
	}
	return &History{
		store:  store,
		limit:  config.HistoryLimit,
		logger: log.With("area", "history"),
	}
}

// Add records a scan at the front. An existing record for the same URL is
// replaced; the list is then capped, evicting the oldest.
func (h *History) Add(rec models.HistoryRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// An unreadable history is replaced rather than blocking new records.
	records, _ := h.load()

	next := make([]models.HistoryRecord, 0, h.limit)
	next = append(next, rec)
	for _, r := range records {
		if r.URL != rec.URL {
			next = append(next, r)
		}
	}
	if len(next) > h.limit {
		next = next[:h.limit]
	}

	h.save(next)
}

// All returns the records, newest first.
func (h *History) All() []models.HistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, _ := h.load()
	return records
}

// Remove drops the record for url, if any. It reports whether one was found.
func (h *History) Remove(url string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, ok := h.load()
	if !ok {
		return false
	}
	kept := records[:0:0]
	for _, r := range records {
		if r.URL != url {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false
	}
	h.save(kept)
	return true
}

// Clear empties the history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Clear(); err != nil {
		h.drop("clear", err)
	}
}

func (h *History) load() ([]models.HistoryRecord, bool) {
	records, err := h.store.Load()
	if err != nil {
		h.drop("load", err)
		return nil, false
	}
	return records, true
}

func (h *History) save(records []models.HistoryRecord) {
	if err := h.store.Save(records); err != nil {
		h.drop("save", err)
	}
}

func (h *History) drop(op string, err error) {
	serr := &models.StorageError{Op: op, Err: err}
	h.logger.Debug("storage error ignored", "err", serr)
}
