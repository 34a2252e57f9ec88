// Package storage keeps the terminal client's local copy of the food list,
// refreshes it in the background and prompts the user for input.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

// LocalStorage is a read-through cache of the last food list fetched from the
// server. Results of a fetch are applied only if no newer fetch has started
// and the cache is still open, so an out-of-order response never overwrites
// fresher data.
type LocalStorage struct {
	Foods     []models.FoodItem `json:"foods"`
	FetchedAt time.Time         `json:"fetched_at"`

	mu     sync.Mutex
	path   string
	gen    uint64
	closed bool
}

// NewLocalStorage returns an empty cache persisted at path.
func NewLocalStorage(path string) *LocalStorage {
	return &LocalStorage{path: path, Foods: []models.FoodItem{}}
}

// Load reads the cache file. A missing file leaves the cache empty.
func (ls *LocalStorage) Load() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	f, err := os.Open(ls.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ls.Foods = []models.FoodItem{}
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(ls)
}

// Save writes the cache file.
func (ls *LocalStorage) Save() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	f, err := os.OpenFile(ls.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(ls)
}

// BeginFetch starts a fetch and returns its ticket for Apply.
func (ls *LocalStorage) BeginFetch() uint64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.gen++
	return ls.gen
}

// Apply stores foods fetched under ticket. It reports false, leaving the cache
// untouched, when a newer fetch has begun or the cache was closed.
func (ls *LocalStorage) Apply(ticket uint64, foods []models.FoodItem, at time.Time) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed || ticket != ls.gen {
		return false
	}
	ls.Foods = append([]models.FoodItem(nil), foods...)
	ls.FetchedAt = at
	return true
}

// Close stops the cache from accepting fetch results.
func (ls *LocalStorage) Close() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.closed = true
}

// List returns a copy of the cached items matching search (title or category,
// case-insensitive) and category (exact, empty for all).
func (ls *LocalStorage) List(search, category string) []models.FoodItem {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := []models.FoodItem{}
	for _, f := range ls.Foods {
		if category != "" && !strings.EqualFold(string(f.Category), category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(f.Title), search) &&
			!strings.Contains(strings.ToLower(string(f.Category)), search) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Get returns the cached item with id, or nil.
func (ls *LocalStorage) Get(id string) *models.FoodItem {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, f := range ls.Foods {
		if f.ID == id {
			return &f
		}
	}
	return nil
}

// Put replaces the cached copy of f, or appends it.
func (ls *LocalStorage) Put(f models.FoodItem) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i := range ls.Foods {
		if ls.Foods[i].ID == f.ID {
			ls.Foods[i] = f
			return
		}
	}
	ls.Foods = append(ls.Foods, f)
}

// Delete drops id from the cache and reports whether it was present.
func (ls *LocalStorage) Delete(id string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i, f := range ls.Foods {
		if f.ID == id {
			ls.Foods = append(ls.Foods[:i], ls.Foods[i+1:]...)
			return true
		}
	}
	return false
}
