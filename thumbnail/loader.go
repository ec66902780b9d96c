// Package thumbnail retrieves, normalizes and caches preview images.
//
// Retrieval is asynchronous over a bounded worker pool, with a two-tier
// cache (in-memory LRU over a persistent PNG disk tier) and coalescing of
// concurrent requests for the same key.
package thumbnail

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/link2vid/link2vid/filesystem"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/network"
	"github.com/link2vid/link2vid/source"
	"github.com/link2vid/link2vid/where"
)

// Callback receives the finished bitmap, or nil when any pipeline stage
// failed and the caller should substitute a placeholder.
type Callback func(img image.Image)

// Config carries the loader's construction-time knobs. Zero values fall
// back to the application defaults.
type Config struct {
	// CacheDir is the disk tier directory.
	CacheDir string

	// MaxItems caps the in-memory LRU entry count.
	MaxItems int

	// MaxBytes caps a single downloaded image body.
	MaxBytes int64

	// Workers bounds the number of concurrent fetch pipelines.
	Workers int

	// Client performs the HTTP downloads.
	Client *http.Client
}

// Loader is the thumbnail cache. The single mutex guards both index
// structures and is never held across network or disk I/O.
type Loader struct {
	cfg Config

	mu       sync.Mutex
	lru      *lruCache
	inflight map[string][]Callback

	sem chan struct{}
}

// New builds a Loader from cfg, filling unset fields with defaults.
func New(cfg Config) *Loader {
	if cfg.CacheDir == "" {
		cfg.CacheDir = where.Thumbnails()
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 120
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Client == nil {
		cfg.Client = network.Client
	}

	return &Loader{
		cfg:      cfg,
		lru:      newLRUCache(cfg.MaxItems),
		inflight: make(map[string][]Callback),
		sem:      make(chan struct{}, cfg.Workers),
	}
}

func cacheKey(url string, size source.Resolution) string {
	return fmt.Sprintf("%s|%dx%d", url, size.Width, size.Height)
}

func (l *Loader) diskPath(key string) string {
	digest := sha256.Sum256([]byte(key))
	return filepath.Join(l.cfg.CacheDir, hex.EncodeToString(digest[:])+".png")
}

// Submit requests the image at url resized to size and delivers it through
// onReady. A memory hit invokes onReady synchronously; otherwise the call
// returns immediately and onReady fires from a worker goroutine. Concurrent
// submissions for the same key share a single fetch.
func (l *Loader) Submit(url string, size source.Resolution, onReady Callback) {
	key := cacheKey(url, size)

	l.mu.Lock()
	if img, ok := l.lru.get(key); ok {
		l.mu.Unlock()
		onReady(img)
		return
	}
	if waiters, ok := l.inflight[key]; ok {
		l.inflight[key] = append(waiters, onReady)
		l.mu.Unlock()
		return
	}
	l.inflight[key] = []Callback{onReady}
	l.mu.Unlock()

	go func() {
		l.sem <- struct{}{}
		defer func() { <-l.sem }()

		l.resolve(key, l.fetch(key, url, size))
	}()
}

// GetCached is a non-blocking peek at the memory tier.
func (l *Loader) GetCached(url string, size source.Resolution) image.Image {
	l.mu.Lock()
	defer l.mu.Unlock()

	img, _ := l.lru.get(cacheKey(url, size))
	return img
}

// Len reports the current memory tier entry count.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.lru.len()
}

// Clear drops the memory tier and, when removeDirectory is set, deletes the
// disk tier directory. Clearing concurrently with in-flight writes is
// best-effort: a write that races the removal may survive it.
func (l *Loader) Clear(removeDirectory bool) error {
	l.mu.Lock()
	l.lru.reset()
	l.mu.Unlock()

	if !removeDirectory {
		return nil
	}
	if err := filesystem.API().RemoveAll(l.cfg.CacheDir); err != nil {
		return fmt.Errorf("clear thumbnail directory: %w", err)
	}
	return nil
}

// fetch runs the full pipeline for one key outside the lock and returns the
// finished bitmap, or nil after logging the failed stage.
func (l *Loader) fetch(key, url string, size source.Resolution) image.Image {
	if img := l.loadFromDisk(key); img != nil {
		return img
	}

	data, err := network.DownloadBytes(context.Background(), l.cfg.Client, url, l.cfg.MaxBytes)
	if err != nil {
		log.Warnf("thumbnail download failed for %s: %v", url, err)
		return nil
	}

	decoded, err := decodeImage(data)
	if err != nil {
		log.Warnf("thumbnail decode failed for %s: %v", url, err)
		return nil
	}

	img := coverCrop(decoded, size.Width, size.Height)
	l.storeToDisk(key, img)
	return img
}

func (l *Loader) loadFromDisk(key string) image.Image {
	path := l.diskPath(key)

	exists, err := filesystem.API().Exists(path)
	if err != nil || !exists {
		return nil
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		log.Warnf("thumbnail disk read failed for %s: %v", path, err)
		return nil
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warnf("thumbnail disk decode failed for %s: %v", path, err)
		return nil
	}
	return img
}

// storeToDisk persists the finished bitmap. Failures are logged and
// otherwise ignored; the memory tier stays authoritative for this run.
func (l *Loader) storeToDisk(key string, img image.Image) {
	if err := filesystem.API().MkdirAll(l.cfg.CacheDir, 0o755); err != nil {
		log.Warnf("thumbnail disk write failed for %s: %v", key, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Warnf("thumbnail encode failed for %s: %v", key, err)
		return
	}

	if err := filesystem.API().WriteFile(l.diskPath(key), buf.Bytes(), 0o644); err != nil {
		log.Warnf("thumbnail disk write failed for %s: %v", key, err)
	}
}

// resolve publishes the fetch result: a success enters the LRU, and every
// waiter registered while the fetch ran receives the same image reference
// in registration order.
func (l *Loader) resolve(key string, img image.Image) {
	l.mu.Lock()
	if img != nil {
		l.lru.put(key, img)
	}
	waiters := l.inflight[key]
	delete(l.inflight, key)
	l.mu.Unlock()

	for _, waiter := range waiters {
		waiter(img)
	}
}
