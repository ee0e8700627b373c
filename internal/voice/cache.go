package voice

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/repflow/internal/logger"
)

// AudioCache is a thread-safe two-tier cache (in-memory + filesystem) for
// synthesized audio. The cache key is sha256(voice + ":" + text) so a
// voice change automatically causes misses until it is switched back.
//
// The announcement vocabulary is small and fixed, so after one full
// workout nearly every line is served from cache. The disk layer gives a
// warm start across runs; if cacheDir is empty the cache is memory-only.
type AudioCache struct {
	mu      sync.RWMutex
	entries map[string][]byte // hash -> WAV bytes
	log     *logger.Logger
	voice   string // included in every cache key
	dir     string // filesystem cache directory (empty = no disk layer)
	hits    int64
	misses  int64
}

// NewAudioCache creates an audio cache keyed on the given voice name.
// If cacheDir is non-empty it is created and used as the disk layer.
func NewAudioCache(voice, cacheDir string, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		entries: make(map[string][]byte),
		log:     log,
		voice:   voice,
		dir:     cacheDir,
	}
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Error("cache: failed to create cache dir %s: %v", cacheDir, err)
			c.dir = ""
		}
	}
	return c
}

// Get returns cached audio for the given text and true, or nil and false.
// It checks the in-memory map first, then falls back to the disk layer.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.hashKey(text)

	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.log.Debug("cache hit (mem): %s (%d bytes)", truncate(text, 40), len(data))
		return data, true
	}

	if c.dir != "" {
		if diskData, err := os.ReadFile(c.diskPath(key)); err == nil {
			// Promote to memory for faster subsequent hits.
			c.mu.Lock()
			c.entries[key] = diskData
			c.hits++
			c.mu.Unlock()
			c.log.Debug("cache hit (disk): %s (%d bytes)", truncate(text, 40), len(diskData))
			return diskData, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores audio data for the given text in memory and, when a disk
// layer is configured, on disk.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.hashKey(text)

	c.mu.Lock()
	c.entries[key] = audio
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("cache store: %s (%d bytes, %d entries)", truncate(text, 40), len(audio), size)

	if c.dir != "" {
		path := c.diskPath(key)
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			c.log.Error("cache: disk write failed for %s: %v", path, err)
		}
	}
}

// Has returns true if audio for the text is cached (memory or disk).
func (c *AudioCache) Has(text string) bool {
	key := c.hashKey(text)

	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return true
	}

	if c.dir != "" {
		_, err := os.Stat(c.diskPath(key))
		return err == nil
	}
	return false
}

// Len returns the number of in-memory cached entries.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// hashKey returns a hex-encoded SHA-256 of voice + ":" + text.
func (c *AudioCache) hashKey(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.dir, key+".wav")
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
