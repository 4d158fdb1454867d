package host

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nsyo/jsre/internal/config"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/token"
)

// cacheEntry is one file's last-seen content hash and the diagnostics
// analyzing it produced, so an unchanged file can replay its prior report
// instead of re-running every checker.
type cacheEntry struct {
	Hash        string             `json:"hash"`
	Diagnostics []cachedDiagnostic `json:"diagnostics,omitempty"`
}

type cachedDiagnostic struct {
	Severity int    `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// parserCache persists per-file analysis results alongside the binary,
// keyed by the file's content hash under a top-level version tag. A
// mismatching tag invalidates every entry rather than risking a stale
// report under a changed diagnostic format.
type parserCache struct {
	path string

	mu      sync.Mutex
	entries map[string]cacheEntry
	dirty   bool
}

// loadParserCache reads the cache blob at path. A missing file, an
// unreadable one, or one stamped with a version tag other than
// config.ParserCacheVersionTag all start a fresh, empty cache rather than
// erroring — a cache is an optimization, never a dependency.
func loadParserCache(path string) *parserCache {
	c := &parserCache{path: path, entries: make(map[string]cacheEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if gjson.GetBytes(data, "version").String() != config.ParserCacheVersionTag {
		return c
	}

	raw := gjson.GetBytes(data, "entries").Raw
	if raw == "" {
		return c
	}
	var entries map[string]cacheEntry
	if err := json.Unmarshal([]byte(raw), &entries); err == nil && entries != nil {
		c.entries = entries
	}
	return c
}

func hashSource(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// lookup returns the diagnostics cached for path if source's hash still
// matches what was cached, false otherwise.
func (c *parserCache) lookup(path string, source []byte) ([]*diagnostics.Diagnostic, bool) {
	c.mu.Lock()
	entry, ok := c.entries[path]
	c.mu.Unlock()
	if !ok || entry.Hash != hashSource(source) {
		return nil, false
	}

	out := make([]*diagnostics.Diagnostic, len(entry.Diagnostics))
	for i, d := range entry.Diagnostics {
		out[i] = &diagnostics.Diagnostic{
			Severity: diagnostics.Severity(d.Severity),
			Code:     diagnostics.Code(d.Code),
			Message:  d.Message,
			Pos:      token.Position{Filename: d.File, Line: d.Line, Column: d.Column},
		}
	}
	return out, true
}

// store records source's hash and the diagnostics analyzing it produced,
// replacing any previous entry for path.
func (c *parserCache) store(path string, source []byte, diags []*diagnostics.Diagnostic) {
	entry := cacheEntry{Hash: hashSource(source)}
	for _, d := range diags {
		entry.Diagnostics = append(entry.Diagnostics, cachedDiagnostic{
			Severity: int(d.Severity),
			Code:     string(d.Code),
			Message:  d.Message,
			File:     d.Pos.Filename,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
		})
	}

	c.mu.Lock()
	c.entries[path] = entry
	c.dirty = true
	c.mu.Unlock()
}

// flush writes the cache back to disk, rewriting the version-tag field of
// the existing blob in place (sjson) rather than round-tripping the whole
// document through encoding/json, so other top-level fields of the blob
// are kept. The file is rewritten with a plain os.WriteFile, not an atomic
// rename.
func (c *parserCache) flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	entriesJSON, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(c.path)
	if err != nil {
		blob = []byte(`{}`)
	}
	blob, err = sjson.SetBytes(blob, "version", config.ParserCacheVersionTag)
	if err != nil {
		return err
	}
	blob, err = sjson.SetRawBytes(blob, "entries", entriesJSON)
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.path, blob, 0o644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// CachedDiagnostics returns the diagnostics cached for the module last
// loaded from path, if its source is unchanged since that was recorded.
// Returns false if no cache is enabled (EnableCache was never called) or
// there is no valid entry.
func (h *Host) CachedDiagnostics(path string) ([]*diagnostics.Diagnostic, bool) {
	if h.cache == nil {
		return nil, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	h.mu.Lock()
	source, ok := h.sources[abs]
	h.mu.Unlock()
	if !ok {
		return nil, false
	}
	return h.cache.lookup(abs, source)
}

// StoreDiagnostics records the diagnostics produced for the module loaded
// from path, for a later run's CachedDiagnostics to replay. A no-op if no
// cache is enabled.
func (h *Host) StoreDiagnostics(path string, diags []*diagnostics.Diagnostic) {
	if h.cache == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	h.mu.Lock()
	source, ok := h.sources[abs]
	h.mu.Unlock()
	if !ok {
		return
	}
	h.cache.store(abs, source, diags)
}
