package dispatch

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// renderCache shares rendered content between recipients of one Trigger call.
// Concurrent misses may both render; the duplicate work is tolerated the same
// way the template cache tolerates it.
type renderCache struct {
	mu      sync.RWMutex
	entries map[string]*templates.Rendered
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[string]*templates.Rendered)}
}

func (c *renderCache) get(key string) (*templates.Rendered, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *renderCache) put(key string, r *templates.Rendered) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
}

// dataHash fingerprints the shared render inputs. Recipients sharing the same
// event payload, locale and audience land on the same hash; json.Marshal
// sorts map keys, which makes the encoding canonical.
func dataHash(t manifest.Type, locale string, audience manifest.Audience, event map[string]any) string {
	canonical, err := json.Marshal(struct {
		Type     manifest.Type     `json:"type"`
		Locale   string            `json:"locale"`
		Audience manifest.Audience `json:"audience"`
		Event    map[string]any    `json:"event"`
	}{t, locale, audience, event})
	if err != nil {
		// Unencodable event values fall back to per-recipient rendering.
		return fmt.Sprintf("nohash:%p", event)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

func cacheKey(t manifest.Type, ch channel.Channel, locale, hash string) string {
	return fmt.Sprintf("%s:%s:%s:%s", t, ch, locale, hash)
}
