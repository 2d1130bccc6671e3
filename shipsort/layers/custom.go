package layers

import (
	"log/slog"
	"maps"
	"strings"
	"sync"

	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// CustomMap is the parsed form of the custom position blob, "key1:spec1;key2:spec2". Entries are
// split eagerly but their specs are only parsed once they are first looked up.
type CustomMap struct {
	log    *slog.Logger
	parser *position.Parser

	raw     string
	order   []string
	entries map[string]string

	mu     sync.Mutex
	parsed map[string]parsedEntry
}

// parsedEntry caches the result of parsing one entry.
type parsedEntry struct {
	spec position.Spec
	ok   bool
}

// ParseCustomMap splits blob into entries. The first entry for a key wins; later duplicates and
// entries without a ':' are logged and skipped.
func ParseCustomMap(log *slog.Logger, parser *position.Parser, blob string) *CustomMap {
	m := &CustomMap{
		log:     log,
		parser:  parser,
		raw:     blob,
		entries: map[string]string{},
		parsed:  map[string]parsedEntry{},
	}
	for _, entry := range strings.Split(blob, ";") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		key, text, found := strings.Cut(entry, ":")
		key = Key(key)
		if !found || key == "" {
			log.Error("malformed custom item position, skipping", "entry", entry)
			continue
		}
		if _, dup := m.entries[key]; dup {
			log.Warn("duplicate custom item position, keeping the first", "item", key, "entry", entry)
			continue
		}
		m.entries[key] = strings.TrimSpace(text)
		m.order = append(m.order, key)
	}
	return m
}

// Name ...
func (m *CustomMap) Name() string {
	return "custom"
}

// Lookup parses and returns the entry for key. Entries with empty text, and entries whose text
// fails to parse, yield nothing.
func (m *CustomMap) Lookup(key string) (position.Spec, bool) {
	k := Key(key)
	text, ok := m.entries[k]
	if !ok || text == "" {
		return position.Spec{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.parsed[k]; ok {
		return p.spec, p.ok
	}
	spec, err := m.parser.Parse(text)
	if err != nil {
		m.log.Error("invalid custom item position, skipping", "item", k, "position", text, "error", err)
	}
	m.parsed[k] = parsedEntry{spec: spec, ok: err == nil}
	return spec, err == nil
}

// Keys returns the keys of every entry in the order they appear in the blob.
func (m *CustomMap) Keys() []string {
	return append([]string(nil), m.order...)
}

// Specs parses every entry and returns those that yield a spec.
func (m *CustomMap) Specs() map[string]position.Spec {
	specs := make(map[string]position.Spec, len(m.entries))
	for _, k := range m.order {
		if spec, ok := m.Lookup(k); ok {
			specs[k] = spec
		}
	}
	return specs
}

// Texts returns the raw text of every entry.
func (m *CustomMap) Texts() map[string]string {
	return maps.Clone(m.entries)
}

// String returns the blob the map was parsed from.
func (m *CustomMap) String() string {
	return m.raw
}
