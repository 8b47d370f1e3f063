// Package catalog implements TableCatalog: directory discovery of a
// table's data/memo/index file set, and a schema cache keyed by table name
// (spec.md §4.5).
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"ficengine/internal/domain"
)

const (
	dataExtension  = ".fic"
	memoExtension  = ".mmo"
	indexExtension = ".ndx"
)

// SchemaLoader produces a TableSchema for a table given its record length
// and the record_count its data file header declares, as implemented by
// internal/platform/schema.Inspector.
type SchemaLoader interface {
	Inspect(table string, recordLength, recordCount uint32) (*domain.TableSchema, error)
}

// RecordLengthLookup returns the record length and record_count declared
// by a table's data file header, as implemented by
// internal/platform/datafile.Reader.
type RecordLengthLookup func(dataPath string) (recordLength, recordCount uint32, err error)

// Catalog discovers and caches a data directory's table file sets, and
// lazily caches each table's schema. All fields behind mu must only be
// accessed while holding the lock; order is preserved in insertionOrder
// so list_tables() reflects catalog-insertion order (spec.md §4.7).
type Catalog struct {
	mu             sync.RWMutex
	entries        map[string]domain.TableEntry
	insertionOrder []string

	schemaMu sync.RWMutex
	schemas  map[string]*domain.TableSchema
	group    singleflight.Group

	loader       SchemaLoader
	recordLength RecordLengthLookup
}

// New returns an empty Catalog. loader computes a table's schema on first
// access; recordLength reads a data file's declared record length.
func New(loader SchemaLoader, recordLength RecordLengthLookup) *Catalog {
	return &Catalog{
		entries:      make(map[string]domain.TableEntry),
		schemas:      make(map[string]*domain.TableSchema),
		loader:       loader,
		recordLength: recordLength,
	}
}

// Rescan replaces the catalog's table entries atomically by scanning dir.
// The schema cache is cleared: a rescanned table may have a new data file
// with a different record length, invalidating any cached schema.
func (c *Catalog) Rescan(dir string) error {
	entries, order, err := discover(dir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.insertionOrder = order
	c.mu.Unlock()

	c.schemaMu.Lock()
	c.schemas = make(map[string]*domain.TableSchema)
	c.schemaMu.Unlock()

	return nil
}

// ListTables returns known table names in catalog-insertion order.
func (c *Catalog) ListTables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.insertionOrder))
	copy(out, c.insertionOrder)
	return out
}

// Resolve returns the TableEntry for name, or NotFound.
func (c *Catalog) Resolve(name string) (domain.TableEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[normalizeName(name)]
	if !ok {
		return domain.TableEntry{}, domain.NotFoundf("table %q not found", name)
	}
	return entry, nil
}

// Schema returns the cached schema for name, computing and caching it on
// first access. Concurrent first-loads for the same table collapse into a
// single SchemaLoader.Inspect call via singleflight; every caller — the
// one that actually ran the load or one that arrived while it was in
// flight — receives the same computed schema (spec.md §5).
func (c *Catalog) Schema(name string) (*domain.TableSchema, error) {
	entry, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	key := normalizeName(name)

	c.schemaMu.RLock()
	if schema, ok := c.schemas[key]; ok {
		c.schemaMu.RUnlock()
		return schema, nil
	}
	c.schemaMu.RUnlock()

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under write intent: another caller may have populated
		// the cache between our RUnlock above and acquiring the group.
		c.schemaMu.RLock()
		if schema, ok := c.schemas[key]; ok {
			c.schemaMu.RUnlock()
			return schema, nil
		}
		c.schemaMu.RUnlock()

		recordLength, recordCount, err := c.recordLength(entry.DataPath)
		if err != nil {
			return nil, err
		}
		schema, err := c.loader.Inspect(entry.Name, recordLength, recordCount)
		if err != nil {
			return nil, err
		}

		c.schemaMu.Lock()
		if existing, ok := c.schemas[key]; ok {
			// Lost the race to insert: discard our result, return the
			// winner's (spec.md §5 — the computation is deterministic
			// enough for this to be safe).
			c.schemaMu.Unlock()
			return existing, nil
		}
		c.schemas[key] = schema
		c.schemaMu.Unlock()
		return schema, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.TableSchema), nil
}

func normalizeName(name string) string {
	return strings.ToUpper(name)
}

// discover enumerates dir and groups entries by case-normalized base name,
// per spec.md §4.5.
func discover(dir string) (map[string]domain.TableEntry, []string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, domain.IO(dir, 0, 0, err)
	}

	groups := make(map[string]*groupEntry)

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		ext := strings.ToLower(filepath.Ext(name))
		base := strings.TrimSuffix(name, filepath.Ext(name))
		key := normalizeName(base)

		switch {
		case ext == dataExtension:
			g := groupFor(groups, key)
			g.dataPath = filepath.Join(dir, name)
			g.dataName = base
		case ext == memoExtension:
			g := groupFor(groups, key)
			g.memoPath = filepath.Join(dir, name)
		case strings.HasPrefix(ext, indexExtension):
			suffix := strings.TrimPrefix(ext, indexExtension)
			g := groupFor(groups, key)
			g.indexPaths = append(g.indexPaths, indexCandidate{
				path:   filepath.Join(dir, name),
				suffix: suffix,
			})
		}
	}

	entries := make(map[string]domain.TableEntry)
	var order []string
	// Stable iteration over directory read order: os.ReadDir already
	// returns entries sorted by filename, so the first time a base name
	// is seen determines insertion order.
	seen := make(map[string]bool)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		base := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		key := normalizeName(base)
		if seen[key] {
			continue
		}
		g, ok := groups[key]
		if !ok || g.dataPath == "" {
			continue
		}
		seen[key] = true

		sort.SliceStable(g.indexPaths, func(i, j int) bool {
			return indexSuffixRank(g.indexPaths[i].suffix) < indexSuffixRank(g.indexPaths[j].suffix)
		})
		var indexPaths []string
		for _, ic := range g.indexPaths {
			indexPaths = append(indexPaths, ic.path)
		}

		entries[key] = domain.TableEntry{
			Name:       g.dataName,
			DataPath:   g.dataPath,
			MemoPath:   g.memoPath,
			IndexPaths: indexPaths,
		}
		order = append(order, g.dataName)
	}

	return entries, order, nil
}

type indexCandidate struct {
	path   string
	suffix string
}

// groupEntry accumulates the candidate files seen for one base name while
// scanning a directory.
type groupEntry struct {
	dataPath   string
	dataName   string // case-preserved base name of the data file
	memoPath   string
	indexPaths []indexCandidate
}

// indexSuffixRank orders index files by their numeric suffix, with a
// missing suffix sorting first (spec.md §4.5).
func indexSuffixRank(suffix string) int {
	if suffix == "" {
		return -1
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 1 << 30
	}
	return n
}

func groupFor(groups map[string]*groupEntry, key string) *groupEntry {
	g, ok := groups[key]
	if !ok {
		g = &groupEntry{}
		groups[key] = g
	}
	return g
}
