package adapter

import (
	"context"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapterm/pkg/schema"
	"golang.org/x/sync/singleflight"
)

// Catalog serves table metadata from a connected adapter. Lookups are cached
// per table name, and concurrent lookups of the same table share one query.
type Catalog struct {
	adapter Adapter

	mu     sync.RWMutex
	tables map[string]*schema.Table
	group  singleflight.Group
}

// NewCatalog wraps a connected adapter.
func NewCatalog(a Adapter) *Catalog {
	return &Catalog{
		adapter: a,
		tables:  make(map[string]*schema.Table),
	}
}

// Table implements schema.Catalog.
func (c *Catalog) Table(ctx context.Context, name string) (*schema.Table, error) {
	key := schema.Fold(name)

	c.mu.RLock()
	t, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		t, err := c.adapter.GetTableMetadata(ctx, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[key] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Table), nil
}

// Cached returns the tables looked up so far, sorted by qualified name.
func (c *Catalog) Cached() []*schema.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[*schema.Table]bool, len(c.tables))
	out := make([]*schema.Table, 0, len(c.tables))
	for _, t := range c.tables {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out
}

var _ schema.Catalog = (*Catalog)(nil)
