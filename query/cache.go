package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hometown/storefront/models"
)

// Observer is notified of cache lookups. Implementations must be safe for
// concurrent use.
type Observer interface {
	Hit()
	Miss()
}

type nopObserver struct{}

func (nopObserver) Hit()  {}
func (nopObserver) Miss() {}

// Cache memoizes Query results for a fixed catalog. Results are keyed by
// the canonical form of Params, so equivalent selections share an entry.
type Cache struct {
	catalog  []models.Product
	entries  *lru.Cache[string, []models.Product]
	observer Observer
}

// NewCache builds a cache of at most size entries over catalog. A size of
// zero or less disables memoization. observer may be nil.
func NewCache(catalog []models.Product, size int, observer Observer) (*Cache, error) {
	if observer == nil {
		observer = nopObserver{}
	}
	c := &Cache{
		catalog:  slices.Clone(catalog),
		observer: observer,
	}
	if size > 0 {
		entries, err := lru.New[string, []models.Product](size)
		if err != nil {
			return nil, fmt.Errorf("create query cache: %w", err)
		}
		c.entries = entries
	}
	return c, nil
}

// Query runs p against the catalog, serving repeated selections from the
// cache. The returned slice belongs to the caller.
func (c *Cache) Query(p Params) []models.Product {
	if c.entries == nil {
		return p.Run(c.catalog)
	}

	key := p.Key()
	if res, ok := c.entries.Get(key); ok {
		c.observer.Hit()
		return slices.Clone(res)
	}

	c.observer.Miss()
	res := p.Run(c.catalog)
	c.entries.Add(key, res)
	return slices.Clone(res)
}

// Len reports the number of cached selections.
func (c *Cache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Key returns a canonical string for p. Search text and labels are
// lowercased because matching ignores case; sections and labels are sorted
// and deduplicated because selection order does not affect the result.
// Every user supplied component is quoted so distinct selections never
// share a key.
func (p Params) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(strings.ToLower(p.Search)))

	sections := make([]string, 0, len(p.Filters))
	for s, labels := range p.Filters {
		if len(labels) > 0 {
			sections = append(sections, s)
		}
	}
	slices.Sort(sections)
	for _, s := range sections {
		labels := make([]string, len(p.Filters[s]))
		for i, l := range p.Filters[s] {
			labels[i] = strings.ToLower(l)
		}
		slices.Sort(labels)
		labels = slices.Compact(labels)

		b.WriteByte(' ')
		b.WriteString(strconv.Quote(s))
		b.WriteByte('=')
		b.WriteByte('[')
		for i, l := range labels {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(l))
		}
		b.WriteByte(']')
	}

	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(p.Price.Min, 10))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(p.Price.Max, 10))
	b.WriteByte(' ')
	b.WriteString(strconv.Quote(string(p.Sort)))
	return b.String()
}
