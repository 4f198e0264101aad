package models

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
)

// OfferCatalog is the read-only view the resolution core consumes. Lookups
// and scans operate against one consistent snapshot: a reload never mixes old
// and new records within a single resolution.
type OfferCatalog interface {
	// Lookup returns the offer for a slug (or a brand alias of it).
	Lookup(slug string) (*Offer, bool)
	// All returns every offer in stable catalog order.
	All() []Offer
	// Len reports the number of offers in the current snapshot.
	Len() int
}

// catalogSnapshot is an immutable view of the loaded offers.
type catalogSnapshot struct {
	offers []Offer
	index  map[string]*Offer
}

// InMemoryCatalog implements OfferCatalog with atomic snapshot swaps, so
// concurrent resolutions are lock-free and reloads are all-or-nothing.
type InMemoryCatalog struct {
	data atomic.Pointer[catalogSnapshot]
}

// NewInMemoryCatalog creates an empty catalog.
func NewInMemoryCatalog() *InMemoryCatalog {
	c := &InMemoryCatalog{}
	c.data.Store(&catalogSnapshot{index: make(map[string]*Offer)})
	return c
}

var brandKeyRe = regexp.MustCompile(`[^a-z0-9]+`)

// BrandKey normalizes a display name into a slug-shaped lookup alias,
// e.g. "Aero Bet!" -> "aero-bet".
func BrandKey(brand string) string {
	key := brandKeyRe.ReplaceAllString(strings.ToLower(brand), "-")
	return strings.Trim(key, "-")
}

// Reload validates the given offers and atomically swaps them in as the new
// snapshot. On error the previous snapshot stays in place. Offers are indexed
// by slug and, when unambiguous, by a normalized brand alias.
func (c *InMemoryCatalog) Reload(offers []Offer) error {
	snap := &catalogSnapshot{
		offers: make([]Offer, len(offers)),
		index:  make(map[string]*Offer, len(offers)*2),
	}
	copy(snap.offers, offers)

	for i := range snap.offers {
		o := &snap.offers[i]
		if o.Slug == "" {
			return fmt.Errorf("offer %d: empty slug", i)
		}
		if o.FallbackURL == "" {
			return fmt.Errorf("offer %q: empty fallback url", o.Slug)
		}
		if _, dup := snap.index[o.Slug]; dup {
			return fmt.Errorf("offer %q: duplicate slug", o.Slug)
		}
		snap.index[o.Slug] = o
	}

	// Brand aliases are best-effort: they never shadow a real slug and
	// ambiguous aliases are skipped.
	for i := range snap.offers {
		o := &snap.offers[i]
		key := BrandKey(o.Brand)
		if key == "" || key == o.Slug {
			continue
		}
		if _, taken := snap.index[key]; !taken {
			snap.index[key] = o
		}
	}

	c.data.Store(snap)
	return nil
}

// Lookup returns the offer registered under the given slug or brand alias.
func (c *InMemoryCatalog) Lookup(slug string) (*Offer, bool) {
	o, ok := c.data.Load().index[slug]
	return o, ok
}

// All returns a copy of the offers in load order.
func (c *InMemoryCatalog) All() []Offer {
	snap := c.data.Load()
	out := make([]Offer, len(snap.offers))
	copy(out, snap.offers)
	return out
}

// Len reports how many offers the current snapshot holds.
func (c *InMemoryCatalog) Len() int {
	return len(c.data.Load().offers)
}
