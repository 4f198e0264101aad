package logic

import (
	"github.com/bestcasinoportal/offerserve/internal/models"
)

// Resolution is a pure function of (catalog snapshot, request): no caching,
// no randomness. Two calls with identical inputs return identical results,
// which the HTTP handler and the render-time call surface both rely on.

// ResolveForCasino looks up a single casino's offer and checks it against
// the visitor geography. The result is always anchored to that one offer;
// a blocked or missing casino is never substituted with a different one.
func ResolveForCasino(catalog models.OfferCatalog, slug, geo string) (*models.Offer, error) {
	if catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	offer, ok := catalog.Lookup(slug)
	if !ok {
		return nil, ErrOfferNotFound
	}
	if offer.RestrictedIn(geo) {
		return nil, ErrGeoBlocked
	}
	return offer, nil
}

// ResolveTopOffer scans the whole catalog for the best offer to show a
// visitor: offers in the exclusion set or restricted in the visitor's
// geography are skipped, the rest are ranked by priority weight descending.
// Ties keep the first-seen offer in catalog order, so re-permutations of
// equal-weight catalogs stay deterministic.
//
// A false result means "no offer to display" and is not an error.
func ResolveTopOffer(catalog models.OfferCatalog, geo string, exclude []string) (*models.Offer, bool) {
	if catalog == nil {
		return nil, false
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, s := range exclude {
		if s != "" {
			skip[s] = struct{}{}
		}
	}

	var winner *models.Offer
	for _, o := range catalog.All() {
		if _, excluded := skip[o.Slug]; excluded {
			continue
		}
		if o.RestrictedIn(geo) {
			continue
		}
		if winner == nil || o.PriorityWeight > winner.PriorityWeight {
			candidate := o
			winner = &candidate
		}
	}
	return winner, winner != nil
}

// ChooseURL picks the destination for an offer under the given priority
// mode. Casino priority, or a missing affiliate deal, selects the fallback.
func ChooseURL(offer *models.Offer, priority models.Priority) string {
	if priority == models.PriorityCasino || !offer.HasAffiliate() {
		return offer.FallbackURL
	}
	return offer.AffiliateURL
}
