// Package tracking builds outbound destination URLs with attribution
// parameters. Construction is deterministic and byte-idempotent: no
// timestamps or nonces, and building an already-built URL changes nothing.
package tracking

import (
	"errors"
	"net/url"
	"strings"

	"github.com/bestcasinoportal/offerserve/internal/models"
)

// ErrInvalidURL is returned when a catalog record holds a URL that does not
// parse as an absolute http(s) URL. This is a data-quality defect; callers
// fall back rather than crash.
var ErrInvalidURL = errors.New("invalid destination url")

const (
	paramSource   = "utm_source"
	paramMedium   = "utm_medium"
	paramCampaign = "utm_campaign"
)

// The two call surfaces historically used different query keys for the same
// conceptual content identifier. Both are kept, standardized behind
// Context.ContentKey.
const (
	// ContentKeyComponent is the key used by render-time component calls.
	ContentKeyComponent = "a"
	// ContentKeyRedirect is the key used by the redirect endpoint.
	ContentKeyRedirect = "utm_content"
)

// Context carries the attribution tags for one build call.
type Context struct {
	Source   string
	Medium   string
	Campaign string
	// ContentID is the per-call identifier, usually the casino slug.
	ContentID string
	// ContentKey selects the query key for ContentID; empty defaults to
	// ContentKeyComponent.
	ContentKey string
}

// Builder constructs outbound URLs. URLs already on the affiliate tracking
// domain are passed through untouched: the network's own tracking is
// authoritative and double-tagging is forbidden.
type Builder struct {
	// TrackingDomain is the affiliate network's redirect host. The domain
	// itself and any subdomain of it match.
	TrackingDomain string
}

// NewBuilder returns a Builder for the given affiliate tracking domain.
func NewBuilder(trackingDomain string) *Builder {
	return &Builder{TrackingDomain: strings.ToLower(trackingDomain)}
}

// OnTrackingDomain reports whether host belongs to the tracking domain.
func (b *Builder) OnTrackingDomain(host string) bool {
	if b.TrackingDomain == "" {
		return false
	}
	host = strings.ToLower(host)
	return host == b.TrackingDomain || strings.HasSuffix(host, "."+b.TrackingDomain)
}

// Build merges the base URL with the attribution parameters from tc.
// Existing query parameters keep their original order; the four attribution
// keys are set (overwriting any prior values) in a fixed literal order at
// the end of the query string. Tracking-domain URLs are returned unmodified,
// byte for byte.
func (b *Builder) Build(baseURL string, tc Context) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}

	if b.OnTrackingDomain(u.Hostname()) {
		return baseURL, nil
	}

	contentKey := tc.ContentKey
	if contentKey == "" {
		contentKey = ContentKeyComponent
	}

	overridden := map[string]struct{}{
		paramSource:   {},
		paramMedium:   {},
		paramCampaign: {},
		contentKey:    {},
	}

	var pairs []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx != -1 {
			key = pair[:idx]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if _, skip := overridden[key]; skip {
			continue
		}
		pairs = append(pairs, pair)
	}

	pairs = append(pairs,
		paramSource+"="+url.QueryEscape(tc.Source),
		paramMedium+"="+url.QueryEscape(tc.Medium),
		paramCampaign+"="+url.QueryEscape(tc.Campaign),
		url.QueryEscape(contentKey)+"="+url.QueryEscape(tc.ContentID),
	)

	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// BuildForOffer builds the outbound URL for an offer's chosen destination,
// failing closed on malformed catalog data: if the chosen URL does not
// parse, the offer's fallback URL is tried before giving up.
func (b *Builder) BuildForOffer(offer *models.Offer, chosenURL string, tc Context) (string, error) {
	final, err := b.Build(chosenURL, tc)
	if err == nil {
		return final, nil
	}
	if chosenURL != offer.FallbackURL {
		return b.Build(offer.FallbackURL, tc)
	}
	return "", err
}
