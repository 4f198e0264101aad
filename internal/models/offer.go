package models

import "strings"

// GeoGlobal is the sentinel geography meaning "no restriction filtering".
// A visitor whose country cannot be determined resolves as GeoGlobal.
const GeoGlobal = "GLOBAL"

// Priority controls which destination URL wins when an offer carries both an
// affiliate link and a direct casino link.
type Priority string

const (
	// PriorityAffiliate prefers the affiliate link when one exists.
	PriorityAffiliate Priority = "affiliate"
	// PriorityCasino always prefers the casino's direct URL.
	PriorityCasino Priority = "casino"
)

// ParsePriority maps a raw string to a Priority, defaulting to affiliate.
func ParsePriority(s string) Priority {
	if Priority(strings.ToLower(s)) == PriorityCasino {
		return PriorityCasino
	}
	return PriorityAffiliate
}

// Offer is one monetizable destination for a casino: an optional affiliate
// deal plus the casino's direct URL, along with ranking and geo-restriction
// metadata. Offers are immutable once loaded into a catalog snapshot.
type Offer struct {
	Slug  string `json:"slug"`  // stable identifier, unique per casino
	Brand string `json:"brand"` // display name
	// AffiliateURL is present only when an affiliate deal exists. When set it
	// must be an absolute URL.
	AffiliateURL string `json:"affiliate_url,omitempty"`
	// FallbackURL is the casino's direct URL and is always present.
	FallbackURL string `json:"fallback_url"`
	// GeoRestrictions lists region codes where this offer must NOT be shown.
	// Empty means unrestricted.
	GeoRestrictions []string `json:"geo_restrictions,omitempty"`
	// PriorityWeight ranks offers for "top offer" scans; higher wins.
	PriorityWeight float64 `json:"priority_weight"`
	// BonusHeadline is display text and plays no part in resolution.
	BonusHeadline string `json:"bonus_headline,omitempty"`
}

// HasAffiliate reports whether an affiliate deal exists for this offer.
func (o *Offer) HasAffiliate() bool {
	return o.AffiliateURL != ""
}

// RestrictedIn reports whether the offer may not be shown in the given
// geography. The GeoGlobal sentinel and an empty geo never match.
func (o *Offer) RestrictedIn(geo string) bool {
	if geo == "" || geo == GeoGlobal {
		return false
	}
	for _, g := range o.GeoRestrictions {
		if strings.EqualFold(g, geo) {
			return true
		}
	}
	return false
}

// ResolvedOffer is the outcome of a successful resolution: the fully built
// outbound URL plus the winning catalog entry.
type ResolvedOffer struct {
	FinalURL string `json:"final_url"`
	Offer    *Offer `json:"offer,omitempty"`
}
