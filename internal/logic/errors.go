package logic

import "errors"

// Resolution failures are business conditions, not server errors. The HTTP
// boundary maps all of them to the generic error redirect and callers must
// not be able to tell a geo block from a missing offer.
var (
	// ErrOfferNotFound is returned when the requested slug is absent from
	// the catalog.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrGeoBlocked is returned when the offer exists but is restricted in
	// the requesting geography.
	ErrGeoBlocked = errors.New("offer geo restricted")

	// ErrCatalogUnavailable is returned when no catalog has been supplied.
	ErrCatalogUnavailable = errors.New("offer catalog unavailable")
)
