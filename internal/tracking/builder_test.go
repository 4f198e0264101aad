package tracking

import (
	"errors"
	"testing"

	"github.com/bestcasinoportal/offerserve/internal/models"
)

func testContext() Context {
	return Context{
		Source:     "bcp",
		Medium:     "rankings",
		Campaign:   "sitewide",
		ContentID:  "abc",
		ContentKey: ContentKeyComponent,
	}
}

func TestBuild_InjectsTagsInStableOrder(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	got, err := b.Build("https://example-casino.com/play", testContext())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "https://example-casino.com/play?utm_source=bcp&utm_medium=rankings&utm_campaign=sitewide&a=abc"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestBuild_RedirectContentKey(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	tc := Context{Source: "bestcasinoportal", Medium: "affiliate", Campaign: "casino-redirect", ContentID: "aerobet", ContentKey: ContentKeyRedirect}
	got, err := b.Build("https://aerobet.com", tc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "https://aerobet.com?utm_source=bestcasinoportal&utm_medium=affiliate&utm_campaign=casino-redirect&utm_content=aerobet"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	once, err := b.Build("https://example-casino.com/play?ref=summer", testContext())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	twice, err := b.Build(once, testContext())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if once != twice {
		t.Fatalf("not idempotent:\nonce  %s\ntwice %s", once, twice)
	}
}

func TestBuild_OverwritesExistingTags(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	got, err := b.Build("https://example-casino.com/play?utm_source=old&ref=x", testContext())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "https://example-casino.com/play?ref=x&utm_source=bcp&utm_medium=rankings&utm_campaign=sitewide&a=abc"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestBuild_TrackingDomainUntouched(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	cases := []string{
		"https://trk.bestcasinoportal.com/x",
		"https://trk.bestcasinoportal.com/x?cid=77",
		"https://a.trk.bestcasinoportal.com/y",
	}
	for _, in := range cases {
		got, err := b.Build(in, testContext())
		if err != nil {
			t.Fatalf("build %s: %v", in, err)
		}
		if got != in {
			t.Fatalf("tracking URL modified: %s -> %s", in, got)
		}
	}
}

func TestBuild_InvalidURL(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	for _, in := range []string{"", "not a url", "ftp://example.com/x", "/relative/path", "javascript:alert(1)"} {
		if _, err := b.Build(in, testContext()); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("%q: expected ErrInvalidURL, got %v", in, err)
		}
	}
}

func TestBuild_DefaultContentKey(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	tc := testContext()
	tc.ContentKey = ""
	got, err := b.Build("https://example-casino.com/play", tc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "https://example-casino.com/play?utm_source=bcp&utm_medium=rankings&utm_campaign=sitewide&a=abc"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestBuildForOffer_FallsBackOnBadChosenURL(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	offer := &models.Offer{
		Slug:         "aerobet",
		AffiliateURL: "::not-a-url::",
		FallbackURL:  "https://aerobet.com",
	}

	got, err := b.BuildForOffer(offer, offer.AffiliateURL, testContext())
	if err != nil {
		t.Fatalf("expected fallback build to succeed, got %v", err)
	}
	want := "https://aerobet.com?utm_source=bcp&utm_medium=rankings&utm_campaign=sitewide&a=abc"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestBuildForOffer_BothURLsBad(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	offer := &models.Offer{Slug: "broken", FallbackURL: "not a url"}
	if _, err := b.BuildForOffer(offer, offer.FallbackURL, testContext()); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestOnTrackingDomain(t *testing.T) {
	b := NewBuilder("trk.bestcasinoportal.com")

	if !b.OnTrackingDomain("trk.bestcasinoportal.com") {
		t.Fatal("exact host should match")
	}
	if !b.OnTrackingDomain("TRK.BestCasinoPortal.com") {
		t.Fatal("host match should be case insensitive")
	}
	if b.OnTrackingDomain("bestcasinoportal.com") {
		t.Fatal("parent domain must not match")
	}
	if b.OnTrackingDomain("eviltrk.bestcasinoportal.com.attacker.io") {
		t.Fatal("lookalike host must not match")
	}
}
