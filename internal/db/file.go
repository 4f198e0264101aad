package db

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bestcasinoportal/offerserve/internal/models"
)

// casinoRecord mirrors one entry of the portal's casinos.json data file.
type casinoRecord struct {
	Slug      string `json:"slug"`
	Brand     string `json:"brand"`
	URL       string `json:"url"`
	Affiliate *struct {
		Link         string `json:"link"`
		CampaignID   string `json:"campaignId"`
		CampaignName string `json:"campaignName"`
	} `json:"affiliate"`
	GeoRestrictions []string `json:"geoRestrictions"`
	PriorityWeight  float64  `json:"priorityWeight"`
	Bonuses         struct {
		Welcome struct {
			Headline string `json:"headline"`
		} `json:"welcome"`
	} `json:"bonuses"`
}

// LoadOffersFile reads the offer catalog from a casinos.json data file.
// File order is preserved as catalog iteration order.
func LoadOffersFile(path string) ([]models.Offer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var records []casinoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	offers := make([]models.Offer, 0, len(records))
	for i, rec := range records {
		if rec.Slug == "" {
			return nil, fmt.Errorf("catalog record %d: missing slug", i)
		}
		if rec.URL == "" {
			return nil, fmt.Errorf("catalog record %q: missing url", rec.Slug)
		}
		o := models.Offer{
			Slug:            rec.Slug,
			Brand:           rec.Brand,
			FallbackURL:     rec.URL,
			GeoRestrictions: rec.GeoRestrictions,
			PriorityWeight:  rec.PriorityWeight,
			BonusHeadline:   rec.Bonuses.Welcome.Headline,
		}
		if rec.Affiliate != nil {
			o.AffiliateURL = rec.Affiliate.Link
		}
		offers = append(offers, o)
	}
	return offers, nil
}
