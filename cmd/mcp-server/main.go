// MCP server exposing the offer catalog and resolution logic as tools, so
// content agents can query live affiliate data over stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/config"
	"github.com/bestcasinoportal/offerserve/internal/db"
	"github.com/bestcasinoportal/offerserve/internal/logic"
	"github.com/bestcasinoportal/offerserve/internal/models"
	"github.com/bestcasinoportal/offerserve/internal/observability"
	"github.com/bestcasinoportal/offerserve/internal/tracking"
)

type ResolveOfferInput struct {
	Slug     string `json:"slug"`
	Geo      string `json:"geo,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type ResolveOfferOutput struct {
	Slug     string `json:"slug"`
	Brand    string `json:"brand"`
	FinalURL string `json:"final_url"`
}

type TopOfferInput struct {
	Geo     string   `json:"geo,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

type TopOfferOutput struct {
	Found    bool   `json:"found"`
	Slug     string `json:"slug,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Bonus    string `json:"bonus,omitempty"`
	FinalURL string `json:"final_url,omitempty"`
}

type ListOffersInput struct{}

type ListOffersOutput struct {
	Offers []models.Offer `json:"offers"`
}

type offerTools struct {
	catalog models.OfferCatalog
	builder *tracking.Builder
	logger  *zap.Logger
}

func (t *offerTools) componentContext(slug string) tracking.Context {
	return tracking.Context{
		Source:     "bcp",
		Medium:     "rankings",
		Campaign:   "sitewide",
		ContentID:  slug,
		ContentKey: tracking.ContentKeyComponent,
	}
}

// ResolveOffer resolves a single casino's destination URL.
func (t *offerTools) ResolveOffer(ctx context.Context, req *mcp.CallToolRequest, input ResolveOfferInput) (*mcp.CallToolResult, ResolveOfferOutput, error) {
	geo := input.Geo
	if geo == "" {
		geo = models.GeoGlobal
	}
	offer, err := logic.ResolveForCasino(t.catalog, input.Slug, geo)
	if err != nil {
		return nil, ResolveOfferOutput{}, err
	}
	chosen := logic.ChooseURL(offer, models.ParsePriority(input.Priority))
	finalURL, err := t.builder.BuildForOffer(offer, chosen, t.componentContext(offer.Slug))
	if err != nil {
		return nil, ResolveOfferOutput{}, err
	}
	return nil, ResolveOfferOutput{Slug: offer.Slug, Brand: offer.Brand, FinalURL: finalURL}, nil
}

// TopOffer returns the best offer available to a visitor geography.
func (t *offerTools) TopOffer(ctx context.Context, req *mcp.CallToolRequest, input TopOfferInput) (*mcp.CallToolResult, TopOfferOutput, error) {
	geo := input.Geo
	if geo == "" {
		geo = models.GeoGlobal
	}
	offer, ok := logic.ResolveTopOffer(t.catalog, geo, input.Exclude)
	if !ok {
		return nil, TopOfferOutput{Found: false}, nil
	}
	chosen := logic.ChooseURL(offer, models.PriorityAffiliate)
	finalURL, err := t.builder.BuildForOffer(offer, chosen, t.componentContext(offer.Slug))
	if err != nil {
		return nil, TopOfferOutput{}, err
	}
	return nil, TopOfferOutput{
		Found:    true,
		Slug:     offer.Slug,
		Brand:    offer.Brand,
		Bonus:    offer.BonusHeadline,
		FinalURL: finalURL,
	}, nil
}

// ListOffers returns the full catalog snapshot.
func (t *offerTools) ListOffers(ctx context.Context, req *mcp.CallToolRequest, input ListOffersInput) (*mcp.CallToolResult, ListOffersOutput, error) {
	return nil, ListOffersOutput{Offers: t.catalog.All()}, nil
}

func main() {
	cfg := config.Load()

	logger, err := observability.InitLogger(cfg.ServiceName + "-mcp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	catalog := models.NewInMemoryCatalog()
	offers, err := loadOffers(cfg)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}
	if err := catalog.Reload(offers); err != nil {
		logger.Fatal("populate catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("offers", len(offers)))

	tools := &offerTools{
		catalog: catalog,
		builder: tracking.NewBuilder(cfg.TrackingDomain),
		logger:  logger,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "offerserve",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_offer",
		Description: "Resolve the monetizable destination URL for one casino slug",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"slug": map[string]interface{}{
					"type":        "string",
					"description": "Casino slug to resolve",
				},
				"geo": map[string]interface{}{
					"type":        "string",
					"description": "Visitor country code (optional, defaults to GLOBAL)",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"affiliate", "casino"},
					"description": "URL preference (optional, defaults to affiliate)",
				},
			},
			"required": []string{"slug"},
		},
	}, tools.ResolveOffer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "top_offer",
		Description: "Pick the best offer across the catalog for a visitor geography",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"geo": map[string]interface{}{
					"type":        "string",
					"description": "Visitor country code (optional, defaults to GLOBAL)",
				},
				"exclude": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Slugs to skip (optional)",
				},
			},
		},
	}, tools.TopOffer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_offers",
		Description: "List every offer in the current catalog snapshot",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}, tools.ListOffers)

	logger.Info("MCP Server running via stdio")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func loadOffers(cfg config.Config) ([]models.Offer, error) {
	if cfg.CatalogSource == config.CatalogSourcePostgres {
		pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		return pg.LoadOffers()
	}
	return db.LoadOffersFile(cfg.CatalogFile)
}
