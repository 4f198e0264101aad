package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/models"
)

// Postgres wraps a postgres DB connection holding the offer catalog.
type Postgres struct {
	DB *sql.DB
}

// schemaSQL sets up the offers table if it doesn't exist.
const schemaSQL = `CREATE TABLE IF NOT EXISTS offers (
    slug TEXT PRIMARY KEY,
    brand TEXT NOT NULL,
    affiliate_url TEXT,
    fallback_url TEXT NOT NULL,
    geo_restrictions TEXT[] NOT NULL DEFAULT '{}',
    priority_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
    bonus_headline TEXT
);`

// InitPostgres connects to Postgres with connection pooling configuration.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (*Postgres, error) {
	// Register the otelsql wrapper for postgres
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	zap.L().Info("Connected to Postgres",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns))
	return p, nil
}

// Close terminates the Postgres connection.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}

// ensureSchema creates the required tables if they do not exist.
func (p *Postgres) ensureSchema() error {
	if _, err := p.DB.ExecContext(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadOffers reads the full offer catalog. Rows come back ordered by slug so
// catalog iteration order, and with it top-offer tie-breaking, is stable
// across reloads.
func (p *Postgres) LoadOffers() ([]models.Offer, error) {
	rows, err := p.DB.QueryContext(context.Background(),
		`SELECT slug, brand, affiliate_url, fallback_url, geo_restrictions, priority_weight, bonus_headline
         FROM offers ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var (
			o         models.Offer
			affiliate sql.NullString
			bonus     sql.NullString
			geos      pq.StringArray
		)
		if err := rows.Scan(&o.Slug, &o.Brand, &affiliate, &o.FallbackURL, &geos, &o.PriorityWeight, &bonus); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		o.AffiliateURL = affiliate.String
		o.BonusHeadline = bonus.String
		o.GeoRestrictions = []string(geos)
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}
