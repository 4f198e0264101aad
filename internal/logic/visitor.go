package logic

import (
	"net"
	"net/http"
	"strings"

	"github.com/avct/uasurfer"

	"github.com/bestcasinoportal/offerserve/internal/geoip"
	"github.com/bestcasinoportal/offerserve/internal/models"
)

// Visitor carries the per-request context resolution needs: where the
// visitor is, where the request came from, and what kind of client sent it.
type Visitor struct {
	// Geo is an upper-case country code, or models.GeoGlobal when the
	// visitor's geography could not be determined.
	Geo string
	// Origin is the best-effort client network origin for audit records.
	Origin string
	// DeviceType is "desktop", "mobile", "tablet" or "other".
	DeviceType string
	// Bot marks requests from known crawlers; bot redirects are audited but
	// excluded from conversion counters.
	Bot bool
}

// ClientIP extracts the originating client address: the first entry of
// X-Forwarded-For when present, otherwise RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	ipStr := r.Header.Get("X-Forwarded-For")
	if ipStr != "" {
		if idx := strings.Index(ipStr, ","); idx != -1 {
			ipStr = ipStr[:idx]
		}
		return strings.TrimSpace(ipStr)
	}
	ipStr = r.RemoteAddr
	if host, _, err := net.SplitHostPort(ipStr); err == nil {
		return host
	}
	return ipStr
}

// ResolveVisitor builds a Visitor from the request. An explicit geo query
// parameter wins over GeoIP lookup; when neither yields a country the
// visitor resolves as GeoGlobal.
func ResolveVisitor(r *http.Request, g *geoip.GeoIP) Visitor {
	v := Visitor{Geo: models.GeoGlobal, Origin: "unknown"}

	if ip := ClientIP(r); ip != "" {
		v.Origin = ip
	}

	if geo := r.URL.Query().Get("geo"); geo != "" {
		v.Geo = strings.ToUpper(geo)
	} else if g != nil {
		if ip := net.ParseIP(v.Origin); ip != nil {
			if country := g.Country(ip); country != "" {
				v.Geo = country
			}
		}
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		parsed := uasurfer.Parse(ua)
		switch parsed.DeviceType {
		case uasurfer.DeviceComputer:
			v.DeviceType = "desktop"
		case uasurfer.DevicePhone:
			v.DeviceType = "mobile"
		case uasurfer.DeviceTablet:
			v.DeviceType = "tablet"
		default:
			v.DeviceType = "other"
		}
		v.Bot = parsed.IsBot()
	}

	return v
}
