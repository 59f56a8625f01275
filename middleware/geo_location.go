package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"servana/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const clientGeoKey = "clientGeo"

// geoCacheEntry caches one IP's resolved position so repeat requests skip
// the lookup service.
type geoCacheEntry struct {
	location  models.GeoLocation
	ok        bool
	expiresAt time.Time
}

var (
	geoCache   = make(map[string]geoCacheEntry)
	geoCacheMu sync.Mutex
	geoClient  = &http.Client{Timeout: 2 * time.Second}
)

const geoCacheTTL = 6 * time.Hour

// GeolocationMiddleware resolves the client's position and stores it in the
// request context for search to use as a default origin. Explicit
// coordinate headers win; otherwise the client IP is geolocated
// best-effort. Requests proceed either way.
func GeolocationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if loc, ok := coordsFromHeaders(c); ok {
			c.Set(clientGeoKey, loc)
			c.Next()
			return
		}

		ip := getClientIP(c)
		if loc, ok := lookupIP(ip); ok {
			c.Set(clientGeoKey, loc)
		}
		c.Next()
	}
}

// ClientGeo returns the position resolved by GeolocationMiddleware, if any.
func ClientGeo(c *gin.Context) (models.GeoLocation, bool) {
	v, exists := c.Get(clientGeoKey)
	if !exists {
		return models.GeoLocation{}, false
	}
	loc, ok := v.(models.GeoLocation)
	return loc, ok
}

func coordsFromHeaders(c *gin.Context) (models.GeoLocation, bool) {
	latStr := c.GetHeader("X-User-Latitude")
	lonStr := c.GetHeader("X-User-Longitude")
	if latStr == "" || lonStr == "" {
		return models.GeoLocation{}, false
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return models.GeoLocation{}, false
	}
	return models.GeoLocation{Latitude: lat, Longitude: lon}, true
}

func lookupIP(ip string) (models.GeoLocation, bool) {
	if ip == "" || isPrivateIP(ip) {
		return models.GeoLocation{}, false
	}

	geoCacheMu.Lock()
	if entry, found := geoCache[ip]; found && time.Now().Before(entry.expiresAt) {
		geoCacheMu.Unlock()
		return entry.location, entry.ok
	}
	geoCacheMu.Unlock()

	loc, ok := fetchIPLocation(ip)
	geoCacheMu.Lock()
	geoCache[ip] = geoCacheEntry{location: loc, ok: ok, expiresAt: time.Now().Add(geoCacheTTL)}
	geoCacheMu.Unlock()
	return loc, ok
}

func fetchIPLocation(ip string) (models.GeoLocation, bool) {
	resp, err := geoClient.Get(fmt.Sprintf("https://ipapi.co/%s/json/", ip))
	if err != nil {
		zap.L().Debug("ip geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		return models.GeoLocation{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.GeoLocation{}, false
	}

	var body struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Error     bool    `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error {
		return models.GeoLocation{}, false
	}
	if body.Latitude == 0 && body.Longitude == 0 {
		return models.GeoLocation{}, false
	}
	return models.GeoLocation{Latitude: body.Latitude, Longitude: body.Longitude}, true
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast()
}
