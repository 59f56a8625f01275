package handlers

import (
	"net/http"
	"strconv"

	"servana/middleware"
	"servana/models"

	"github.com/gin-gonic/gin"
)

// SearchProvidersHandler runs the filtered provider search. The search
// origin comes from explicit latitude/longitude query params, falling back
// to the geolocation middleware's resolved client position.
func (hb *HandlerBundle) SearchProvidersHandler(c *gin.Context) {
	var filter models.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search parameters", "details": err.Error()})
		return
	}
	filter.Geo = geoFromRequest(c)

	result, err := hb.SearchSvc.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func geoFromRequest(c *gin.Context) *models.GeoFilter {
	latStr, lonStr := c.Query("latitude"), c.Query("longitude")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			geo := &models.GeoFilter{Latitude: lat, Longitude: lon}
			if r, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil && r > 0 {
				geo.Radius = r
			}
			return geo
		}
	}

	if origin, ok := middleware.ClientGeo(c); ok {
		geo := &models.GeoFilter{Latitude: origin.Latitude, Longitude: origin.Longitude}
		if r, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil && r > 0 {
			geo.Radius = r
		}
		return geo
	}
	return nil
}
