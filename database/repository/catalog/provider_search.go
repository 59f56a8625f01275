package catalogRepo

import (
	"context"
	"fmt"
	"math"
	"time"

	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// earthRadiusKm must match the constant used by the application-side
// Haversine so query-side sorting and result annotation agree.
const earthRadiusKm = 6371.0

// haversineExpr builds the aggregation expression computing the great-circle
// distance in km between the search origin and the provider's stored
// coordinates. Evaluating it in the pipeline keeps the radius filter, the
// distance sort and the count all consistent before pagination.
func haversineExpr(lat, lon float64) bson.M {
	latRad := bson.M{"$degreesToRadians": "$location.latitude"}
	lonRad := bson.M{"$degreesToRadians": "$location.longitude"}
	originLatRad := lat * math.Pi / 180
	originLonRad := lon * math.Pi / 180

	sinHalfDLat := bson.M{"$sin": bson.M{"$divide": bson.A{
		bson.M{"$subtract": bson.A{latRad, originLatRad}}, 2,
	}}}
	sinHalfDLon := bson.M{"$sin": bson.M{"$divide": bson.A{
		bson.M{"$subtract": bson.A{lonRad, originLonRad}}, 2,
	}}}

	a := bson.M{"$add": bson.A{
		bson.M{"$multiply": bson.A{sinHalfDLat, sinHalfDLat}},
		bson.M{"$multiply": bson.A{
			math.Cos(originLatRad),
			bson.M{"$cos": latRad},
			sinHalfDLon, sinHalfDLon,
		}},
	}}

	c := bson.M{"$multiply": bson.A{2, bson.M{"$atan2": bson.A{
		bson.M{"$sqrt": a},
		bson.M{"$sqrt": bson.M{"$subtract": bson.A{1, a}}},
	}}}}

	return bson.M{"$multiply": bson.A{earthRadiusKm, c}}
}

// Search executes the filtered, sorted provider query. The total count is
// taken over the full filtered set before $skip/$limit is applied.
func (r *MongoProviderRepo) Search(ctx context.Context, filter models.SearchFilter) ([]models.ProviderSearchHit, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := buildSearchPipeline(filter)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("provider search aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var facets []struct {
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
		Results []models.ProviderSearchHit `bson:"results"`
	}
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search results: %w", err)
	}
	if len(facets) == 0 {
		return []models.ProviderSearchHit{}, 0, nil
	}

	var total int64
	if len(facets[0].Total) > 0 {
		total = facets[0].Total[0].Count
	}
	return facets[0].Results, total, nil
}

func buildSearchPipeline(filter models.SearchFilter) mongo.Pipeline {
	var pipeline mongo.Pipeline

	// Base match: active providers joined to at least one active service
	// satisfying every service-level filter.
	serviceMatch := bson.M{"active": true}
	if filter.CategoryID != "" {
		serviceMatch["category_id"] = filter.CategoryID
	}
	if filter.MinPriceCents != nil || filter.MaxPriceCents != nil {
		price := bson.M{}
		if filter.MinPriceCents != nil {
			price["$gte"] = *filter.MinPriceCents
		}
		if filter.MaxPriceCents != nil {
			price["$lte"] = *filter.MaxPriceCents
		}
		serviceMatch["price_cents"] = price
	}
	if filter.IsHomeService != nil {
		serviceMatch["is_home_service"] = *filter.IsHomeService
	}
	if len(filter.ServiceIDs) > 0 {
		serviceMatch["id"] = bson.M{"$in": filter.ServiceIDs}
	}

	match := bson.M{
		"active":   true,
		"services": bson.M{"$elemMatch": serviceMatch},
	}
	if filter.VerifiedOnly {
		match["verified"] = true
	}
	if filter.MinRating != nil {
		match["rating"] = bson.M{"$gte": *filter.MinRating}
	}
	if filter.Query != "" {
		regex := bson.M{"$regex": filter.Query, "$options": "i"}
		match["$or"] = bson.A{
			bson.M{"business_name": regex},
			bson.M{"business_description": regex},
			bson.M{"services.name": regex},
		}
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})

	// Computed fields: min catalogue price for price sorting, and the
	// Haversine distance when a search origin is present.
	addFields := bson.M{
		"min_price_cents": bson.M{"$min": "$services.price_cents"},
	}
	if filter.Geo != nil {
		addFields["distance_km"] = haversineExpr(filter.Geo.Latitude, filter.Geo.Longitude)
	}
	pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: addFields}})

	if filter.Geo != nil && filter.Geo.Radius > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"distance_km": bson.M{"$lte": filter.Geo.Radius},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortSpec(filter)}})

	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"total": bson.A{bson.M{"$count": "count"}},
		"results": bson.A{
			bson.M{"$skip": filter.Offset},
			bson.M{"$limit": filter.Limit},
		},
	}}})

	return pipeline
}

// sortSpec maps the filter's sortBy/sortOrder onto pipeline sort keys.
// Unless the primary key is already rating, rating descending is added as
// a tiebreak.
func sortSpec(filter models.SearchFilter) bson.D {
	order := 1
	if filter.SortOrder == "desc" {
		order = -1
	}

	var primary string
	switch filter.SortBy {
	case "rating":
		primary = "rating"
	case "reviews":
		primary = "review_count"
	case "price":
		primary = "min_price_cents"
	case "newest":
		primary = "created_at"
	case "distance":
		primary = "distance_km"
	default:
		if filter.Geo != nil {
			primary = "distance_km"
		} else {
			primary = "rating"
		}
	}

	spec := bson.D{{Key: primary, Value: order}}
	if primary != "rating" {
		spec = append(spec, bson.E{Key: "rating", Value: -1})
	}
	return spec
}
