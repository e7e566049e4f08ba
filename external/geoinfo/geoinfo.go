package geoinfo

import (
	"context"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"github.com/mizan/crimewatch-api/schema"
)

const (
	logPrefix      = "geoinfo"
	defaultTimeout = 5 * time.Second
)

// GeoInfo - interface to operate google maps
type GeoInfo interface {
	Get(ctx context.Context, loc schema.Location) ([]maps.GeocodingResult, error)
	Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error)
}

type geoInfo struct {
	client *maps.Client
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

// Get reverse geocodes a location
func (g geoInfo) Get(ctx context.Context, loc schema.Location) ([]maps.GeocodingResult, error) {
	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"lat":    loc.Latitude,
		"lng":    loc.Longitude,
	}).Info("query geo info")

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	return g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: loc.Latitude,
			Lng: loc.Longitude,
		},
		Language: "en",
	})
}

// Search runs a places text search and returns the results in the
// same raw shape Nominatim uses, so both providers parse the same way.
func (g geoInfo) Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	resp, err := g.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:  q.Query,
		Region: strings.ToLower(q.CountryCodes),
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"query":  q.Query,
			"error":  err,
		}).Error("text search")
		return nil, err
	}

	results := resp.Results
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}

	places := make([]schema.RawPlace, 0, len(results))
	for _, r := range results {
		displayName := r.Name
		if r.FormattedAddress != "" {
			displayName = r.Name + ", " + r.FormattedAddress
		}

		var kind string
		if len(r.Types) > 0 {
			kind = r.Types[0]
		}

		places = append(places, schema.RawPlace{
			Lat:         strconv.FormatFloat(r.Geometry.Location.Lat, 'f', -1, 64),
			Lon:         strconv.FormatFloat(r.Geometry.Location.Lng, 'f', -1, 64),
			DisplayName: displayName,
			Class:       "google",
			Type:        kind,
		})
	}

	return places, nil
}

// New - new GeoInfo interface
func New(apiKey string, opts ...maps.ClientOption) (GeoInfo, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("new map client")

		return nil, err
	}

	return &geoInfo{
		client: client,
	}, nil
}
