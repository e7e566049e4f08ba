package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/utils"
)

const (
	opLookup       = "lookup places"
	opLookupNearby = "lookup nearby places"
)

type PlaceFinder struct {
	directory geo.Directory
	config    Config
}

func NewPlaceFinder(directory geo.Directory, config Config) *PlaceFinder {
	return &PlaceFinder{
		directory: directory,
		config:    config.withDefaults(),
	}
}

// Lookup queries the directory once per category and merges the results in
// category order, then provider order. Queries run concurrently; the first
// failure cancels the others and fails the whole lookup. Directory clients
// bound each request themselves, after any rate limiting they apply.
func (p *PlaceFinder) Lookup(ctx context.Context, categories []string, country string) ([]schema.Place, error) {
	return p.lookup(ctx, opLookup, categories, country)
}

// LookupNearby asks for the device location first. Without permission no
// directory query is made. Places carry their distance from the device.
func (p *PlaceFinder) LookupNearby(ctx context.Context, locator geo.Locator, categories []string, country string) ([]schema.Place, error) {
	position, err := devicePosition(ctx, locator, p.config, opLookupNearby)
	if err != nil {
		return nil, err
	}

	places, err := p.lookup(ctx, opLookupNearby, categories, country)
	if err != nil {
		return nil, err
	}

	for i := range places {
		d := geo.Distance(position, schema.Location{
			Latitude:  places[i].Latitude,
			Longitude: places[i].Longitude,
		})
		places[i].Distance = &d
	}

	return places, nil
}

func (p *PlaceFinder) lookup(ctx context.Context, op string, categories []string, country string) ([]schema.Place, error) {
	if len(categories) == 0 {
		return nil, newError(ErrValidation, op, ErrNoCategory)
	}
	if len(categories) > p.config.MaxCategories {
		return nil, newError(ErrValidation, op, fmt.Errorf("%w: %d, at most %d", ErrTooManyCategories, len(categories), p.config.MaxCategories))
	}
	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			return nil, newError(ErrValidation, op, fmt.Errorf("%w: empty category", ErrMissingField))
		}
	}

	if country == "" {
		country = p.config.Country
	}

	results := make([][]schema.Place, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, strings.TrimSpace(category)
		g.Go(func() error {
			raws, err := p.directory.Search(gctx, schema.PlaceQuery{
				Query:        category,
				CountryCodes: country,
				Limit:        p.config.SearchLimit,
			})
			if err != nil {
				return newError(ErrLookup, op, fmt.Errorf("category %q: %w", category, err))
			}

			places := make([]schema.Place, 0, len(raws))
			for _, raw := range raws {
				place, err := ParsePlace(raw, category)
				if err != nil {
					return newError(ErrLookup, op, fmt.Errorf("category %q: %w", category, err))
				}
				places = append(places, place)
			}
			results[i] = places

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]schema.Place, 0)
	for _, places := range results {
		merged = append(merged, places...)
	}

	return merged, nil
}

// ParsePlace maps a raw directory result into a marker. The name is the
// first comma separated segment of the display name.
func ParsePlace(raw schema.RawPlace, category string) (schema.Place, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(raw.Lat), 64)
	if err != nil {
		return schema.Place{}, fmt.Errorf("%w: latitude %q", ErrInvalidPlace, raw.Lat)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(raw.Lon), 64)
	if err != nil {
		return schema.Place{}, fmt.Errorf("%w: longitude %q", ErrInvalidPlace, raw.Lon)
	}

	if err := (schema.Location{Latitude: lat, Longitude: lng}).Validate(); err != nil {
		return schema.Place{}, fmt.Errorf("%w: %s", ErrInvalidPlace, err)
	}

	name := strings.TrimSpace(strings.SplitN(raw.DisplayName, ",", 2)[0])

	return schema.Place{
		Latitude:  lat,
		Longitude: lng,
		Name:      name,
		Address:   raw.DisplayName,
		Category:  category,
		Kind:      utils.ReadPlaceKind([]string{raw.Type, raw.Class, category}),
	}, nil
}
