package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/mizan/crimewatch-api/external/geoinfo"
	"github.com/mizan/crimewatch-api/external/nominatim"
	"github.com/mizan/crimewatch-api/schema"
)

var (
	ErrNoGeoInfoFound = fmt.Errorf("no geo information found")
)

var (
	US = "United States"
)

// LocationResolver - interface for resolving coordinates into an address
type LocationResolver interface {
	ResolveAddress(ctx context.Context, loc schema.Location) (schema.Location, error)
}

type MultipleResolverErrors struct {
	errors []error
}

func (e *MultipleResolverErrors) Error() string {
	errorStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errorStrings[i] = fmt.Sprintf("#%d: %s", i, err.Error())
	}
	return strings.Join(errorStrings, "\n")
}

// Errors returns the error of each attempt in order
func (e *MultipleResolverErrors) Errors() []error {
	return e.errors
}

func NewMultipleResolverErrors(errors []error) *MultipleResolverErrors {
	return &MultipleResolverErrors{
		errors: errors,
	}
}

type GeocodingLocationResolver struct {
	client geoinfo.GeoInfo
}

func NewGeocodingLocationResolver(client geoinfo.GeoInfo) *GeocodingLocationResolver {
	return &GeocodingLocationResolver{
		client: client,
	}
}

func (g *GeocodingLocationResolver) ResolveAddress(ctx context.Context, loc schema.Location) (schema.Location, error) {
	if loc.Address != "" {
		return loc, nil
	}

	geos, err := g.client.Get(ctx, loc)
	if nil != err {
		return loc, err
	}

	if len(geos) == 0 {
		return loc, ErrNoGeoInfoFound
	}

	var level1, level2 string
	for _, a := range geos[0].AddressComponents {
		if len(a.Types) > 0 {
			switch a.Types[0] {
			case "administrative_area_level_1":
				level1 = a.LongName
			case "administrative_area_level_2":
				level2 = a.LongName
			case "country":
				loc.Country = a.LongName
			}
		}
	}

	loc.Address = geos[0].FormattedAddress
	loc.County = level2

	switch loc.Country {
	case US:
		loc.State = level1
	default:
		if loc.County == "" {
			loc.County = level1
		}
	}

	return loc, nil
}

type NominatimLocationResolver struct {
	client nominatim.Nominatim
}

func NewNominatimLocationResolver(client nominatim.Nominatim) *NominatimLocationResolver {
	return &NominatimLocationResolver{
		client: client,
	}
}

func (n *NominatimLocationResolver) ResolveAddress(ctx context.Context, loc schema.Location) (schema.Location, error) {
	if loc.Address != "" {
		return loc, nil
	}

	result, err := n.client.Reverse(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return loc, err
	}

	loc.Address = result.Address
	loc.AddressComponent = result.AddressComponent

	return loc, nil
}

type MultipleLocationResolver struct {
	resolvers []LocationResolver
}

func NewMultipleLocationResolver(resolvers ...LocationResolver) *MultipleLocationResolver {
	return &MultipleLocationResolver{
		resolvers: resolvers,
	}
}

func (r *MultipleLocationResolver) ResolveAddress(ctx context.Context, location schema.Location) (schema.Location, error) {
	var errors []error
	for _, resolver := range r.resolvers {
		result, err := resolver.ResolveAddress(ctx, location)
		if err != nil {
			errors = append(errors, err)
		} else {
			return result, nil
		}
	}

	return schema.Location{}, NewMultipleResolverErrors(errors)
}
