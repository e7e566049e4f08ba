package flow

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/schema"
)

const opFetchLocation = "fetch location"

// LocationFetcher is the explicit step that yields the coordinates a report is filed with
type LocationFetcher struct {
	resolver geo.LocationResolver
	config   Config
}

// NewLocationFetcher returns a fetcher. resolver may be nil, then no address is resolved.
func NewLocationFetcher(resolver geo.LocationResolver, config Config) *LocationFetcher {
	return &LocationFetcher{
		resolver: resolver,
		config:   config.withDefaults(),
	}
}

func (f *LocationFetcher) Fetch(ctx context.Context, locator geo.Locator) (schema.Location, error) {
	loc, err := devicePosition(ctx, locator, f.config, opFetchLocation)
	if err != nil {
		return schema.Location{}, err
	}

	if f.resolver == nil {
		return loc, nil
	}

	cctx, cancel := f.config.callContext(ctx)
	defer cancel()

	resolved, err := f.resolver.ResolveAddress(cctx, loc)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": "flow",
			"lat":    loc.Latitude,
			"lng":    loc.Longitude,
			"error":  err,
		}).Warn("resolve address")
		return loc, nil
	}

	return resolved, nil
}

// devicePosition asks for permission and then reads the position
func devicePosition(ctx context.Context, locator geo.Locator, config Config, op string) (schema.Location, error) {
	if locator == nil {
		return schema.Location{}, newError(ErrPermission, op, ErrPermissionDenied)
	}

	cctx, cancel := config.callContext(ctx)
	defer cancel()

	permission, err := locator.RequestPermission(cctx)
	if err != nil {
		return schema.Location{}, newError(ErrPermission, op, err)
	}
	if permission != geo.PermissionGranted {
		return schema.Location{}, newError(ErrPermission, op, ErrPermissionDenied)
	}

	loc, err := locator.CurrentPosition(cctx)
	if err != nil {
		return schema.Location{}, newError(ErrLocation, op, err)
	}

	return loc, nil
}
