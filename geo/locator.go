package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mizan/crimewatch-api/schema"
)

var (
	ErrInvalidGeoPosition  = fmt.Errorf("invalid geo-position value")
	ErrPositionUnavailable = fmt.Errorf("position unavailable")
)

type Permission int

const (
	PermissionUndetermined Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "undetermined"
	}
}

// Locator - interface of the device geolocation provider
type Locator interface {
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentPosition(ctx context.Context) (schema.Location, error)
}

// HeaderLocator reads the device position the client reported with the
// request, e.g. "Geo-Position: 32.0853;34.7818".
type HeaderLocator struct {
	position   string
	permission string
}

func NewHeaderLocator(position, permission string) *HeaderLocator {
	return &HeaderLocator{
		position:   strings.TrimSpace(position),
		permission: strings.ToLower(strings.TrimSpace(permission)),
	}
}

// RequestPermission is granted when the client sent a position and did not mark the permission as denied
func (h *HeaderLocator) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionUndetermined, err
	}

	if h.permission == PermissionDenied.String() || h.position == "" {
		return PermissionDenied, nil
	}

	return PermissionGranted, nil
}

func (h *HeaderLocator) CurrentPosition(ctx context.Context) (schema.Location, error) {
	if err := ctx.Err(); err != nil {
		return schema.Location{}, err
	}

	if h.position == "" {
		return schema.Location{}, ErrPositionUnavailable
	}

	lat, lng, err := ParseGeoPosition(h.position)
	if err != nil {
		return schema.Location{}, err
	}

	loc := schema.Location{Latitude: lat, Longitude: lng}
	if err := loc.Validate(); err != nil {
		return schema.Location{}, fmt.Errorf("%w: %s", ErrInvalidGeoPosition, err)
	}

	return loc, nil
}

// ParseGeoPosition will parse latitude and longitude from the geo-position string
func ParseGeoPosition(geoPosition string) (float64, float64, error) {
	positions := strings.Split(geoPosition, ";")

	if len(positions) != 2 {
		return 0, 0, ErrInvalidGeoPosition
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(positions[0]), 64)
	if err != nil {
		return 0, 0, err
	}

	long, err := strconv.ParseFloat(strings.TrimSpace(positions[1]), 64)
	if err != nil {
		return 0, 0, err
	}

	return lat, long, nil
}
