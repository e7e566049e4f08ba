package schema

import (
	"context"
	"fmt"
)

type AddressComponent struct {
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	County  string `json:"county,omitempty" bson:"county,omitempty"`
}

// Location is a coordinate pair in decimal degrees, optionally resolved into an address
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	AddressComponent
}

// Validate checks that the coordinates are within the WGS84 range
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", l.Longitude)
	}
	return nil
}

// GeoJSON - mongo location format
type GeoJSON struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoJSONPoint returns a GeoJSON point. GeoJSON orders coordinates as [lng, lat].
func NewGeoJSONPoint(latitude, longitude float64) *GeoJSON {
	return &GeoJSON{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

type sessionIDKey struct{}

// WithSessionID attaches the caller's session id to the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the session id attached by WithSessionID
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
