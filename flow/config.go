package flow

import (
	"context"
	"time"

	"github.com/mizan/crimewatch-api/schema"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultCountry     = "IL"
	DefaultSearchLimit = 50

	DefaultMaxCategories = 10
)

// Config is shared by every flow. It is built once by main and passed into constructors.
type Config struct {
	// Collection is the record store collection holding crime reports
	Collection string
	// Timeout bounds each call to an external collaborator
	Timeout time.Duration
	// Country is used by place lookups that do not name one
	Country string
	// SearchLimit caps the results of one directory query
	SearchLimit int
	// MaxCategories caps the categories of one place lookup
	MaxCategories int
}

func (c Config) withDefaults() Config {
	if c.Collection == "" {
		c.Collection = schema.CrimeReportCollection
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Country == "" {
		c.Country = DefaultCountry
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	if c.MaxCategories <= 0 {
		c.MaxCategories = DefaultMaxCategories
	}
	return c
}

func (c Config) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.Timeout)
}
