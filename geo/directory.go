package geo

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/schema"
)

var ErrNoDirectory = fmt.Errorf("no directory configured")

// Directory - interface of a remote place directory
type Directory interface {
	Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error)
}

// MultipleDirectory asks each directory in turn and returns the first successful answer
type MultipleDirectory struct {
	directories []Directory
}

func NewMultipleDirectory(directories ...Directory) *MultipleDirectory {
	return &MultipleDirectory{
		directories: directories,
	}
}

func (m *MultipleDirectory) Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error) {
	if len(m.directories) == 0 {
		return nil, ErrNoDirectory
	}

	var errors []error
	for i, d := range m.directories {
		places, err := d.Search(ctx, q)
		if err == nil {
			return places, nil
		}

		log.WithFields(log.Fields{
			"prefix":    "geo",
			"directory": i,
			"query":     q.Query,
			"error":     err,
		}).Warn("directory search failed")
		errors = append(errors, err)

		// a cancelled request will not succeed on the next directory either
		if ctx.Err() != nil {
			break
		}
	}

	return nil, NewMultipleResolverErrors(errors)
}
