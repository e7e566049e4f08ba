package background

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

const (
	EnrichReportTask = "enrich_report"

	enrichLogPrefix = "enrich"
	enrichTimeout   = 30 * time.Second
)

var ErrReportWithoutLocation = fmt.Errorf("report has no coordinates")

// ReportEnricher fills in the address of a submitted report
type ReportEnricher struct {
	records    store.RecordStore
	resolver   geo.LocationResolver
	collection string
}

func NewReportEnricher(records store.RecordStore, resolver geo.LocationResolver, collection string) *ReportEnricher {
	if collection == "" {
		collection = schema.CrimeReportCollection
	}

	return &ReportEnricher{
		records:    records,
		resolver:   resolver,
		collection: collection,
	}
}

// Enrich reverse geocodes the report location and stores the address.
// Reports that already have an address are left untouched.
func (e *ReportEnricher) Enrich(ctx context.Context, reportID string) error {
	record, err := e.records.GetDocument(ctx, e.collection, reportID)
	if err != nil {
		return err
	}

	if record.Address != "" {
		return nil
	}

	if record.Latitude == nil || record.Longitude == nil {
		return ErrReportWithoutLocation
	}

	loc, err := e.resolver.ResolveAddress(ctx, schema.Location{
		Latitude:  *record.Latitude,
		Longitude: *record.Longitude,
	})
	if err != nil {
		return err
	}

	if loc.Address == "" {
		log.WithFields(log.Fields{
			"prefix":    enrichLogPrefix,
			"report ID": reportID,
		}).Warn("no address resolved")
		return nil
	}

	if err := e.records.UpdateDocument(ctx, e.collection, reportID, schema.RecordPatch{Address: loc.Address}); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix":    enrichLogPrefix,
		"report ID": reportID,
	}).Info("report address updated")

	return nil
}

// EnrichReport is the machinery task of EnrichReportTask
func (m *BackgroundManager) EnrichReport(reportID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()

	if err := m.enricher.Enrich(ctx, reportID); err != nil {
		log.WithFields(log.Fields{
			"prefix":    enrichLogPrefix,
			"report ID": reportID,
			"error":     err,
		}).Error("enrich report")
		return err
	}

	return nil
}
