package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mizan/crimewatch-api/schema"
)

var (
	ErrDocumentExists = fmt.Errorf("document already exists")
)

// crimeReportDocument is the stored shape. It keeps a GeoJSON copy of the
// coordinates next to the plain fields for the 2dsphere index.
type crimeReportDocument struct {
	ID                  string `bson:"_id"`
	schema.ReportFields `bson:",inline"`
	Location            *schema.GeoJSON `bson:"location"`
	CreatedAt           time.Time       `bson:"created_at"`
}

// CreateDocument inserts a crime report. A documentID of schema.UniqueID lets the store pick the id.
func (m *mongoDB) CreateDocument(ctx context.Context, collection, documentID string, fields schema.ReportFields) (*schema.RawRecord, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	if documentID == "" || documentID == schema.UniqueID {
		documentID = primitive.NewObjectID().Hex()
	}

	doc := crimeReportDocument{
		ID:           documentID,
		ReportFields: fields,
		Location:     schema.NewGeoJSONPoint(fields.Latitude, fields.Longitude),
		// mongo keeps millisecond precision only
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	c := m.client.Database(m.database).Collection(collection)
	if _, err := c.InsertOne(ctx, doc); err != nil {
		if we, ok := err.(mongo.WriteException); ok {
			for _, e := range we.WriteErrors {
				if e.Code == DuplicateKeyCode {
					return nil, ErrDocumentExists
				}
			}
		}
		log.WithFields(log.Fields{
			"prefix":     mongoLogPrefix,
			"collection": collection,
			"error":      err,
		}).Error("insert crime report")
		return nil, err
	}

	latitude, longitude := fields.Latitude, fields.Longitude
	return &schema.RawRecord{
		ID:          documentID,
		Crime:       fields.Crime,
		Description: fields.Description,
		Date:        fields.Date,
		Latitude:    &latitude,
		Longitude:   &longitude,
		VictimID:    fields.VictimID,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// ListDocuments returns every document of the collection in creation order
func (m *mongoDB) ListDocuments(ctx context.Context, collection string) (*schema.DocumentList, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	c := m.client.Database(m.database).Collection(collection)
	cursor, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}

	records := make([]schema.RawRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	log.WithField("prefix", mongoLogPrefix).Debugf("list %s gets %d records", collection, len(records))

	return &schema.DocumentList{
		Total:     len(records),
		Documents: records,
	}, nil
}

// GetDocument finds a crime report by id
func (m *mongoDB) GetDocument(ctx context.Context, collection, documentID string) (*schema.RawRecord, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var record schema.RawRecord
	c := m.client.Database(m.database).Collection(collection)
	if err := c.FindOne(ctx, bson.M{"_id": documentID}).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &record, nil
}

// UpdateDocument sets the patch fields on an existing crime report
func (m *mongoDB) UpdateDocument(ctx context.Context, collection, documentID string, patch schema.RecordPatch) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	c := m.client.Database(m.database).Collection(collection)
	result, err := c.UpdateOne(ctx, bson.M{"_id": documentID}, bson.M{"$set": patch})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":    mongoLogPrefix,
			"report ID": documentID,
			"error":     err,
		}).Error("update crime report")
		return err
	}

	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}

	return nil
}
