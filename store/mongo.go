package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mizan/crimewatch-api/schema"
)

const (
	mongoLogPrefix   = "mongo"
	defaultTimeout   = 5 * time.Second
	DuplicateKeyCode = 11000
)

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)

// RecordStore - interface for the document collection holding crime reports
type RecordStore interface {
	CreateDocument(ctx context.Context, collection, documentID string, fields schema.ReportFields) (*schema.RawRecord, error)
	ListDocuments(ctx context.Context, collection string) (*schema.DocumentList, error)
	GetDocument(ctx context.Context, collection, documentID string) (*schema.RawRecord, error)
	UpdateDocument(ctx context.Context, collection, documentID string, patch schema.RecordPatch) error
	Pinger
}

// MongoStore - record store backed by mongodb
type MongoStore interface {
	RecordStore
	Closer
}

// Closer - close db connection
type Closer interface {
	Close()
}

// Pinger - ping database
type Pinger interface {
	Ping() error
}

type mongoDB struct {
	client   *mongo.Client
	database string
}

// Ping - ping mongo db
func (m mongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

// withDefaultTimeout bounds a call with defaultTimeout unless the caller already set a deadline
func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

// Close - close mongo db connections
func (m mongoDB) Close() {
	log.WithField("prefix", mongoLogPrefix).Info("closing mongo db connections")
	_ = m.client.Disconnect(context.Background())
}

// NewMongoStore - return a mongo db backed record store
func NewMongoStore(client *mongo.Client, database string) MongoStore {
	return &mongoDB{
		client:   client,
		database: database,
	}
}
