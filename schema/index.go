package schema

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBIndexer struct {
	ctx      context.Context
	dbName   string
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDBIndexer(connectionString, dbName string) *MongoDBIndexer {
	ctx := context.Background()
	opts := options.Client().ApplyURI(connectionString)
	client, err := mongo.NewClient(opts)
	if err != nil {
		panic(err)
	}
	if err := client.Connect(ctx); err != nil {
		panic(err)
	}

	return &MongoDBIndexer{
		ctx:      ctx,
		dbName:   dbName,
		Client:   client,
		Database: client.Database(dbName),
	}
}

func (m *MongoDBIndexer) createIndex(collection string, index mongo.IndexModel) error {
	c := m.Database.Collection(collection)
	_, err := c.Indexes().CreateOne(m.ctx, index)
	return err
}

func panicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

// IndexAll creates the indexes of the crime report collection
func (m *MongoDBIndexer) IndexAll(reportCollection string) {
	panicIfError(m.IndexCrimeReportCollection(reportCollection))
}

func (m *MongoDBIndexer) IndexCrimeReportCollection(collection string) error {
	if collection == "" {
		collection = CrimeReportCollection
	}

	if err := m.createIndex(collection, mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_at", Value: 1},
			{Key: "_id", Value: 1},
		},
	}); err != nil {
		return err
	}

	if err := m.createIndex(collection, mongo.IndexModel{
		Keys: bson.M{
			"victimID": 1,
		},
	}); err != nil {
		return err
	}

	return m.createIndex(collection, mongo.IndexModel{
		Keys: bson.M{
			"location": "2dsphere",
		},
	})
}
