package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mizan/crimewatch-api/schema"
)

const testReportCollection = "crimeReportTest"

type ReportTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
	store        MongoStore
}

func NewReportTestSuite(connURI, dbName string) *ReportTestSuite {
	return &ReportTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *ReportTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	opts := options.Client().ApplyURI(s.connURI)
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err = mongoClient.Connect(context.Background()); nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)
	s.store = NewMongoStore(mongoClient, s.testDBName)

	// make sure the test suite is run with a clean environment
	if err := s.CleanMongoDB(); err != nil {
		s.T().Fatal(err)
	}
	indexer := schema.NewMongoDBIndexer(s.connURI, s.testDBName)
	if err := indexer.IndexCrimeReportCollection(testReportCollection); err != nil {
		s.T().Fatal(err)
	}
}

// CleanMongoDB drop the whole test mongodb
func (s *ReportTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *ReportTestSuite) SetupTest() {
	_, err := s.testDatabase.Collection(testReportCollection).DeleteMany(context.Background(), bson.M{})
	s.NoError(err)
}

func (s *ReportTestSuite) TearDownSuite() {
	s.store.Close()
}

func (s *ReportTestSuite) fields(crime string) schema.ReportFields {
	return schema.ReportFields{
		Crime:       crime,
		Description: "stolen at the bus stop",
		Date:        "2024-02-17",
		Latitude:    32.0853,
		Longitude:   34.7818,
		VictimID:    "victim-1",
	}
}

func (s *ReportTestSuite) TestCreateDocumentAssignsID() {
	ctx := context.Background()

	record, err := s.store.CreateDocument(ctx, testReportCollection, schema.UniqueID, s.fields("Theft"))
	s.NoError(err)
	s.NotEmpty(record.ID)
	s.NotEqual(schema.UniqueID, record.ID)
	s.Equal("Theft", record.Crime)
	s.Equal(32.0853, *record.Latitude)

	stored, err := s.store.GetDocument(ctx, testReportCollection, record.ID)
	s.NoError(err)
	s.Equal(record.ID, stored.ID)
	s.Equal("victim-1", stored.VictimID)
	s.Equal(34.7818, *stored.Longitude)
}

func (s *ReportTestSuite) TestCreateDocumentDuplicatedID() {
	ctx := context.Background()

	_, err := s.store.CreateDocument(ctx, testReportCollection, "report-1", s.fields("Theft"))
	s.NoError(err)

	_, err = s.store.CreateDocument(ctx, testReportCollection, "report-1", s.fields("Assault"))
	s.Equal(ErrDocumentExists, err)
}

func (s *ReportTestSuite) TestListDocumentsInCreationOrder() {
	ctx := context.Background()

	for _, crime := range []string{"Theft", "Assault", "Vandalism"} {
		_, err := s.store.CreateDocument(ctx, testReportCollection, schema.UniqueID, s.fields(crime))
		s.NoError(err)
	}

	list, err := s.store.ListDocuments(ctx, testReportCollection)
	s.NoError(err)
	s.Equal(3, list.Total)
	s.Equal("Theft", list.Documents[0].Crime)
	s.Equal("Assault", list.Documents[1].Crime)
	s.Equal("Vandalism", list.Documents[2].Crime)
}

func (s *ReportTestSuite) TestListDocumentsEmpty() {
	list, err := s.store.ListDocuments(context.Background(), testReportCollection)
	s.NoError(err)
	s.Equal(0, list.Total)
	s.Len(list.Documents, 0)
}

func (s *ReportTestSuite) TestUpdateDocument() {
	ctx := context.Background()

	record, err := s.store.CreateDocument(ctx, testReportCollection, schema.UniqueID, s.fields("Theft"))
	s.NoError(err)

	s.NoError(s.store.UpdateDocument(ctx, testReportCollection, record.ID, schema.RecordPatch{Address: "Dizengoff St, Tel Aviv"}))

	stored, err := s.store.GetDocument(ctx, testReportCollection, record.ID)
	s.NoError(err)
	s.Equal("Dizengoff St, Tel Aviv", stored.Address)
}

func (s *ReportTestSuite) TestUpdateDocumentNotFound() {
	err := s.store.UpdateDocument(context.Background(), testReportCollection, "missing", schema.RecordPatch{Address: "nowhere"})
	s.Equal(ErrRecordNotFound, err)
}

func (s *ReportTestSuite) TestGetDocumentNotFound() {
	_, err := s.store.GetDocument(context.Background(), testReportCollection, "missing")
	s.Equal(ErrRecordNotFound, err)
}

// The suite needs a running mongodb. Set MONGO_TEST_URI to run it.
func TestReportTestSuite(t *testing.T) {
	connURI := os.Getenv("MONGO_TEST_URI")
	if connURI == "" {
		t.Skip("MONGO_TEST_URI is not set")
	}
	suite.Run(t, NewReportTestSuite(connURI, "test-db"))
}
