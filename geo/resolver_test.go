package geo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"googlemaps.github.io/maps"

	"github.com/raksh/borewell-capture/mocks"
	"github.com/raksh/borewell-capture/schema"
)

type ResolverTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
}

var square = schema.Geometry{
	Type: "Polygon",
	Coordinates: [][][]float64{{
		{75.80, 22.70}, {75.90, 22.70}, {75.90, 22.75}, {75.80, 22.75}, {75.80, 22.70},
	}},
}

var innerSquare = schema.Geometry{
	Type: "Polygon",
	Coordinates: [][][]float64{{
		{75.85, 22.71}, {75.87, 22.71}, {75.87, 22.73}, {75.85, 22.73}, {75.85, 22.71},
	}},
}

func NewResolverTestSuite(connURI, dbName string) *ResolverTestSuite {
	return &ResolverTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *ResolverTestSuite) SetupSuite() {
	opts := options.Client().ApplyURI(s.connURI)
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err := mongoClient.Connect(context.Background()); nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)

	// make sure the test suite is run with a clean environment
	if err := s.testDatabase.Drop(context.Background()); err != nil {
		s.T().Fatal(err)
	}
	schema.NewMongoDBIndexer(s.connURI, s.testDBName).IndexAll()

	if _, err := s.testDatabase.Collection(schema.BoundaryCollection).InsertMany(context.Background(), []interface{}{
		schema.Boundary{Country: "India", State: "Madhya Pradesh", District: "Indore", Geometry: square},
		schema.Boundary{Country: "India", State: "Madhya Pradesh", District: "Indore", Block: "Indore", Village: "Rau", Geometry: innerSquare},
	}); err != nil {
		s.T().Fatal(err)
	}
}

func (s *ResolverTestSuite) TearDownSuite() {
	_ = s.testDatabase.Drop(context.Background())
}

func (s *ResolverTestSuite) TestMongodbLocationResolverMergesLevels() {
	r := NewMongodbLocationResolver(s.mongoClient, s.testDBName)

	location, err := r.GetPoliticalInfo(schema.Location{Latitude: 22.72, Longitude: 75.86})
	s.NoError(err)
	s.Equal("India", location.Country)
	s.Equal("Indore", location.District)
	s.Equal("Indore", location.Block)
	s.Equal("Rau", location.Village)
}

func (s *ResolverTestSuite) TestMongodbLocationResolverDistrictOnly() {
	r := NewMongodbLocationResolver(s.mongoClient, s.testDBName)

	location, err := r.GetPoliticalInfo(schema.Location{Latitude: 22.74, Longitude: 75.81})
	s.NoError(err)
	s.Equal("Indore", location.District)
	s.Equal("", location.Village)
}

func (s *ResolverTestSuite) TestMongodbLocationResolverNotFound() {
	r := NewMongodbLocationResolver(s.mongoClient, s.testDBName)

	location, err := r.GetPoliticalInfo(schema.Location{Latitude: 10.5, Longitude: 76.2})
	s.Error(err)
	s.EqualError(err, "no geo information found")
	s.Equal("", location.District)
}

func TestResolverTestSuite(t *testing.T) {
	conn := os.Getenv("TEST_MONGO_CONN")
	if conn == "" {
		t.Skip("Skip resolver tests due to missing mongo connection")
	}
	suite.Run(t, NewResolverTestSuite(conn, "test-borewell-db"))
}

func TestMultipleLocationResolverFallsBack(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := mocks.NewMockLocationResolver(ctl)
	second := mocks.NewMockLocationResolver(ctl)

	in := schema.Location{Latitude: 22.72, Longitude: 75.86}
	out := in
	out.District = "Indore"

	first.EXPECT().GetPoliticalInfo(in).Return(schema.Location{}, ErrNoGeoInfoFound)
	second.EXPECT().GetPoliticalInfo(in).Return(out, nil)

	location, err := NewMultipleLocationResolver(first, second).GetPoliticalInfo(in)
	assert.NoError(t, err)
	assert.Equal(t, "Indore", location.District)
}

func TestMultipleLocationResolverAllFail(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := mocks.NewMockLocationResolver(ctl)
	second := mocks.NewMockLocationResolver(ctl)
	first.EXPECT().GetPoliticalInfo(gomock.Any()).Return(schema.Location{}, ErrNoGeoInfoFound)
	second.EXPECT().GetPoliticalInfo(gomock.Any()).Return(schema.Location{}, ErrNoGeoInfoFound)

	_, err := NewMultipleLocationResolver(first, second).GetPoliticalInfo(schema.Location{})
	assert.EqualError(t, err, "#0: no geo information found\n#1: no geo information found")

	var e *MultipleResolverErrors
	assert.True(t, errors.As(err, &e))
	assert.Len(t, e.errors, 2)
}

func TestAddressFromGeocode(t *testing.T) {
	a := addressFromGeocode(maps.GeocodingResult{
		FormattedAddress: "Rau, Madhya Pradesh 453331, India",
		AddressComponents: []maps.AddressComponent{
			{LongName: "Rau", Types: []string{"locality", "political"}},
			{LongName: "Mhow", Types: []string{"administrative_area_level_3", "political"}},
			{LongName: "Indore", Types: []string{"administrative_area_level_2", "political"}},
			{LongName: "Madhya Pradesh", Types: []string{"administrative_area_level_1", "political"}},
			{LongName: "India", Types: []string{"country", "political"}},
			{LongName: "453331", Types: []string{"postal_code"}},
			{LongName: "ignored", Types: nil},
		},
	})

	assert.Equal(t, "India", a.Country)
	assert.Equal(t, "Madhya Pradesh", a.State)
	assert.Equal(t, "Indore", a.District)
	assert.Equal(t, "Mhow", a.Block)
	assert.Equal(t, "Rau", a.Village)
	assert.Equal(t, "Rau, Madhya Pradesh 453331, India", a.Address)
}
