package flow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mizan/crimewatch-api/external/nominatim"
	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/geo/mocks"
	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/utils"
)

func query(category string) schema.PlaceQuery {
	return schema.PlaceQuery{Query: category, CountryCodes: "IL", Limit: DefaultSearchLimit}
}

func TestLookupPoliceInIsrael(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	directory := mocks.NewMockDirectory(ctl)
	directory.EXPECT().Search(gomock.Any(), query("police")).Return([]schema.RawPlace{
		{Lat: "32.08", Lon: "34.78", DisplayName: "Central Police Station, Tel Aviv, IL"},
	}, nil).Times(1)

	places, err := NewPlaceFinder(directory, testConfig).Lookup(context.Background(), []string{"police"}, "IL")
	assert.NoError(t, err)
	assert.Len(t, places, 1)
	assert.Equal(t, "Central Police Station", places[0].Name)
	assert.Equal(t, 32.08, places[0].Latitude)
	assert.Equal(t, 34.78, places[0].Longitude)
	assert.Equal(t, "Central Police Station, Tel Aviv, IL", places[0].Address)
	assert.Equal(t, "police", places[0].Category)
	assert.Equal(t, utils.PolicePlace, places[0].Kind)
	assert.Nil(t, places[0].Distance)
}

func TestLookupMergesCategoriesInOrder(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	directory := mocks.NewMockDirectory(ctl)
	directory.EXPECT().Search(gomock.Any(), query("police")).Return([]schema.RawPlace{
		{Lat: "32.08", Lon: "34.78", DisplayName: "Central Police Station, Tel Aviv"},
		{Lat: "31.77", Lon: "35.21", DisplayName: "Jerusalem Police, Jerusalem"},
	}, nil).Times(1)
	directory.EXPECT().Search(gomock.Any(), query("hospital")).Return([]schema.RawPlace{
		{Lat: "32.08", Lon: "34.79", DisplayName: "Ichilov Hospital, Tel Aviv", Type: "hospital"},
		{Lat: "31.79", Lon: "35.20", DisplayName: "Shaare Zedek, Jerusalem", Type: "hospital"},
		{Lat: "32.79", Lon: "34.99", DisplayName: "Rambam, Haifa", Type: "hospital"},
	}, nil).Times(1)

	places, err := NewPlaceFinder(directory, testConfig).Lookup(context.Background(), []string{"police", "hospital"}, "IL")
	assert.NoError(t, err)
	assert.Len(t, places, 5)

	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Central Police Station", "Jerusalem Police", "Ichilov Hospital", "Shaare Zedek", "Rambam"}, names)
	assert.Equal(t, utils.HealthCarePlace, places[4].Kind)
}

func TestLookupFailsFast(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	directoryErr := errors.New("too many requests")
	directory := mocks.NewMockDirectory(ctl)
	directory.EXPECT().Search(gomock.Any(), query("police")).Return([]schema.RawPlace{
		{Lat: "32.08", Lon: "34.78", DisplayName: "Central Police Station, Tel Aviv"},
	}, nil).AnyTimes()
	directory.EXPECT().Search(gomock.Any(), query("hospital")).Return(nil, directoryErr).Times(1)

	places, err := NewPlaceFinder(directory, testConfig).Lookup(context.Background(), []string{"police", "hospital"}, "IL")
	assert.Nil(t, places)
	assert.True(t, errors.Is(err, ErrLookup), "wrong error kind: %v", err)
	assert.True(t, errors.Is(err, directoryErr))
	assert.Contains(t, err.Error(), `"hospital"`)
}

func TestLookupInvalidCoordinates(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	directory := mocks.NewMockDirectory(ctl)
	directory.EXPECT().Search(gomock.Any(), query("police")).Return([]schema.RawPlace{
		{Lat: "north", Lon: "34.78", DisplayName: "Broken"},
	}, nil)

	_, err := NewPlaceFinder(directory, testConfig).Lookup(context.Background(), []string{"police"}, "IL")
	assert.True(t, errors.Is(err, ErrLookup))
	assert.True(t, errors.Is(err, ErrInvalidPlace))
}

func TestLookupWithoutCategory(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	finder := NewPlaceFinder(mocks.NewMockDirectory(ctl), testConfig)

	_, err := finder.Lookup(context.Background(), nil, "IL")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = finder.Lookup(context.Background(), []string{"police", " "}, "IL")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestLookupTooManyCategories(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	config := testConfig
	config.MaxCategories = 2
	finder := NewPlaceFinder(mocks.NewMockDirectory(ctl), config)

	_, err := finder.Lookup(context.Background(), []string{"police", "hospital", "lawyer"}, "IL")
	assert.True(t, errors.Is(err, ErrValidation), "wrong error kind: %v", err)
	assert.True(t, errors.Is(err, ErrTooManyCategories))
}

func TestLookupWaitsForRateLimitedDirectory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		fmt.Fprintf(w, `[{"lat":"32.08","lon":"34.78","display_name":"%s, Tel Aviv"}]`, q)
	}))
	defer ts.Close()

	client, err := nominatim.New(nominatim.Config{
		URL:       ts.URL,
		UserAgent: "crimewatch-test/1.0",
		Timeout:   500 * time.Millisecond,
	})
	assert.NoError(t, err)

	// one request per second, so the last category waits longer than one request may take
	config := testConfig
	config.Timeout = 500 * time.Millisecond
	places, err := NewPlaceFinder(client, config).Lookup(context.Background(), []string{"police", "hospital", "lawyer"}, "IL")
	assert.NoError(t, err)

	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"police", "hospital", "lawyer"}, names)
}

func TestLookupDefaultCountry(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	directory := mocks.NewMockDirectory(ctl)
	directory.EXPECT().Search(gomock.Any(), query("police")).Return([]schema.RawPlace{}, nil)

	places, err := NewPlaceFinder(directory, testConfig).Lookup(context.Background(), []string{"police"}, "")
	assert.NoError(t, err)
	assert.Len(t, places, 0)
}

func TestLookupNearbyPermissionDenied(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	locator := mocks.NewMockLocator(ctl)
	locator.EXPECT().RequestPermission(gomock.Any()).Return(geo.PermissionDenied, nil).Times(1)
	directory := mocks.NewMockDirectory(ctl)

	previous := []schema.Place{{Name: "Central Police Station"}}
	displayed := previous

	places, err := NewPlaceFinder(directory, testConfig).LookupNearby(context.Background(), locator, []string{"police"}, "IL")
	assert.Nil(t, places)
	assert.True(t, errors.Is(err, ErrPermission), "wrong error kind: %v", err)
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.Equal(t, previous, displayed)
}

func TestLookupNearbyAddsDistance(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	locator := mocks.NewMockLocator(ctl)
	gomock.InOrder(
		locator.EXPECT().RequestPermission(gomock.Any()).Return(geo.PermissionGranted, nil),
		locator.EXPECT().CurrentPosition(gomock.Any()).Return(schema.Location{Latitude: 32.0853, Longitude: 34.7818}, nil),
	)

	directory := mocks.NewMockDirectory(ctl)
	directory.EXPECT().Search(gomock.Any(), query("police")).Return([]schema.RawPlace{
		{Lat: "32.0853", Lon: "34.7818", DisplayName: "Dizengoff Police"},
		{Lat: "31.7683", Lon: "35.2137", DisplayName: "Jerusalem Police"},
	}, nil)

	places, err := NewPlaceFinder(directory, testConfig).LookupNearby(context.Background(), locator, []string{"police"}, "IL")
	assert.NoError(t, err)
	assert.Len(t, places, 2)
	assert.Equal(t, "Dizengoff Police", places[0].Name)
	assert.InDelta(t, 0, *places[0].Distance, 1)
	assert.InDelta(t, 54000, *places[1].Distance, 1500)
}

func TestLookupNearbyPositionUnavailable(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	locator := mocks.NewMockLocator(ctl)
	locator.EXPECT().RequestPermission(gomock.Any()).Return(geo.PermissionGranted, nil)
	locator.EXPECT().CurrentPosition(gomock.Any()).Return(schema.Location{}, geo.ErrPositionUnavailable)

	_, err := NewPlaceFinder(mocks.NewMockDirectory(ctl), testConfig).LookupNearby(context.Background(), locator, []string{"police"}, "IL")
	assert.True(t, errors.Is(err, ErrLocation))
}

func TestParsePlace(t *testing.T) {
	p, err := ParsePlace(schema.RawPlace{Lat: " 32.1 ", Lon: "34.8", DisplayName: "No Comma"}, "lawyer")
	assert.NoError(t, err)
	assert.Equal(t, "No Comma", p.Name)
	assert.Equal(t, utils.LegalPlace, p.Kind)

	_, err = ParsePlace(schema.RawPlace{Lat: "32.1", Lon: "190", DisplayName: "Nowhere"}, "police")
	assert.True(t, errors.Is(err, ErrInvalidPlace))
}
