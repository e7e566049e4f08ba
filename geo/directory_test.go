package geo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mizan/crimewatch-api/geo"
	geomocks "github.com/mizan/crimewatch-api/geo/mocks"
	"github.com/mizan/crimewatch-api/schema"
)

var policeQuery = schema.PlaceQuery{Query: "police", CountryCodes: "IL", Limit: 10}

func TestMultipleDirectoryFirstWins(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := geomocks.NewMockDirectory(ctl)
	second := geomocks.NewMockDirectory(ctl)

	places := []schema.RawPlace{{Lat: "32.08", Lon: "34.78", DisplayName: "Central Police Station, Tel Aviv, IL"}}
	first.EXPECT().Search(gomock.Any(), policeQuery).Return(places, nil).Times(1)

	result, err := geo.NewMultipleDirectory(first, second).Search(context.Background(), policeQuery)
	assert.NoError(t, err)
	assert.Equal(t, places, result)
}

func TestMultipleDirectoryFallback(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := geomocks.NewMockDirectory(ctl)
	second := geomocks.NewMockDirectory(ctl)

	places := []schema.RawPlace{{Lat: "32.08", Lon: "34.78", DisplayName: "Central Police Station, Tel Aviv, IL"}}
	gomock.InOrder(
		first.EXPECT().Search(gomock.Any(), policeQuery).Return(nil, errors.New("429")),
		second.EXPECT().Search(gomock.Any(), policeQuery).Return(places, nil),
	)

	result, err := geo.NewMultipleDirectory(first, second).Search(context.Background(), policeQuery)
	assert.NoError(t, err)
	assert.Equal(t, places, result)
}

func TestMultipleDirectoryStopsWhenCancelled(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	first := geomocks.NewMockDirectory(ctl)
	second := geomocks.NewMockDirectory(ctl)

	ctx, cancel := context.WithCancel(context.Background())
	first.EXPECT().Search(gomock.Any(), policeQuery).DoAndReturn(func(context.Context, schema.PlaceQuery) ([]schema.RawPlace, error) {
		cancel()
		return nil, context.Canceled
	})

	_, err := geo.NewMultipleDirectory(first, second).Search(ctx, policeQuery)
	assert.Error(t, err)
}

func TestMultipleDirectoryEmpty(t *testing.T) {
	_, err := geo.NewMultipleDirectory().Search(context.Background(), policeQuery)
	assert.Equal(t, geo.ErrNoDirectory, err)
}
