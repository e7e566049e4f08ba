package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicePlace(t *testing.T) {
	types := []string{"establishment",
		"police",
		"point_of_interest",
	}

	assert.Equal(t, PolicePlace, ReadPlaceKind(types))
}

func TestPolicePlaceFromOSM(t *testing.T) {
	assert.Equal(t, PolicePlace, ReadPlaceKind([]string{"amenity", "police"}))
}

func TestHealthCarePlace(t *testing.T) {
	types := []string{"establishment",
		"establishment",
		"health",
		"hospital",
		"point_of_interest",
	}

	assert.Equal(t, HealthCarePlace, ReadPlaceKind(types))
}

func TestHealthCarePlaceOnlyHealth(t *testing.T) {
	types := []string{"establishment",
		"health",
		"point_of_interest",
	}

	assert.Equal(t, HealthCarePlace, ReadPlaceKind(types))
}

func TestLegalPlace(t *testing.T) {
	assert.Equal(t, LegalPlace, ReadPlaceKind([]string{"establishment", "lawyer"}))
	assert.Equal(t, LegalPlace, ReadPlaceKind([]string{"amenity", "courthouse"}))
}

func TestShelterPlace(t *testing.T) {
	assert.Equal(t, ShelterPlace, ReadPlaceKind([]string{"amenity", "social_facility"}))
}

func TestUnknownPlace(t *testing.T) {
	types := []string{"establishment",
		"establishment",
		"point_of_interest",
	}

	assert.Equal(t, UnknownPlace, ReadPlaceKind(types))
	assert.Equal(t, UnknownPlace, ReadPlaceKind(nil))
}
