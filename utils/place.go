package utils

const (
	PolicePlace     = "police"
	HealthCarePlace = "healthcare"
	LegalPlace      = "legal"
	ShelterPlace    = "shelter"
	UnknownPlace    = "unknown"
)

// ReadPlaceKind returns a place kind by analyzing a list of given types.
// Types may come from OpenStreetMap tags or Google place types.
func ReadPlaceKind(types []string) string {
	health := false
	for _, t := range types {
		switch t {
		case "health":
			health = true
		case "police":
			return PolicePlace
		case "courthouse", "lawyer", "legal":
			return LegalPlace
		case "shelter", "social_facility", "women_shelter":
			return ShelterPlace
		case "hospital", "doctor", "doctors", "clinic", "dentist", "pharmacy":
			return HealthCarePlace
		}
	}

	if health {
		return HealthCarePlace
	}
	return UnknownPlace
}
