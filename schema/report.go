package schema

import (
	"fmt"
	"strings"
	"time"
)

const (
	CrimeReportCollection = "crimeReport"

	// UniqueID asks the record store to assign the document id
	UniqueID = "unique()"
)

var (
	ErrRecordMissingID    = fmt.Errorf("record has no id")
	ErrRecordMissingField = fmt.Errorf("record is missing a required field")
)

// ReportFields is the payload written when a crime report is created
type ReportFields struct {
	Crime       string  `json:"crime" bson:"crime"`
	Description string  `json:"description" bson:"description"`
	Date        string  `json:"date" bson:"date"`
	Latitude    float64 `json:"latitude" bson:"latitude"`
	Longitude   float64 `json:"longitude" bson:"longitude"`
	VictimID    string  `json:"victimID" bson:"victimID"`
}

// RecordPatch holds the fields background jobs may fill in after creation
type RecordPatch struct {
	Address string `json:"address" bson:"address"`
}

// RawRecord is a crime report document as the record store returns it.
// Coordinates are pointers so that a missing value is distinguishable from 0.
type RawRecord struct {
	ID          string    `json:"$id" bson:"_id"`
	Crime       string    `json:"crime" bson:"crime"`
	Description string    `json:"description" bson:"description"`
	Date        string    `json:"date" bson:"date"`
	Latitude    *float64  `json:"latitude" bson:"latitude"`
	Longitude   *float64  `json:"longitude" bson:"longitude"`
	VictimID    string    `json:"victimID,omitempty" bson:"victimID,omitempty"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt   time.Time `json:"$createdAt" bson:"created_at"`
}

// DocumentList is the result of listing a collection
type DocumentList struct {
	Total     int         `json:"total"`
	Documents []RawRecord `json:"documents"`
}

// Report is a crime report submitted by a user
type Report struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	VictimID    string  `json:"victim_id,omitempty"`
	Address     string  `json:"address,omitempty"`
}

// Report maps a raw record into a Report, rejecting records without
// an id, a title, a description, a date or coordinates.
func (r RawRecord) Report() (Report, error) {
	if r.ID == "" {
		return Report{}, ErrRecordMissingID
	}

	var missing []string
	if strings.TrimSpace(r.Crime) == "" {
		missing = append(missing, "crime")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if r.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if r.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return Report{}, fmt.Errorf("%w: %s (record %s)", ErrRecordMissingField, strings.Join(missing, ", "), r.ID)
	}

	return Report{
		ID:          r.ID,
		Title:       r.Crime,
		Description: r.Description,
		Date:        r.Date,
		Latitude:    *r.Latitude,
		Longitude:   *r.Longitude,
		VictimID:    r.VictimID,
		Address:     r.Address,
	}, nil
}

type CaseStatus string

const (
	CaseStatusPending     CaseStatus = "Pending"
	CaseStatusUnderReview CaseStatus = "Under Review"
	CaseStatusInProgress  CaseStatus = "In Progress"
)

// Color returns the badge colour shown next to a case
func (s CaseStatus) Color() string {
	switch s {
	case CaseStatusUnderReview:
		return "#FCD34D"
	case CaseStatusInProgress:
		return "#60A5FA"
	default:
		return "#D1D5DB"
	}
}

// DisplayCase is the listing projection of a Report. It is never persisted.
type DisplayCase struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Status      CaseStatus `json:"status"`
	StatusColor string     `json:"status_color"`
	Address     string     `json:"address,omitempty"`
}
