package flow

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

const opSubmit = "submit report"

// ReportForm is the transient state of a report before it is submitted.
// Location must come from an explicit location fetch.
type ReportForm struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Location    *schema.Location `json:"location"`
}

// Reset clears the form after a successful submission
func (f *ReportForm) Reset() {
	*f = ReportForm{}
}

func (f *ReportForm) missingFields() []string {
	var missing []string
	if strings.TrimSpace(f.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(f.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(f.Date) == "" {
		missing = append(missing, "date")
	}
	if f.Location == nil {
		missing = append(missing, "location")
	}
	return missing
}

type Submitter struct {
	sessions store.SessionStore
	records  store.RecordStore
	config   Config
}

func NewSubmitter(sessions store.SessionStore, records store.RecordStore, config Config) *Submitter {
	return &Submitter{
		sessions: sessions,
		records:  records,
		config:   config.withDefaults(),
	}
}

// Submit validates the form, resolves the reporting user and creates the
// record. The form is reset only when the record store accepted it.
func (s *Submitter) Submit(ctx context.Context, form *ReportForm) (string, error) {
	if form == nil {
		return "", newError(ErrValidation, opSubmit, ErrMissingField)
	}

	if missing := form.missingFields(); len(missing) > 0 {
		return "", newError(ErrValidation, opSubmit, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", ")))
	}

	if err := form.Location.Validate(); err != nil {
		return "", newError(ErrValidation, opSubmit, err)
	}

	session, err := currentUser(ctx, s.sessions, s.config, opSubmit)
	if err != nil {
		return "", err
	}

	cctx, cancel := s.config.callContext(ctx)
	defer cancel()

	record, err := s.records.CreateDocument(cctx, s.config.Collection, schema.UniqueID, schema.ReportFields{
		Crime:       form.Title,
		Description: form.Description,
		Date:        form.Date,
		Latitude:    form.Location.Latitude,
		Longitude:   form.Location.Longitude,
		VictimID:    session.UserID,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": "flow",
			"user":   session.UserID,
			"error":  err,
		}).Error("create crime report")
		return "", newError(ErrSubmission, opSubmit, err)
	}

	if record == nil || record.ID == "" {
		return "", newError(ErrSubmission, opSubmit, ErrEmptyRecordID)
	}

	log.WithFields(log.Fields{
		"prefix":    "flow",
		"user":      session.UserID,
		"report ID": record.ID,
	}).Info("crime report submitted")

	form.Reset()

	return record.ID, nil
}
