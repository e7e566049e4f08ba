package flow

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

const opList = "list reports"

type Scope int

const (
	ScopeAll Scope = iota
	ScopeMine
)

func (s Scope) String() string {
	if s == ScopeMine {
		return "mine"
	}
	return "all"
}

// ParseScope accepts "all" or "mine". An empty value means all.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "mine":
		return ScopeMine, nil
	default:
		return ScopeAll, newError(ErrValidation, opList, ErrInvalidScope)
	}
}

// DeriveStatus labels every case as pending. No case workflow is stored anywhere.
func DeriveStatus(schema.Report) schema.CaseStatus {
	return schema.CaseStatusPending
}

type Lister struct {
	sessions store.SessionStore
	records  store.RecordStore
	config   Config
}

func NewLister(sessions store.SessionStore, records store.RecordStore, config Config) *Lister {
	return &Lister{
		sessions: sessions,
		records:  records,
		config:   config.withDefaults(),
	}
}

// List fetches the full collection and projects it into display cases.
// ScopeMine filters the full set on the reporting user.
func (l *Lister) List(ctx context.Context, scope Scope) ([]schema.DisplayCase, error) {
	var userID string
	if scope == ScopeMine {
		session, err := currentUser(ctx, l.sessions, l.config, opList)
		if err != nil {
			return nil, err
		}
		userID = session.UserID
	}

	cctx, cancel := l.config.callContext(ctx)
	defer cancel()

	list, err := l.records.ListDocuments(cctx, l.config.Collection)
	if err != nil {
		return nil, newError(ErrFetch, opList, err)
	}
	if list == nil {
		list = &schema.DocumentList{}
	}

	cases := make([]schema.DisplayCase, 0, len(list.Documents))
	for _, raw := range list.Documents {
		if scope == ScopeMine && raw.VictimID != userID {
			continue
		}

		report, err := raw.Report()
		if err != nil {
			log.WithFields(log.Fields{
				"prefix": "flow",
				"error":  err,
			}).Warn("skip malformed crime report")
			continue
		}

		status := DeriveStatus(report)
		cases = append(cases, schema.DisplayCase{
			ID:          report.ID,
			Title:       report.Title,
			Description: report.Description,
			Date:        report.Date,
			Status:      status,
			StatusColor: status.Color(),
			Address:     report.Address,
		})
	}

	return cases, nil
}
