package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mizan/crimewatch-api/flow"
	"github.com/mizan/crimewatch-api/schema"
)

func float(f float64) *float64 {
	return &f
}

func rawRecord(id, crime, victimID string) schema.RawRecord {
	return schema.RawRecord{
		ID:          id,
		Crime:       crime,
		Description: "stolen at the bus stop",
		Date:        "2024-02-17",
		Latitude:    float(32.0853),
		Longitude:   float(34.7818),
		VictimID:    victimID,
	}
}

func reportForm() flow.ReportForm {
	return flow.ReportForm{
		Title:       "Theft",
		Description: "stolen at the bus stop",
		Date:        "2024-02-17",
		Location: &schema.Location{
			Latitude:  32.0853,
			Longitude: 34.7818,
		},
	}
}

type submitResponse struct {
	Result struct {
		ID    string               `json:"id"`
		Cases []schema.DisplayCase `json:"cases"`
	} `json:"result"`
}

func TestSubmitReport(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	session := &schema.UserSession{UserID: "victim-1", SessionID: "session-1"}

	ts.sessions.EXPECT().CurrentSession(gomock.Any()).Return(session, nil).Times(2)
	ts.records.EXPECT().
		CreateDocument(gomock.Any(), schema.CrimeReportCollection, schema.UniqueID, schema.ReportFields{
			Crime:       "Theft",
			Description: "stolen at the bus stop",
			Date:        "2024-02-17",
			Latitude:    32.0853,
			Longitude:   34.7818,
			VictimID:    "victim-1",
		}).
		Return(&schema.RawRecord{ID: "report-1"}, nil)
	ts.records.EXPECT().
		ListDocuments(gomock.Any(), schema.CrimeReportCollection).
		Return(&schema.DocumentList{
			Total: 2,
			Documents: []schema.RawRecord{
				rawRecord("report-0", "Assault", "victim-2"),
				rawRecord("report-1", "Theft", "victim-1"),
			},
		}, nil)

	w := ts.serve("POST", "/api/reports?scope=mine", reportForm(), bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp submitResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "report-1", resp.Result.ID)
	assert.Len(t, resp.Result.Cases, 1)
	assert.Equal(t, "report-1", resp.Result.Cases[0].ID)
	assert.Equal(t, schema.CaseStatusPending, resp.Result.Cases[0].Status)

	assert.Equal(t, []string{"report-1"}, ts.enqueuer.ids)
}

func TestSubmitReportWithoutLocation(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	form := reportForm()
	form.Location = nil

	headers := bearer(t, "victim-1", "session-1")
	headers["Accept-Language"] = "he"

	w := ts.serve("POST", "/api/reports", form, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong status code")

	resp := decodeError(t, w)
	assert.Equal(t, codeValidation, resp.Code)
	assert.Equal(t, "אנא מלאו את כל השדות ואתרו את מיקומכם", resp.Message)
	assert.Empty(t, ts.enqueuer.ids)
}

func TestSubmitReportStoreFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	ts.sessions.EXPECT().
		CurrentSession(gomock.Any()).
		Return(&schema.UserSession{UserID: "victim-1", SessionID: "session-1"}, nil)
	ts.records.EXPECT().
		CreateDocument(gomock.Any(), schema.CrimeReportCollection, schema.UniqueID, gomock.Any()).
		Return(nil, fmt.Errorf("server unavailable"))

	w := ts.serve("POST", "/api/reports", reportForm(), bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusBadGateway, w.Code, "wrong status code")
	assert.Equal(t, codeSubmission, decodeError(t, w).Code)
	assert.Empty(t, ts.enqueuer.ids)
}

func TestSubmitReportRefreshFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	ts.enqueuer.err = fmt.Errorf("redis down")

	ts.sessions.EXPECT().
		CurrentSession(gomock.Any()).
		Return(&schema.UserSession{UserID: "victim-1", SessionID: "session-1"}, nil)
	ts.records.EXPECT().
		CreateDocument(gomock.Any(), schema.CrimeReportCollection, schema.UniqueID, gomock.Any()).
		Return(&schema.RawRecord{ID: "report-1"}, nil)
	ts.records.EXPECT().
		ListDocuments(gomock.Any(), schema.CrimeReportCollection).
		Return(nil, fmt.Errorf("timeout"))

	w := ts.serve("POST", "/api/reports", reportForm(), bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp submitResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "report-1", resp.Result.ID)
	assert.Nil(t, resp.Result.Cases)
}

func TestListReports(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)

	malformed := rawRecord("report-2", "", "victim-1")
	ts.records.EXPECT().
		ListDocuments(gomock.Any(), schema.CrimeReportCollection).
		Return(&schema.DocumentList{
			Total: 3,
			Documents: []schema.RawRecord{
				rawRecord("report-0", "Assault", "victim-2"),
				rawRecord("report-1", "Theft", "victim-1"),
				malformed,
			},
		}, nil)

	w := ts.serve("GET", "/api/reports?scope=all", nil, bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Result []schema.DisplayCase `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Result, 2)
	assert.Equal(t, "Assault", resp.Result[0].Title)
	assert.Equal(t, "Theft", resp.Result[1].Title)
	assert.Equal(t, schema.CaseStatusPending.Color(), resp.Result[1].StatusColor)
}

func TestListReportsEmpty(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	ts.records.EXPECT().
		ListDocuments(gomock.Any(), schema.CrimeReportCollection).
		Return(&schema.DocumentList{}, nil)

	w := ts.serve("GET", "/api/reports", nil, bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.JSONEq(t, `{"result":[]}`, w.Body.String())
}

func TestListReportsInvalidScope(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)

	w := ts.serve("GET", "/api/reports?scope=others", nil, bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong status code")
	assert.Equal(t, codeValidation, decodeError(t, w).Code)
}

func TestListReportsFetchFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	ts.records.EXPECT().
		ListDocuments(gomock.Any(), schema.CrimeReportCollection).
		Return(nil, fmt.Errorf("timeout"))

	w := ts.serve("GET", "/api/reports", nil, bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusBadGateway, w.Code, "wrong status code")
	assert.Equal(t, codeFetch, decodeError(t, w).Code)
}

func TestListMyReportsWithoutSession(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl)
	ts.sessions.EXPECT().CurrentSession(gomock.Any()).Return(nil, nil)

	w := ts.serve("GET", "/api/reports?scope=mine", nil, bearer(t, "victim-1", "session-1"))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "wrong status code")
	assert.Equal(t, codeIdentity, decodeError(t, w).Code)
}
