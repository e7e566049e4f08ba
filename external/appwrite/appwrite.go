package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

const (
	logPrefix      = "appwrite"
	defaultURL     = "https://cloud.appwrite.io/v1"
	defaultTimeout = 10 * time.Second
	pageSize       = 100
)

var (
	ErrEmptyProject     = fmt.Errorf("appwrite project id is empty")
	ErrUnexpectedStatus = fmt.Errorf("unexpected response status")
)

type Config struct {
	Endpoint   string
	Project    string
	APIKey     string
	Database   string
	HTTPClient *http.Client
}

// Client is a record store backed by an Appwrite database
type Client struct {
	endpoint   string
	project    string
	apiKey     string
	database   string
	httpClient *http.Client
}

type createRequest struct {
	DocumentID string              `json:"documentId"`
	Data       schema.ReportFields `json:"data"`
}

type updateRequest struct {
	Data schema.RecordPatch `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

type query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

func New(c Config) (*Client, error) {
	if c.Project == "" {
		return nil, ErrEmptyProject
	}

	endpoint := defaultURL
	if c.Endpoint != "" {
		endpoint = strings.TrimRight(c.Endpoint, "/")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		endpoint:   endpoint,
		project:    c.Project,
		apiKey:     c.APIKey,
		database:   c.Database,
		httpClient: httpClient,
	}, nil
}

func (c *Client) documentsPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", url.PathEscape(c.database), url.PathEscape(collection))
}

// Ping checks the server is reachable
func (c *Client) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return c.do(ctx, http.MethodGet, "/health/version", nil, nil)
}

// CreateDocument creates a crime report. documentID may be schema.UniqueID.
func (c *Client) CreateDocument(ctx context.Context, collection, documentID string, fields schema.ReportFields) (*schema.RawRecord, error) {
	if documentID == "" {
		documentID = schema.UniqueID
	}

	var record schema.RawRecord
	if err := c.do(ctx, http.MethodPost, c.documentsPath(collection), createRequest{
		DocumentID: documentID,
		Data:       fields,
	}, &record); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"prefix":      logPrefix,
		"collection":  collection,
		"document ID": record.ID,
	}).Debug("document created")

	return &record, nil
}

// ListDocuments pages through the whole collection in creation order, ties broken by id
func (c *Client) ListDocuments(ctx context.Context, collection string) (*schema.DocumentList, error) {
	result := &schema.DocumentList{Documents: make([]schema.RawRecord, 0)}

	for offset := 0; ; offset += pageSize {
		params := url.Values{}
		for _, q := range []query{
			{Method: "orderAsc", Attribute: "$createdAt"},
			{Method: "orderAsc", Attribute: "$id"},
			{Method: "limit", Values: []interface{}{pageSize}},
			{Method: "offset", Values: []interface{}{offset}},
		} {
			b, err := json.Marshal(q)
			if err != nil {
				return nil, err
			}
			params.Add("queries[]", string(b))
		}

		var page schema.DocumentList
		if err := c.do(ctx, http.MethodGet, c.documentsPath(collection)+"?"+params.Encode(), nil, &page); err != nil {
			return nil, err
		}

		result.Documents = append(result.Documents, page.Documents...)
		result.Total = page.Total

		if len(page.Documents) < pageSize || len(result.Documents) >= page.Total {
			break
		}
	}

	return result, nil
}

func (c *Client) GetDocument(ctx context.Context, collection, documentID string) (*schema.RawRecord, error) {
	var record schema.RawRecord
	if err := c.do(ctx, http.MethodGet, c.documentsPath(collection)+"/"+url.PathEscape(documentID), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) UpdateDocument(ctx context.Context, collection, documentID string, patch schema.RecordPatch) error {
	return c.do(ctx, http.MethodPatch, c.documentsPath(collection)+"/"+url.PathEscape(documentID), updateRequest{Data: patch}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, v interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.project)
	if c.apiKey != "" {
		req.Header.Set("X-Appwrite-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"method": method,
			"path":   path,
			"error":  err,
		}).Error("request appwrite")
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return store.ErrRecordNotFound
	case resp.StatusCode == http.StatusConflict:
		return store.ErrDocumentExists
	case resp.StatusCode >= http.StatusBadRequest:
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, e.Message)
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
