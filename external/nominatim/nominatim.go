package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mizan/crimewatch-api/schema"
)

const (
	logPrefix      = "nominatim"
	defaultURL     = "https://nominatim.openstreetmap.org"
	defaultTimeout = 10 * time.Second

	// the public server allows one request per second
	DefaultRequestsPerSecond = 1
)

var (
	ErrEmptyUserAgent   = fmt.Errorf("nominatim requires a user agent")
	ErrUnexpectedStatus = fmt.Errorf("unexpected response status")
	ErrNoResult         = fmt.Errorf("no result")
)

// Nominatim - interface of the OpenStreetMap search and reverse geocoding API
type Nominatim interface {
	Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error)
	Reverse(ctx context.Context, lat, lng float64) (*schema.Location, error)
}

type Config struct {
	URL               string
	UserAgent         string
	RequestsPerSecond float64
	// Timeout bounds one request once it has passed the rate limiter
	Timeout    time.Duration
	HTTPClient *http.Client
}

type nominatim struct {
	url        string
	userAgent  string
	limiter    *rate.Limiter
	timeout    time.Duration
	httpClient *http.Client
}

type reverseAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type reverseResponse struct {
	Lat         string         `json:"lat"`
	Lon         string         `json:"lon"`
	DisplayName string         `json:"display_name"`
	Address     reverseAddress `json:"address"`
	Error       string         `json:"error"`
}

// Search runs a free text query, e.g. /search?q=police&format=json&countrycodes=IL
func (n *nominatim) Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error) {
	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("format", "json")
	if q.CountryCodes != "" {
		params.Set("countrycodes", strings.ToLower(q.CountryCodes))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	places := make([]schema.RawPlace, 0)
	if err := n.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"query":  q.Query,
		"count":  len(places),
	}).Debug("search places")

	return places, nil
}

// Reverse resolves a coordinate into an address
func (n *nominatim) Reverse(ctx context.Context, lat, lng float64) (*schema.Location, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")

	var r reverseResponse
	if err := n.get(ctx, "/reverse", params, &r); err != nil {
		return nil, err
	}

	if r.Error != "" || r.DisplayName == "" {
		return nil, ErrNoResult
	}

	county := r.Address.County
	if county == "" {
		county = firstNonEmpty(r.Address.City, r.Address.Town, r.Address.Village)
	}

	return &schema.Location{
		Latitude:  lat,
		Longitude: lng,
		Address:   r.DisplayName,
		AddressComponent: schema.AddressComponent{
			Country: r.Address.Country,
			State:   r.Address.State,
			County:  county,
		},
	}, nil
}

func (n *nominatim) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	// the request timeout starts after the limiter wait
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"path":   path,
			"error":  err,
		}).Error("request nominatim")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// New - new Nominatim client. The usage policy requires an identifying user agent.
func New(c Config) (Nominatim, error) {
	if c.UserAgent == "" {
		return nil, ErrEmptyUserAgent
	}

	u := defaultURL
	if c.URL != "" {
		u = strings.TrimRight(c.URL, "/")
	}

	rps := c.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &nominatim{
		url:        u,
		userAgent:  c.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}
