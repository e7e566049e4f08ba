package api

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/flow"
	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/logmodule"
	"github.com/mizan/crimewatch-api/metrics"
	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// ReportEnqueuer schedules the background work of a new report
type ReportEnqueuer interface {
	EnqueueReportEnrichment(reportID string) error
}

// Config holds the settings of the http server
type Config struct {
	Version      string
	MetricAPIKey string
	JWTExpire    time.Duration

	// Clients maps a client type to its minimum supported version.
	// The client version gateway is off when it is empty.
	Clients map[string]int

	Organizations []schema.Organization
	Docs          map[string]interface{}

	Flow flow.Config
}

// Backends are the stores and providers the flows run on
type Backends struct {
	Sessions  store.SessionStore
	Records   store.RecordStore
	Directory geo.Directory
	Resolver  geo.LocationResolver

	// Enqueuer is optional
	Enqueuer ReportEnqueuer
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	config Config

	// Stores
	sessions store.SessionStore
	records  store.RecordStore

	// Flows
	submitter *flow.Submitter
	lister    *flow.Lister
	places    *flow.PlaceFinder
	locations *flow.LocationFetcher
	auth      *flow.Authenticator

	// job pool enqueuer
	enqueuer ReportEnqueuer

	// JWT private key
	jwtPrivateKey *rsa.PrivateKey

	i18nBundle *i18n.Bundle
}

// NewServer new instance of server
func NewServer(
	config Config,
	backends Backends,
	jwtKey *rsa.PrivateKey,
	bundle *i18n.Bundle) *Server {
	if config.JWTExpire <= 0 {
		config.JWTExpire = 24 * time.Hour
	}
	if len(config.Organizations) == 0 {
		config.Organizations = schema.DefaultOrganizations
	}

	return &Server{
		config:        config,
		sessions:      backends.Sessions,
		records:       backends.Records,
		submitter:     flow.NewSubmitter(backends.Sessions, backends.Records, config.Flow),
		lister:        flow.NewLister(backends.Sessions, backends.Records, config.Flow),
		places:        flow.NewPlaceFinder(backends.Directory, config.Flow),
		locations:     flow.NewLocationFetcher(backends.Resolver, config.Flow),
		auth:          flow.NewAuthenticator(backends.Sessions, config.Flow),
		enqueuer:      backends.Enqueuer,
		jwtPrivateKey: jwtKey,
		i18nBundle:    bundle,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.GET("/information", s.information)
	apiRoute.GET("/organizations", s.organizations)

	// api route other than `/information` and `/organizations` will apply the following middleware
	apiRoute.Use(s.clientVersionGateway())

	apiRoute.POST("/accounts", s.accountRegister)
	apiRoute.POST("/auth", s.sessionMiddleware(), s.requestJWT)

	// api route other than `/accounts` and `POST /auth` will apply the following middleware
	apiRoute.Use(s.authMiddleware())

	apiRoute.DELETE("/auth", s.revokeJWT)
	apiRoute.GET("/location", s.fetchLocation)

	reportRoute := apiRoute.Group("/reports")
	{
		reportRoute.POST("", s.submitReport)
		reportRoute.GET("", s.listReports)
	}

	apiRoute.GET("/places", s.lookupPlaces)
	apiRoute.GET("/police-stations", s.policeStations)

	metricRoute := r.Group("/metrics")
	metricRoute.Use(logmodule.Ginrus("Metric"))
	metricRoute.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))
	metricRoute.Use(s.apikeyAuthentication(s.config.MetricAPIKey))
	{
		metricRoute.GET("", gin.WrapH(metrics.Handler()))
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func (s *Server) shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	s.abortWithCode(c, http.StatusInternalServerError, codeInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	err := s.sessions.Ping()
	if s.shouldInterupt(err, c) {
		return
	}

	err = s.records.Ping()
	if s.shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": s.config.Version,
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": s.config.Version,
			},
			"clients":        s.config.Clients,
			"system_version": "CrimeWatch 1.0",
			"docs":           s.config.Docs,
		},
	})
}

// requestContext is the request context carrying the caller's session id
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if sessionID := c.GetString("session"); sessionID != "" {
		ctx = schema.WithSessionID(ctx, sessionID)
	}
	return ctx
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
