package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mizan/crimewatch-api/background"
	"github.com/mizan/crimewatch-api/external/appwrite"
	"github.com/mizan/crimewatch-api/external/geoinfo"
	"github.com/mizan/crimewatch-api/external/nominatim"
	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

var (
	mongoClient *mongo.Client
	manager     *background.BackgroundManager
)

func panicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	_ = godotenv.Load()

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("crimewatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("record.backend", "mongo")
	viper.SetDefault("record.collection", schema.CrimeReportCollection)
	viper.SetDefault("directory.providers", []string{"nominatim"})
	viper.SetDefault("directory.user_agent", "crimewatch-api")
}

func newRecordStore(ctx context.Context, httpClient *http.Client) (store.RecordStore, error) {
	switch backend := viper.GetString("record.backend"); backend {
	case "mongo":
		opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
		opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
		client, err := mongo.NewClient(opts)
		if nil != err {
			return nil, fmt.Errorf("create mongo client with error: %s", err)
		}
		if err := client.Connect(ctx); nil != err {
			return nil, fmt.Errorf("connect mongo database with error: %s", err)
		}
		mongoClient = client
		return store.NewMongoStore(client, viper.GetString("mongo.database")), nil
	case "appwrite":
		return appwrite.New(appwrite.Config{
			Endpoint:   viper.GetString("appwrite.endpoint"),
			Project:    viper.GetString("appwrite.project"),
			APIKey:     viper.GetString("appwrite.apikey"),
			Database:   viper.GetString("record.database"),
			HTTPClient: httpClient,
		})
	default:
		return nil, fmt.Errorf("unknown record backend: %s", backend)
	}
}

// newResolver tries the reverse geocoders of directory.providers in order
func newResolver(httpClient *http.Client) (geo.LocationResolver, error) {
	var resolvers []geo.LocationResolver
	for _, provider := range viper.GetStringSlice("directory.providers") {
		switch provider {
		case "nominatim":
			client, err := nominatim.New(nominatim.Config{
				URL:               viper.GetString("nominatim.url"),
				UserAgent:         viper.GetString("directory.user_agent"),
				RequestsPerSecond: viper.GetFloat64("nominatim.rps"),
				HTTPClient:        httpClient,
			})
			if err != nil {
				return nil, err
			}
			resolvers = append(resolvers, geo.NewNominatimLocationResolver(client))
		case "google":
			client, err := geoinfo.New(viper.GetString("google.apikey"))
			if err != nil {
				return nil, err
			}
			resolvers = append(resolvers, geo.NewGeocodingLocationResolver(client))
		default:
			return nil, fmt.Errorf("unknown directory provider: %s", provider)
		}
	}
	return geo.NewMultipleLocationResolver(resolvers...), nil
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Worker is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if mongoClient != nil {
			log.Info("Shutting down mongo store")
			mongoClient.Disconnect(ctx)
		}

		sentry.Flush(5 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	records, err := newRecordStore(initialCtx, httpClient)
	if err != nil {
		log.Panic(err)
	}

	resolver, err := newResolver(httpClient)
	if err != nil {
		log.Panic(err)
	}

	var conf = &config.Config{
		Broker:        viper.GetString("redis.conn"),
		DefaultQueue:  background.DefaultQueue,
		ResultBackend: viper.GetString("redis.conn"),
	}
	taskServer, err := machinery.NewServer(conf)
	if err != nil {
		log.Panic(err)
	}

	enricher := background.NewReportEnricher(records, resolver, viper.GetString("record.collection"))
	manager = background.New(enricher, taskServer)
	panicIfError(manager.RegisterAll())

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	if err := manager.Run(); err != nil {
		log.Panic(err)
	}
}
