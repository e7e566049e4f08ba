package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RichardKnop/machinery/v1"
	machineryconf "github.com/RichardKnop/machinery/v1/config"
	"github.com/dgrijalva/jwt-go"
	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/mizan/crimewatch-api/api"
	"github.com/mizan/crimewatch-api/background"
	"github.com/mizan/crimewatch-api/external/appwrite"
	"github.com/mizan/crimewatch-api/external/geoinfo"
	"github.com/mizan/crimewatch-api/external/nominatim"
	"github.com/mizan/crimewatch-api/flow"
	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/metrics"
	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
	"github.com/mizan/crimewatch-api/utils"
)

var (
	server      *api.Server
	ormDB       *gorm.DB
	mongoClient *mongo.Client
)

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
	// .env is optional
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

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

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("record.backend", "mongo")
	viper.SetDefault("record.collection", schema.CrimeReportCollection)
	viper.SetDefault("directory.providers", []string{"nominatim"})
	viper.SetDefault("directory.country", flow.DefaultCountry)
	viper.SetDefault("directory.limit", flow.DefaultSearchLimit)
	viper.SetDefault("directory.max_categories", flow.DefaultMaxCategories)
	viper.SetDefault("directory.user_agent", "crimewatch-api")
	viper.SetDefault("flow.timeout", flow.DefaultTimeout)
}

func connectMongo(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	client, err := mongo.NewClient(opts)
	if nil != err {
		return nil, fmt.Errorf("create mongo client with error: %s", err)
	}

	if err := client.Connect(ctx); nil != err {
		return nil, fmt.Errorf("connect mongo database with error: %s", err)
	}

	return client, nil
}

// newRecordStore returns the crime report store selected by record.backend
func newRecordStore(ctx context.Context, httpClient *http.Client) (store.RecordStore, error) {
	switch backend := viper.GetString("record.backend"); backend {
	case "mongo":
		client, err := connectMongo(ctx)
		if err != nil {
			return nil, err
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

// newGeoProviders builds the place directory and the address resolver from
// directory.providers, in the configured order
func newGeoProviders(httpClient *http.Client) (geo.Directory, geo.LocationResolver, error) {
	var directories []geo.Directory
	var resolvers []geo.LocationResolver

	for _, provider := range viper.GetStringSlice("directory.providers") {
		switch provider {
		case "nominatim":
			client, err := nominatim.New(nominatim.Config{
				URL:               viper.GetString("nominatim.url"),
				UserAgent:         viper.GetString("directory.user_agent"),
				RequestsPerSecond: viper.GetFloat64("nominatim.rps"),
				Timeout:           viper.GetDuration("flow.timeout"),
				HTTPClient:        httpClient,
			})
			if err != nil {
				return nil, nil, err
			}
			directories = append(directories, metrics.InstrumentDirectory(provider, client))
			resolvers = append(resolvers, geo.NewNominatimLocationResolver(client))
		case "google":
			client, err := geoinfo.New(viper.GetString("google.apikey"))
			if err != nil {
				return nil, nil, err
			}
			directories = append(directories, metrics.InstrumentDirectory(provider, client))
			resolvers = append(resolvers, geo.NewGeocodingLocationResolver(client))
		default:
			return nil, nil, fmt.Errorf("unknown directory provider: %s", provider)
		}
	}

	return geo.NewMultipleDirectory(directories...), geo.NewMultipleLocationResolver(resolvers...), nil
}

func loadOrganizations() []schema.Organization {
	var organizations []schema.Organization
	if err := viper.UnmarshalKey("organizations", &organizations); err != nil {
		log.WithField("prefix", "init").WithError(err).Warn("invalid organizations config, use defaults")
		return nil
	}
	return organizations
}

func loadClients() map[string]int {
	clients := make(map[string]int)
	for clientType := range viper.GetStringMap("clients") {
		clients[clientType] = viper.GetInt("clients." + clientType + ".minimum_client_version")
	}
	return clients
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown mobile api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if ormDB != nil {
			log.Info("Shutting down db store")
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		if mongoClient != nil {
			log.Info("Shutting down mongo store")
			if err := mongoClient.Disconnect(ctx); err != nil {
				log.Error(err)
			}
		}

		sentry.Flush(5 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	// Load JWT private key
	jwtSecretByte, err := ioutil.ReadFile(viper.GetString("jwt.keyfile"))
	if err != nil {
		log.Panic(err)
	}
	jwtPrivateKey, err := jwt.ParseRSAPrivateKeyFromPEMWithPassword(jwtSecretByte, viper.GetString("jwt.password"))
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded global jwt key")

	bundle, err := utils.NewI18NBundle(viper.GetString("i18n.dir"))
	if err != nil {
		log.Panic(err)
	}

	// Init redis
	var conf = &machineryconf.Config{
		Broker:        viper.GetString("redis.conn"),
		DefaultQueue:  background.DefaultQueue,
		ResultBackend: viper.GetString("redis.conn"),
	}
	machineryServer, err := machinery.NewServer(conf)
	if err != nil {
		log.Panic(err)
	}

	jwtExpire := time.Duration(viper.GetInt("jwt.expire")) * time.Hour

	ormDB, err = gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		log.Panic(err)
	}

	records, err := newRecordStore(initialCtx, httpClient)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Initialized record store: ", viper.GetString("record.backend"))

	directory, resolver, err := newGeoProviders(httpClient)
	if err != nil {
		log.Panic(err)
	}

	metrics.Register()

	// Init http server
	server = api.NewServer(
		api.Config{
			Version:       viper.GetString("server.version"),
			MetricAPIKey:  viper.GetString("server.apikey.metric"),
			JWTExpire:     jwtExpire,
			Clients:       loadClients(),
			Organizations: loadOrganizations(),
			Docs:          viper.GetStringMap("docs"),
			Flow: flow.Config{
				Collection:    viper.GetString("record.collection"),
				Timeout:       viper.GetDuration("flow.timeout"),
				Country:       viper.GetString("directory.country"),
				SearchLimit:   viper.GetInt("directory.limit"),
				MaxCategories: viper.GetInt("directory.max_categories"),
			},
		},
		api.Backends{
			Sessions:  store.NewAccountStore(ormDB, jwtExpire),
			Records:   records,
			Directory: directory,
			Resolver:  resolver,
			Enqueuer:  background.NewEnqueuer(machineryServer),
		},
		jwtPrivateKey,
		bundle)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
