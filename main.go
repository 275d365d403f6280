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

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"googlemaps.github.io/maps"

	"github.com/raksh/borewell-capture/api"
	"github.com/raksh/borewell-capture/external/registry"
	"github.com/raksh/borewell-capture/form"
	"github.com/raksh/borewell-capture/geo"
	"github.com/raksh/borewell-capture/store"
	"github.com/raksh/borewell-capture/utils"
)

var (
	server      *api.Server
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
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("registry.url", "http://localhost:8000")
	viper.SetDefault("registry.timeout", 30*time.Second)
	viper.SetDefault("locator.provider", "none")
	viper.SetDefault("resolver.mongo.database", "borewell")
	viper.SetDefault("i18n.dir", "./i18n")

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
	viper.SetEnvPrefix("borewell")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func newLocator() (geo.Locator, error) {
	return geo.NewLocator(geo.LocatorConfig{
		Provider:     viper.GetString("locator.provider"),
		GoogleAPIKey: viper.GetString("locator.google.apikey"),
		Latitude:     viper.GetFloat64("locator.static.latitude"),
		Longitude:    viper.GetFloat64("locator.static.longitude"),
		Accuracy:     viper.GetFloat64("locator.static.accuracy"),
	})
}

// newResolver chains the configured suggestion sources: the boundary
// database first, then reverse geocoding. It returns nil when neither is set.
func newResolver(ctx context.Context) (geo.LocationResolver, store.Pinger, error) {
	var resolvers []geo.LocationResolver
	var pinger store.Pinger

	if conn := viper.GetString("resolver.mongo.conn"); conn != "" {
		opts := options.Client().ApplyURI(conn)
		opts.SetMaxPoolSize(viper.GetUint64("resolver.mongo.pool"))
		client, err := mongo.NewClient(opts)
		if nil != err {
			return nil, nil, fmt.Errorf("create mongo client with error: %s", err)
		}

		if err := client.Connect(ctx); nil != err {
			return nil, nil, fmt.Errorf("connect mongo database with error: %s", err)
		}
		mongoClient = client

		database := viper.GetString("resolver.mongo.database")
		resolvers = append(resolvers, geo.NewMongodbLocationResolver(client, database))
		pinger = store.NewMongoPinger(client)
	}

	if key := viper.GetString("resolver.google.apikey"); key != "" {
		client, err := maps.NewClient(maps.WithAPIKey(key))
		if err != nil {
			return nil, nil, err
		}
		resolvers = append(resolvers, geo.NewGeocodingLocationResolver(client))
	}

	if len(resolvers) == 0 {
		return nil, pinger, nil
	}
	return geo.NewMultipleLocationResolver(resolvers...), pinger, nil
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
			log.Info("Shutdown form api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if mongoClient != nil {
			log.Info("Disconnecting boundary database")
			if err := mongoClient.Disconnect(ctx); err != nil {
				log.Error(err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

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

	if err := utils.InitI18NBundle(viper.GetString("i18n.dir"), form.Messages...); err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded messages")

	locator, err := newLocator()
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Locator: ", viper.GetString("locator.provider"))

	resolver, pinger, err := newResolver(initialCtx)
	if err != nil {
		log.Panic(err)
	}

	httpClient := &http.Client{
		Timeout: viper.GetDuration("registry.timeout"),
	}
	registrar := registry.New(viper.GetString("registry.url"), httpClient)
	log.WithField("prefix", "init").Info("Registry: ", viper.GetString("registry.url"))

	metrics, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix: "borewell",
	}, 10*time.Second)
	defer closer.Close()

	// Init http server
	server = api.NewServer(registrar, locator, resolver, pinger, metrics)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
