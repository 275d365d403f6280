package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raksh/borewell-capture/schema"
	"github.com/raksh/borewell-capture/share/geojson"
)

func init() {
	viper.SetDefault("resolver.mongo.database", "borewell")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("borewell")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var file, country string
	keys := geojson.DefaultPropertyKeys

	flag.StringVar(&file, "f", "india-boundary.json", "GeoJSON FeatureCollection of administrative areas")
	flag.StringVar(&country, "country", "India", "country of every imported area")
	flag.StringVar(&keys.State, "state-key", keys.State, "property holding the state name")
	flag.StringVar(&keys.District, "district-key", keys.District, "property holding the district name")
	flag.StringVar(&keys.Block, "block-key", keys.Block, "property holding the block name")
	flag.StringVar(&keys.Village, "village-key", keys.Village, "property holding the village name")
	flag.Parse()

	ctx := context.Background()
	opts := options.Client().ApplyURI(viper.GetString("resolver.mongo.conn"))
	client, err := mongo.NewClient(opts)
	if err != nil {
		panic(err)
	}
	if err := client.Connect(ctx); err != nil {
		panic(err)
	}

	dbName := viper.GetString("resolver.mongo.database")

	r, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	defer r.Close()

	boundaries, err := geojson.ReadBoundaries(r, country, keys)
	if err != nil {
		panic(err)
	}

	if err := geojson.ImportBoundaries(ctx, client, dbName, boundaries); err != nil {
		panic(err)
	}

	if err := schema.NewMongoDBIndexer(viper.GetString("resolver.mongo.conn"), dbName).IndexBoundaryCollection(); err != nil {
		panic(err)
	}
}
