package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/raksh/borewell-capture/schema"
)

func init() {
	viper.SetDefault("resolver.mongo.database", "borewell")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("borewell")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	schema.NewMongoDBIndexer(
		viper.GetString("resolver.mongo.conn"),
		viper.GetString("resolver.mongo.database"),
	).IndexAll()
}
