package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"googlemaps.github.io/maps"

	"github.com/raksh/borewell-capture/schema"
)

var (
	ErrNoGeoInfoFound = fmt.Errorf("no geo information found")
)

const resolverTimeout = 5 * time.Second

// LocationResolver - interface for naming the administrative areas of a point
type LocationResolver interface {
	GetPoliticalInfo(schema.Location) (schema.Location, error)
}

type MultipleResolverErrors struct {
	errors []error
}

func (e *MultipleResolverErrors) Error() string {
	errorStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errorStrings[i] = fmt.Sprintf("#%d: %s", i, err.Error())
	}
	return strings.Join(errorStrings, "\n")
}

func NewMultipleResolverErrors(errors []error) *MultipleResolverErrors {
	return &MultipleResolverErrors{
		errors: errors,
	}
}

type GeocodingLocationResolver struct {
	client *maps.Client
}

func NewGeocodingLocationResolver(client *maps.Client) *GeocodingLocationResolver {
	return &GeocodingLocationResolver{
		client: client,
	}
}

func (g *GeocodingLocationResolver) GetPoliticalInfo(loc schema.Location) (schema.Location, error) {
	if loc.District != "" {
		return loc, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolverTimeout)
	defer cancel()

	geos, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: loc.Latitude,
			Lng: loc.Longitude,
		},
		Language: "en",
	})
	if nil != err {
		return loc, err
	}

	if len(geos) == 0 {
		return loc, ErrNoGeoInfoFound
	}

	loc.AddressComponent = addressFromGeocode(geos[0])
	if loc.District == "" && loc.State == "" {
		return schema.Location{Latitude: loc.Latitude, Longitude: loc.Longitude}, ErrNoGeoInfoFound
	}

	return loc, nil
}

// addressFromGeocode maps Google address components onto the Indian
// state / district / block (tehsil) / village hierarchy.
func addressFromGeocode(r maps.GeocodingResult) schema.AddressComponent {
	var a schema.AddressComponent
	for _, c := range r.AddressComponents {
		if len(c.Types) == 0 {
			continue
		}

		switch c.Types[0] {
		case "country":
			a.Country = c.LongName
		case "administrative_area_level_1":
			a.State = c.LongName
		case "administrative_area_level_2":
			a.District = c.LongName
		case "administrative_area_level_3":
			a.Block = c.LongName
		case "locality", "sublocality", "sublocality_level_1":
			if a.Village == "" {
				a.Village = c.LongName
			}
		}
	}
	a.Address = r.FormattedAddress
	return a
}

type MongodbLocationResolver struct {
	client   *mongo.Client
	database string
}

func NewMongodbLocationResolver(client *mongo.Client, database string) *MongodbLocationResolver {
	return &MongodbLocationResolver{
		client:   client,
		database: database,
	}
}

// GetPoliticalInfo merges the names of every boundary containing the point,
// so district, block and village polygons may live in separate documents.
func (g *MongodbLocationResolver) GetPoliticalInfo(location schema.Location) (schema.Location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), resolverTimeout)
	defer cancel()

	cur, err := g.client.Database(g.database).Collection(schema.BoundaryCollection).Find(ctx, bson.M{
		"geometry": bson.M{
			"$geoIntersects": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{location.Longitude, location.Latitude},
				},
			},
		},
	}, options.Find().SetProjection(bson.M{
		"country":  1,
		"state":    1,
		"district": 1,
		"block":    1,
		"village":  1,
	}))
	if err != nil {
		return schema.Location{}, err
	}
	defer cur.Close(ctx)

	var merged schema.AddressComponent
	found := false
	for cur.Next(ctx) {
		var address schema.AddressComponent
		if err := cur.Decode(&address); err != nil {
			return schema.Location{}, err
		}
		found = true
		mergeAddress(&merged, address)
	}
	if err := cur.Err(); err != nil {
		return schema.Location{}, err
	}

	if !found {
		return schema.Location{}, ErrNoGeoInfoFound
	}

	location.AddressComponent = merged
	return location, nil
}

func mergeAddress(dst *schema.AddressComponent, src schema.AddressComponent) {
	if dst.Country == "" {
		dst.Country = src.Country
	}
	if dst.State == "" {
		dst.State = src.State
	}
	if dst.District == "" {
		dst.District = src.District
	}
	if dst.Block == "" {
		dst.Block = src.Block
	}
	if dst.Village == "" {
		dst.Village = src.Village
	}
}

type MultipleLocationResolver struct {
	resolvers []LocationResolver
}

func NewMultipleLocationResolver(resolvers ...LocationResolver) *MultipleLocationResolver {
	return &MultipleLocationResolver{
		resolvers: resolvers,
	}
}

func (r *MultipleLocationResolver) GetPoliticalInfo(location schema.Location) (schema.Location, error) {
	var errors []error
	for _, resolver := range r.resolvers {
		result, err := resolver.GetPoliticalInfo(location)
		if err != nil {
			errors = append(errors, err)
		} else {
			return result, nil
		}
	}

	return schema.Location{}, NewMultipleResolverErrors(errors)
}
