package geojson

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/raksh/borewell-capture/consts"
	"github.com/raksh/borewell-capture/schema"
)

const logPrefix = "geojson"

var (
	ErrUnsupportedGeometry = fmt.Errorf("only polygon and multipolygon boundaries are supported")
	ErrUnnamedBoundary     = fmt.Errorf("boundary has no administrative name")
)

// PropertyKeys names the feature properties holding each administrative
// level. Empty keys are not read.
type PropertyKeys struct {
	State    string
	District string
	Block    string
	Village  string
}

// DefaultPropertyKeys match the Survey of India district and sub-district
// layers.
var DefaultPropertyKeys = PropertyKeys{
	State:    "STATE",
	District: "DISTRICT",
	Block:    "BLOCK",
	Village:  "VILLAGE",
}

// ReadBoundaries converts every feature of a FeatureCollection into a boundary.
// Known state spellings are normalized to their current English names.
func ReadBoundaries(r io.Reader, country string, keys PropertyKeys) ([]schema.Boundary, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	boundaries := make([]schema.Boundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		b := schema.Boundary{
			Country:  country,
			State:    property(f, keys.State),
			District: property(f, keys.District),
			Block:    property(f, keys.Block),
			Village:  property(f, keys.Village),
		}

		if name, err := consts.InStateName(b.State); err == nil {
			b.State = name
		}

		if b.State == "" && b.District == "" && b.Block == "" && b.Village == "" {
			return nil, fmt.Errorf("feature #%d: %w", i, ErrUnnamedBoundary)
		}

		switch {
		case f.Geometry == nil:
			return nil, fmt.Errorf("feature #%d: %w", i, ErrUnsupportedGeometry)
		case f.Geometry.IsPolygon():
			b.Geometry = schema.Geometry{Type: string(f.Geometry.Type), Coordinates: f.Geometry.Polygon}
		case f.Geometry.IsMultiPolygon():
			b.Geometry = schema.Geometry{Type: string(f.Geometry.Type), Coordinates: f.Geometry.MultiPolygon}
		default:
			return nil, fmt.Errorf("feature #%d (%s): %w", i, f.Geometry.Type, ErrUnsupportedGeometry)
		}

		boundaries = append(boundaries, b)
	}

	return boundaries, nil
}

func property(f *geojson.Feature, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(f.PropertyMustString(key, ""))
}

// ImportBoundaries stores boundaries for point lookups.
func ImportBoundaries(ctx context.Context, client *mongo.Client, dbName string, boundaries []schema.Boundary) error {
	if len(boundaries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(boundaries))
	for i, b := range boundaries {
		docs[i] = b
	}

	if _, err := client.Database(dbName).Collection(schema.BoundaryCollection).InsertMany(ctx, docs); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"count":  len(docs),
	}).Info("boundaries imported")
	return nil
}
