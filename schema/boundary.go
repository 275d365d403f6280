package schema

const (
	BoundaryCollection = "boundary"
)

type Geometry struct {
	Type        string      `bson:"type" json:"type"`
	Coordinates interface{} `bson:"coordinates" json:"coordinates"`
}

// Boundary is an administrative area polygon used to name a point.
type Boundary struct {
	Country  string   `bson:"country"`
	State    string   `bson:"state"`
	District string   `bson:"district"`
	Block    string   `bson:"block"`
	Village  string   `bson:"village"`
	Geometry Geometry `bson:"geometry"`
}
