package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BBox is the stored form of a user-drawn region, in degrees.
type BBox struct {
	North float64 `bson:"north" json:"north"`
	South float64 `bson:"south" json:"south"`
	East  float64 `bson:"east"  json:"east"`
	West  float64 `bson:"west"  json:"west"`
}

// AOI — a saved area of interest with farmer-provided metadata. Analysis
// results are NOT stored here; they live in the "reports" collection
// (see models/report.go).
type AOI struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId"      json:"ownerId"`
	Name      string             `bson:"name"         json:"name"`
	BBox      BBox               `bson:"bbox"         json:"bbox"`
	CreatedAt time.Time          `bson:"createdAt"    json:"createdAt"`

	// Visual
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`

	// Farmer-facing metadata
	Meta *AOIMeta `bson:"meta,omitempty" json:"meta,omitempty"`
}

type AOIMeta struct {
	AreaHa *float64 `bson:"areaHa,omitempty" json:"areaHa,omitempty"` // area in hectares
	Notes  string   `bson:"notes,omitempty"  json:"notes,omitempty"`
	Crop   string   `bson:"crop,omitempty"   json:"crop,omitempty"` // crop type - wheat | corn | rice | soybean
}
