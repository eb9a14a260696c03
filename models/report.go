package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gaiaeye/analytics"
)

// AnalysisReport is one scored observation of a region, persisted to the
// "reports" collection. Ad-hoc analyses (no saved AOI) are not persisted;
// every stored report belongs to an owner and an AOI.
type AnalysisReport struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId"       json:"ownerId"`
	AOIID     primitive.ObjectID `bson:"aoiId"         json:"aoiId"`
	BBox      BBox               `bson:"bbox"          json:"bbox"`
	DateStart string             `bson:"dateStart"     json:"dateStart"` // YYYY-MM-DD
	DateEnd   string             `bson:"dateEnd"       json:"dateEnd"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	AreaHa    float64            `bson:"areaHa"        json:"areaHa"`

	// Engine output
	Report analytics.ScoreReport      `bson:"report"                json:"report"`
	Raw    analytics.ZonalStatistics  `bson:"rawIndices,omitempty"  json:"rawIndices,omitempty"`
	Trend  *analytics.TrendAnalysis   `bson:"trend,omitempty"       json:"trend,omitempty"`
	Zones  []analytics.Zone           `bson:"zones,omitempty"       json:"zones,omitempty"`

	// Narration. AIGenerated is false when the rule-based writer
	// produced the prose.
	Insight        string `bson:"insight,omitempty"        json:"insight,omitempty"`
	DetailedReport string `bson:"detailedReport,omitempty" json:"detailedReport,omitempty"`
	AIGenerated    bool   `bson:"aiGenerated"              json:"aiGenerated"`
}
