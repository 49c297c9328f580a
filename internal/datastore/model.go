// model.go defines the persisted water quality record
package datastore

import (
	"time"

	"github.com/tphakala/potability-go/internal/waterquality"
)

// WaterQuality is one prediction request and its result. Potability is always
// produced by the predictor; records are never updated after insert.
type WaterQuality struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PH              float64   `gorm:"column:ph;not null" json:"ph"`
	Hardness        float64   `gorm:"not null" json:"hardness"`
	Solids          float64   `gorm:"not null" json:"solids"`
	Chloramines     float64   `gorm:"not null" json:"chloramines"`
	Sulfate         float64   `gorm:"not null" json:"sulfate"`
	Conductivity    float64   `gorm:"not null" json:"conductivity"`
	OrganicCarbon   float64   `gorm:"not null" json:"organic_carbon"`
	Trihalomethanes float64   `gorm:"not null" json:"trihalomethanes"`
	Turbidity       float64   `gorm:"not null" json:"turbidity"`
	Potability      int       `gorm:"not null" json:"potability"`
	CreatedAt       time.Time `gorm:"index:idx_water_quality_created_at" json:"-"`
}

// TableName pins the table name to water_quality.
func (WaterQuality) TableName() string {
	return "water_quality"
}

// NewWaterQuality builds an unsaved record from measurements and their label.
func NewWaterQuality(m waterquality.Measurements, label waterquality.Potability) *WaterQuality {
	return &WaterQuality{
		PH:              m.PH,
		Hardness:        m.Hardness,
		Solids:          m.Solids,
		Chloramines:     m.Chloramines,
		Sulfate:         m.Sulfate,
		Conductivity:    m.Conductivity,
		OrganicCarbon:   m.OrganicCarbon,
		Trihalomethanes: m.Trihalomethanes,
		Turbidity:       m.Turbidity,
		Potability:      int(label),
	}
}

// Measurements returns the record's nine features.
func (w *WaterQuality) Measurements() waterquality.Measurements {
	return waterquality.Measurements{
		PH:              w.PH,
		Hardness:        w.Hardness,
		Solids:          w.Solids,
		Chloramines:     w.Chloramines,
		Sulfate:         w.Sulfate,
		Conductivity:    w.Conductivity,
		OrganicCarbon:   w.OrganicCarbon,
		Trihalomethanes: w.Trihalomethanes,
		Turbidity:       w.Turbidity,
	}
}
