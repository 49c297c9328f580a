// Package waterquality defines the water sample measurements accepted by the
// service, their validation rules and the fixed feature order the classifier
// consumes.
package waterquality

import (
	"fmt"
)

// FeatureCount is the number of measurements in a sample.
const FeatureCount = 9

// FeatureNames lists the measurement names in classifier input order.
var FeatureNames = [FeatureCount]string{
	"ph",
	"hardness",
	"solids",
	"chloramines",
	"sulfate",
	"conductivity",
	"organic_carbon",
	"trihalomethanes",
	"turbidity",
}

// Potability is the binary classifier output.
type Potability int

const (
	NotPotable Potability = 0
	Potable    Potability = 1
)

// Valid reports whether p is one of the two labels.
func (p Potability) Valid() bool {
	return p == NotPotable || p == Potable
}

func (p Potability) String() string {
	switch p {
	case NotPotable:
		return "not potable"
	case Potable:
		return "potable"
	default:
		return fmt.Sprintf("Potability(%d)", int(p))
	}
}

// Measurements is a validated sample.
type Measurements struct {
	PH              float64 `json:"ph"`
	Hardness        float64 `json:"hardness"`
	Solids          float64 `json:"solids"`
	Chloramines     float64 `json:"chloramines"`
	Sulfate         float64 `json:"sulfate"`
	Conductivity    float64 `json:"conductivity"`
	OrganicCarbon   float64 `json:"organic_carbon"`
	Trihalomethanes float64 `json:"trihalomethanes"`
	Turbidity       float64 `json:"turbidity"`
}

// Vector returns the measurements in FeatureNames order.
func (m Measurements) Vector() []float64 {
	return []float64{
		m.PH,
		m.Hardness,
		m.Solids,
		m.Chloramines,
		m.Sulfate,
		m.Conductivity,
		m.OrganicCarbon,
		m.Trihalomethanes,
		m.Turbidity,
	}
}

// FromVector builds Measurements from a vector in FeatureNames order.
func FromVector(v []float64) (Measurements, error) {
	if len(v) != FeatureCount {
		return Measurements{}, fmt.Errorf("expected %d features, got %d", FeatureCount, len(v))
	}
	return Measurements{
		PH:              v[0],
		Hardness:        v[1],
		Solids:          v[2],
		Chloramines:     v[3],
		Sulfate:         v[4],
		Conductivity:    v[5],
		OrganicCarbon:   v[6],
		Trihalomethanes: v[7],
		Turbidity:       v[8],
	}, nil
}
