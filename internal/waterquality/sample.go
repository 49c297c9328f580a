package waterquality

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tphakala/potability-go/internal/errors"
)

// ErrMalformed is returned by DecodeSample when the body is not a JSON object.
var ErrMalformed = errors.NewStd("malformed JSON body")

// Sample is a submitted record before validation. Pointers distinguish a
// missing field from an explicit zero.
type Sample struct {
	PH              *float64 `json:"ph"`
	Hardness        *float64 `json:"hardness"`
	Solids          *float64 `json:"solids"`
	Chloramines     *float64 `json:"chloramines"`
	Sulfate         *float64 `json:"sulfate"`
	Conductivity    *float64 `json:"conductivity"`
	OrganicCarbon   *float64 `json:"organic_carbon"`
	Trihalomethanes *float64 `json:"trihalomethanes"`
	Turbidity       *float64 `json:"turbidity"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every problem found in a sample, in feature order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Category lets the error builder and HTTP layer classify the error.
func (e *ValidationError) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryValidation
}

func (s *Sample) fieldRefs() [FeatureCount]**float64 {
	return [FeatureCount]**float64{
		&s.PH,
		&s.Hardness,
		&s.Solids,
		&s.Chloramines,
		&s.Sulfate,
		&s.Conductivity,
		&s.OrganicCarbon,
		&s.Trihalomethanes,
		&s.Turbidity,
	}
}

func (s *Sample) fields() [FeatureCount]*float64 {
	return [FeatureCount]*float64{
		s.PH,
		s.Hardness,
		s.Solids,
		s.Chloramines,
		s.Sulfate,
		s.Conductivity,
		s.OrganicCarbon,
		s.Trihalomethanes,
		s.Turbidity,
	}
}

// Validate checks that every measurement is present and finite and that ph
// is strictly positive.
func (s *Sample) Validate() (Measurements, error) {
	var problems []FieldError
	values := make([]float64, FeatureCount)

	for i, v := range s.fields() {
		name := FeatureNames[i]
		switch {
		case v == nil:
			problems = append(problems, FieldError{Field: name, Reason: "field required"})
		case math.IsNaN(*v) || math.IsInf(*v, 0):
			problems = append(problems, FieldError{Field: name, Reason: "must be a finite number"})
		case name == "ph" && *v <= 0:
			problems = append(problems, FieldError{Field: name, Reason: "must be greater than 0"})
		default:
			values[i] = *v
		}
	}

	if len(problems) > 0 {
		return Measurements{}, &ValidationError{Fields: problems}
	}
	return FromVector(values)
}

// Set assigns the named measurement. Names follow FeatureNames.
func (s *Sample) Set(name string, v float64) error {
	refs := s.fieldRefs()
	for i, feature := range FeatureNames {
		if feature == name {
			*refs[i] = &v
			return nil
		}
	}
	return errors.ValidationError(fmt.Sprintf("unknown measurement %q", name))
}

// NewSample wraps complete measurements as a Sample.
func NewSample(m Measurements) Sample {
	v := m.Vector()
	return Sample{
		PH:              &v[0],
		Hardness:        &v[1],
		Solids:          &v[2],
		Chloramines:     &v[3],
		Sulfate:         &v[4],
		Conductivity:    &v[5],
		OrganicCarbon:   &v[6],
		Trihalomethanes: &v[7],
		Turbidity:       &v[8],
	}
}

// DecodeSample reads a JSON object into a Sample. Syntax errors and non-object
// bodies wrap ErrMalformed. Values of the wrong JSON type yield a
// *ValidationError listing every rejected field, together with the problems
// Validate finds in the remaining fields. Unknown fields are ignored.
func DecodeSample(r io.Reader) (Sample, error) {
	var s Sample
	body, err := io.ReadAll(r)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return s, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return s, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		return s, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	typeErrors := make(map[string]FieldError)
	for i, dst := range s.fieldRefs() {
		name := FeatureNames[i]
		value, ok := lookupField(raw, name)
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			*dst = nil
			typeErrors[name] = FieldError{Field: name, Reason: "must be a number"}
		}
	}
	if len(typeErrors) == 0 {
		return s, nil
	}

	var rest *ValidationError
	if _, err := s.Validate(); err != nil {
		errors.As(err, &rest)
	}
	problems := make([]FieldError, 0, FeatureCount)
	for _, name := range FeatureNames {
		if fe, ok := typeErrors[name]; ok {
			problems = append(problems, fe)
			continue
		}
		if rest == nil {
			continue
		}
		for _, fe := range rest.Fields {
			if fe.Field == name {
				problems = append(problems, fe)
			}
		}
	}
	return s, &ValidationError{Fields: problems}
}

// lookupField finds key in raw, falling back to a case-insensitive match the
// way encoding/json matches struct fields.
func lookupField(raw map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if v, ok := raw[key]; ok {
		return v, true
	}
	for k, v := range raw {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
