package ml

import "math"

// FieldKind classifies a clinical measurement.
type FieldKind int

const (
	Categorical FieldKind = iota
	Count
	Continuous
)

// FieldCount is the fixed width of a feature vector.
const FieldCount = 13

// FieldSpec declares one clinical measurement and its accepted range.
type FieldSpec struct {
	Name string
	Kind FieldKind
	Min  float64
	Max  float64
}

// schema is the canonical ordered feature table. Training columns and
// prediction inputs are both reordered to this order, so a column mix-up
// surfaces as a schema error instead of a silently wrong prediction.
var schema = []FieldSpec{
	{Name: "age", Kind: Count, Min: 1, Max: 120},
	{Name: "sex", Kind: Categorical, Min: 0, Max: 1},
	{Name: "cp", Kind: Categorical, Min: 0, Max: 3},
	{Name: "trestbps", Kind: Count, Min: 50, Max: 300},
	{Name: "chol", Kind: Count, Min: 100, Max: 600},
	{Name: "fbs", Kind: Categorical, Min: 0, Max: 1},
	{Name: "restecg", Kind: Categorical, Min: 0, Max: 2},
	{Name: "thalach", Kind: Count, Min: 50, Max: 250},
	{Name: "exang", Kind: Categorical, Min: 0, Max: 1},
	{Name: "oldpeak", Kind: Continuous, Min: 0, Max: 10},
	{Name: "slope", Kind: Categorical, Min: 0, Max: 2},
	{Name: "ca", Kind: Count, Min: 0, Max: 4},
	{Name: "thal", Kind: Categorical, Min: 0, Max: 3},
}

// fieldDescriptions holds prompt text for interactive front ends.
var fieldDescriptions = map[string]string{
	"age":      "Age (years)",
	"sex":      "Sex (0: Female, 1: Male)",
	"cp":       "Chest Pain Type (0: Typical angina, 1: Atypical angina, 2: Non-anginal pain, 3: Asymptomatic)",
	"trestbps": "Resting Blood Pressure (mm Hg)",
	"chol":     "Serum Cholesterol (mg/dl)",
	"fbs":      "Fasting Blood Sugar > 120 mg/dl (0: False, 1: True)",
	"restecg":  "Resting ECG Results (0: Normal, 1: ST-T wave abnormality, 2: Left ventricular hypertrophy)",
	"thalach":  "Maximum Heart Rate Achieved",
	"exang":    "Exercise Induced Angina (0: No, 1: Yes)",
	"oldpeak":  "ST Depression Induced by Exercise",
	"slope":    "Slope of Peak Exercise ST Segment (0: Upsloping, 1: Flat, 2: Downsloping)",
	"ca":       "Number of Major Vessels Colored by Fluoroscopy (0-4)",
	"thal":     "Thalassemia (0: Normal, 1: Fixed defect, 2: Reversible defect, 3: Not described)",
}

// Schema returns a copy of the canonical feature table.
func Schema() []FieldSpec {
	specs := make([]FieldSpec, len(schema))
	copy(specs, schema)
	return specs
}

// FieldNames returns the canonical feature order.
func FieldNames() []string {
	names := make([]string, len(schema))
	for i, spec := range schema {
		names[i] = spec.Name
	}
	return names
}

// FieldDescription returns the human-readable description for a field,
// or the field name itself when none is declared.
func FieldDescription(name string) string {
	if desc, ok := fieldDescriptions[name]; ok {
		return desc
	}
	return name
}

// Validate checks a feature vector against the schema: exact field count,
// per-field range membership, and integer coding for non-continuous fields.
func Validate(vector []float64) error {
	if len(vector) != FieldCount {
		return &ValidationError{Reason: ReasonCount, Value: float64(len(vector))}
	}
	for i, spec := range schema {
		value := vector[i]
		if math.IsNaN(value) || value < spec.Min || value > spec.Max {
			return &ValidationError{Field: spec.Name, Reason: ReasonRange, Value: value}
		}
		if spec.Kind != Continuous && value != math.Trunc(value) {
			return &ValidationError{Field: spec.Name, Reason: ReasonInteger, Value: value}
		}
	}
	return nil
}
