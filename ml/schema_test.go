package ml

import (
	"errors"
	"testing"
)

func validVector() []float64 {
	return []float64{61, 1, 0, 148, 203, 0, 1, 161, 0, 0, 2, 1, 3}
}

func TestValidateAcceptsValidVector(t *testing.T) {
	if err := Validate(validVector()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFieldCount(t *testing.T) {
	err := Validate([]float64{61, 1, 0})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Reason != ReasonCount {
		t.Fatalf("expected count reason, got %s", verr.Reason)
	}
}

func TestValidateRanges(t *testing.T) {
	cases := []struct {
		name  string
		index int
		value float64
		field string
	}{
		{"age too high", 0, 150, "age"},
		{"age too low", 0, 0, "age"},
		{"sex out of codes", 1, 2, "sex"},
		{"chest pain out of codes", 2, 4, "cp"},
		{"resting bp too low", 3, 30, "trestbps"},
		{"cholesterol too high", 4, 700, "chol"},
		{"st depression negative", 9, -0.5, "oldpeak"},
		{"vessel count too high", 11, 5, "ca"},
	}

	for _, tc := range cases {
		vector := validVector()
		vector[tc.index] = tc.value
		err := Validate(vector)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
		if verr.Reason != ReasonRange {
			t.Fatalf("%s: expected range reason, got %s", tc.name, verr.Reason)
		}
	}
}

func TestValidateIntegerCoding(t *testing.T) {
	vector := validVector()
	vector[2] = 1.5 // cp is categorical
	err := Validate(vector)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "cp" || verr.Reason != ReasonInteger {
		t.Fatalf("unexpected error detail: %+v", verr)
	}

	// oldpeak is continuous, fractional values are fine
	vector = validVector()
	vector[9] = 2.3
	if err := Validate(vector); err != nil {
		t.Fatalf("unexpected error for fractional oldpeak: %v", err)
	}
}

func TestFieldNamesOrder(t *testing.T) {
	want := []string{"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg", "thalach", "exang", "oldpeak", "slope", "ca", "thal"}
	names := FieldNames()
	if len(names) != FieldCount {
		t.Fatalf("expected %d names, got %d", FieldCount, len(names))
	}
	for i, name := range names {
		if name != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], name)
		}
	}
}
