package ml

import (
	"errors"
	"testing"
)

func TestPredictNilModel(t *testing.T) {
	_, err := Predict(nil, validVector())
	if !errors.Is(err, ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady, got %v", err)
	}
}

func TestPredictRejectsOutOfRangeAge(t *testing.T) {
	model := trainedModel(t)
	vector := validVector()
	vector[0] = 150

	_, err := Predict(model, vector)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "age" || verr.Reason != ReasonRange {
		t.Fatalf("unexpected error detail: %+v", verr)
	}
}

func TestPredictPure(t *testing.T) {
	model := trainedModel(t)
	first, err := Predict(model, validVector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Predict(model, validVector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *first != *second {
		t.Fatalf("repeated predictions differ: %+v vs %+v", first, second)
	}
}

func TestPredictResultDerivedFields(t *testing.T) {
	model := trainedModel(t)
	result, err := Predict(model, validVector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	max := result.ProbHealthy
	if result.ProbDisease > max {
		max = result.ProbDisease
	}
	if result.Confidence != max {
		t.Fatalf("confidence %f is not the max probability", result.Confidence)
	}
	if result.RiskScore != result.ProbDisease*100 {
		t.Fatalf("risk score %f does not match disease probability %f", result.RiskScore, result.ProbDisease)
	}
	if result.Tier != Tier(result.RiskScore) {
		t.Fatalf("tier %s does not match score %f", result.Tier, result.RiskScore)
	}
	if result.Label != 0 && result.Label != 1 {
		t.Fatalf("label must be binary, got %d", result.Label)
	}
}
