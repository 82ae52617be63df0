package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heart.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDatasetCanonicalOrder(t *testing.T) {
	path := writeCSV(t, "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,target\n"+
		"61,1,0,148,203,0,1,161,0,0,2,1,3,1\n"+
		"45,0,1,120,240,0,0,170,0,1.4,1,0,2,0\n")

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ds.Len())
	}
	if ds.Labels()[0] != 1 || ds.Labels()[1] != 0 {
		t.Fatalf("unexpected labels: %v", ds.Labels())
	}
	if ds.Features()[0][0] != 61 || ds.Features()[1][9] != 1.4 {
		t.Fatalf("unexpected feature values")
	}
}

func TestLoadDatasetReordersColumns(t *testing.T) {
	// target first, thal before age: loader must map back to schema order.
	path := writeCSV(t, "target,thal,age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca\n"+
		"1,3,61,1,0,148,203,0,1,161,0,0,2,1\n")

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := ds.Features()[0]
	if row[0] != 61 {
		t.Fatalf("expected age 61 first, got %g", row[0])
	}
	if row[12] != 3 {
		t.Fatalf("expected thal 3 last, got %g", row[12])
	}
	if ds.Labels()[0] != 1 {
		t.Fatalf("expected label 1, got %d", ds.Labels()[0])
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDataNotFound) {
		t.Fatalf("expected ErrDataNotFound, got %v", err)
	}
}

func TestLoadDatasetMissingTarget(t *testing.T) {
	path := writeCSV(t, "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal\n"+
		"61,1,0,148,203,0,1,161,0,0,2,1,3\n")
	_, err := LoadDataset(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestLoadDatasetMissingColumn(t *testing.T) {
	path := writeCSV(t, "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,target\n"+
		"61,1,0,148,203,0,1,161,0,0,2,1,1\n")
	_, err := LoadDataset(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestLoadDatasetEmpty(t *testing.T) {
	path := writeCSV(t, "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,target\n")
	_, err := LoadDataset(path)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}
