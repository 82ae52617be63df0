package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"heartrisk/ml"
)

func main() {
	dataPath := flag.String("data", "./data/heart_disease_data.csv", "labeled dataset CSV")
	modelPath := flag.String("model_path", "./models/logistic.model", "model output path")
	splitRatio := flag.Float64("split_ratio", ml.DefaultSplitRatio, "holdout fraction")
	seed := flag.Int64("seed", ml.DefaultSeed, "stratified split seed")
	flag.Parse()

	ds, err := ml.LoadDataset(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	healthy, disease := ds.ClassCounts()
	log.Printf("loaded %d records (%d healthy, %d disease)", ds.Len(), healthy, disease)

	model, accuracy, err := ml.Train(ds, *splitRatio, *seed)
	if err != nil {
		log.Fatalf("failed to train model: %v", err)
	}
	log.Printf("holdout accuracy=%.3f", accuracy)

	if err := os.MkdirAll(filepath.Dir(*modelPath), 0o755); err != nil {
		log.Fatalf("failed to create model dir: %v", err)
	}
	if err := model.Save(*modelPath); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}

	fmt.Printf("model saved to %s\n", *modelPath)
}
