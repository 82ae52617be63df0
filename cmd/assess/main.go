// Command assess is the interactive terminal front end: it trains a model
// from the labeled dataset and prompts for one patient's measurements at a
// time.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"heartrisk/ml"
)

func main() {
	dataPath := flag.String("data", "./data/heart_disease_data.csv", "labeled dataset CSV")
	splitRatio := flag.Float64("split_ratio", ml.DefaultSplitRatio, "holdout fraction")
	seed := flag.Int64("seed", ml.DefaultSeed, "stratified split seed")
	flag.Parse()

	ds, err := ml.LoadDataset(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	model, accuracy, err := ml.Train(ds, *splitRatio, *seed)
	if err != nil {
		log.Fatalf("failed to train model: %v", err)
	}
	fmt.Printf("Model trained on %d records, holdout accuracy %.3f\n", ds.Len(), accuracy)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		vector, ok := promptVector(scanner)
		if !ok {
			return
		}

		result, err := ml.Predict(model, vector)
		if err != nil {
			fmt.Printf("prediction failed: %v\n", err)
			continue
		}
		printResult(result)

		if !promptYesNo(scanner, "Would you like to make another assessment? (y/n): ") {
			return
		}
	}
}

// promptVector collects one value per schema field, re-prompting until the
// input parses and passes range validation. Returns ok=false on EOF.
func promptVector(scanner *bufio.Scanner) ([]float64, bool) {
	fmt.Println()
	fmt.Println("HEART DISEASE RISK ASSESSMENT")
	fmt.Println("Please provide the following information:")

	specs := ml.Schema()
	vector := make([]float64, 0, ml.FieldCount)
	for _, spec := range specs {
		for {
			fmt.Printf("%s: ", ml.FieldDescription(spec.Name))
			if !scanner.Scan() {
				return nil, false
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
			if err != nil {
				fmt.Println("  please enter a valid number")
				continue
			}
			if value < spec.Min || value > spec.Max {
				fmt.Printf("  please enter a value between %g and %g\n", spec.Min, spec.Max)
				continue
			}
			if spec.Kind != ml.Continuous && value != math.Trunc(value) {
				fmt.Println("  please enter a whole number")
				continue
			}
			vector = append(vector, value)
			break
		}
	}
	return vector, true
}

func printResult(result *ml.PredictionResult) {
	fmt.Println()
	fmt.Println("ASSESSMENT RESULT")
	if result.Label == 0 {
		fmt.Printf("  The model indicates a LOW risk of heart disease (confidence %.1f%%)\n", result.Confidence*100)
	} else {
		fmt.Printf("  The model indicates a HIGH risk of heart disease (confidence %.1f%%)\n", result.Confidence*100)
	}
	fmt.Printf("  Risk score: %.1f%%\n", result.RiskScore)
	fmt.Printf("  Risk tier:  %s\n", result.Tier)
	fmt.Println()
	fmt.Println("This assessment is for educational purposes only.")
	fmt.Println("Always consult healthcare professionals for medical advice.")
}

func promptYesNo(scanner *bufio.Scanner, prompt string) bool {
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Println("  please enter 'y' or 'n'")
		}
	}
}
