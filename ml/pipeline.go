package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultSplitRatio is the holdout fraction used when callers pass a
// non-positive ratio.
const DefaultSplitRatio = 0.2

// DefaultSeed is the canonical split seed.
const DefaultSeed = 42

// Split holds the index partitions of a stratified train/holdout split.
type Split struct {
	Train   []int
	Holdout []int
}

// StratifiedSplit partitions dataset indices so each class keeps the full
// dataset's proportions in both partitions. The same dataset, ratio and seed
// always produce the same partitions.
func StratifiedSplit(labels []int, splitRatio float64, seed int64) (*Split, error) {
	if splitRatio <= 0 || splitRatio >= 1 {
		splitRatio = DefaultSplitRatio
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	rnd := rand.New(rand.NewSource(seed))
	split := &Split{}
	// Fixed class order keeps the shuffle sequence reproducible.
	for _, class := range []int{0, 1} {
		indices := byClass[class]
		shuffled := make([]int, len(indices))
		copy(shuffled, indices)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		holdoutCount := int(math.Round(float64(len(shuffled)) * splitRatio))
		trainCount := len(shuffled) - holdoutCount
		if holdoutCount < 2 || trainCount < 2 {
			return nil, fmt.Errorf("%w: class %d has %d records", ErrInsufficientData, class, len(shuffled))
		}
		split.Holdout = append(split.Holdout, shuffled[:holdoutCount]...)
		split.Train = append(split.Train, shuffled[holdoutCount:]...)
	}
	return split, nil
}

// Train fits a logistic-regression model on a stratified train partition and
// reports its accuracy on the holdout partition.
func Train(ds *Dataset, splitRatio float64, seed int64) (*LogisticRegression, float64, error) {
	split, err := StratifiedSplit(ds.Labels(), splitRatio, seed)
	if err != nil {
		return nil, 0, err
	}

	features := ds.Features()
	labels := ds.Labels()

	trainX := make([][]float64, len(split.Train))
	trainY := make([]int, len(split.Train))
	for i, idx := range split.Train {
		trainX[i] = features[idx]
		trainY[i] = labels[idx]
	}

	model := NewLogisticRegression()
	if err := model.Train(trainX, trainY); err != nil {
		return nil, 0, err
	}

	correct := 0
	for _, idx := range split.Holdout {
		label, _, err := model.Predict(features[idx])
		if err != nil {
			return nil, 0, err
		}
		if label == labels[idx] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(split.Holdout))
	return model, accuracy, nil
}
