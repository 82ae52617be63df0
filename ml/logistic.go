package ml

import (
	"encoding/json"
	"errors"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

const (
	defaultMaxIter      = 1000
	defaultLearningRate = 0.1
	defaultTolerance    = 1e-7
)

// LogisticRegression is a binary classifier fitting a linear score plus bias
// through a sigmoid, minimising log-loss with full-batch gradient descent.
// Features are standardised with statistics from the training partition, so
// the optimiser is stable on raw clinical scales. Fitting is deterministic:
// weights start at zero and the iteration order is fixed.
type LogisticRegression struct {
	weights []float64
	bias    float64
	means   []float64
	stds    []float64

	maxIter      int
	learningRate float64
	tolerance    float64
}

// logisticState is the JSON persistence payload.
type logisticState struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Means   []float64 `json:"means"`
	Stds    []float64 `json:"stds"`
}

// NewLogisticRegression returns an untrained model with default optimiser
// settings.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		maxIter:      defaultMaxIter,
		learningRate: defaultLearningRate,
		tolerance:    defaultTolerance,
	}
}

// Trained reports whether the model holds fitted coefficients.
func (lr *LogisticRegression) Trained() bool {
	return len(lr.weights) > 0
}

// Coefficients returns a copy of the fitted weights and the bias term.
func (lr *LogisticRegression) Coefficients() ([]float64, float64) {
	weights := make([]float64, len(lr.weights))
	copy(weights, lr.weights)
	return weights, lr.bias
}

// Train fits the model on the given feature matrix and binary labels.
// If the iteration cap is reached before convergence the best-available fit
// is kept; non-convergence shows up in the reported accuracy, not as an
// error.
func (lr *LogisticRegression) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}

	n := len(features)
	d := len(features[0])
	lr.means, lr.stds = featureStats(features)

	flat := make([]float64, 0, n*d)
	for _, row := range features {
		if len(row) != d {
			return errors.New("ragged feature matrix")
		}
		for j, value := range row {
			flat = append(flat, (value-lr.means[j])/lr.stds[j])
		}
	}
	x := mat.NewDense(n, d, flat)

	y := mat.NewVecDense(n, nil)
	for i, label := range labels {
		if label == 1 {
			y.SetVec(i, 1)
		}
	}

	weights := mat.NewVecDense(d, nil)
	bias := 0.0
	score := mat.NewVecDense(n, nil)
	diff := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)

	prevLoss := math.Inf(1)
	for iter := 0; iter < lr.maxIter; iter++ {
		score.MulVec(x, weights)
		var loss float64
		var biasGrad float64
		for i := 0; i < n; i++ {
			p := sigmoid(score.AtVec(i) + bias)
			loss += logLoss(p, y.AtVec(i))
			diff.SetVec(i, p-y.AtVec(i))
			biasGrad += p - y.AtVec(i)
		}
		loss /= float64(n)

		grad.MulVec(x.T(), diff)
		weights.AddScaledVec(weights, -lr.learningRate/float64(n), grad)
		bias -= lr.learningRate * biasGrad / float64(n)

		if math.Abs(prevLoss-loss) < lr.tolerance {
			break
		}
		prevLoss = loss
	}

	lr.weights = make([]float64, d)
	copy(lr.weights, weights.RawVector().Data)
	lr.bias = bias
	return nil
}

// Predict returns the label (1 iff the disease probability is at least 0.5)
// and the class probabilities, index 0 healthy and index 1 disease.
func (lr *LogisticRegression) Predict(features []float64) (int, [2]float64, error) {
	if !lr.Trained() {
		return 0, [2]float64{}, ErrModelNotReady
	}
	if len(features) != len(lr.weights) {
		return 0, [2]float64{}, errors.New("feature vector width mismatch")
	}

	score := lr.bias
	for j, value := range features {
		score += lr.weights[j] * (value - lr.means[j]) / lr.stds[j]
	}
	p1 := sigmoid(score)
	probs := [2]float64{1 - p1, p1}
	if p1 >= 0.5 {
		return 1, probs, nil
	}
	return 0, probs, nil
}

// Save writes the fitted coefficients and scaler statistics as JSON.
func (lr *LogisticRegression) Save(path string) error {
	if !lr.Trained() {
		return ErrModelNotReady
	}
	payload, err := json.Marshal(logisticState{
		Weights: lr.weights,
		Bias:    lr.bias,
		Means:   lr.means,
		Stds:    lr.stds,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load restores a model saved with Save.
func (lr *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var state logisticState
	if err := json.Unmarshal(payload, &state); err != nil {
		return err
	}
	if len(state.Weights) == 0 || len(state.Weights) != len(state.Means) || len(state.Weights) != len(state.Stds) {
		return errors.New("invalid model state")
	}
	lr.weights = state.Weights
	lr.bias = state.Bias
	lr.means = state.Means
	lr.stds = state.Stds
	return nil
}

// featureStats computes per-column mean and standard deviation. Columns with
// zero variance get a unit std so standardisation stays defined.
func featureStats(features [][]float64) (means, stds []float64) {
	n := float64(len(features))
	d := len(features[0])
	means = make([]float64, d)
	stds = make([]float64, d)

	for _, row := range features {
		for j, value := range row {
			means[j] += value
		}
	}
	for j := range means {
		means[j] /= n
	}
	for _, row := range features {
		for j, value := range row {
			delta := value - means[j]
			stds[j] += delta * delta
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return means, stds
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// logLoss is the per-sample cross entropy, clamped away from log(0).
func logLoss(p, y float64) float64 {
	const eps = 1e-15
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	if y == 1 {
		return -math.Log(p)
	}
	return -math.Log(1 - p)
}
