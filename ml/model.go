package ml

import "errors"

// Model is a binary classifier over canonical feature vectors.
type Model interface {
	Train(features [][]float64, labels []int) error
	Predict(features []float64) (label int, probs [2]float64, err error)
	Save(path string) error
	Load(path string) error
}

// LoadModel restores a previously saved model of the given type.
func LoadModel(modelType, path string) (Model, error) {
	switch modelType {
	case "logistic":
		model := NewLogisticRegression()
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, errors.New("unsupported model type")
	}
}
