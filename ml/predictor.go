package ml

// PredictionResult is the outcome of a single risk assessment.
type PredictionResult struct {
	Label       int      `json:"label"`
	ProbHealthy float64  `json:"prob_healthy"`
	ProbDisease float64  `json:"prob_disease"`
	Confidence  float64  `json:"confidence"`
	RiskScore   float64  `json:"risk_score"`
	Tier        RiskTier `json:"risk_tier"`
}

// Predict validates the vector against the feature schema and runs it
// through the model. It is a pure function of (model, vector): validation is
// repeated here because a miscoded input would otherwise produce a
// plausible-looking but meaningless probability.
func Predict(model Model, vector []float64) (*PredictionResult, error) {
	if model == nil {
		return nil, ErrModelNotReady
	}
	if err := Validate(vector); err != nil {
		return nil, err
	}

	label, probs, err := model.Predict(vector)
	if err != nil {
		return nil, err
	}

	confidence := probs[0]
	if probs[1] > confidence {
		confidence = probs[1]
	}
	score := probs[1] * 100
	return &PredictionResult{
		Label:       label,
		ProbHealthy: probs[0],
		ProbDisease: probs[1],
		Confidence:  confidence,
		RiskScore:   score,
		Tier:        Tier(score),
	}, nil
}
