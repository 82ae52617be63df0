// Package pipeline owns the training lifecycle: loading the dataset,
// fitting the model, and publishing the fitted snapshot to front ends.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"heartrisk/ml"
	"heartrisk/monitoring"
)

const cacheSize = 512

// Config controls where training data comes from and how it is split.
type Config struct {
	DataPath   string
	ModelPath  string // when set, the fitted model is saved here after training
	SplitRatio float64
	Seed       int64
}

// Snapshot is one immutable trained model together with its evaluation.
// A retrain produces a new Snapshot; coefficients are never updated in
// place.
type Snapshot struct {
	Model      *ml.LogisticRegression
	Accuracy   float64
	DataPoints int
	TrainedAt  time.Time
}

// Engine trains models and serves predictions against the latest published
// snapshot. Publication is a single pointer swap, so predictions running
// concurrently with a retrain keep observing the previous snapshot.
type Engine struct {
	config   Config
	logger   *zap.Logger
	hub      *monitoring.Hub
	snapshot atomic.Pointer[Snapshot]
	cache    *lru.Cache[string, *ml.PredictionResult]

	// OnTrained, when set, runs after each successful retrain.
	OnTrained func(*Snapshot)
}

// NewEngine creates an engine. hub may be nil when no monitor stream is
// wanted.
func NewEngine(config Config, logger *zap.Logger, hub *monitoring.Hub) (*Engine, error) {
	if config.DataPath == "" {
		return nil, fmt.Errorf("data path is required")
	}
	if config.SplitRatio <= 0 || config.SplitRatio >= 1 {
		config.SplitRatio = ml.DefaultSplitRatio
	}

	cache, err := lru.New[string, *ml.PredictionResult](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{config: config, logger: logger, hub: hub, cache: cache}, nil
}

// Snapshot returns the latest published snapshot, or nil before the first
// successful training run.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Retrain loads the dataset, fits a new model, and atomically publishes it.
// trigger names what caused the run (startup, api, watcher) for logs and
// monitor events.
func (e *Engine) Retrain(trigger string) (*Snapshot, error) {
	ds, err := ml.LoadDataset(e.config.DataPath)
	if err != nil {
		return nil, err
	}

	if e.hub != nil {
		e.hub.Publish(monitoring.TrainingStarted, monitoring.TrainingEvent{
			DataPoints: ds.Len(),
			SplitRatio: e.config.SplitRatio,
			Seed:       e.config.Seed,
			Trigger:    trigger,
		})
	}

	model, accuracy, err := ml.Train(ds, e.config.SplitRatio, e.config.Seed)
	if err != nil {
		return nil, err
	}

	if e.config.ModelPath != "" {
		if err := model.Save(e.config.ModelPath); err != nil {
			e.logger.Warn("failed to save model", zap.String("path", e.config.ModelPath), zap.Error(err))
		}
	}

	snap := &Snapshot{
		Model:      model,
		Accuracy:   accuracy,
		DataPoints: ds.Len(),
		TrainedAt:  time.Now().UTC(),
	}
	e.snapshot.Store(snap)
	// Cached results belong to the previous model.
	e.cache.Purge()

	e.logger.Info("model trained",
		zap.String("trigger", trigger),
		zap.Int("data_points", snap.DataPoints),
		zap.Float64("accuracy", snap.Accuracy))

	if e.hub != nil {
		e.hub.Publish(monitoring.TrainingFinished, monitoring.TrainingEvent{
			DataPoints: ds.Len(),
			SplitRatio: e.config.SplitRatio,
			Seed:       e.config.Seed,
			Accuracy:   accuracy,
			Trigger:    trigger,
		})
	}
	if e.OnTrained != nil {
		e.OnTrained(snap)
	}
	return snap, nil
}

// Assess validates the vector and predicts against the current snapshot.
// Identical vectors hit an LRU cache, which is sound because predictions
// are pure for a given snapshot.
func (e *Engine) Assess(vector []float64) (*ml.PredictionResult, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ml.ErrModelNotReady
	}

	key := cacheKey(vector)
	result, ok := e.cache.Get(key)
	if !ok {
		var err error
		result, err = ml.Predict(snap.Model, vector)
		if err != nil {
			return nil, err
		}
		e.cache.Add(key, result)
	}

	// Cache hits still count as served assessments on the monitor stream.
	if e.hub != nil {
		e.hub.Publish(monitoring.AssessmentMade, monitoring.AssessmentEvent{
			Label:     result.Label,
			RiskScore: result.RiskScore,
			RiskTier:  string(result.Tier),
		})
	}
	return result, nil
}

// TrainingConfig returns the engine's training configuration.
func (e *Engine) TrainingConfig() Config {
	return e.config
}

func cacheKey(vector []float64) string {
	var b strings.Builder
	for i, value := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	}
	return b.String()
}
