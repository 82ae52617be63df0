package pipeline

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 2 * time.Second

// Watcher retrains the engine whenever the dataset file changes on disk.
// Editors and exports often write several events in quick succession, so
// changes are debounced before triggering a retrain.
type Watcher struct {
	engine  *Engine
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching the engine's dataset file.
func NewWatcher(engine *Engine, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: many tools replace the file on save, which
	// would drop a watch set on the file itself.
	if err := fsw.Add(filepath.Dir(engine.TrainingConfig().DataPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		engine:  engine,
		logger:  logger,
		watcher: fsw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	target := filepath.Clean(w.engine.TrainingConfig().DataPath)
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			w.logger.Info("dataset changed, retraining", zap.String("path", target))
			if _, err := w.engine.Retrain("watcher"); err != nil {
				w.logger.Error("retrain after dataset change failed", zap.Error(err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dataset watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}
