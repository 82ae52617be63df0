package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"heartrisk/db"
	qhttp "heartrisk/http"
	"heartrisk/logging"
	"heartrisk/ml"
	"heartrisk/monitoring"
	"heartrisk/pipeline"
)

type Config struct {
	Dataset struct {
		Path  string `yaml:"path"`
		Watch bool   `yaml:"watch"`
	} `yaml:"dataset"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Http struct {
		Port       int `yaml:"port"`
		TimeoutSec int `yaml:"timeout_sec"`
	} `yaml:"http"`
	Log logging.Config `yaml:"log"`
	ML  struct {
		ModelPath  string  `yaml:"model_path"`
		SplitRatio float64 `yaml:"split_ratio"`
		Seed       int64   `yaml:"seed"`
	} `yaml:"ml"`
}

func main() {
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := db.InitDB(config.Database.Path); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	hub := monitoring.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	seed := config.ML.Seed
	if seed == 0 {
		seed = ml.DefaultSeed
	}
	engine, err := pipeline.NewEngine(pipeline.Config{
		DataPath:   config.Dataset.Path,
		ModelPath:  config.ML.ModelPath,
		SplitRatio: config.ML.SplitRatio,
		Seed:       seed,
	}, logger, hub)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}
	engine.OnTrained = func(snap *pipeline.Snapshot) {
		entry := db.TrainingLog{
			ModelName:  "logistic",
			Accuracy:   snap.Accuracy,
			DataPoints: snap.DataPoints,
			SplitRatio: engine.TrainingConfig().SplitRatio,
			Seed:       engine.TrainingConfig().Seed,
			TrainedAt:  snap.TrainedAt,
		}
		if err := db.LogTraining(entry); err != nil {
			logger.Warn("failed to record training run", zap.Error(err))
		}
	}

	if _, err := engine.Retrain("startup"); err != nil {
		logger.Fatal("initial training failed", zap.Error(err))
	}

	if config.Dataset.Watch {
		watcher, err := pipeline.NewWatcher(engine, logger)
		if err != nil {
			logger.Warn("dataset watcher unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	serverConfig := qhttp.DefaultServerConfig()
	if config.Http.Port != 0 {
		serverConfig.Port = config.Http.Port
	}
	if config.Http.TimeoutSec != 0 {
		serverConfig.Timeout = time.Duration(config.Http.TimeoutSec) * time.Second
	}
	server := qhttp.NewServer(serverConfig, engine, hub, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
