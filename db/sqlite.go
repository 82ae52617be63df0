package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"heartrisk/ml"

	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS assessments (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        age REAL, sex REAL, cp REAL, trestbps REAL, chol REAL, fbs REAL,
        restecg REAL, thalach REAL, exang REAL, oldpeak REAL, slope REAL,
        ca REAL, thal REAL,
        predicted_label INTEGER,
        prob_disease REAL,
        confidence REAL,
        risk_score REAL,
        risk_tier VARCHAR(20),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_name VARCHAR(50),
        accuracy REAL,
        data_points INTEGER,
        split_ratio REAL,
        seed INTEGER,
        trained_at DATETIME
    );
    `

	_, err = database.Exec(query)
	return err
}

// CloseDB closes the database handle.
func CloseDB() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// Assessment is one stored prediction with its input vector.
type Assessment struct {
	ID        int64               `json:"id"`
	Features  []float64           `json:"features"`
	Result    ml.PredictionResult `json:"result"`
	CreatedAt time.Time           `json:"created_at"`
}

// SaveAssessment appends a prediction and its source vector to the history.
func SaveAssessment(vector []float64, result *ml.PredictionResult) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	if len(vector) != ml.FieldCount {
		return errors.New("vector width mismatch")
	}

	columns := append(ml.FieldNames(),
		"predicted_label", "prob_disease", "confidence", "risk_score", "risk_tier", "created_at")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	args := make([]interface{}, 0, len(columns))
	for _, value := range vector {
		args = append(args, value)
	}
	args = append(args, result.Label, result.ProbDisease, result.Confidence,
		result.RiskScore, string(result.Tier), time.Now().UTC())

	query := fmt.Sprintf("INSERT INTO assessments (%s) VALUES (%s)",
		strings.Join(columns, ", "), placeholders)
	_, err := database.Exec(query, args...)
	return err
}

// QueryAssessments returns the most recent assessments, newest first.
func QueryAssessments(limit int) ([]Assessment, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
        SELECT id, %s, predicted_label, prob_disease, confidence, risk_score, risk_tier, created_at
        FROM assessments
        ORDER BY id DESC
        LIMIT ?`, strings.Join(ml.FieldNames(), ", "))

	rows, err := database.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]Assessment, 0)
	for rows.Next() {
		var a Assessment
		a.Features = make([]float64, ml.FieldCount)
		var tier string
		dest := make([]interface{}, 0, ml.FieldCount+7)
		dest = append(dest, &a.ID)
		for i := range a.Features {
			dest = append(dest, &a.Features[i])
		}
		dest = append(dest, &a.Result.Label, &a.Result.ProbDisease, &a.Result.Confidence,
			&a.Result.RiskScore, &tier, &a.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		a.Result.Tier = ml.RiskTier(tier)
		a.Result.ProbHealthy = 1 - a.Result.ProbDisease
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// TrainingLog is one recorded training run.
type TrainingLog struct {
	ModelName  string    `json:"model_name"`
	Accuracy   float64   `json:"accuracy"`
	DataPoints int       `json:"data_points"`
	SplitRatio float64   `json:"split_ratio"`
	Seed       int64     `json:"seed"`
	TrainedAt  time.Time `json:"trained_at"`
}

// LogTraining records a completed training run.
func LogTraining(entry TrainingLog) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(`
        INSERT INTO training_log (model_name, accuracy, data_points, split_ratio, seed, trained_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ModelName, entry.Accuracy, entry.DataPoints, entry.SplitRatio, entry.Seed, entry.TrainedAt)
	return err
}

// LoadTrainingLog returns all recorded training runs, newest first.
func LoadTrainingLog() ([]TrainingLog, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	rows, err := database.Query(`
        SELECT model_name, accuracy, data_points, split_ratio, seed, trained_at
        FROM training_log
        ORDER BY trained_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]TrainingLog, 0)
	for rows.Next() {
		var log TrainingLog
		if err := rows.Scan(&log.ModelName, &log.Accuracy, &log.DataPoints, &log.SplitRatio, &log.Seed, &log.TrainedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
