package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"heartrisk/db"
	"heartrisk/ml"
	"heartrisk/monitoring"
	"heartrisk/pipeline"
)

// Handler serves the risk-assessment API against one engine.
type Handler struct {
	engine *pipeline.Engine
	hub    *monitoring.Hub
	logger *zap.Logger
}

// NewHandler wires the API handlers to an engine. hub may be nil.
func NewHandler(engine *pipeline.Engine, hub *monitoring.Hub, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, hub: hub, logger: logger}
}

// RegisterRoutes attaches all API routes to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/schema", h.handleSchema)
	mux.HandleFunc("GET /api/model", h.handleModel)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("POST /api/train", h.handleTrain)
	mux.HandleFunc("GET /api/assessments", h.handleAssessments)
	mux.HandleFunc("GET /api/training-log", h.handleTrainingLog)
	if h.hub != nil {
		mux.HandleFunc("GET /api/ws/monitor", h.hub.HandleWebSocket)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type schemaField struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	fields := make([]schemaField, 0, ml.FieldCount)
	for _, spec := range ml.Schema() {
		fields = append(fields, schemaField{
			Name:        spec.Name,
			Kind:        kindName(spec.Kind),
			Min:         spec.Min,
			Max:         spec.Max,
			Description: ml.FieldDescription(spec.Name),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"fields": fields, "label": ml.LabelColumn})
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "model not trained")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accuracy":    snap.Accuracy,
		"data_points": snap.DataPoints,
		"trained_at":  snap.TrainedAt,
	})
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var input map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vector := make([]float64, 0, ml.FieldCount)
	for _, name := range ml.FieldNames() {
		value, ok := input[name]
		if !ok {
			writeError(w, http.StatusBadRequest, "missing field: "+name)
			return
		}
		vector = append(vector, value)
	}

	result, err := h.engine.Assess(vector)
	if err != nil {
		var verr *ml.ValidationError
		switch {
		case errors.Is(err, ml.ErrModelNotReady):
			writeError(w, http.StatusServiceUnavailable, "model not trained")
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  verr.Error(),
				"field":  verr.Field,
				"reason": verr.Reason,
			})
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// History append is presentation-layer glue; a failing store must not
	// fail the assessment.
	if err := db.SaveAssessment(vector, result); err != nil {
		h.logger.Warn("failed to save assessment", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTrain(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Retrain("api")
	if err != nil {
		switch {
		case errors.Is(err, ml.ErrInsufficientData):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ml.ErrDataNotFound),
			errors.Is(err, ml.ErrSchemaMismatch),
			errors.Is(err, ml.ErrEmptyDataset):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accuracy":    snap.Accuracy,
		"data_points": snap.DataPoints,
		"trained_at":  snap.TrainedAt,
	})
}

func (h *Handler) handleAssessments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if value := r.URL.Query().Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			limit = parsed
		}
	}

	assessments, err := db.QueryAssessments(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}

func (h *Handler) handleTrainingLog(w http.ResponseWriter, r *http.Request) {
	logs, err := db.LoadTrainingLog()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": logs})
}

func kindName(kind ml.FieldKind) string {
	switch kind {
	case ml.Categorical:
		return "categorical"
	case ml.Count:
		return "count"
	default:
		return "continuous"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
