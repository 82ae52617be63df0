package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"heartrisk/monitoring"
)

func fullChain(timeout time.Duration) Middleware {
	return Chain(
		RecoveryMiddleware(zap.NewNop()),
		LoggerMiddleware(zap.NewNop()),
		SecurityHeadersMiddleware,
		CORSMiddleware([]string{"*"}),
		TimeoutMiddleware(timeout),
		RequestSizeMiddleware(1<<20),
	)
}

func TestResponseWriterSupportsHijack(t *testing.T) {
	var w http.ResponseWriter = &responseWriter{ResponseWriter: httptest.NewRecorder()}
	if _, ok := w.(http.Hijacker); !ok {
		t.Fatal("logger response writer must implement http.Hijacker")
	}
}

func TestMonitorStreamThroughChain(t *testing.T) {
	hub := monitoring.NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	engine := testEngine(t, true, hub)

	mux := http.NewServeMux()
	NewHandler(engine, hub, zap.NewNop()).RegisterRoutes(mux)

	srv := httptest.NewServer(fullChain(5 * time.Second)(mux))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/monitor"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial failed with status %d: %v", status, err)
	}
	defer conn.Close()

	// The hub registers the client asynchronously after the upgrade;
	// heartbeats bridge the gap until the first one arrives.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hub.Publish(monitoring.Heartbeat, struct{}{})
			case <-stop:
				return
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := readMonitorMessage(conn, monitoring.Heartbeat); err != nil {
		t.Fatalf("no heartbeat received: %v", err)
	}

	vector := []float64{61, 1, 0, 148, 203, 0, 1, 161, 0, 0, 2, 1, 3}
	for i := 0; i < 2; i++ {
		if _, err := engine.Assess(vector); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// The second call is served from the result cache but must still be
	// visible on the stream.
	for i := 0; i < 2; i++ {
		msg, err := readMonitorMessage(conn, monitoring.AssessmentMade)
		if err != nil {
			t.Fatalf("assessment %d not observed: %v", i+1, err)
		}
		var event monitoring.AssessmentEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		if event.RiskTier == "" {
			t.Fatal("expected a risk tier on the event")
		}
	}
}

func readMonitorMessage(conn *websocket.Conn, want monitoring.MessageType) (*monitoring.Message, error) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		var msg monitoring.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, err
		}
		if msg.Type == want {
			return &msg, nil
		}
	}
}

func TestTimeoutMiddlewareSlowHandler(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := TimeoutMiddleware(50 * time.Millisecond)(slow)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
