package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/controller"
	"github.com/dohr-michael/banner/internal/debounce"
	"github.com/dohr-michael/banner/internal/entitystore"
	"github.com/dohr-michael/banner/internal/events"
)

// waitForEvents polls the bus history until at least n events are present.
func waitForEvents(bus *events.Bus, n int) {
	for i := 0; i < 200; i++ {
		if len(bus.History(100)) >= n {
			return
		}
		runtime.Gosched()
		time.Sleep(time.Millisecond)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	settings, err := config.OpenSettings(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	store := entitystore.New(t.TempDir())
	ctrl := controller.New(settings, store, bus, debounce.DefaultWindows)
	t.Cleanup(ctrl.Close)

	return NewServer(bus, ctrl, store, "localhost", 0)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	defer srv.hub.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status %q, got %q", "ok", body["status"])
	}
}

func TestHandleEvents_Empty(t *testing.T) {
	srv := newTestServer(t)
	defer srv.hub.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body []any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty array, got %d items", len(body))
	}
}

func TestHandleEvents_LimitParam(t *testing.T) {
	srv := newTestServer(t)
	defer srv.hub.Close()

	for i := 0; i < 10; i++ {
		srv.bus.Publish(events.NewEvent(events.EventMessageAdded, events.SourceHost, map[string]any{"i": i}))
	}

	waitForEvents(srv.bus, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/events?limit=5", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 5 {
		t.Fatalf("expected 5 events with limit=5, got %d", len(body))
	}
}

func TestHandleStylesheet(t *testing.T) {
	srv := newTestServer(t)
	defer srv.hub.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/stylesheet", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := body["css"]; !ok {
		t.Fatal("expected css field in stylesheet state")
	}
}

func TestHandleEntities(t *testing.T) {
	srv := newTestServer(t)
	defer srv.hub.Close()

	srv.store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		AccentColor: entitystore.String("#0033ff"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(body))
	}
}
