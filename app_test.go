package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tripdeck/internal/config"
	"github.com/jask/tripdeck/internal/trip"
)

// Cross-operation user flow tests: keyboard in, rendered state out.

var planCalls atomic.Int64

func testService(t *testing.T) *httptest.Server {
	t.Helper()
	planCalls.Store(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan-trip":
			planCalls.Add(1)
			w.Write([]byte(`{"success":true,"message":"Trip planned successfully","map_file":"m1.html","data_file":"d1.json"}`))
		case "/generate-guide":
			w.Write([]byte(`{"success":true,"message":"ok","pdf_file":"guide_pdf/g1.pdf"}`))
		case "/download-guide/guide_pdf/g1.pdf":
			w.Write([]byte("pdf-bytes"))
		case "/health":
			w.Write([]byte(`{"status":"healthy"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFlowModel(t *testing.T, srv *httptest.Server) model {
	t.Helper()
	cfg := config.Normalize(config.Config{})
	cfg.Service.BaseURL = srv.URL
	cfg.Download.Dir = t.TempDir()
	client := trip.NewClient(srv.URL, 5*time.Second)
	ctrl := trip.NewController(client, trip.ModeDrive)
	m := newModel(cfg, ctrl, nil)
	m.width = 100
	m.height = 40
	return m
}

func flowKey(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func flowApplyMsg(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return flowDrainCmd(t, got, cmd)
}

func flowPress(t *testing.T, m model, key string) model {
	t.Helper()
	return flowApplyMsg(t, m, flowKey(key))
}

func flowType(t *testing.T, m model, input string) model {
	t.Helper()
	for _, r := range input {
		m = flowPress(t, m, string(r))
	}
	return m
}

func flowDrainCmd(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	for i := 0; cmd != nil && i < 32; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = flowDrainCmd(t, m, c)
			}
			return m
		}
		next, nextCmd := m.Update(msg)
		got, ok := next.(model)
		if !ok {
			t.Fatalf("command update returned %T, want model", next)
		}
		m = got
		cmd = nextCmd
	}
	if cmd != nil {
		t.Fatal("command chain exceeded max depth")
	}
	return m
}

func TestFlowTypingSyncsController(t *testing.T) {
	m := newFlowModel(t, testService(t))

	m = flowType(t, m, "Paris")
	m = flowPress(t, m, "tab")
	m = flowType(t, m, "Berlin")

	in := m.ctrl.Snapshot().Input
	if in.Start != "Paris" || in.End != "Berlin" {
		t.Errorf("controller input = %+v", in)
	}
}

func TestFlowPlanValidation(t *testing.T) {
	m := newFlowModel(t, testService(t))

	m = flowPress(t, m, "enter")
	if got := m.snap.Err(); got == "" {
		t.Fatal("expected validation error in view state")
	}
	if n := planCalls.Load(); n != 0 {
		t.Errorf("plan endpoint called %d times, want 0", n)
	}
	if !strings.Contains(m.View(), "required") {
		t.Error("validation error not rendered")
	}

	// resuming editing clears the message
	m = flowType(t, m, "P")
	if got := m.snap.Err(); got != "" {
		t.Errorf("error not cleared on edit: %q", got)
	}
}

func TestFlowPlanGenerateDownload(t *testing.T) {
	srv := testService(t)
	m := newFlowModel(t, srv)

	m = flowType(t, m, "Paris")
	m = flowPress(t, m, "tab")
	m = flowType(t, m, "Berlin")
	m = flowPress(t, m, "enter")

	if m.snap.Plan == nil {
		t.Fatalf("no plan after enter; err=%q", m.snap.Err())
	}
	wantMap := srv.URL + "/map/m1.html"
	if m.snap.MapRef != wantMap {
		t.Errorf("map ref = %q, want %q", m.snap.MapRef, wantMap)
	}
	if !strings.Contains(m.View(), wantMap) {
		t.Error("map reference not rendered")
	}

	m = flowPress(t, m, "ctrl+g")
	if m.snap.GuideFile != "guide_pdf/g1.pdf" {
		t.Fatalf("guide = %q after ctrl+g; err=%q", m.snap.GuideFile, m.snap.Err())
	}
	wantURL := srv.URL + "/download-guide/guide_pdf/g1.pdf"
	if !strings.Contains(m.View(), wantURL) {
		t.Error("guide download URL not rendered")
	}

	m = flowPress(t, m, "ctrl+d")
	if m.lastDownload == "" {
		t.Fatalf("no download recorded; downloadErr=%q", m.downloadErr)
	}
	if filepath.Base(m.lastDownload) != trip.GuideFilename {
		t.Errorf("downloaded as %q, want fixed filename", m.lastDownload)
	}
	data, err := os.ReadFile(m.lastDownload)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("download body = %q", data)
	}
}

func TestFlowGuideWithoutPlan(t *testing.T) {
	m := newFlowModel(t, testService(t))

	m = flowPress(t, m, "ctrl+g")
	if got := m.snap.Err(); !strings.Contains(got, "no trip data") {
		t.Errorf("err = %q, want no-trip-data message", got)
	}
}

func TestFlowModeCycling(t *testing.T) {
	m := newFlowModel(t, testService(t))

	m = flowPress(t, m, "tab") // end
	m = flowPress(t, m, "tab") // mode
	if m.focus != focusMode {
		t.Fatalf("focus = %d, want mode", m.focus)
	}
	m = flowApplyMsg(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.ctrl.Snapshot().Input.Mode; got != trip.ModeWalk {
		t.Errorf("mode = %q, want WALK", got)
	}
	m = flowApplyMsg(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.ctrl.Snapshot().Input.Mode; got != trip.ModeDrive {
		t.Errorf("mode = %q, want DRIVE", got)
	}
}
