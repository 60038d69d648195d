package logging

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWeekKeyFormat(t *testing.T) {
	key := weekKey(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	if key != "2026-W36" {
		t.Errorf("Expected 2026-W36, got %s", key)
	}
}

func TestRotatingWriterCreatesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rw := NewRotatingWriter(dir, 4)
	defer rw.Close()

	if _, err := rw.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := filepath.Join(dir, fmt.Sprintf("prescriptions-%s.log", weekKey(time.Now())))
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("Expected weekly log file: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("Unexpected file contents %q", data)
	}
}

func TestRotatingWriterSizeRotation(t *testing.T) {
	dir := t.TempDir()
	rw := NewRotatingWriterWithSizeLimit(dir, 4, 10)
	defer rw.Close()

	if _, err := rw.Write([]byte("0123456789")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if _, err := rw.Write([]byte("overflow")); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	numbered := filepath.Join(dir, fmt.Sprintf("prescriptions-%s_01.log", weekKey(time.Now())))
	data, err := os.ReadFile(numbered)
	if err != nil {
		t.Fatalf("Expected size-rotated file: %v", err)
	}
	if string(data) != "overflow" {
		t.Errorf("Rotated file contents %q", data)
	}
}

func TestRotatingWriterSweepRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	rw := NewRotatingWriter(dir, 1)
	defer rw.Close()

	old := filepath.Join(dir, "prescriptions-2020-W01.log")
	if err := os.WriteFile(old, []byte("stale"), 0666); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	if err := rw.sweepOldLogs(); err != nil {
		t.Fatalf("sweepOldLogs failed: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected stale log file to be removed")
	}
}

func TestGlobalHelpersWorkWithoutInit(t *testing.T) {
	saved := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = saved }()

	// Must not panic when the global logger is missing.
	Info("info message", "k", "v")
	Warn("warn message")
	Error("error message")
	Debug("debug message")
}

func TestSetupLoggerFallsBackOnBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0666); err != nil {
		t.Fatal(err)
	}

	logger := SetupLogger(filepath.Join(file, "logs"))
	if logger == nil {
		t.Fatal("Expected a fallback logger")
	}
	logger.Info("still works")
}

func TestRequestLoggerSkipsProbes(t *testing.T) {
	logDir := t.TempDir()
	logger := SetupLoggerWithRetention(logDir, 1)

	var served []string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = append(served, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/metrics", "/catalog"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: unexpected status %d", path, rec.Code)
		}
	}
	if len(served) != 3 {
		t.Fatalf("Expected all requests served, got %d", len(served))
	}

	entries, err := os.ReadDir(logDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("Expected a log file: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "/health") || strings.Contains(string(data), "/metrics") {
		t.Error("Probe endpoints should not be logged")
	}
	if !strings.Contains(string(data), "/catalog") {
		t.Error("Expected /catalog request in the log")
	}
}

func TestResponseWriterWrapperCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriterWrapper{ResponseWriter: rec, statusCode: 200}

	ww.WriteHeader(http.StatusNotFound)
	if _, err := ww.Write([]byte("missing")); err != nil {
		t.Fatal(err)
	}

	if ww.statusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", ww.statusCode)
	}
	if ww.bytesWritten != len("missing") {
		t.Errorf("Expected %d bytes, got %d", len("missing"), ww.bytesWritten)
	}
}
