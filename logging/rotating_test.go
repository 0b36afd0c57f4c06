package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "mid-year week",
			date:     time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
			expected: "2026-W11",
		},
		{
			name:     "single digit week is zero padded",
			date:     time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
			expected: "2026-W02",
		},
		{
			name:     "january first can belong to the previous ISO year",
			date:     time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: "2026-W53",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if key := weekKey(tt.date); key != tt.expected {
				t.Errorf("weekKey(%v) = %q, expected %q", tt.date, key, tt.expected)
			}
		})
	}
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 4, 0)
	defer rl.currentFile.Close()

	if _, err := rl.Write([]byte("first line\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := rl.Write([]byte("second line\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	expected := filepath.Join(dir, "api-"+weekKey(time.Now())+".log")
	data, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Expected log file %s: %v", expected, err)
	}
	if !strings.Contains(string(data), "first line") || !strings.Contains(string(data), "second line") {
		t.Errorf("Log file missing written lines: %q", string(data))
	}
}

func TestRotatingLoggerSizeRotation(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 4, 32)
	defer rl.currentFile.Close()

	// First write opens the weekly file, second write exceeds the size
	// limit and rotates into a timestamp-suffixed file
	if _, err := rl.Write([]byte(strings.Repeat("a", 30) + "\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := rl.Write([]byte("overflowing entry\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("Expected 2 log files after size rotation, got %v", names)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 0)

	oldFile := filepath.Join(dir, "api-2020-W01.log")
	if err := os.WriteFile(oldFile, []byte("stale"), 0644); err != nil {
		t.Fatalf("Failed to seed old log: %v", err)
	}
	past := time.Now().Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatalf("Failed to age old log: %v", err)
	}

	freshFile := filepath.Join(dir, "api-"+weekKey(time.Now())+".log")
	if err := os.WriteFile(freshFile, []byte("fresh"), 0644); err != nil {
		t.Fatalf("Failed to seed fresh log: %v", err)
	}

	unrelated := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0644); err != nil {
		t.Fatalf("Failed to seed unrelated file: %v", err)
	}
	if err := os.Chtimes(unrelated, past, past); err != nil {
		t.Fatalf("Failed to age unrelated file: %v", err)
	}

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("cleanupOldLogs failed: %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("Expected stale log file to be removed")
	}
	if _, err := os.Stat(freshFile); err != nil {
		t.Error("Expected fresh log file to survive cleanup")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Expected unrelated file to survive cleanup")
	}
}

func TestSetupLoggerWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	logger := SetupLoggerWithOptions(dir, 4, 1024*1024)

	logger.Info("analyzer started", "component", "test")

	logFile := filepath.Join(dir, "api-"+weekKey(time.Now())+".log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Expected log file %s: %v", logFile, err)
	}

	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", line, err)
	}
	if record["msg"] != "analyzer started" {
		t.Errorf("Expected msg field, got %v", record["msg"])
	}
	if record["component"] != "test" {
		t.Errorf("Expected component attribute, got %v", record["component"])
	}
}

func TestInitLogger(t *testing.T) {
	dir := t.TempDir()
	InitLogger(dir)

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("DefaultLoggingService was not initialized")
	}

	// Package-level helpers must not panic either way
	Info("test message", "key", "value")
	Warn("test warning")
}
