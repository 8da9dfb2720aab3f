package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDispatcherLogger(t *testing.T) {
	dl := NewDispatcherLogger(zerolog.Nop())

	if dl == nil {
		t.Fatal("expected non-nil DispatcherLogger")
	}
}

func TestDispatcherLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	dl := NewDispatcherLogger(logger)

	dl.Debug("test message", "key1", "value1", "key2", 42)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["level"] != "debug" {
		t.Errorf("expected level 'debug', got %v", logEntry["level"])
	}
	if logEntry["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", logEntry["message"])
	}
	if logEntry["key1"] != "value1" {
		t.Errorf("expected key1='value1', got %v", logEntry["key1"])
	}
	if logEntry["key2"] != float64(42) { // JSON numbers are float64
		t.Errorf("expected key2=42, got %v", logEntry["key2"])
	}
}

func TestDispatcherLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	dl := NewDispatcherLogger(logger)

	dl.Info("info message", "status", "ok")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["level"] != "info" {
		t.Errorf("expected level 'info', got %v", logEntry["level"])
	}
	if logEntry["status"] != "ok" {
		t.Errorf("expected status='ok', got %v", logEntry["status"])
	}
}

func TestDispatcherLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	dl := NewDispatcherLogger(logger)

	dl.Error("error occurred", "code", 500, "reason", "internal")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["level"] != "error" {
		t.Errorf("expected level 'error', got %v", logEntry["level"])
	}
	if logEntry["code"] != float64(500) {
		t.Errorf("expected code=500, got %v", logEntry["code"])
	}
	if logEntry["reason"] != "internal" {
		t.Errorf("expected reason='internal', got %v", logEntry["reason"])
	}
}

func TestDispatcherLogger_NoKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	dl := NewDispatcherLogger(logger)

	dl.Debug("simple message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["message"] != "simple message" {
		t.Errorf("expected message 'simple message', got %v", logEntry["message"])
	}
}

func TestDispatcherLogger_SkipsMalformedPairs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	dl := NewDispatcherLogger(logger)

	dl.Debug("partial", 123, "ignored", "kept", "yes", "trailing")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["kept"] != "yes" {
		t.Errorf("expected kept='yes', got %v", logEntry["kept"])
	}
	if _, ok := logEntry["trailing"]; ok {
		t.Error("trailing unpaired value should be dropped")
	}
}

func TestDispatcherLogger_ImplementsInterface(t *testing.T) {
	dl := NewDispatcherLogger(zerolog.Nop())

	// These calls would fail to compile if the interface isn't satisfied
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = dl
}
