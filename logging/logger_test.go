package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// resetLoggers clears the component cache and global hooks.
func resetLoggers(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		loggersMu.Lock()
		loggers = make(map[string]*logrus.Entry)
		hooks = nil
		loggersMu.Unlock()
	})
}

// isolate points the loggers at a temp dir with no configuration.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	resetLoggers(t)
	return dir
}

func TestNewLogger(t *testing.T) {
	isolate(t)

	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}
	if NewLogger("test-component") != logger {
		t.Error("Expected the same entry for a repeated component")
	}
}

func TestDefaultLogFile(t *testing.T) {
	dir := isolate(t)

	NewLogger("engine").Info("file sink")

	name := "engine-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, ".meetwatch", "logs", name))
	if err != nil {
		t.Fatalf("Expected default log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink") {
		t.Errorf("Expected message in log file, got: %s", data)
	}
}

func TestConfiguredLogging(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(dir, "custom", "meetwatch.log")
	content := "logging:\n  level: warn\n  file:\n    path: " + logPath + "\n  format:\n    preset: simple\n"
	if err := os.WriteFile(filepath.Join(dir, "meetwatch.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := NewLogger("configured")
	if logger.Logger.Level != logrus.WarnLevel {
		t.Errorf("Expected warn level from config, got %v", logger.Logger.Level)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Expected configured log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("Info message should not appear at Warn level")
	}
	if !strings.Contains(string(data), "[WARN] shown") {
		t.Errorf("Expected simple formatted warning, got: %s", data)
	}
}

func TestEnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("MEETWATCH_LOG_LEVEL", "debug")
	t.Setenv("MEETWATCH_LOG_CALLER", "true")

	logger := NewLogger("env-test")

	if logger.Logger.Level != logrus.DebugLevel {
		t.Errorf("Expected debug level from env var, got %v", logger.Logger.Level)
	}
	if !logger.Logger.ReportCaller {
		t.Error("Expected caller reporting to be enabled from env var")
	}
}

func TestLogToStderr(t *testing.T) {
	if !logToStderr("always", logrus.InfoLevel) {
		t.Error("always should log to stderr")
	}
	if logToStderr("never", logrus.DebugLevel) {
		t.Error("never should not log to stderr")
	}
	if !logToStderr("auto", logrus.DebugLevel) {
		t.Error("auto should log to stderr when debugging")
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "test-component",
					"key1":      "value1",
				},
			},
			want: []string{"[INFO]", "test-component", "test message", "key1=value1"},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Time:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
				Level:   logrus.WarnLevel,
				Message: "Supporter count differs from agent report",
				Data: logrus.Fields{
					"component": "meeting",
					"question":  2,
				},
			},
			want:    []string{"[WARN] Supporter count differs from agent report question=2"},
			notWant: []string{"meeting", "2024-05-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &TextFormatter{Config: tt.config}
			out, err := f.Format(tt.entry)
			if err != nil {
				t.Fatalf("Format returned error: %v", err)
			}
			s := string(out)
			for _, w := range tt.want {
				if !strings.Contains(s, w) {
					t.Errorf("Expected output to contain %q, got: %s", w, s)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(s, nw) {
					t.Errorf("Expected output not to contain %q, got: %s", nw, s)
				}
			}
		})
	}
}

func TestFieldsSorted(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	out, err := f.Format(&logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "m",
		Data:    logrus.Fields{"reported": 3, "question": 1, "tracked": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(out), "m question=1 reported=3 tracked=2\n") {
		t.Errorf("Expected sorted fields, got: %q", out)
	}
}

func TestDiagnosticsHook(t *testing.T) {
	isolate(t)

	var got []Diagnostic
	hook := NewDiagnosticsHook(func(d Diagnostic) { got = append(got, d) })

	early := NewLogger("early")
	AddHook(hook)
	late := NewLogger("late")

	early.Info("not a diagnostic")
	early.WithField("question", 1).Warn("mismatch")
	late.WithError(errors.New("boom")).Error("transport failed")

	if len(got) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", len(got))
	}
	if got[0].Component != "early" || got[0].Message != "mismatch" || got[0].Fields["question"] != 1 {
		t.Errorf("Unexpected first diagnostic: %+v", got[0])
	}

	last, ok := hook.Last()
	if !ok || last.Component != "late" || last.Level != logrus.ErrorLevel {
		t.Errorf("Unexpected last diagnostic: %+v", last)
	}
}

func TestGlobalOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := SetGlobalOutput(&buf)
	defer SetGlobalOutput(prev)

	GetGlobalOutput().Write([]byte("hello"))
	if buf.String() != "hello" {
		t.Errorf("Expected redirected output, got %q", buf.String())
	}
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("Joined #wg-css")
	p.ErrorPretty("Connection lost", errors.New("EOF"))
	p.Field("agent", "Zakim")

	out := buf.String()
	for _, want := range []string{"Joined #wg-css", "Connection lost", "EOF", "agent", "Zakim"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got: %s", want, out)
		}
	}
}
