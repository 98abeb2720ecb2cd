package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/meetwatch/config"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	hooks     []logrus.Hook
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	logger := newLogger(component, logCfg)
	for _, hook := range hooks {
		logger.AddHook(hook)
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// AddHook attaches hook to every existing component logger and to those
// created later.
func AddHook(hook logrus.Hook) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	hooks = append(hooks, hook)
	for _, entry := range loggers {
		entry.Logger.AddHook(hook)
	}
}

func newLogger(component string, logCfg Config) *logrus.Logger {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("MEETWATCH_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("MEETWATCH_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer
	if file := openLogFile(component, logCfg.File); file != nil {
		writers = append(writers, file)
	}
	if logToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		// Interactive terminal without a file sink: stay quiet.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger
}

// openLogFile opens the configured log file, or
// .meetwatch/logs/<component>-<date>.log under the working directory.
// Failures on the default path are silent.
func openLogFile(component string, fileCfg FileSinkConfig) io.Writer {
	if fileCfg.Disabled {
		return nil
	}

	explicit := fileCfg.Path != ""
	logFilePath := expandPath(fileCfg.Path)
	if !explicit {
		base, err := os.Getwd()
		if err != nil {
			if base, err = os.UserHomeDir(); err != nil {
				return nil
			}
		}
		dateStr := time.Now().Format("2006-01-02")
		logFilePath = filepath.Join(base, ".meetwatch", "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
	}

	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		if explicit {
			logrus.Warnf("Failed to create log directory %s: %v", dir, err)
		}
		return nil
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		if explicit {
			logrus.Warnf("Failed to open log file %s: %v", logFilePath, err)
		}
		return nil
	}
	return file
}

// logToStderr decides whether structured logs go to stderr. In "auto" mode
// they do only when debugging or when stderr is not a terminal, so the
// interactive screen is never written over.
func logToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	isDebug := os.Getenv("MEETWATCH_DEBUG") == "1" || level >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return isDebug || !isInteractive
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
