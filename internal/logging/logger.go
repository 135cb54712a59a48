// Package logging provides config-driven categorized file-based logging
// for the trailer-memory service. Logs are written to
// <git-dir>/info/logs/ with one file per category. Logging is disabled
// entirely unless "debug" is set in rlm-config.json.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryParser        Category = "parser"
	CategoryValidator     Category = "validator"
	CategoryIndex         Category = "index"
	CategoryPrompt        Category = "prompt"
	CategoryMemory        Category = "memory"
	CategoryConsolidation Category = "consolidation"
	CategorySandbox       Category = "sandbox"
	CategoryRepl          Category = "repl"
	CategoryHooks         Category = "hooks"
	CategoryGit           Category = "git"
)

// Logger writes timestamped lines for one category to its own file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	enabled   bool
	setupOnce sync.Once
)

// Initialize sets up the logs directory under gitDir/info/logs.
// debug controls whether any logger produced by Get actually writes;
// when false, Get returns no-op loggers so callers never need to
// branch on whether logging is active.
func Initialize(gitDir string, debug bool) error {
	var err error
	setupOnce.Do(func() {
		enabled = debug
		if !enabled {
			return
		}
		logsDir = filepath.Join(gitDir, "info", "logs")
		err = os.MkdirAll(logsDir, 0o755)
	})
	return err
}

// Get returns (or creates) the logger for category. Safe to call before
// Initialize; in that case it returns a no-op logger.
func Get(category Category) *Logger {
	if !enabled || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[DEBUG] "+format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[INFO] "+format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[WARN] "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] "+format, args...)
}

// StructuredLog appends a JSON-encoded record for callers that want a
// machine-parseable trail (e.g. REPL trace entries) alongside the
// plain-text stream.
func (l *Logger) StructuredLog(fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	data, err := json.Marshal(fields)
	if err != nil {
		l.logger.Printf("[STRUCT] %v", fields)
		return
	}
	l.logger.Printf("[STRUCT] %s", data)
}

// Timer measures and logs the duration of an operation on Stop.
type Timer struct {
	logger *Logger
	label  string
	start  time.Time
}

func StartTimer(category Category, label string) *Timer {
	return &Timer{logger: Get(category), label: label, start: time.Now()}
}

func (t *Timer) Stop() {
	t.logger.Debug("%s took %s", t.label, time.Since(t.start))
}

// Close closes every open log file. Intended for use at process exit.
func Close() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
}
