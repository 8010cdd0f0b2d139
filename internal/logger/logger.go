// Package logger holds the process-wide charmbracelet logger. Until Init or
// InitWriter runs every call is a no-op, so packages can log unconditionally.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/gradecalc/internal/constants"
)

// Logger is nil until the process sets one up.
var Logger *log.Logger

// Rotation limits for gradecalc.log.
const (
	logMaxSizeMB  = 5
	logMaxFiles   = 3
	logMaxAgeDays = 30
)

// Config selects where the log file lives and how chatty it is.
type Config struct {
	Debug bool
	// LogDir overrides the default <ConfigDir>/logs location.
	LogDir    string
	ConfigDir string
}

func (c Config) dir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(c.ConfigDir, "logs")
}

// Init sends warnings and errors to a rotating gradecalc.log. With Debug set
// the threshold drops to debug and every line is echoed to stderr.
func Init(cfg Config) error {
	dir := cfg.dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxFiles,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
	threshold := log.WarnLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
		threshold = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		Prefix:          constants.AppName,
		Level:           threshold,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// InitWriter points the global logger at w. Tests use it to capture output.
func InitWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{Prefix: constants.AppName, Level: level})
}

// For returns a child logger tagged with component, or nil before Init.
// Long-lived objects such as the grade store hold one of these.
func For(component string) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.With("component", component)
}

func at(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { at(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { at(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { at(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { at(log.ErrorLevel, msg, keyvals) }
