package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

var (
	fileMu  sync.Mutex
	logFile *os.File
)

func Init() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		PadLevelText:    true,
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// SetLevel applies a textual level such as "debug" or "warn". Unknown
// values keep the current level.
func SetLevel(level string) {
	level = strings.TrimSpace(level)
	if level == "" {
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Warn("Unknown log level, keeping current", map[string]interface{}{"level": level})
		return
	}
	Logger.SetLevel(parsed)
}

// AttachFile mirrors log output into the given file, appending to it.
func AttachFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	fileMu.Lock()
	defer fileMu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	Logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// Close releases the log file opened by AttachFile, if any.
func Close() error {
	fileMu.Lock()
	defer fileMu.Unlock()

	if logFile == nil {
		return nil
	}
	Logger.SetOutput(os.Stdout)
	err := logFile.Close()
	logFile = nil
	return err
}

func Info(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Info(msg)
}

func Error(err error, msg string, fields map[string]interface{}) {
	Logger.WithError(err).WithFields(fields).Error(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Warn(msg)
}

func Debug(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Debug(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Fatal(msg)
}

func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		if raw != "" {
			path += "?" + raw
		}

		fields := logrus.Fields{
			"ip":     c.ClientIP(),
			"method": c.Request.Method,
			"path":   path,
			"status": status,
			"took":   duration,
		}
		if requestID, ok := c.Get("request_id"); ok {
			fields["request_id"] = requestID
		}

		switch {
		case status >= 500:
			Logger.WithFields(fields).Error("Server error")
		case status >= 400:
			Logger.WithFields(fields).Warn("Client error")
		default:
			Logger.WithFields(fields).Info("Request completed")
		}
	}
}
