package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init builds the process logger once. LOG_LEVEL selects the level (default info),
// LOG_FILE additionally writes to a rotated file.
func Init() {
	once.Do(func() {
		log = New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"))
	})
}

// New returns a JSON logrus logger writing to stdout and, when file is set, to a lumberjack file.
func New(level, file string) *logrus.Logger {
	l := logrus.New()

	var out io.Writer = os.Stdout
	if strings.TrimSpace(file) != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		})
	}
	l.SetOutput(out)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Get returns the process logger, initializing it on first use.
func Get() *logrus.Logger {
	Init()
	return log
}

// WithComponent tags entries with the emitting subsystem.
func WithComponent(component string) *logrus.Entry {
	return Get().WithField("component", component)
}
