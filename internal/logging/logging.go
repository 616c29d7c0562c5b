package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logrus instance. Store and internal errors are
// logged here with full detail; HTTP responses only ever carry opaque messages.
var Logger = logrus.New()

var once sync.Once

// Init configures the global logger. When logFile is non-empty, output rotates
// through lumberjack instead of going to stderr.
func Init(level, logFile string) {
	once.Do(func() {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		Logger.SetLevel(lvl)
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})

		if logFile != "" {
			Logger.SetOutput(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
	})
}
