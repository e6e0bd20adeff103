package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the global zerolog instance. When logFile is non-empty the
// output is duplicated into a size-rotated file next to the console writer.
func Init(logFile string) {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	var out io.Writer = console
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(console, rotating)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
