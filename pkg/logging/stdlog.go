package logging

import (
	"log"
	"strings"

	"github.com/rs/zerolog"
)

// NewStdLogger adapts logger for APIs that want a *log.Logger, such as
// http.Server.ErrorLog. Every line is logged at level.
func NewStdLogger(logger *zerolog.Logger, level zerolog.Level) *log.Logger {
	if logger == nil {
		logger = Default()
	}
	return log.New(levelWriter{logger: logger, level: level}, "", 0)
}

type levelWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
