package console

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// The terminal itself is never a log destination: tracing stays off unless
// CONSOLECONTROLLER_LOG names a file to append to.
const traceEnv = "CONSOLECONTROLLER_LOG"

var (
	traceOnce sync.Once
	tracer    = logrus.New()
)

func trace() *logrus.Logger {
	traceOnce.Do(func() {
		tracer.SetOutput(io.Discard)
		path := os.Getenv(traceEnv)
		if path == "" {
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		tracer.SetOutput(f)
		tracer.SetLevel(logrus.DebugLevel)
	})
	return tracer
}
