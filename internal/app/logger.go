package app

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger is the component-tagged logger every package accepts in its own
// minimal shape.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// FileLogger writes one line per message. It is safe for concurrent use; the
// tick loop, the web server and the key watchers all log through it.
type FileLogger struct {
	mu  *sync.Mutex
	w   io.Writer
	now func() time.Time
}

func NewFileLogger(w io.Writer) FileLogger {
	return FileLogger{mu: &sync.Mutex{}, w: w, now: time.Now}
}

func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.write("INFO", component, format, args...)
}

func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.write("ERROR", component, format, args...)
}

func (l FileLogger) write(level, component, format string, args ...interface{}) {
	timestamp := l.now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
