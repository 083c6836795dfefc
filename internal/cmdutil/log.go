// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes line-oriented messages to the terminal writer and,
// optionally, to a log file. The file receives every level with a
// timestamp regardless of --quiet.
type Logger struct {
	mu      sync.Mutex
	dst     io.Writer
	file    io.WriteCloser
	quiet   bool
	verbose bool
	now     func() time.Time
}

// NewLogger logs to dst. quiet drops info and warnings on dst; verbose
// enables debug messages.
func NewLogger(dst io.Writer, quiet, verbose bool) *Logger {
	return &Logger{dst: dst, quiet: quiet, verbose: verbose, now: time.Now}
}

// TeeFile appends all messages to path as well.
func (l *Logger) TeeFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.file = f
	l.mu.Unlock()
	return nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) Infof(format string, a ...any) { l.log("INFO", "", !l.quiet, format, a...) }
func (l *Logger) Warnf(format string, a ...any) { l.log("WARNING", "WARN: ", !l.quiet, format, a...) }
func (l *Logger) Errorf(format string, a ...any) {
	l.log("ERROR", "error: ", true, format, a...)
}

func (l *Logger) Debugf(format string, a ...any) {
	if !l.verbose {
		return
	}
	l.log("DEBUG", "", !l.quiet, format, a...)
}

func (l *Logger) log(level, prefix string, show bool, format string, a ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	if show {
		_, _ = fmt.Fprintln(l.dst, prefix+msg)
	}
	if l.file != nil {
		_, _ = fmt.Fprintf(l.file, "%s - bcseq - %s - %s\n", l.now().Format("2006-01-02 15:04:05"), level, msg)
	}
}
