package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Recorder is the process-wide append-only record of a run. Every component
// writes through it. Each entry is one line of the form
//
//	[2006-01-02T15:04:05] [LEVEL] message
//
// appended to a per-run-type log file and echoed to the terminal in color.
// A single mutex guards the writer, so append order in the file always equals
// the order in which components logged — there is no buffering that could
// reorder entries.
//
// Secrets must never pass through the Recorder; callers log only the purpose
// of a credential, never its value.
type Recorder struct {
	mu   sync.Mutex
	out  io.Writer
	echo bool
}

// timestamp layout for log lines. Local time, second precision.
const stampLayout = "2006-01-02T15:04:05"

// Open creates (or appends to) the run log for the given run type
// ("setup" or "teardown") under dir, creating dir if needed.
func Open(dir, runType string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, runType+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Recorder{out: f, echo: true}, nil
}

// NewRecorder wraps an arbitrary writer, with terminal echo optional.
// Tests use this with a bytes.Buffer to capture the exact log lines.
func NewRecorder(out io.Writer, echo bool) *Recorder {
	return &Recorder{out: out, echo: echo}
}

// Close closes the underlying log file if there is one.
func (r *Recorder) Close() error {
	if c, ok := r.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) record(level string, echoFn func(format string, a ...any), format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	r.mu.Lock()
	if r.out != nil {
		fmt.Fprintf(r.out, "[%s] [%s] %s\n", time.Now().Format(stampLayout), level, msg)
	}
	r.mu.Unlock()
	if r.echo {
		echoFn("[%s] %s\n", level, msg)
	}
}

// Infof records an informational entry.
func (r *Recorder) Infof(format string, a ...any) { r.record("INFO", Info, format, a...) }

// Warnf records a warning entry.
func (r *Recorder) Warnf(format string, a ...any) { r.record("WARN", Warn, format, a...) }

// Errorf records an error entry.
func (r *Recorder) Errorf(format string, a ...any) { r.record("ERROR", Error, format, a...) }

// Debugf echoes a diagnostic message to the terminal only (when --debug is
// set). Debug chatter is deliberately kept out of the durable run log.
func (r *Recorder) Debugf(format string, a ...any) { Debug("[DEBUG] "+format+"\n", a...) }
