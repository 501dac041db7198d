package notification

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domain "tourbook/internal/domain/notification"
)

// FileTimeLayout is the timestamp format of file sink lines.
const FileTimeLayout = "2006-01-02 15:04:05"

// FileSink appends "[FILE] <timestamp> - <text>" lines to a log file.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink creates a file sink. The directory is created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Name implements domain.Sink.
func (s *FileSink) Name() string { return "file" }

// Path returns the log file path.
func (s *FileSink) Path() string { return s.path }

// Send implements domain.Sink.
func (s *FileSink) Send(ctx context.Context, msg domain.Message) error {
	line := FormatFileLine(msg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write log file: %w", err)
	}
	return f.Close()
}

// FormatFileLine renders one line of the file sink, newline included.
func FormatFileLine(msg domain.Message) string {
	return fmt.Sprintf("[FILE] %s - %s\n", msg.Time.Format(FileTimeLayout), msg.Text)
}
