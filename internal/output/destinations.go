package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/simulator/producers"
)

// OutputDestination is a message sink that owns resources.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// ConsoleOutput prints one line per message, prefixed with its topic.
type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// FileOutput appends newline-delimited messages to <basePath>/<topic>.jsonl.
type FileOutput struct {
	basePath string
	files    map[string]*os.File
	writers  map[string]*bufio.Writer
}

func NewFileOutput(basePath string) (*FileOutput, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create event directory %s: %w", basePath, err)
	}
	return &FileOutput{
		basePath: basePath,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*bufio.Writer),
	}, nil
}

func (f *FileOutput) WriteMessage(topic string, msg []byte) error {
	w, ok := f.writers[topic]
	if !ok {
		file, err := os.Create(filepath.Join(f.basePath, topic+".jsonl"))
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		f.files[topic] = file
		w = bufio.NewWriter(file)
		f.writers[topic] = w
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return w.WriteByte('\n')
}

func (f *FileOutput) Close() error {
	var lastErr error
	for topic, w := range f.writers {
		if err := w.Flush(); err != nil {
			lastErr = fmt.Errorf("flush %s: %w", topic, err)
		}
		if err := f.files[topic].Close(); err != nil {
			lastErr = fmt.Errorf("close %s: %w", topic, err)
		}
	}
	return lastErr
}

// NewEventDestination picks the booking-event sink from events.output. It returns nil for "none".
// Console events go to console, which callers keep apart from the summary on stdout.
func NewEventDestination(cfg models.EventsConfig, console io.Writer, logger *log.Logger) (OutputDestination, error) {
	switch cfg.Output {
	case "", "none":
		return nil, nil
	case "console":
		return NewConsoleOutput(console), nil
	case "file":
		fo, err := NewFileOutput(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return fo, nil
	case "kafka":
		producer, err := producers.NewSaramaProducer(cfg, logger)
		if err != nil {
			return nil, err
		}
		return producer, nil
	default:
		return nil, fmt.Errorf("unsupported events output: %s", cfg.Output)
	}
}
