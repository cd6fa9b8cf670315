package jsonl

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

const stdoutOutput = "-"

// MessageSinkRepository writes every message as one JSON line.
type MessageSinkRepository struct {
	mu     sync.Mutex
	writer io.Writer
	open   func() (io.WriteCloser, error)
}

// NewMessageSinkRepository writes to stdout or appends to the configured file.
func NewMessageSinkRepository(settings entities.SinkSettings, _ *entities.Job) (repositories.MessageSinkRepository, error) {
	if settings.Output == "" || settings.Output == stdoutOutput {
		return NewMessageSinkRepositoryWith(os.Stdout), nil
	}
	return NewFileMessageSinkRepository(afero.NewOsFs(), settings.Output), nil
}

// NewMessageSinkRepositoryWith writes to the given writer.
func NewMessageSinkRepositoryWith(writer io.Writer) *MessageSinkRepository {
	return &MessageSinkRepository{writer: writer}
}

// NewFileMessageSinkRepository appends to path, creating it when missing.
func NewFileMessageSinkRepository(fs afero.Fs, path string) *MessageSinkRepository {
	return &MessageSinkRepository{
		open: func() (io.WriteCloser, error) {
			return fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:mnd // rw-r--r--
		},
	}
}

func (s *MessageSinkRepository) Send(_ context.Context, messages []entities.OutputMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writer := s.writer
	if s.open != nil {
		file, err := s.open()
		if err != nil {
			return fmt.Errorf("failed to open message output: %w", err)
		}
		defer file.Close()
		writer = file
	}

	for _, message := range messages {
		line, err := entities.MarshalMessage(message)
		if err != nil {
			return err
		}
		if _, writeErr := writer.Write(append(line, '\n')); writeErr != nil {
			return fmt.Errorf("failed to write %s message: %w", message.Type(), writeErr)
		}
	}
	return nil
}
