//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// SpyMessageSinkRepository records every message it is asked to send.
type SpyMessageSinkRepository struct {
	SendErr   error
	Messages  []entities.OutputMessage
	SendCalls int
}

var _ repositories.MessageSinkRepository = (*SpyMessageSinkRepository)(nil)

func (s *SpyMessageSinkRepository) Send(_ context.Context, messages []entities.OutputMessage) error {
	s.SendCalls++
	if s.SendErr != nil {
		return s.SendErr
	}
	s.Messages = append(s.Messages, messages...)
	return nil
}

// Types returns the type of every recorded message, in order.
func (s *SpyMessageSinkRepository) Types() []string {
	types := make([]string, 0, len(s.Messages))
	for _, message := range s.Messages {
		types = append(types, message.Type())
	}
	return types
}
