package repositories

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// MessageSinkRepository delivers the composed messages of a job, in order.
type MessageSinkRepository interface {
	Send(ctx context.Context, messages []entities.OutputMessage) error
}
