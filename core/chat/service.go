package chat

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core"
)

var ErrMissingMessage = core.NewValidationError(errors.New("Message is required"))

type (
	// Completer is an external chat completion service.
	Completer interface {
		Complete(ctx context.Context, messages []Message) (string, error)
	}

	Service struct {
		completer Completer // nil: canned replies only
		logger    core.Logger
	}
)

func NewService(completer Completer, logger core.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Chat forwards the request to the completion service when one is configured.
// Any upstream failure or empty completion falls back to the canned reply.
func (svc *Service) Chat(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Reply{}, ErrMissingMessage
	}
	if svc.completer == nil {
		return Reply{Reply: CannedReply(req.Message)}, nil
	}

	reply, err := svc.completer.Complete(ctx, req.messages())
	if err != nil {
		svc.logger.Warn("chat completion failed, falling back to canned reply", err)
		return Reply{Reply: CannedReply(req.Message)}, nil
	}
	if reply == "" {
		return Reply{Reply: CannedReply(req.Message)}, nil
	}
	return Reply{Reply: reply}, nil
}
