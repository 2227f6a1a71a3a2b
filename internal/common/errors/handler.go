// internal/common/errors/handler.go
package errors

import (
	"context"

	"application-intake-bot/internal/common/metrics"

	"github.com/bwmarrin/discordgo"
)

// Replier sends the private error reply.
type Replier interface {
	ReplyPrivately(ctx context.Context, i *discordgo.Interaction, content string) error
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler converts any failure escaping a flow into a private reply
// to the actor. Nothing it handles is fatal to the process.
type ErrorHandler struct {
	logger  Logger
	replier Replier
}

func NewErrorHandler(logger Logger, replier Replier) *ErrorHandler {
	return &ErrorHandler{logger: logger, replier: replier}
}

// HandleInteractionError normalizes err, logs it, counts it and replies.
func (h *ErrorHandler) HandleInteractionError(ctx context.Context, i *discordgo.Interaction, action string, err error) {
	stdErr := h.normalizeError(err)

	h.logError(i, action, stdErr)
	metrics.InteractionsFailed.WithLabelValues(action, string(stdErr.Code)).Inc()

	if replyErr := h.replier.ReplyPrivately(ctx, i, stdErr.Message); replyErr != nil {
		h.logger.Error("failed to send error reply", map[string]interface{}{
			"interactionId": i.ID,
			"action":        action,
			"error":         replyErr,
		})
	}
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) logError(i *discordgo.Interaction, action string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"interactionId": i.ID,
		"action":        action,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if actor := ActorID(i); actor != "" {
		fields["actorId"] = actor
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	if IsExpected(stdErr.Code) {
		h.logger.Warn("interaction refused", fields)
		return
	}
	h.logger.Error("interaction failed", fields)
}

// ActorID is the id of the user behind i, in or out of a guild.
func ActorID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
