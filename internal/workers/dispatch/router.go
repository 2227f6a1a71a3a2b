// internal/workers/dispatch/router.go
package dispatch

import (
	"context"
	"fmt"
	"time"

	apperrors "application-intake-bot/internal/common/errors"
	"application-intake-bot/internal/common/logger"
	"application-intake-bot/internal/common/metrics"
	"application-intake-bot/internal/common/observability"
	"application-intake-bot/internal/customid"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "dispatch"
)

// IntakeFlow is implemented by intake.Handler.
type IntakeFlow interface {
	Start(ctx context.Context, i *discordgo.Interaction) error
	TypeSelected(ctx context.Context, i *discordgo.Interaction, action customid.Apply) error
	FormSubmitted(ctx context.Context, i *discordgo.Interaction, action customid.ApplicationModal) error
}

// ReviewFlow is implemented by review.Handler.
type ReviewFlow interface {
	RejectPressed(ctx context.Context, i *discordgo.Interaction, action customid.RejectApplication) error
	RejectConfirmed(ctx context.Context, i *discordgo.Interaction, action customid.RejectModal) error
	Accept(ctx context.Context, i *discordgo.Interaction, action customid.AcceptApplication) error
}

// Router hands each inbound interaction to the flow that owns it and turns
// whatever the flow returns into a reply. Every call is independent; the
// router holds no per-record state.
type Router struct {
	config *Config
	intake IntakeFlow
	review ReviewFlow
	errors *apperrors.ErrorHandler
	obs    *observability.Observability
	logger logger.Logger
}

func NewRouter(
	config *Config,
	intake IntakeFlow,
	review ReviewFlow,
	errorHandler *apperrors.ErrorHandler,
	obs *observability.Observability,
	log logger.Logger,
) *Router {
	return &Router{
		config: config,
		intake: intake,
		review: review,
		errors: errorHandler,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// OnInteraction adapts Handle to a discordgo event handler.
func (r *Router) OnInteraction(ctx context.Context) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
		r.Handle(ctx, ic.Interaction)
	}
}

// Handle routes one interaction. Interactions this bot does not own are
// ignored.
func (r *Router) Handle(ctx context.Context, i *discordgo.Interaction) {
	event, ok := Decode(i, r.config.CommandName)
	if !ok || !r.enabled(event) {
		metrics.InteractionsIgnored.Inc()
		return
	}

	correlationID := uuid.NewString()
	ctx, span := r.obs.Tracer().Start(ctx, "interaction."+event.Name, trace.WithAttributes(
		attribute.String("interaction.id", i.ID),
		attribute.String("interaction.action", event.Name),
		attribute.String("correlation.id", correlationID),
	))
	defer span.End()

	log := r.logger.WithFields(map[string]interface{}{
		"interactionId": i.ID,
		"correlationId": correlationID,
		"action":        event.Name,
		"actorId":       apperrors.ActorID(i),
	})
	log.Debug("handling interaction", nil)

	metrics.InteractionsActive.WithLabelValues(event.Name).Inc()
	defer metrics.InteractionsActive.WithLabelValues(event.Name).Dec()
	start := time.Now()

	err := r.run(ctx, i, event)

	duration := time.Since(start)
	metrics.InteractionDuration.WithLabelValues(event.Name).Observe(duration.Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.errors.HandleInteractionError(ctx, i, event.Name, err)
	} else {
		metrics.InteractionsHandled.WithLabelValues(event.Name).Inc()
		log.Info("interaction handled", map[string]interface{}{"durationMs": duration.Milliseconds()})
	}
	r.obs.RecordInteraction(ctx, event.Name, outcome, duration)
}

// run dispatches on the decoded action. A panic in a flow is confined to
// this interaction.
func (r *Router) run(ctx context.Context, i *discordgo.Interaction, event Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = apperrors.NewInternalError(fmt.Errorf("panic handling %s: %v", event.Name, p))
		}
	}()

	switch a := event.Action.(type) {
	case nil:
		return r.intake.Start(ctx, i)
	case customid.Apply:
		return r.intake.TypeSelected(ctx, i, a)
	case customid.ApplicationModal:
		return r.intake.FormSubmitted(ctx, i, a)
	case customid.AcceptApplication:
		return r.review.Accept(ctx, i, a)
	case customid.RejectApplication:
		return r.review.RejectPressed(ctx, i, a)
	case customid.RejectModal:
		return r.review.RejectConfirmed(ctx, i, a)
	default:
		return apperrors.NewInternalError(fmt.Errorf("unhandled action %T", a))
	}
}

func (r *Router) enabled(event Event) bool {
	switch event.Action.(type) {
	case nil, customid.Apply, customid.ApplicationModal:
		return r.config.IntakeEnabled
	default:
		return r.config.ReviewEnabled
	}
}
