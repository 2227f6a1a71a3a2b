// internal/workers/intake/handler.go
package intake

import (
	"context"

	"application-intake-bot/internal/common/audit"
	"application-intake-bot/internal/common/discord"
	apperrors "application-intake-bot/internal/common/errors"
	"application-intake-bot/internal/common/logger"
	"application-intake-bot/internal/common/metrics"
	"application-intake-bot/internal/common/notify"
	"application-intake-bot/internal/common/validation"
	"application-intake-bot/internal/customid"
	"application-intake-bot/internal/models"
	"application-intake-bot/internal/record"
	"application-intake-bot/pkg/registry"

	"github.com/bwmarrin/discordgo"
)

const (
	TaskType = "intake"
)

// Handler drives an applicant from the entry command to a rendered record.
// It keeps no state between steps: each step is fully described by the
// identifier it was triggered with.
type Handler struct {
	config   *Config
	registry *registry.Registry
	gateway  discord.Gateway
	codec    *record.Codec
	audit    audit.Sink
	notifier notify.Notifier
	logger   logger.Logger
}

func NewHandler(
	config *Config,
	reg *registry.Registry,
	gateway discord.Gateway,
	codec *record.Codec,
	sink audit.Sink,
	notifier notify.Notifier,
	log logger.Logger,
) *Handler {
	return &Handler{
		config:   config,
		registry: reg,
		gateway:  gateway,
		codec:    codec,
		audit:    sink,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Start posts one control per application type into the command channel.
func (h *Handler) Start(ctx context.Context, i *discordgo.Interaction) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	types := h.registry.All()
	if len(types) == 0 {
		return apperrors.NewConfigInconsistencyError(ReplyNoTypes, "registry")
	}

	channelID := h.config.CommandChannelID
	if channelID == "" {
		channelID = i.ChannelID
	}

	msg, err := h.gateway.SendMessage(ctx, channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       SurfaceTitle,
			Description: SurfaceDescription,
			Color:       SurfaceColor,
		}},
		Components: ControlRows(types),
	})
	if err != nil {
		return apperrors.NewCollaboratorFailureError("post application controls", err)
	}

	h.logger.Info("application controls posted", map[string]interface{}{
		"interactionId": i.ID,
		"channelId":     channelID,
		"messageId":     msg.ID,
		"types":         len(types),
	})

	h.acknowledge(ctx, i, ReplyControlsPosted)
	return nil
}

// ControlRows lays out one button per type in registry order, at most
// ControlsPerRow to a row.
func ControlRows(types []registry.ApplicationType) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, (len(types)+ControlsPerRow-1)/ControlsPerRow)
	for start := 0; start < len(types); start += ControlsPerRow {
		end := start + ControlsPerRow
		if end > len(types) {
			end = len(types)
		}
		buttons := make([]discordgo.MessageComponent, 0, end-start)
		for _, t := range types[start:end] {
			buttons = append(buttons, discordgo.Button{
				Label:    t.Label,
				Style:    buttonStyle(t.Style),
				CustomID: customid.Apply{TypeID: t.ID}.CustomID(),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func buttonStyle(s registry.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case registry.ButtonSecondary:
		return discordgo.SecondaryButton
	case registry.ButtonSuccess:
		return discordgo.SuccessButton
	case registry.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// TypeSelected presents the application form of the chosen type.
func (h *Handler) TypeSelected(ctx context.Context, i *discordgo.Interaction, action customid.Apply) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	t, ok := h.registry.LookupByID(action.TypeID)
	if !ok {
		return apperrors.NewConfigInconsistencyError(ReplyTypeNotFound, action.CustomID())
	}

	if err := h.gateway.PresentForm(ctx, i, BuildForm(t)); err != nil {
		return apperrors.NewCollaboratorFailureError("present application form", err)
	}

	h.logger.Debug("application form presented", map[string]interface{}{
		"interactionId": i.ID,
		"typeId":        t.ID,
		"applicantId":   apperrors.ActorID(i),
	})
	return nil
}

// BuildForm renders the fields of t, in order, as a form.
func BuildForm(t registry.ApplicationType) *discordgo.InteractionResponseData {
	return discord.Form(customid.ApplicationModal{TypeID: t.ID}.CustomID(), FormTitlePrefix+t.Label, t.Form)
}

// FormSubmitted renders the submission as a pending record in the review
// channel and then patches in the decision controls, which can only point
// at the record once the platform has assigned its id.
func (h *Handler) FormSubmitted(ctx context.Context, i *discordgo.Interaction, action customid.ApplicationModal) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	t, ok := h.registry.LookupByID(action.TypeID)
	if !ok {
		return apperrors.NewConfigInconsistencyError(ReplyTypeNotFound, action.CustomID())
	}

	applicant := interactionUser(i)
	if applicant == nil {
		return apperrors.NewInternalError(errNoApplicant)
	}

	cleaned, result := validation.ValidateSubmission(t.Form, discord.FormValues(i.ModalSubmitData()))
	if !result.Valid {
		return apperrors.NewValidationFailedError(result.Problems())
	}

	if err := h.gateway.DeferPrivately(ctx, i); err != nil {
		return apperrors.NewCollaboratorFailureError("acknowledge submission", err)
	}

	rec := &models.SubmissionRecord{
		ChannelID:    h.config.ApplicationsChannelID,
		ApplicantID:  applicant.ID,
		ApplicantTag: applicant.String(),
		TypeLabel:    t.Label,
		Fields:       make([]models.FieldValue, 0, len(t.Form)),
		Status:       models.StatusPending,
	}
	for _, f := range t.Form {
		rec.Fields = append(rec.Fields, models.FieldValue{Label: f.Label, Value: cleaned[f.ID]})
	}

	msg, err := h.gateway.SendMessage(ctx, rec.ChannelID, h.codec.Message(rec))
	if err != nil {
		return apperrors.NewCollaboratorFailureError("render application record", err)
	}
	rec.RecordID = msg.ID
	if msg.ChannelID != "" {
		rec.ChannelID = msg.ChannelID
	}
	rec.HasDecisionPanel = true

	log := h.logger.WithFields(map[string]interface{}{
		"interactionId": i.ID,
		"recordId":      rec.RecordID,
		"typeId":        t.ID,
		"applicantId":   rec.ApplicantID,
	})

	if _, err := h.gateway.EditMessage(ctx, h.codec.Edit(rec)); err != nil {
		log.Error("application record left without decision controls", map[string]interface{}{
			"channelId": rec.ChannelID,
			"error":     err,
		})
		return apperrors.NewCollaboratorFailureError("attach decision controls", err).
			WithMetadata("recordId", rec.RecordID)
	}

	metrics.ApplicationsSubmitted.WithLabelValues(t.ID).Inc()
	log.Info("application submitted", nil)

	entry := audit.NewEntry(models.AuditSubmitted, rec.RecordID, t.Label, rec.ApplicantID)
	entry.TypeID = t.ID
	entry.ApplicantID = rec.ApplicantID
	if err := h.audit.Record(ctx, entry); err != nil {
		log.Warn("failed to record audit entry", map[string]interface{}{"error": err})
	}
	if err := h.notifier.ApplicationSubmitted(ctx, rec); err != nil {
		log.Warn("failed to alert review team", map[string]interface{}{"error": err})
	}

	h.acknowledge(ctx, i, ReplySubmitted)
	return nil
}

// acknowledge sends the closing private reply. The work it reports is
// already done, so a failure here is only logged.
func (h *Handler) acknowledge(ctx context.Context, i *discordgo.Interaction, content string) {
	if err := h.gateway.ReplyPrivately(ctx, i, content); err != nil {
		h.logger.Warn("failed to acknowledge interaction", map[string]interface{}{
			"interactionId": i.ID,
			"error":         err,
		})
	}
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
