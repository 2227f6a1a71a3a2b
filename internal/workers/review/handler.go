// internal/workers/review/handler.go
package review

import (
	"context"
	"errors"

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
	TaskType = "review"
)

// Handler applies reviewer decisions to rendered records. Everything it
// knows about a record is recovered from the record's own rendering.
//
// Two reviewers deciding the same record at nearly the same moment can both
// pass the pending check; the later edit wins the rendering. Nothing here
// serializes them.
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

// RejectPressed asks the reviewer for a reason.
func (h *Handler) RejectPressed(ctx context.Context, i *discordgo.Interaction, action customid.RejectApplication) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if err := h.authorize(i); err != nil {
		return err
	}

	if err := h.gateway.PresentForm(ctx, i, RejectForm(action.RecordID)); err != nil {
		return apperrors.NewCollaboratorFailureError("present rejection form", err).
			WithMetadata("recordId", action.RecordID)
	}
	return nil
}

// RejectForm is the reason prompt for recordID.
func RejectForm(recordID string) *discordgo.InteractionResponseData {
	return discord.Form(customid.RejectModal{RecordID: recordID}.CustomID(), RejectFormTitle,
		[]registry.FormField{reasonField})
}

// RejectConfirmed marks the record rejected with the submitted reason.
func (h *Handler) RejectConfirmed(ctx context.Context, i *discordgo.Interaction, action customid.RejectModal) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if err := h.authorize(i); err != nil {
		return err
	}

	cleaned, result := validation.ValidateSubmission([]registry.FormField{reasonField}, discord.FormValues(i.ModalSubmitData()))
	if !result.Valid {
		return apperrors.NewDecisionValidationFailedError(result.Problems())
	}
	reason := cleaned[ReasonFieldID]

	if err := h.gateway.DeferPrivately(ctx, i); err != nil {
		return apperrors.NewCollaboratorFailureError("acknowledge rejection", err)
	}

	rec, msg, err := h.load(ctx, i, action.RecordID)
	if err != nil {
		return err
	}

	rec.Status = models.StatusRejected
	rec.ReviewerID = apperrors.ActorID(i)
	rec.RejectionReason = reason
	rec.HasDecisionPanel = false

	if err := h.finalize(ctx, msg, rec); err != nil {
		return err
	}

	log := h.logger.WithFields(map[string]interface{}{
		"interactionId": i.ID,
		"recordId":      rec.RecordID,
		"reviewerId":    rec.ReviewerID,
	})
	log.Info("application rejected", map[string]interface{}{"typeLabel": rec.TypeLabel})

	if h.config.NotifyRejected && rec.ApplicantID != "" {
		if err := h.gateway.SendDirectMessage(ctx, rec.ApplicantID, NoticeRejected(rec.TypeLabel, reason)); err != nil {
			log.Warn("failed to send rejection notice", map[string]interface{}{
				"applicantId": rec.ApplicantID,
				"error":       err,
			})
		}
	}

	h.recordDecision(ctx, log, rec, "")
	h.acknowledge(ctx, i, ReplyRejected)
	return nil
}

// Accept grants the type's role to the applicant, notifies them and marks
// the record accepted. Steps already applied are not rolled back when a
// later one fails.
func (h *Handler) Accept(ctx context.Context, i *discordgo.Interaction, action customid.AcceptApplication) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if err := h.authorize(i); err != nil {
		return err
	}

	if err := h.gateway.DeferPrivately(ctx, i); err != nil {
		return apperrors.NewCollaboratorFailureError("acknowledge acceptance", err)
	}

	rec, msg, err := h.load(ctx, i, action.RecordID)
	if err != nil {
		return err
	}

	identity, err := h.codec.Identity(msg)
	if err != nil {
		return apperrors.NewRecordUnparsableError(action.RecordID, err)
	}

	t, ok := h.registry.LookupByLabel(identity.TypeLabel)
	if !ok {
		return apperrors.NewConfigInconsistencyError(ReplyTypeNotFound, identity.TypeLabel).
			WithMetadata("recordId", action.RecordID)
	}

	log := h.logger.WithFields(map[string]interface{}{
		"interactionId": i.ID,
		"recordId":      rec.RecordID,
		"reviewerId":    apperrors.ActorID(i),
		"applicantId":   identity.ApplicantID,
		"typeId":        t.ID,
	})

	member, err := h.gateway.FetchMember(ctx, h.config.GuildID, identity.ApplicantID)
	if err != nil {
		return apperrors.NewCollaboratorFailureError("fetch member", err).
			WithMetadata("recordId", rec.RecordID)
	}
	userID := identity.ApplicantID
	if member.User != nil {
		userID = member.User.ID
	}

	if err := h.gateway.GrantRole(ctx, h.config.GuildID, userID, t.RoleID); err != nil {
		return apperrors.NewCollaboratorFailureError("grant role", err).
			WithMetadata("recordId", rec.RecordID).
			WithMetadata("roleId", t.RoleID)
	}
	log.Info("role granted", map[string]interface{}{"roleId": t.RoleID})

	if err := h.gateway.SendDirectMessage(ctx, userID, NoticeAccepted); err != nil {
		log.Warn("failed to send acceptance notice", map[string]interface{}{"error": err})
	}

	rec.ApplicantID = identity.ApplicantID
	rec.ApplicantTag = identity.ApplicantTag
	rec.TypeLabel = identity.TypeLabel
	rec.Status = models.StatusAccepted
	rec.ReviewerID = apperrors.ActorID(i)
	rec.HasDecisionPanel = false

	if err := h.finalize(ctx, msg, rec); err != nil {
		return err
	}
	log.Info("application accepted", nil)

	h.recordDecision(ctx, log, rec, t.ID)
	h.acknowledge(ctx, i, ReplyAccepted)
	return nil
}

// load fetches and parses a record, refusing one that is already decided.
func (h *Handler) load(ctx context.Context, i *discordgo.Interaction, recordID string) (*models.SubmissionRecord, *discordgo.Message, error) {
	msg, err := h.gateway.FetchMessage(ctx, h.channelID(i), recordID)
	if err != nil {
		if errors.Is(err, discord.ErrMessageNotFound) {
			return nil, nil, apperrors.NewRecordNotFoundError(recordID, err)
		}
		return nil, nil, apperrors.NewCollaboratorFailureError("fetch record", err).
			WithMetadata("recordId", recordID)
	}

	rec, err := h.codec.Parse(msg)
	if err != nil {
		return nil, nil, apperrors.NewRecordUnparsableError(recordID, err)
	}
	if rec.ChannelID == "" {
		rec.ChannelID = h.channelID(i)
	}
	if !rec.Decidable() {
		return nil, nil, apperrors.NewRecordAlreadyDecidedError(recordID, string(rec.Status))
	}
	return rec, msg, nil
}

// finalize edits the fetched record into its decided state, without
// controls.
func (h *Handler) finalize(ctx context.Context, msg *discordgo.Message, rec *models.SubmissionRecord) error {
	if _, err := h.gateway.EditMessage(ctx, h.codec.Decide(msg, rec)); err != nil {
		if errors.Is(err, discord.ErrMessageNotFound) {
			return apperrors.NewRecordNotFoundError(rec.RecordID, err)
		}
		return apperrors.NewCollaboratorFailureError("update record", err).
			WithMetadata("recordId", rec.RecordID)
	}
	return nil
}

// recordDecision feeds the audit trail, the decision topic and metrics.
// None of these affect the outcome.
func (h *Handler) recordDecision(ctx context.Context, log logger.Logger, rec *models.SubmissionRecord, typeID string) {
	event := models.AuditAccepted
	if rec.Status == models.StatusRejected {
		event = models.AuditRejected
	}
	if typeID == "" {
		if t, ok := h.registry.LookupByLabel(rec.TypeLabel); ok {
			typeID = t.ID
		}
	}

	metricType := typeID
	if metricType == "" {
		metricType = rec.TypeLabel
	}
	metrics.ApplicationsDecided.WithLabelValues(metricType, string(rec.Status)).Inc()

	entry := audit.NewEntry(event, rec.RecordID, rec.TypeLabel, rec.ReviewerID)
	entry.TypeID = typeID
	entry.ApplicantID = rec.ApplicantID
	entry.Reason = rec.RejectionReason
	if err := h.audit.Record(ctx, entry); err != nil {
		log.Warn("failed to record audit entry", map[string]interface{}{"error": err})
	}
	if err := h.notifier.ApplicationDecided(ctx, notify.NewDecisionEvent(rec)); err != nil {
		log.Warn("failed to publish decision", map[string]interface{}{"error": err})
	}
}

// authorize checks the actor holds a reviewer role, when any are configured.
func (h *Handler) authorize(i *discordgo.Interaction) error {
	if len(h.config.ReviewerRoleIDs) == 0 {
		return nil
	}
	if i.Member != nil {
		for _, held := range i.Member.Roles {
			for _, allowed := range h.config.ReviewerRoleIDs {
				if held == allowed {
					return nil
				}
			}
		}
	}
	return apperrors.NewNotAuthorizedError(apperrors.ActorID(i))
}

func (h *Handler) channelID(i *discordgo.Interaction) string {
	if h.config.ApplicationsChannelID != "" {
		return h.config.ApplicationsChannelID
	}
	return i.ChannelID
}

func (h *Handler) acknowledge(ctx context.Context, i *discordgo.Interaction, content string) {
	if err := h.gateway.ReplyPrivately(ctx, i, content); err != nil {
		h.logger.Warn("failed to acknowledge interaction", map[string]interface{}{
			"interactionId": i.ID,
			"error":         err,
		})
	}
}
