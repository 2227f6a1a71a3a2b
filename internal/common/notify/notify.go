// internal/common/notify/notify.go

// Package notify sends out-of-band alerts about applications: an email to
// the review team when one arrives and an SNS event when one is decided.
// Alerts are best effort; callers log failures and carry on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	awsclients "application-intake-bot/internal/common/aws"
	"application-intake-bot/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Notifier is implemented by every alert channel.
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, rec *models.SubmissionRecord) error
	ApplicationDecided(ctx context.Context, event DecisionEvent) error
}

// DecisionEvent is the SNS message body for a decision.
type DecisionEvent struct {
	Decision    models.Status `json:"decision"`
	RecordID    string        `json:"recordId"`
	ChannelID   string        `json:"channelId"`
	TypeLabel   string        `json:"typeLabel"`
	ApplicantID string        `json:"applicantId,omitempty"`
	ReviewerID  string        `json:"reviewerId"`
	Reason      string        `json:"reason,omitempty"`
	DecidedAt   time.Time     `json:"decidedAt"`
}

// NewDecisionEvent builds the event for a record that has just been decided.
func NewDecisionEvent(rec *models.SubmissionRecord) DecisionEvent {
	return DecisionEvent{
		Decision:    rec.Status,
		RecordID:    rec.RecordID,
		ChannelID:   rec.ChannelID,
		TypeLabel:   rec.TypeLabel,
		ApplicantID: rec.ApplicantID,
		ReviewerID:  rec.ReviewerID,
		Reason:      rec.RejectionReason,
		DecidedAt:   time.Now().UTC(),
	}
}

type Config struct {
	GuildID     string
	SESEnabled  bool
	FromEmail   string
	ToEmails    []string
	SNSEnabled  bool
	SNSTopicARN string
}

// AWSNotifier delivers alerts through SES and SNS. A disabled channel is a
// silent no-op.
type AWSNotifier struct {
	config *Config
	ses    awsclients.SESService
	sns    awsclients.SNSService
}

func NewAWSNotifier(config *Config, sesClient awsclients.SESService, snsClient awsclients.SNSService) *AWSNotifier {
	return &AWSNotifier{config: config, ses: sesClient, sns: snsClient}
}

func (n *AWSNotifier) ApplicationSubmitted(ctx context.Context, rec *models.SubmissionRecord) error {
	if !n.config.SESEnabled || n.ses == nil {
		return nil
	}

	subject := fmt.Sprintf("New application: %s from %s", rec.TypeLabel, rec.ApplicantTag)
	body := n.submissionBody(rec)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: n.config.ToEmails,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	if err != nil {
		return fmt.Errorf("send submission email for %s: %w", rec.RecordID, err)
	}
	return nil
}

func (n *AWSNotifier) submissionBody(rec *models.SubmissionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s applied for %s.\n\n", rec.ApplicantTag, rec.TypeLabel)
	for _, f := range rec.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	fmt.Fprintf(&b, "\nReview it at %s\n", MessageURL(n.config.GuildID, rec.ChannelID, rec.RecordID))
	return b.String()
}

func (n *AWSNotifier) ApplicationDecided(ctx context.Context, event DecisionEvent) error {
	if !n.config.SNSEnabled || n.sns == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal decision event: %w", err)
	}

	_, err = n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.SNSTopicARN),
		Subject:  aws.String(fmt.Sprintf("Application %s", strings.ToLower(string(event.Decision)))),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"decision": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Decision)),
			},
			"typeLabel": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.TypeLabel),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish decision for %s: %w", event.RecordID, err)
	}
	return nil
}

// MessageURL links to a message in a guild channel.
func MessageURL(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

// NoopNotifier drops every alert.
type NoopNotifier struct{}

func (NoopNotifier) ApplicationSubmitted(context.Context, *models.SubmissionRecord) error { return nil }
func (NoopNotifier) ApplicationDecided(context.Context, DecisionEvent) error              { return nil }
