// internal/common/discord/gateway.go
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrMessageNotFound = errors.New("Application message not found for ID")
	ErrMemberNotFound  = errors.New("Member not found")
	ErrRoleNotFound    = errors.New("Role not found")
)

// Gateway is everything the workflows need from the chat platform.
type Gateway interface {
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error)
	FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	PresentForm(ctx context.Context, i *discordgo.Interaction, form *discordgo.InteractionResponseData) error
	DeferPrivately(ctx context.Context, i *discordgo.Interaction) error
	ReplyPrivately(ctx context.Context, i *discordgo.Interaction, content string) error
	FetchMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// SessionGateway implements Gateway over a discordgo session.
type SessionGateway struct {
	s *discordgo.Session

	// deferred holds ids of interactions acknowledged with DeferPrivately;
	// their reply must go out as a follow-up.
	deferred sync.Map
}

func NewSessionGateway(s *discordgo.Session) *SessionGateway {
	return &SessionGateway{s: s}
}

func (g *SessionGateway) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := g.s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return m, nil
}

func (g *SessionGateway) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	m, err := g.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	if err != nil {
		if isRESTStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, edit.ID)
		}
		return nil, fmt.Errorf("edit message %s: %w", edit.ID, err)
	}
	return m, nil
}

func (g *SessionGateway) FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	if messageID == "" {
		return nil, ErrMessageNotFound
	}
	m, err := g.s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		if isRESTStatus(err, http.StatusNotFound) || isRESTStatus(err, http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
		}
		return nil, fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	return m, nil
}

func (g *SessionGateway) PresentForm(ctx context.Context, i *discordgo.Interaction, form *discordgo.InteractionResponseData) error {
	err := g.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: form,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("present form %s: %w", form.CustomID, err)
	}
	return nil
}

// DeferPrivately acknowledges i so work may run past the platform's
// initial response window.
func (g *SessionGateway) DeferPrivately(ctx context.Context, i *discordgo.Interaction) error {
	err := g.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("defer interaction %s: %w", i.ID, err)
	}
	g.deferred.Store(i.ID, struct{}{})
	return nil
}

func (g *SessionGateway) ReplyPrivately(ctx context.Context, i *discordgo.Interaction, content string) error {
	if _, ok := g.deferred.LoadAndDelete(i.ID); ok {
		_, err := g.s.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("follow up interaction %s: %w", i.ID, err)
		}
		return nil
	}

	err := g.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("reply to interaction %s: %w", i.ID, err)
	}
	return nil
}

func (g *SessionGateway) FetchMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	m, err := g.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isRESTStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, userID)
		}
		return nil, fmt.Errorf("fetch member %s: %w", userID, err)
	}
	return m, nil
}

func (g *SessionGateway) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := g.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		if isRESTStatus(err, http.StatusNotFound) {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
		}
		return fmt.Errorf("grant role %s to %s: %w", roleID, userID, err)
	}
	return nil
}

func (g *SessionGateway) SendDirectMessage(ctx context.Context, userID, content string) error {
	ch, err := g.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open direct channel with %s: %w", userID, err)
	}
	if _, err := g.s.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("direct message %s: %w", userID, err)
	}
	return nil
}

func isRESTStatus(err error, status int) bool {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode == status
	}
	return false
}
