// internal/common/discord/discordtest/gateway.go

// Package discordtest provides a testify mock of discord.Gateway.
package discordtest

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	args := m.Called(ctx, channelID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockGateway) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	args := m.Called(ctx, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockGateway) FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockGateway) PresentForm(ctx context.Context, i *discordgo.Interaction, form *discordgo.InteractionResponseData) error {
	return m.Called(ctx, i, form).Error(0)
}

func (m *MockGateway) DeferPrivately(ctx context.Context, i *discordgo.Interaction) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockGateway) ReplyPrivately(ctx context.Context, i *discordgo.Interaction, content string) error {
	return m.Called(ctx, i, content).Error(0)
}

func (m *MockGateway) FetchMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Member), args.Error(1)
}

func (m *MockGateway) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	return m.Called(ctx, guildID, userID, roleID).Error(0)
}

func (m *MockGateway) SendDirectMessage(ctx context.Context, userID, content string) error {
	return m.Called(ctx, userID, content).Error(0)
}
