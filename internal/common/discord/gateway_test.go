// internal/common/discord/gateway_test.go
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRESTStatus(t *testing.T) {
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}

	assert.True(t, isRESTStatus(notFound, http.StatusNotFound))
	assert.True(t, isRESTStatus(fmt.Errorf("wrapped: %w", notFound), http.StatusNotFound))
	assert.False(t, isRESTStatus(notFound, http.StatusForbidden))
	assert.False(t, isRESTStatus(&discordgo.RESTError{}, http.StatusNotFound))
	assert.False(t, isRESTStatus(errors.New("boom"), http.StatusNotFound))
}

func TestFetchMessage_EmptyIDIsNotFound(t *testing.T) {
	s, err := NewSession("test-token")
	require.NoError(t, err)

	_, err = NewSessionGateway(s).FetchMessage(context.Background(), "555", "")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestNewSession_Intents(t *testing.T) {
	s, err := NewSession("test-token")
	require.NoError(t, err)
	assert.Equal(t, "Bot test-token", s.Token)
	assert.Equal(t, discordgo.IntentsGuilds, s.Identify.Intents)
}

func TestFormValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: "a", Value: "1"}}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{CustomID: "b", Value: "2"}}},
			&discordgo.Button{CustomID: "ignored"},
		},
	}
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, FormValues(data))
}
