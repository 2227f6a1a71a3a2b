// internal/workers/dispatch/models.go
package dispatch

import (
	"application-intake-bot/internal/customid"

	"github.com/bwmarrin/discordgo"
)

// Event names, used as the action label in logs, metrics and spans.
const (
	EventStart           = "start"
	EventTypeSelected    = "type_selected"
	EventFormSubmitted   = "form_submitted"
	EventAccept          = "accept"
	EventRejectPressed   = "reject_pressed"
	EventRejectConfirmed = "reject_confirmed"
)

// Event is an interaction this bot owns. Action is nil for the entry
// command, which carries no encoded identifier.
type Event struct {
	Name   string
	Action customid.Action
}

// Decode classifies i. ok is false for anything this bot does not own.
func Decode(i *discordgo.Interaction, commandName string) (Event, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			return Event{Name: EventStart}, true
		}
	case discordgo.InteractionMessageComponent:
		if action, ok := customid.Parse(customid.SourceControl, i.MessageComponentData().CustomID); ok {
			return Event{Name: eventName(action), Action: action}, true
		}
	case discordgo.InteractionModalSubmit:
		if action, ok := customid.Parse(customid.SourceForm, i.ModalSubmitData().CustomID); ok {
			return Event{Name: eventName(action), Action: action}, true
		}
	}
	return Event{}, false
}

func eventName(a customid.Action) string {
	switch a.(type) {
	case customid.Apply:
		return EventTypeSelected
	case customid.ApplicationModal:
		return EventFormSubmitted
	case customid.AcceptApplication:
		return EventAccept
	case customid.RejectApplication:
		return EventRejectPressed
	case customid.RejectModal:
		return EventRejectConfirmed
	default:
		return ""
	}
}
