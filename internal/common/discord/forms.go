// internal/common/discord/forms.go
package discord

import (
	"application-intake-bot/pkg/registry"

	"github.com/bwmarrin/discordgo"
)

// Form renders fields, in order, as a form surface with one input per row.
func Form(customID, title string, fields []registry.FormField) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(fields))
	for _, f := range fields {
		style := discordgo.TextInputShort
		if f.Style == registry.InputParagraph {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    f.ID,
					Label:       f.Label,
					Style:       style,
					Placeholder: f.Placeholder,
					Required:    f.Required,
					MinLength:   f.MinLength,
					MaxLength:   f.MaxLength,
				},
			},
		})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   customID,
		Title:      title,
		Components: rows,
	}
}

// FormValues collects the submitted text inputs of a form by field id.
func FormValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		var row []discordgo.MessageComponent
		switch r := c.(type) {
		case *discordgo.ActionsRow:
			row = r.Components
		case discordgo.ActionsRow:
			row = r.Components
		default:
			continue
		}
		for _, inner := range row {
			switch in := inner.(type) {
			case *discordgo.TextInput:
				values[in.CustomID] = in.Value
			case discordgo.TextInput:
				values[in.CustomID] = in.Value
			}
		}
	}
	return values
}
