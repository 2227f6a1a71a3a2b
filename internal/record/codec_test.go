// internal/record/codec_test.go
package record

import (
	"fmt"
	"strings"
	"testing"

	"application-intake-bot/internal/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRecord() *models.SubmissionRecord {
	return &models.SubmissionRecord{
		RecordID:     "987654",
		ChannelID:    "555",
		ApplicantID:  "123",
		ApplicantTag: "alice#0001",
		TypeLabel:    "Backend Developer",
		Fields: []models.FieldValue{
			{Label: "Experience", Value: "5 years of Go\nand some Rust"},
			{Label: "GitHub", Value: "https://github.com/alice"},
		},
		Status:           models.StatusPending,
		HasDecisionPanel: true,
	}
}

// rendered simulates what the platform returns for a rendered record.
func rendered(c *Codec, rec *models.SubmissionRecord) *discordgo.Message {
	return &discordgo.Message{
		ID:         rec.RecordID,
		ChannelID:  rec.ChannelID,
		Embeds:     []*discordgo.MessageEmbed{c.Embed(rec)},
		Components: c.Components(rec),
	}
}

func TestEmbed_Layout(t *testing.T) {
	c := NewCodec(DefaultPalette())
	embed := c.Embed(pendingRecord())

	assert.Equal(t, "Application for Backend Developer", embed.Title)
	assert.Equal(t, "**Experience:** 5 years of Go\nand some Rust\n**GitHub:** https://github.com/alice", embed.Description)
	assert.Equal(t, "Submitted by alice#0001 (123)", embed.Footer.Text)
	assert.Equal(t, 0x00ff00, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, StatusFieldName, embed.Fields[0].Name)
	assert.Equal(t, "Pending", embed.Fields[0].Value)
}

func TestComponents_DecisionPanel(t *testing.T) {
	c := NewCodec(DefaultPalette())
	components := c.Components(pendingRecord())
	require.Len(t, components, 1)

	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	accept := row.Components[0].(discordgo.Button)
	reject := row.Components[1].(discordgo.Button)
	assert.Equal(t, "acceptApplication_987654", accept.CustomID)
	assert.Equal(t, discordgo.SuccessButton, accept.Style)
	assert.Equal(t, "rejectApplication_987654", reject.CustomID)
	assert.Equal(t, discordgo.DangerButton, reject.Style)
}

func TestComponents_NoneOnceDecided(t *testing.T) {
	c := NewCodec(DefaultPalette())
	for _, s := range []models.Status{models.StatusAccepted, models.StatusRejected} {
		rec := pendingRecord()
		rec.Status = s
		assert.Empty(t, c.Components(rec), s)
	}

	rec := pendingRecord()
	rec.RecordID = ""
	assert.Empty(t, c.Components(rec), "no controls without a platform id")
}

func TestParse_RoundTrip(t *testing.T) {
	c := NewCodec(DefaultPalette())

	pending := pendingRecord()

	accepted := pendingRecord()
	accepted.Status = models.StatusAccepted
	accepted.ReviewerID = "777"
	accepted.HasDecisionPanel = false

	rejected := pendingRecord()
	rejected.Status = models.StatusRejected
	rejected.ReviewerID = "777"
	rejected.RejectionReason = "Incomplete portfolio"
	rejected.HasDecisionPanel = false

	for _, rec := range []*models.SubmissionRecord{pending, accepted, rejected} {
		t.Run(string(rec.Status), func(t *testing.T) {
			got, err := c.Parse(rendered(c, rec))
			require.NoError(t, err)
			assert.Equal(t, rec, got)
		})
	}
}

func TestParseFooter_IDLengths(t *testing.T) {
	tags := []string{"alice#0001", "bob", "carol (admin)", "dave 99", "Submitted by x"}
	ids := []string{"1", "42", "123456789", "1122334455667788990"}

	for _, tag := range tags {
		for _, id := range ids {
			t.Run(fmt.Sprintf("%s/%s", tag, id), func(t *testing.T) {
				gotTag, gotID, err := ParseFooter(&discordgo.MessageEmbedFooter{Text: Footer(tag, id)})
				require.NoError(t, err)
				assert.Equal(t, id, gotID)
				if !strings.HasPrefix(tag, FooterPrefix) {
					assert.Equal(t, tag, gotTag)
				}
			})
		}
	}
}

func TestParseFooter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		footer  *discordgo.MessageEmbedFooter
		wantErr error
	}{
		{"nil footer", nil, ErrFooterMissing},
		{"empty text", &discordgo.MessageEmbedFooter{}, ErrFooterMissing},
		{"no id", &discordgo.MessageEmbedFooter{Text: "alice#0001"}, ErrApplicantIDNotFound},
		{"non numeric id", &discordgo.MessageEmbedFooter{Text: "alice (abc)"}, ErrApplicantIDNotFound},
		{"id not trailing", &discordgo.MessageEmbedFooter{Text: "alice (123) extra"}, ErrApplicantIDNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseFooter(tt.footer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, "User ID not found in embed footer", ErrApplicantIDNotFound.Error())
}

func TestParseTitle(t *testing.T) {
	label, err := ParseTitle("Application for Backend Developer")
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", label)

	label, err = ParseTitle("Application for Moderator")
	require.NoError(t, err)
	assert.Equal(t, "Moderator", label)

	_, err = ParseTitle("Application")
	assert.ErrorIs(t, err, ErrTitleUnparsable)
}

func TestIdentity(t *testing.T) {
	c := NewCodec(DefaultPalette())

	id, err := c.Identity(rendered(c, pendingRecord()))
	require.NoError(t, err)
	assert.Equal(t, Identity{ApplicantID: "123", ApplicantTag: "alice#0001", TypeLabel: "Backend Developer"}, id)

	_, err = c.Identity(&discordgo.Message{ID: "1"})
	assert.ErrorIs(t, err, ErrNoEmbed)

	msg := rendered(c, pendingRecord())
	msg.Embeds[0].Footer.Text = "alice#0001"
	_, err = c.Identity(msg)
	assert.ErrorIs(t, err, ErrApplicantIDNotFound)

	msg = rendered(c, pendingRecord())
	msg.Embeds[0].Title = "Application"
	_, err = c.Identity(msg)
	assert.ErrorIs(t, err, ErrTitleUnparsable)
}

func TestParse_LegacyStatusInference(t *testing.T) {
	c := NewCodec(DefaultPalette())
	legacy := func(color int, components []discordgo.MessageComponent, fields ...*discordgo.MessageEmbedField) *discordgo.Message {
		return &discordgo.Message{
			ID:        "987654",
			ChannelID: "555",
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "Application for Moderator",
				Description: "**Why?:** because",
				Color:       color,
				Footer:      &discordgo.MessageEmbedFooter{Text: "Submitted by bob (9)"},
				Fields:      fields,
			}},
			Components: components,
		}
	}

	panel := []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.Button{CustomID: "acceptApplication_987654"},
		}},
	}

	rec, err := c.Parse(legacy(0x00ff00, panel))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.True(t, rec.HasDecisionPanel)

	rec, err = c.Parse(legacy(0x00ff00, nil))
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, rec.Status)

	rec, err = c.Parse(legacy(0xff0000, nil, &discordgo.MessageEmbedField{Name: ReasonFieldName, Value: "nope"}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rec.Status)
	assert.Equal(t, "nope", rec.RejectionReason)
}

func TestParse_NoEmbed(t *testing.T) {
	c := NewCodec(DefaultPalette())
	_, err := c.Parse(&discordgo.Message{ID: "1"})
	assert.ErrorIs(t, err, ErrNoEmbed)
	_, err = c.Parse(nil)
	assert.ErrorIs(t, err, ErrNoEmbed)
}

func TestEdit_StripsControlsOnDecision(t *testing.T) {
	c := NewCodec(DefaultPalette())
	rec := pendingRecord()
	rec.Status = models.StatusRejected
	rec.RejectionReason = "Incomplete portfolio"
	rec.ReviewerID = "777"

	edit := c.Edit(rec)
	assert.Equal(t, "555", edit.Channel)
	assert.Equal(t, "987654", edit.ID)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)
	require.NotNil(t, edit.Embeds)

	embed := (*edit.Embeds)[0]
	assert.Equal(t, 0xff0000, embed.Color)
	last := embed.Fields[len(embed.Fields)-1]
	assert.Equal(t, "Reason for Rejection", last.Name)
	assert.Equal(t, "Incomplete portfolio", last.Value)
}

func TestEmbed_TruncatesOversizedDescription(t *testing.T) {
	c := NewCodec(DefaultPalette())
	rec := pendingRecord()
	rec.Fields = []models.FieldValue{{Label: "Essay", Value: strings.Repeat("x", 5000)}}

	embed := c.Embed(rec)
	assert.Equal(t, maxDescriptionRune, len([]rune(embed.Description)))
	assert.True(t, strings.HasSuffix(embed.Description, "…"))
}

func TestDecide_KeepsWhatItDoesNotModel(t *testing.T) {
	c := NewCodec(DefaultPalette())
	original := &discordgo.MessageEmbed{
		Title:       "Application",
		Description: "**Why?:** because",
		Color:       0x00ff00,
		Timestamp:   "2024-01-01T00:00:00Z",
		Author:      &discordgo.MessageEmbedAuthor{Name: "alice"},
		Footer:      &discordgo.MessageEmbedFooter{Text: "alice#0001"},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Portfolio", Value: "https://example.com"},
		},
	}
	msg := &discordgo.Message{
		ID:         "987654",
		ChannelID:  "555",
		Embeds:     []*discordgo.MessageEmbed{original},
		Components: DecisionPanel("987654"),
	}

	rec, err := c.Parse(msg)
	require.NoError(t, err)
	rec.Status = models.StatusRejected
	rec.ReviewerID = "777"
	rec.RejectionReason = "Incomplete portfolio"

	edit := c.Decide(msg, rec)

	assert.Equal(t, "555", edit.Channel)
	assert.Equal(t, "987654", edit.ID)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)

	embed := (*edit.Embeds)[0]
	assert.Equal(t, "Application", embed.Title)
	assert.Equal(t, "alice#0001", embed.Footer.Text)
	assert.Equal(t, "2024-01-01T00:00:00Z", embed.Timestamp)
	assert.Equal(t, "alice", embed.Author.Name)
	assert.Equal(t, "**Why?:** because", embed.Description)
	assert.Equal(t, 0xff0000, embed.Color)

	names := make([]string, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Portfolio", StatusFieldName, ReviewerFieldName, ReasonFieldName}, names)
	assert.Equal(t, "Incomplete portfolio", embed.Fields[3].Value)

	// the fetched message is not modified
	assert.Equal(t, 0x00ff00, original.Color)
	assert.Len(t, original.Fields, 1)
}

func TestDecide_ReplacesStatusInPlace(t *testing.T) {
	c := NewCodec(DefaultPalette())
	rec := pendingRecord()
	msg := rendered(c, rec)

	rec.Status = models.StatusAccepted
	rec.ReviewerID = "777"
	edit := c.Decide(msg, rec)

	got, err := c.Parse(&discordgo.Message{ID: edit.ID, ChannelID: edit.Channel, Embeds: *edit.Embeds})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.Equal(t, "777", got.ReviewerID)
	assert.Equal(t, rec.Fields, got.Fields)

	embed := (*edit.Embeds)[0]
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, StatusFieldName, embed.Fields[0].Name)
	assert.Equal(t, "Accepted", embed.Fields[0].Value)
	assert.Equal(t, "Pending", msg.Embeds[0].Fields[0].Value)
}
