// internal/record/codec.go

// Package record is the only place that knows how a submission record is
// rendered into a chat message and recovered from one. Nothing else in the
// module reads embed titles, footers, colors or components.
package record

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"application-intake-bot/internal/customid"
	"application-intake-bot/internal/models"

	"github.com/bwmarrin/discordgo"
)

const (
	TitlePrefix        = "Application for"
	FooterPrefix       = "Submitted by"
	StatusFieldName    = "Status"
	ReviewerFieldName  = "Reviewed By"
	ReasonFieldName    = "Reason for Rejection"
	AcceptButtonLabel  = "Accept Application"
	RejectButtonLabel  = "Reject Application"
	maxDescriptionRune = 4096
	maxFieldValueRune  = 1024
)

var (
	ErrNoEmbed             = errors.New("Application embed not found")
	ErrFooterMissing       = errors.New("Footer text not found")
	ErrApplicantIDNotFound = errors.New("User ID not found in embed footer")
	ErrTitleUnparsable     = errors.New("Application type not found in embed title")
)

var (
	footerIDPattern = regexp.MustCompile(`\((\d+)\)$`)
	fieldLine       = regexp.MustCompile(`^\*\*(.+?):\*\* ?(.*)$`)
)

// Palette holds the embed color for each status.
type Palette struct {
	Pending  int
	Accepted int
	Rejected int
}

// DefaultPalette matches the colors records have always been rendered with.
func DefaultPalette() Palette {
	return Palette{
		Pending:  0x00ff00,
		Accepted: 0x00ff00,
		Rejected: 0xff0000,
	}
}

func (p Palette) color(s models.Status) int {
	switch s {
	case models.StatusAccepted:
		return p.Accepted
	case models.StatusRejected:
		return p.Rejected
	default:
		return p.Pending
	}
}

// Identity is the part of a record the accept path cannot proceed without.
type Identity struct {
	ApplicantID  string
	ApplicantTag string
	TypeLabel    string
}

// Codec converts between SubmissionRecord and its rendered message.
type Codec struct {
	palette Palette
}

func NewCodec(p Palette) *Codec {
	return &Codec{palette: p}
}

// Title renders the embed title for a type label.
func Title(label string) string {
	return TitlePrefix + " " + label
}

// Footer renders the footer text carrying the applicant identity.
func Footer(tag, id string) string {
	return fmt.Sprintf("%s %s (%s)", FooterPrefix, tag, id)
}

// Embed renders rec.
func (c *Codec) Embed(rec *models.SubmissionRecord) *discordgo.MessageEmbed {
	status := rec.Status
	if status == "" {
		status = models.StatusPending
	}

	embed := &discordgo.MessageEmbed{
		Title:       Title(rec.TypeLabel),
		Description: truncate(renderFields(rec.Fields), maxDescriptionRune),
		Color:       c.palette.color(status),
		Footer:      &discordgo.MessageEmbedFooter{Text: Footer(rec.ApplicantTag, rec.ApplicantID)},
		Fields: []*discordgo.MessageEmbedField{
			{Name: StatusFieldName, Value: string(status), Inline: true},
		},
	}
	if rec.ReviewerID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   ReviewerFieldName,
			Value:  "<@" + rec.ReviewerID + ">",
			Inline: true,
		})
	}
	if status == models.StatusRejected {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  ReasonFieldName,
			Value: truncate(rec.RejectionReason, maxFieldValueRune),
		})
	}
	return embed
}

// Components renders the decision controls. They exist only while the
// record is pending and has a platform-assigned id to point at.
func (c *Codec) Components(rec *models.SubmissionRecord) []discordgo.MessageComponent {
	if !rec.Decidable() || rec.RecordID == "" || !rec.HasDecisionPanel {
		return []discordgo.MessageComponent{}
	}
	return DecisionPanel(rec.RecordID)
}

// DecisionPanel is the accept/reject row pointing at recordID.
func DecisionPanel(recordID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    AcceptButtonLabel,
					Style:    discordgo.SuccessButton,
					CustomID: customid.AcceptApplication{RecordID: recordID}.CustomID(),
				},
				discordgo.Button{
					Label:    RejectButtonLabel,
					Style:    discordgo.DangerButton,
					CustomID: customid.RejectApplication{RecordID: recordID}.CustomID(),
				},
			},
		},
	}
}

// Message renders a record that has not been displayed yet. It carries no
// controls because the id they must point at does not exist until the
// platform assigns it.
func (c *Codec) Message(rec *models.SubmissionRecord) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{c.Embed(rec)},
	}
}

// Edit renders rec as an edit of its own message.
func (c *Codec) Edit(rec *models.SubmissionRecord) *discordgo.MessageEdit {
	components := c.Components(rec)
	edit := discordgo.NewMessageEdit(rec.ChannelID, rec.RecordID).
		SetEmbeds([]*discordgo.MessageEmbed{c.Embed(rec)})
	edit.Components = &components
	return edit
}

// Decide edits msg to show rec's decision. The fetched embed is copied and
// only its color and decision fields change; a footer, title or anything
// else the codec does not model is written back untouched. Controls are
// removed.
func (c *Codec) Decide(msg *discordgo.Message, rec *models.SubmissionRecord) *discordgo.MessageEdit {
	embeds := make([]*discordgo.MessageEmbed, len(msg.Embeds))
	copy(embeds, msg.Embeds)

	if len(embeds) > 0 && embeds[0] != nil {
		embed := *embeds[0]
		embed.Fields = append([]*discordgo.MessageEmbedField(nil), embed.Fields...)
		embed.Color = c.palette.color(rec.Status)
		embed.Fields = setField(embed.Fields, StatusFieldName, string(rec.Status), true)
		if rec.ReviewerID != "" {
			embed.Fields = setField(embed.Fields, ReviewerFieldName, "<@"+rec.ReviewerID+">", true)
		}
		if rec.Status == models.StatusRejected {
			embed.Fields = setField(embed.Fields, ReasonFieldName, truncate(rec.RejectionReason, maxFieldValueRune), false)
		}
		embeds[0] = &embed
	}

	channelID := rec.ChannelID
	if channelID == "" {
		channelID = msg.ChannelID
	}
	components := []discordgo.MessageComponent{}
	edit := discordgo.NewMessageEdit(channelID, msg.ID).SetEmbeds(embeds)
	edit.Components = &components
	return edit
}

// setField replaces the field called name, or appends it.
func setField(fields []*discordgo.MessageEmbedField, name, value string, inline bool) []*discordgo.MessageEmbedField {
	field := &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
	for i, f := range fields {
		if f != nil && f.Name == name {
			fields[i] = field
			return fields
		}
	}
	return append(fields, field)
}

// Parse recovers a record from msg. Only a missing embed is an error:
// identity that cannot be recovered is left empty and reported by Identity.
func (c *Codec) Parse(msg *discordgo.Message) (*models.SubmissionRecord, error) {
	if msg == nil || len(msg.Embeds) == 0 || msg.Embeds[0] == nil {
		return nil, ErrNoEmbed
	}
	embed := msg.Embeds[0]

	rec := &models.SubmissionRecord{
		RecordID:         msg.ID,
		ChannelID:        msg.ChannelID,
		Fields:           parseFields(embed.Description),
		HasDecisionPanel: hasDecisionPanel(msg.Components),
	}
	if tag, id, err := ParseFooter(embed.Footer); err == nil {
		rec.ApplicantTag, rec.ApplicantID = tag, id
	}
	if label, err := ParseTitle(embed.Title); err == nil {
		rec.TypeLabel = label
	}

	explicit := false
	for _, f := range embed.Fields {
		if f == nil {
			continue
		}
		switch f.Name {
		case StatusFieldName:
			switch s := models.Status(f.Value); s {
			case models.StatusPending, models.StatusAccepted, models.StatusRejected:
				rec.Status = s
				explicit = true
			}
		case ReviewerFieldName:
			rec.ReviewerID = strings.TrimSuffix(strings.TrimPrefix(f.Value, "<@"), ">")
		case ReasonFieldName:
			rec.RejectionReason = f.Value
		}
	}
	if !explicit {
		rec.Status = c.inferStatus(embed, rec)
	}
	return rec, nil
}

// inferStatus handles records rendered before the status field existed,
// where color and controls were the only signal.
func (c *Codec) inferStatus(embed *discordgo.MessageEmbed, rec *models.SubmissionRecord) models.Status {
	switch {
	case rec.RejectionReason != "":
		return models.StatusRejected
	case embed.Color == c.palette.Rejected && c.palette.Rejected != c.palette.Pending:
		return models.StatusRejected
	case rec.HasDecisionPanel:
		return models.StatusPending
	default:
		return models.StatusAccepted
	}
}

// Identity recovers applicant and type from msg, failing on anything
// partial.
func (c *Codec) Identity(msg *discordgo.Message) (Identity, error) {
	if msg == nil || len(msg.Embeds) == 0 || msg.Embeds[0] == nil {
		return Identity{}, ErrNoEmbed
	}
	embed := msg.Embeds[0]

	tag, id, err := ParseFooter(embed.Footer)
	if err != nil {
		return Identity{}, err
	}
	label, err := ParseTitle(embed.Title)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ApplicantID: id, ApplicantTag: tag, TypeLabel: label}, nil
}

// ParseFooter extracts the trailing parenthesized numeric applicant id and
// the tag in front of it.
func ParseFooter(footer *discordgo.MessageEmbedFooter) (tag, id string, err error) {
	if footer == nil || footer.Text == "" {
		return "", "", ErrFooterMissing
	}
	text := footer.Text
	loc := footerIDPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", ErrApplicantIDNotFound
	}
	id = text[loc[2]:loc[3]]
	tag = strings.TrimSpace(text[:loc[0]])
	tag = strings.TrimSpace(strings.TrimPrefix(tag, FooterPrefix))
	return tag, id, nil
}

// ParseTitle returns the type label: every whitespace-separated token after
// the second one. For single-word labels this is exactly the third token.
func ParseTitle(title string) (string, error) {
	tokens := strings.Fields(title)
	if len(tokens) < 3 {
		return "", ErrTitleUnparsable
	}
	return strings.Join(tokens[2:], " "), nil
}

func renderFields(fields []models.FieldValue) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Label == "" {
			lines = append(lines, f.Value)
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s:** %s", f.Label, f.Value))
	}
	return strings.Join(lines, "\n")
}

// parseFields inverts renderFields. A line that does not open a field
// continues the previous value; text before the first field is kept under
// an empty label.
func parseFields(description string) []models.FieldValue {
	if description == "" {
		return nil
	}
	var fields []models.FieldValue
	for _, line := range strings.Split(description, "\n") {
		if m := fieldLine.FindStringSubmatch(line); m != nil {
			fields = append(fields, models.FieldValue{Label: m[1], Value: m[2]})
			continue
		}
		if len(fields) == 0 {
			fields = append(fields, models.FieldValue{Value: line})
			continue
		}
		last := &fields[len(fields)-1]
		last.Value += "\n" + line
	}
	return fields
}

func hasDecisionPanel(components []discordgo.MessageComponent) bool {
	for _, c := range components {
		var row []discordgo.MessageComponent
		switch r := c.(type) {
		case discordgo.ActionsRow:
			row = r.Components
		case *discordgo.ActionsRow:
			row = r.Components
		default:
			continue
		}
		for _, inner := range row {
			var id string
			switch b := inner.(type) {
			case discordgo.Button:
				id = b.CustomID
			case *discordgo.Button:
				id = b.CustomID
			}
			if strings.HasPrefix(id, customid.PrefixAcceptApplication) ||
				strings.HasPrefix(id, customid.PrefixRejectApplication) {
				return true
			}
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
