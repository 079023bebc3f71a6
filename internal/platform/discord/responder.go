package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/ticket-bot/internal/router"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// responder implements router.Responder for one interaction. All replies
// are ephemeral; after Ack, replies become follow-ups on the deferred
// response.
type responder struct {
	s        *discordgo.Session
	ic       *discordgo.Interaction
	deferred bool
}

func (r *responder) Ack(_ context.Context) error {
	err := r.s.InteractionRespond(r.ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err == nil {
		r.deferred = true
	}
	return err
}

func (r *responder) Reply(_ context.Context, title, body string) error {
	if r.deferred {
		_, err := r.s.FollowupMessageCreate(r.ic, true, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{embed(title, body)},
			Flags:  discordgo.MessageFlagsEphemeral,
		})
		return err
	}
	return r.s.InteractionRespond(r.ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed(title, body)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func (r *responder) ReplyError(ctx context.Context, derr *util.DomainError) error {
	return r.Reply(ctx, errorTitle(derr.Code), derr.Message)
}

func (r *responder) ShowAdminPanel(_ context.Context) error {
	return r.s.InteractionRespond(r.ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed("Admin panel", "Staff actions for this ticket.")},
			Components: []discordgo.MessageComponent{adminPanelRow()},
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func (r *responder) ShowDeleteConfirm(_ context.Context) error {
	return r.s.InteractionRespond(r.ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed("Delete ticket?",
				"This permanently deletes the thread. The confirmation expires shortly.")},
			Components: []discordgo.MessageComponent{deleteConfirmRow()},
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func (r *responder) ShowTranscriptModal(_ context.Context) error {
	return r.s.InteractionRespond(r.ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: router.TagAdminTranscriptModal,
			Title:    "Set transcript channel",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "channel_ref",
							Label:       "Channel (#mention, id, or name)",
							Style:       discordgo.TextInputShort,
							Placeholder: "<#123456789> or transcripts",
							Required:    true,
						},
					},
				},
			},
		},
	})
}

func errorTitle(code string) string {
	switch code {
	case util.CodeNotFound:
		return "Not a ticket"
	case util.CodePermissionDenied:
		return "Permission denied"
	case util.CodeProvisionError:
		return "Error creating thread"
	case util.CodeInvalidChannelRef:
		return "Invalid channel"
	case util.CodeDeliveryFailure:
		return "Delivery failed"
	case util.CodeConflict:
		return "Not allowed"
	}
	return "Error"
}
