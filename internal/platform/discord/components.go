package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/router"
)

const embedColor = 0x5865F2

func embed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       embedColor,
	}
}

func categoryEmoji(c domain.Category) string {
	switch c {
	case domain.CategoryPurchase:
		return "💰"
	case domain.CategoryStaff:
		return "⚙️"
	}
	return "❓"
}

// ticketMenuRow is the persistent category select. Its custom id is the
// control tag only; the ticket instance does not exist yet when it renders.
func ticketMenuRow() discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, 3)
	for _, c := range domain.Categories() {
		options = append(options, discordgo.SelectMenuOption{
			Label:       c.Label(),
			Value:       string(c),
			Description: c.Description(),
			Emoji:       &discordgo.ComponentEmoji{Name: categoryEmoji(c)},
		})
	}
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    router.TagTicketSelect,
				Placeholder: "Choose a reason for your ticket",
				Options:     options,
			},
		},
	}
}

// threadControlRow is the persistent per-thread control set. The buttons
// carry handler-class tags only; which ticket they act on is re-derived
// from the thread they were clicked in.
func threadControlRow() discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: router.TagTicketClose},
			discordgo.Button{Label: "Claim", Style: discordgo.SecondaryButton, CustomID: router.TagTicketClaim},
			discordgo.Button{Label: "Transcript", Style: discordgo.PrimaryButton, CustomID: router.TagTicketTranscript},
			discordgo.Button{Label: "Lock", Style: discordgo.SecondaryButton, CustomID: router.TagTicketLock},
		},
	}
}

func adminPanelRow() discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Delete Thread", Style: discordgo.DangerButton, CustomID: router.TagAdminDelete},
			discordgo.Button{Label: "Set Transcript Channel", Style: discordgo.PrimaryButton, CustomID: router.TagAdminSetTranscript},
		},
	}
}

func deleteConfirmRow() discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Confirm delete", Style: discordgo.DangerButton, CustomID: router.TagAdminDeleteConfirm},
			discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: router.TagAdminDeleteCancel},
		},
	}
}

// PostTicketMenu posts the category select menu into a channel.
func (a *Adapter) PostTicketMenu(_ context.Context, channelID string) error {
	_, err := a.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed("Make a selection", "Choose the appropriate option to open a ticket.")},
		Components: []discordgo.MessageComponent{ticketMenuRow()},
	})
	return err
}

// PostWelcome posts the welcome embed with the thread control row.
func (a *Adapter) PostWelcome(_ context.Context, threadID, content string) error {
	_, err := a.s.ChannelMessageSendComplex(threadID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed("New Ticket", content)},
		Components: []discordgo.MessageComponent{threadControlRow()},
	})
	return err
}
