package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/ticket-bot/internal/router"
)

// commandTags maps slash-command names onto control tags so commands and
// buttons funnel through the same handlers.
var commandTags = map[string]string{
	"ticket_setup":      router.TagTicketSetup,
	"ticket_close":      router.TagTicketClose,
	"ticket_claim":      router.TagTicketClaim,
	"ticket_transcript": router.TagTicketTranscript,
	"ticket_add":        router.TagTicketAdd,
	"ticket_remove":     router.TagTicketRemove,
	"ticket_lock":       router.TagTicketLock,
	"admin_panel":       router.TagAdminPanel,
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ticket_setup",
			Description: "Post the ticket dropdown menu to a channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to post the ticket select menu into",
					Required:    true,
				},
			},
		},
		{
			Name:        "ticket_close",
			Description: "Close the current ticket (thread).",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Optional close reason",
					Required:    false,
				},
			},
		},
		{
			Name:        "ticket_claim",
			Description: "Claim this ticket as staff.",
		},
		{
			Name:        "ticket_transcript",
			Description: "Generate/send transcript for this ticket.",
		},
		{
			Name:        "ticket_add",
			Description: "Add a member to the ticket thread (staff only).",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to add to the ticket thread",
					Required:    true,
				},
			},
		},
		{
			Name:        "ticket_remove",
			Description: "Remove a member from the ticket thread (staff only).",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to remove from the ticket thread",
					Required:    true,
				},
			},
		},
		{
			Name:        "ticket_lock",
			Description: "Lock or unlock the ticket (staff only).",
		},
		{
			Name:        "admin_panel",
			Description: "Open the staff admin panel for this ticket.",
		},
	}
}
