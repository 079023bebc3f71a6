package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/router"
)

// onInteraction translates a gateway interaction event into a router
// dispatch. The only thing taken from the rendered control is its tag;
// ticket context comes from the channel the interaction fired in.
func (s *Session) onInteraction(ds *discordgo.Session, event *discordgo.InteractionCreate) {
	if event.GuildID != "" && event.GuildID != s.cfg.GuildID {
		return
	}

	tag, values, ok := decodeInteraction(event.Interaction)
	if !ok {
		return
	}

	actor, ok := actorFromInteraction(event.Interaction)
	if !ok {
		s.logger.Warn("interaction without guild member", zap.String("tag", tag))
		return
	}

	ic := &router.Interaction{
		Actor:     actor,
		ChannelID: event.ChannelID,
		IsThread:  s.Adapter().isThread(event.ChannelID),
		Values:    values,
		Responder: &responder{s: ds, ic: event.Interaction},
	}

	go s.router.Dispatch(context.Background(), tag, ic)
}

// decodeInteraction extracts the control tag and payload values.
func decodeInteraction(ic *discordgo.Interaction) (string, []string, bool) {
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		data := ic.ApplicationCommandData()
		tag, ok := commandTags[data.Name]
		if !ok {
			return data.Name, nil, true // let the router reject it visibly
		}
		values := make([]string, 0, len(data.Options))
		for _, opt := range data.Options {
			values = append(values, optionString(opt))
		}
		return tag, values, true
	case discordgo.InteractionMessageComponent:
		data := ic.MessageComponentData()
		return data.CustomID, data.Values, true
	case discordgo.InteractionModalSubmit:
		data := ic.ModalSubmitData()
		return data.CustomID, textInputValues(data.Components), true
	}
	return "", nil, false
}

// optionString renders any primitive option as a string; channel and user
// options carry their snowflake id.
func optionString(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if s, ok := opt.Value.(string); ok {
		return s
	}
	return ""
}

func textInputValues(components []discordgo.MessageComponent) []string {
	var values []string
	for _, c := range components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				values = append(values, input.Value)
			}
		}
	}
	return values
}

func actorFromInteraction(ic *discordgo.Interaction) (domain.Actor, bool) {
	member := ic.Member
	if member == nil || member.User == nil {
		return domain.Actor{}, false
	}
	name := member.Nick
	if name == "" {
		name = member.User.Username
	}
	return domain.Actor{
		ID:          member.User.ID,
		DisplayName: name,
		RoleIDs:     member.Roles,
		IsAdmin:     member.Permissions&discordgo.PermissionAdministrator != 0,
	}, true
}
